package trend

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textPost(uri, text string) *Post {
	return &Post{
		URI:    uri,
		Record: &Record{Text: text, CreatedAt: "2024-05-01T10:00:00Z"},
	}
}

func TestExtractHashtags(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", []string{}},
		{"no tags", "nothing to see here", []string{}},
		{"case folded with duplicates", "Hello #Foo and #foo and #bar123", []string{"#foo", "#foo", "#bar123"}},
		{"underscore", "#cfp_2024 deadline", []string{"#cfp_2024"}},
		{"punctuation ends tag", "#go, #rust! #zig.", []string{"#go", "#rust", "#zig"}},
		{"lone hash", "# and ## are not tags", []string{}},
		{"adjacent", "#a#b", []string{"#a", "#b"}},
		{"unicode letters", "Neues zur #Soziologie und #Überwachung", []string{"#soziologie", "#überwachung"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractHashtags(tt.text)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractPostHashtags_Malformed(t *testing.T) {
	_, err := ExtractPostHashtags(nil)
	assert.True(t, errors.Is(err, ErrMalformedPost))

	_, err = ExtractPostHashtags(&Post{URI: "at://x"})
	assert.True(t, errors.Is(err, ErrMalformedPost))
}

func TestExtractPostHashtags_EmptyText(t *testing.T) {
	tags, err := ExtractPostHashtags(textPost("at://x", ""))
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestAggregateHashtags_CaseInsensitive(t *testing.T) {
	posts := []*Post{
		textPost("1", "#a #a"),
		textPost("2", "#b"),
		textPost("3", "#A"),
	}

	res := AggregateHashtags(posts)
	require.NotNil(t, res)
	require.Len(t, res.Tags, 2)
	assert.Equal(t, &HashtagCount{Tag: "#a", Count: 3}, res.Tags[0])
	assert.Equal(t, &HashtagCount{Tag: "#b", Count: 1}, res.Tags[1])
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 2, res.Distinct)
	assert.Empty(t, res.Skipped)
}

func TestAggregateHashtags_SkipsMalformed(t *testing.T) {
	posts := []*Post{
		textPost("1", "#go"),
		{URI: "2"},
		nil,
		textPost("4", "#go #cfp"),
	}

	res := AggregateHashtags(posts)
	require.Len(t, res.Skipped, 2)
	for _, s := range res.Skipped {
		assert.True(t, errors.Is(s.Err, ErrMalformedPost))
	}
	require.Len(t, res.Tags, 2)
	assert.Equal(t, "#go", res.Tags[0].Tag)
	assert.Equal(t, 2, res.Tags[0].Count)
	assert.Equal(t, 1, res.Tags[1].Count)
}

func TestAggregateHashtags_Limit(t *testing.T) {
	posts := make([]*Post, 0)
	for i := 0; i < HashtagLimit+5; i++ {
		posts = append(posts, textPost("p", "#tag"+string(rune('a'+i))))
	}
	posts = append(posts, textPost("x", "#popular #popular"))

	res := AggregateHashtags(posts)
	assert.Len(t, res.Tags, HashtagLimit)
	assert.Equal(t, "#popular", res.Tags[0].Tag)
	assert.Equal(t, HashtagLimit+6, res.Distinct)

	for i := 1; i < len(res.Tags); i++ {
		assert.GreaterOrEqual(t, res.Tags[i-1].Count, res.Tags[i].Count)
	}
}

func TestAggregateHashtags_Empty(t *testing.T) {
	res := AggregateHashtags(nil)
	require.NotNil(t, res)
	assert.Empty(t, res.Tags)
	assert.Equal(t, 0, res.Total)
}

func TestAggregateHashtags_Idempotent(t *testing.T) {
	posts := []*Post{
		textPost("1", "#x #y #x"),
		textPost("2", "#y #z"),
	}
	assert.Equal(t, AggregateHashtags(posts), AggregateHashtags(posts))
}
