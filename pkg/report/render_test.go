package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mchmarny/skypulse/pkg/trend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPost(text string) *trend.Post {
	return &trend.Post{
		URI:         "at://did:plc:a/app.bsky.feed.post/1",
		Author:      trend.Author{Handle: "alice.bsky.social"},
		Record:      &trend.Record{Text: text, CreatedAt: "2024-05-01T10:30:00Z"},
		LikeCount:   3,
		RepostCount: 2,
		ReplyCount:  1,
	}
}

func newTestWriter(buf *bytes.Buffer) *Writer {
	return NewWriter(buf, time.UTC, false)
}

func TestFormatPost(t *testing.T) {
	w := newTestWriter(&bytes.Buffer{})

	out := w.FormatPost(testPost("hello #world"), 2)
	assert.Equal(t, "\n2. @alice.bsky.social (01.05.2024 10:30)\nhello #world\n💙 3 Likes | 🔁 2 Reposts | 💬 1 Replies\n", out)

	out = w.FormatPost(testPost("no index"), 0)
	assert.True(t, strings.HasPrefix(out, "\n@alice.bsky.social"))
}

func TestFormatPost_BadTimestamp(t *testing.T) {
	w := newTestWriter(&bytes.Buffer{})
	p := testPost("x")
	p.Record.CreatedAt = "garbage"
	assert.Contains(t, w.FormatPost(p, 1), "(unknown time)")
	assert.Equal(t, "", w.FormatPost(nil, 1))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 200))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))
	assert.Equal(t, "äöü...", Truncate("äöüß", 3))

	exact := strings.Repeat("x", maxTextRunes)
	assert.Equal(t, exact, Truncate(exact, maxTextRunes))
}

func TestFormatBar(t *testing.T) {
	line := FormatBar(1, &trend.HashtagCount{Tag: "#go", Count: 3})
	assert.Equal(t, " 1. #go                  ███ (3)", line)

	long := FormatBar(12, &trend.HashtagCount{Tag: "#big", Count: 120})
	assert.Equal(t, maxBarLength, strings.Count(long, barRune))
	assert.True(t, strings.HasPrefix(long, "12. "))
	assert.True(t, strings.HasSuffix(long, "(120)"))
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	w := newTestWriter(&buf)

	r := &Report{
		Searches: []*Search{
			{Tag: "#CfP", Posts: []*trend.Post{testPost("call for papers #cfp")}},
			{Tag: "#Empty"},
			{Tag: "#Broken", Error: "xrpc status 502"},
		},
		Trending: &Trending{
			WindowHours: 24,
			Ranking: &trend.Ranking{
				Posts:   []*trend.ScoredPost{{Score: 11, Post: testPost("top")}},
				Matched: 1,
			},
		},
		Hashtags: &trend.HashtagSummary{
			Tags: []*trend.HashtagCount{{Tag: "#cfp", Count: 2}},
		},
	}

	require.NoError(t, w.Render(r))
	out := buf.String()

	assert.Contains(t, out, "Search for #CfP")
	assert.Contains(t, out, "Posts found: 1")
	assert.Contains(t, out, "No posts found for #Empty.")
	assert.Contains(t, out, "Error searching for #Broken: xrpc status 502")
	assert.Contains(t, out, "Top posts of the last 24 hours")
	assert.Contains(t, out, "Engagement score: 11")
	assert.Contains(t, out, "Top 1 hashtags:")
	assert.Contains(t, out, "██ (2)")
	assert.NotContains(t, out, "\x1b[")
}

func TestRender_EmptySections(t *testing.T) {
	var buf bytes.Buffer
	w := newTestWriter(&buf)

	require.NoError(t, w.Render(&Report{
		Trending: &Trending{WindowHours: 6, Ranking: &trend.Ranking{}},
		Hashtags: &trend.HashtagSummary{},
	}))

	out := buf.String()
	assert.Contains(t, out, "No posts in the last 6 hours.")
	assert.Contains(t, out, "No hashtags found.")
	assert.NoError(t, w.Render(nil))
}

func TestRender_Color(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, time.UTC, true)
	require.NoError(t, w.RenderHashtags(&trend.HashtagSummary{}))
	assert.Contains(t, buf.String(), "\x1b[")
}
