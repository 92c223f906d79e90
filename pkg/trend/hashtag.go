package trend

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// HashtagLimit is the number of hashtags kept by AggregateHashtags.
const HashtagLimit = 15

var hashtagRegEx = regexp.MustCompile(`#[\p{L}\p{N}_]+`)

type HashtagCount struct {
	Tag   string `json:"tag" yaml:"tag"`
	Count int    `json:"count" yaml:"count"`
}

// HashtagSummary is the frequency ranking of hashtags across a post collection.
type HashtagSummary struct {
	Tags     []*HashtagCount `json:"tags" yaml:"tags"`
	Total    int             `json:"total" yaml:"total"`
	Distinct int             `json:"distinct" yaml:"distinct"`
	Skipped  []*SkippedPost  `json:"-" yaml:"-"`
}

// ExtractHashtags returns every lower-cased hashtag in text in order of
// appearance. Duplicates are kept.
func ExtractHashtags(text string) []string {
	if text == "" {
		return []string{}
	}
	tags := hashtagRegEx.FindAllString(strings.ToLower(text), -1)
	if tags == nil {
		return []string{}
	}
	return tags
}

// ExtractPostHashtags extracts hashtags from the post record text.
func ExtractPostHashtags(p *Post) ([]string, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil post", ErrMalformedPost)
	}
	if p.Record == nil {
		return nil, fmt.Errorf("%w: %s has no record", ErrMalformedPost, p.URI)
	}
	return ExtractHashtags(p.Record.Text), nil
}

// AggregateHashtags counts hashtag occurrences across posts and returns the
// top HashtagLimit tags by count. Equal counts keep first-seen order.
func AggregateHashtags(posts []*Post) *HashtagSummary {
	res := &HashtagSummary{
		Tags:    make([]*HashtagCount, 0),
		Skipped: make([]*SkippedPost, 0),
	}

	index := make(map[string]*HashtagCount)
	counts := make([]*HashtagCount, 0)

	for _, p := range posts {
		tags, err := ExtractPostHashtags(p)
		if err != nil {
			res.Skipped = append(res.Skipped, &SkippedPost{Post: p, Err: err})
			continue
		}
		for _, t := range tags {
			c, ok := index[t]
			if !ok {
				c = &HashtagCount{Tag: t}
				index[t] = c
				counts = append(counts, c)
			}
			c.Count++
			res.Total++
		}
	}

	res.Distinct = len(counts)

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	if len(counts) > HashtagLimit {
		counts = counts[:HashtagLimit]
	}
	res.Tags = counts

	return res
}
