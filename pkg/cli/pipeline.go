package cli

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/mchmarny/skypulse/pkg/report"
	"github.com/mchmarny/skypulse/pkg/trend"
)

// runOptions drives a single analysis run.
type runOptions struct {
	Hashtags      []string
	SearchLimit   int
	TimelineLimit int
	WindowHours   int
	TopPosts      int
	Now           time.Time
}

// collector keeps every fetched post for the hashtag aggregation.
type collector struct {
	src   trend.PostSource
	posts []*trend.Post
}

func newCollector(src trend.PostSource) *collector {
	return &collector{
		src:   src,
		posts: make([]*trend.Post, 0),
	}
}

// search runs one hashtag search. Source failures are reported in the
// result and the run continues with no posts.
func (c *collector) search(ctx context.Context, tag string, limit int) *report.Search {
	tag = strings.TrimSpace(tag)
	if !strings.HasPrefix(tag, "#") {
		tag = "#" + tag
	}

	res := &report.Search{Tag: tag, Posts: make([]*trend.Post, 0)}

	posts, err := c.src.SearchByHashtag(ctx, tag, limit)
	if err != nil {
		slog.Error("failed to search posts", "tag", tag, "error", err)
		res.Error = err.Error()
		return res
	}

	if len(posts) > limit && limit > 0 {
		posts = posts[:limit]
	}

	res.Posts = posts
	c.posts = append(c.posts, posts...)
	return res
}

// trending fetches the timeline and ranks it by engagement.
func (c *collector) trending(ctx context.Context, opts *runOptions) *report.Trending {
	res := &report.Trending{WindowHours: opts.WindowHours}

	posts, err := c.src.FetchRecentTimeline(ctx, opts.TimelineLimit)
	if err != nil {
		slog.Error("failed to fetch timeline", "error", err)
		res.Error = err.Error()
		posts = nil
	}

	res.Ranking = trend.RankPosts(posts, opts.Now, opts.WindowHours, opts.TopPosts)
	logSkipped("ranking", res.Ranking.Skipped)

	c.posts = append(c.posts, posts...)
	return res
}

func (c *collector) hashtags() *trend.HashtagSummary {
	res := trend.AggregateHashtags(c.posts)
	logSkipped("hashtags", res.Skipped)
	return res
}

// runReport executes the full flow: hashtag searches, timeline ranking and
// the hashtag aggregation over every post fetched along the way.
func runReport(ctx context.Context, src trend.PostSource, opts *runOptions) *report.Report {
	c := newCollector(src)
	r := &report.Report{
		Generated: opts.Now,
		Searches:  make([]*report.Search, 0, len(opts.Hashtags)),
	}

	for _, tag := range opts.Hashtags {
		r.Searches = append(r.Searches, c.search(ctx, tag, opts.SearchLimit))
	}

	r.Trending = c.trending(ctx, opts)
	r.Hashtags = c.hashtags()

	return r
}

func logSkipped(stage string, skipped []*trend.SkippedPost) {
	for _, s := range skipped {
		kind := "unknown"
		switch {
		case errors.Is(s.Err, trend.ErrMalformedTimestamp):
			kind = "timestamp"
		case errors.Is(s.Err, trend.ErrMalformedPost):
			kind = "record"
		}
		slog.Debug("skipped post", "stage", stage, "kind", kind, "post", s.String())
	}
}
