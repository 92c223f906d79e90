package trend

import (
	"sort"
	"time"
)

const (
	likeWeight   = 1
	repostWeight = 3
	replyWeight  = 2
)

type ScoredPost struct {
	Score int   `json:"score" yaml:"score"`
	Post  *Post `json:"post" yaml:"post"`
}

// Ranking is the result of a single RankPosts pass.
type Ranking struct {
	Posts   []*ScoredPost  `json:"posts" yaml:"posts"`
	Matched int            `json:"matched" yaml:"matched"`
	Skipped []*SkippedPost `json:"-" yaml:"-"`
}

// Score returns the weighted engagement score of the post.
func Score(p *Post) int {
	if p == nil {
		return 0
	}
	return p.LikeCount*likeWeight + p.RepostCount*repostWeight + p.ReplyCount*replyWeight
}

// RankPosts keeps posts created strictly after now minus windowHours, scores
// them and sorts them by score descending. Equal scores keep input order.
// The result is truncated to topN after sorting; topN <= 0 keeps all.
// Posts with malformed records or timestamps are reported in Skipped.
func RankPosts(posts []*Post, now time.Time, windowHours, topN int) *Ranking {
	res := &Ranking{
		Posts:   make([]*ScoredPost, 0),
		Skipped: make([]*SkippedPost, 0),
	}

	cutoff := now.Add(-time.Duration(windowHours) * time.Hour)

	for _, p := range posts {
		created, err := p.CreatedAt()
		if err != nil {
			res.Skipped = append(res.Skipped, &SkippedPost{Post: p, Err: err})
			continue
		}
		if !created.After(cutoff) {
			continue
		}
		res.Posts = append(res.Posts, &ScoredPost{Score: Score(p), Post: p})
	}

	res.Matched = len(res.Posts)

	sort.SliceStable(res.Posts, func(i, j int) bool {
		return res.Posts[i].Score > res.Posts[j].Score
	})

	if topN > 0 && len(res.Posts) > topN {
		res.Posts = res.Posts[:topN]
	}

	return res
}
