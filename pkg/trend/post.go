package trend

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrMalformedTimestamp is recorded for posts whose createdAt can not be parsed.
	ErrMalformedTimestamp = errors.New("malformed timestamp")

	// ErrMalformedPost is recorded for posts missing the fields needed for processing.
	ErrMalformedPost = errors.New("malformed post record")
)

// PostSource supplies already fetched, finite post collections.
type PostSource interface {
	// SearchByHashtag returns up to limit posts matching the hashtag.
	SearchByHashtag(ctx context.Context, tag string, limit int) ([]*Post, error)

	// FetchRecentTimeline returns up to limit posts from the user timeline.
	FetchRecentTimeline(ctx context.Context, limit int) ([]*Post, error)
}

type Author struct {
	Handle      string `json:"handle" yaml:"handle"`
	DisplayName string `json:"display_name,omitempty" yaml:"displayName,omitempty"`
}

// Record is the user authored part of the post.
type Record struct {
	Text      string   `json:"text" yaml:"text"`
	CreatedAt string   `json:"created_at" yaml:"createdAt"`
	Langs     []string `json:"langs,omitempty" yaml:"langs,omitempty"`
}

// Post is read-only input to the ranking and aggregation functions.
// Record is nil when the source could not decode it.
type Post struct {
	URI         string  `json:"uri" yaml:"uri"`
	Author      Author  `json:"author" yaml:"author"`
	Record      *Record `json:"record,omitempty" yaml:"record,omitempty"`
	LikeCount   int     `json:"like_count" yaml:"likeCount"`
	RepostCount int     `json:"repost_count" yaml:"repostCount"`
	ReplyCount  int     `json:"reply_count" yaml:"replyCount"`
	IndexedAt   string  `json:"indexed_at,omitempty" yaml:"indexedAt,omitempty"`
}

// Text returns the record text or empty string when there is no record.
func (p *Post) Text() string {
	if p == nil || p.Record == nil {
		return ""
	}
	return p.Record.Text
}

// CreatedAt parses the record timestamp.
func (p *Post) CreatedAt() (time.Time, error) {
	if p == nil || p.Record == nil {
		return time.Time{}, fmt.Errorf("%w: no record", ErrMalformedPost)
	}
	return ParseTimestamp(p.Record.CreatedAt)
}

// SkippedPost pairs a post excluded from processing with the reason.
type SkippedPost struct {
	Post *Post `json:"post" yaml:"post"`
	Err  error `json:"-" yaml:"-"`
}

func (s *SkippedPost) String() string {
	uri := ""
	if s.Post != nil {
		uri = s.Post.URI
	}
	return fmt.Sprintf("%s: %v", uri, s.Err)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999Z07:00",
}

// ParseTimestamp parses ISO-8601 timestamps with either a Z suffix or a numeric
// offset. Timestamps without a zone are rejected.
func ParseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrMalformedTimestamp)
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
}
