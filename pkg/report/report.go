package report

import (
	"time"

	"github.com/mchmarny/skypulse/pkg/trend"
)

// Search holds the posts returned for a single hashtag search.
type Search struct {
	Tag   string        `json:"tag" yaml:"tag"`
	Posts []*trend.Post `json:"posts" yaml:"posts"`
	Error string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// Trending holds the engagement ranking of the recent timeline.
type Trending struct {
	WindowHours int            `json:"window_hours" yaml:"windowHours"`
	Ranking     *trend.Ranking `json:"ranking" yaml:"ranking"`
	Error       string         `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report is the serializable result of a single analysis run.
type Report struct {
	Generated time.Time             `json:"generated" yaml:"generated"`
	Handle    string                `json:"handle,omitempty" yaml:"handle,omitempty"`
	Searches  []*Search             `json:"searches,omitempty" yaml:"searches,omitempty"`
	Trending  *Trending             `json:"trending,omitempty" yaml:"trending,omitempty"`
	Hashtags  *trend.HashtagSummary `json:"hashtags,omitempty" yaml:"hashtags,omitempty"`
}
