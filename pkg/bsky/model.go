package bsky

import (
	"encoding/json"
	"log/slog"

	"github.com/mchmarny/skypulse/pkg/trend"
)

const postRecordType = "app.bsky.feed.post"

type searchPostsResponse struct {
	Cursor    string      `json:"cursor,omitempty"`
	HitsTotal int         `json:"hitsTotal,omitempty"`
	Posts     []*postView `json:"posts"`
}

type timelineResponse struct {
	Cursor string          `json:"cursor,omitempty"`
	Feed   []*feedViewPost `json:"feed"`
}

type feedViewPost struct {
	Post *postView `json:"post"`
}

type profileViewBasic struct {
	DID         string `json:"did"`
	Handle      string `json:"handle"`
	DisplayName string `json:"displayName,omitempty"`
}

type postView struct {
	URI         string           `json:"uri"`
	CID         string           `json:"cid"`
	Author      profileViewBasic `json:"author"`
	Record      json.RawMessage  `json:"record"`
	LikeCount   *int             `json:"likeCount,omitempty"`
	RepostCount *int             `json:"repostCount,omitempty"`
	ReplyCount  *int             `json:"replyCount,omitempty"`
	IndexedAt   string           `json:"indexedAt"`
}

type postRecord struct {
	Type      string   `json:"$type"`
	Text      string   `json:"text"`
	CreatedAt string   `json:"createdAt"`
	Langs     []string `json:"langs,omitempty"`
}

func mapPostViews(views []*postView) []*trend.Post {
	list := make([]*trend.Post, 0, len(views))
	for _, v := range views {
		if v == nil {
			continue
		}
		list = append(list, mapPostView(v))
	}
	return list
}

func mapPostView(v *postView) *trend.Post {
	return &trend.Post{
		URI: v.URI,
		Author: trend.Author{
			Handle:      v.Author.Handle,
			DisplayName: v.Author.DisplayName,
		},
		Record:      decodeRecord(v.URI, v.Record),
		LikeCount:   deref(v.LikeCount),
		RepostCount: deref(v.RepostCount),
		ReplyCount:  deref(v.ReplyCount),
		IndexedAt:   v.IndexedAt,
	}
}

// decodeRecord returns nil for records that are missing, not JSON objects
// or not feed posts.
func decodeRecord(uri string, raw json.RawMessage) *trend.Record {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var r postRecord
	if err := json.Unmarshal(raw, &r); err != nil {
		slog.Debug("undecodable post record", "uri", uri, "error", err)
		return nil
	}

	if r.Type != "" && r.Type != postRecordType {
		slog.Debug("unexpected record type", "uri", uri, "type", r.Type)
		return nil
	}

	return &trend.Record{
		Text:      r.Text,
		CreatedAt: r.CreatedAt,
		Langs:     r.Langs,
	}
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
