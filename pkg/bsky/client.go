package bsky

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mchmarny/skypulse/pkg/net"
	"github.com/mchmarny/skypulse/pkg/trend"
	"golang.org/x/time/rate"
)

const (
	DefaultHost = "https://bsky.social"

	searchPostsPath = "/xrpc/app.bsky.feed.searchPosts"
	getTimelinePath = "/xrpc/app.bsky.feed.getTimeline"

	maxLimit          = 100
	requestsPerSecond = 5
	requestBurst      = 1
	errorBodyLimit    = 1 << 16
)

// APIError is the XRPC error envelope returned with non-2xx responses.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"error"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" && e.Message == "" {
		return fmt.Sprintf("xrpc status %d", e.StatusCode)
	}
	return fmt.Sprintf("xrpc status %d: %s: %s", e.StatusCode, e.Code, e.Message)
}

// Client reads posts from the Bluesky XRPC API.
type Client struct {
	host    string
	http    *http.Client
	limiter *rate.Limiter
}

type Option func(*Client)

// WithRateLimit overrides the default request pacing.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// NewClient returns a client for host using httpClient for transport.
// The http client is expected to carry the session bearer token.
func NewClient(host string, httpClient *http.Client, opts ...Option) *Client {
	if host == "" {
		host = DefaultHost
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	c := &Client{
		host:    strings.TrimSuffix(host, "/"),
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestBurst),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// NewSessionClient returns a client authenticated with the access token.
func NewSessionClient(ctx context.Context, host, accessToken string, opts ...Option) *Client {
	return NewClient(host, net.GetOAuthClient(ctx, accessToken), opts...)
}

// SearchByHashtag returns up to limit posts matching the hashtag.
func (c *Client) SearchByHashtag(ctx context.Context, tag string, limit int) ([]*trend.Post, error) {
	tag = strings.TrimLeft(strings.TrimSpace(tag), "#")
	if tag == "" {
		return nil, errors.New("hashtag is required")
	}

	q := url.Values{}
	q.Set("q", "#"+tag)
	q.Set("limit", strconv.Itoa(clampLimit(limit)))

	var out searchPostsResponse
	if err := c.get(ctx, searchPostsPath, q, &out); err != nil {
		return nil, fmt.Errorf("searching posts for #%s: %w", tag, err)
	}

	slog.Debug("search results", "tag", tag, "posts", len(out.Posts), "hits", out.HitsTotal)

	return mapPostViews(out.Posts), nil
}

// FetchRecentTimeline returns up to limit posts from the home timeline.
func (c *Client) FetchRecentTimeline(ctx context.Context, limit int) ([]*trend.Post, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(clampLimit(limit)))

	var out timelineResponse
	if err := c.get(ctx, getTimelinePath, q, &out); err != nil {
		return nil, fmt.Errorf("fetching timeline: %w", err)
	}

	views := make([]*postView, 0, len(out.Feed))
	for _, item := range out.Feed {
		if item.Post != nil {
			views = append(views, item.Post)
		}
	}

	slog.Debug("timeline results", "posts", len(views))

	return mapPostViews(views), nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, target any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for rate limiter: %w", err)
	}

	u := c.host + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	slog.Debug("xrpc call", "path", path, "status", resp.StatusCode, "duration", time.Since(start).String())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		net.PrintHTTPResponse(resp)
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if b, err := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit)); err == nil && len(b) > 0 {
			_ = json.Unmarshal(b, apiErr)
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

func clampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
