package net

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"golang.org/x/oauth2"
)

const (
	maxIdleConns     = 10
	timeoutInSeconds = 60
	clientAgent      = "skypulse/1.0 (+https://github.com/mchmarny/skypulse)"
)

var (
	reqTransport = &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          maxIdleConns,
		IdleConnTimeout:       timeoutInSeconds * time.Second,
		DisableCompression:    false,
		DisableKeepAlives:     false,
		ResponseHeaderTimeout: time.Duration(timeoutInSeconds) * time.Second,
	}
)

// agentTransport sets the client user agent on every request.
type agentTransport struct {
	base http.RoundTripper
}

func (t *agentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	if r.Header.Get("User-Agent") == "" {
		r.Header.Set("User-Agent", clientAgent)
	}
	return t.base.RoundTrip(r)
}

// GetHTTPClient returns an unauthenticated client with sane timeouts.
func GetHTTPClient() (*http.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	return &http.Client{
		Jar:       jar,
		Timeout:   time.Duration(timeoutInSeconds) * time.Second,
		Transport: &agentTransport{base: reqTransport},
	}, nil
}

// GetOAuthClient returns a client which sends the token as a bearer
// Authorization header on every request.
func GetOAuthClient(ctx context.Context, token string) *http.Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{
			TokenType:   "Bearer",
			AccessToken: token,
		},
	)

	base := &http.Client{
		Timeout:   time.Duration(timeoutInSeconds) * time.Second,
		Transport: &agentTransport{base: reqTransport},
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)

	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = base.Timeout

	return tc
}
