package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mchmarny/skypulse/pkg/net"
)

const (
	createSessionPath = "/xrpc/com.atproto.server.createSession"
)

// ErrInvalidCredentials is returned when the server rejects the handle or app password.
var ErrInvalidCredentials = errors.New("invalid handle or app password")

type createSessionRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Session is the authenticated session returned by createSession.
type Session struct {
	// Decentralized identifier of the account (did:plc:...).
	DID string `json:"did"`
	// Handle as resolved by the server, may differ in case from the input.
	Handle string `json:"handle"`
	// Short lived token used as bearer on all XRPC calls.
	AccessJwt string `json:"accessJwt"`
	// Longer lived token for refreshSession, unused in a single pass run.
	RefreshJwt string `json:"refreshJwt"`
}

// CreateSession logs into the host with the handle and app password.
func CreateSession(ctx context.Context, host, handle, appPassword string) (*Session, error) {
	if host == "" {
		return nil, errors.New("host is required")
	}
	if handle == "" {
		return nil, errors.New("handle is required")
	}
	if appPassword == "" {
		return nil, errors.New("app password is required")
	}

	b, err := json.Marshal(&createSessionRequest{
		Identifier: strings.TrimPrefix(strings.TrimSpace(handle), "@"),
		Password:   appPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling session request: %w", err)
	}

	url := strings.TrimSuffix(host, "/") + createSessionPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")

	client, err := net.GetHTTPClient()
	if err != nil {
		return nil, fmt.Errorf("getting http client: %w", err)
	}

	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusUnauthorized {
		return nil, ErrInvalidCredentials
	}

	if res.StatusCode != http.StatusOK {
		body := ""
		if b, err := io.ReadAll(res.Body); err == nil {
			body = string(b)
		}
		return nil, fmt.Errorf("creating session: %s - %s", res.Status, body)
	}

	var s Session
	if err := json.NewDecoder(res.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if s.AccessJwt == "" {
		return nil, errors.New("access token is empty")
	}

	return &s, nil
}
