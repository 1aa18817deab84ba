package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"laklight-scheduling/internal/domain"
)

// Identity is a resolved caller identity from the session service.
type Identity struct {
	ID   string
	Role domain.Actor
}

// StatusError carries the HTTP status returned by the session service.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("session service returned %d", e.Code)
}

// HTTPGateway resolves opaque session tokens against the session service.
// The scheduling core trusts the identity it returns.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
}

// NewHTTPGateway creates a session gateway. An empty base URL disables it
// and returns nil.
func NewHTTPGateway(baseURL string, client *http.Client) *HTTPGateway {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil
	}
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Second}
	}
	return &HTTPGateway{baseURL: baseURL, client: client}
}

type sessionResponse struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// Resolve exchanges a session token for the caller's identity. An unknown
// or expired token resolves to nil, nil.
func (g *HTTPGateway) Resolve(ctx context.Context, token string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		g.baseURL+"/sessions/"+url.PathEscape(token), nil)
	if err != nil {
		return nil, fmt.Errorf("identity gateway: build request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity gateway: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusUnauthorized:
		return nil, nil
	default:
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var body sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("identity gateway: decode response: %w", err)
	}

	id := Identity{ID: strings.TrimSpace(body.ID), Role: domain.Actor(strings.TrimSpace(body.Role))}
	if id.ID == "" || !id.Role.Valid() {
		return nil, fmt.Errorf("identity gateway: malformed session for role %q", body.Role)
	}
	return &id, nil
}
