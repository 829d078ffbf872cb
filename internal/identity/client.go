// ABOUTME: HTTP client for resolving delegated tokens at the identity provider
// ABOUTME: Calls the userinfo endpoint and extracts the account login

package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// maxUserinfoBody caps the userinfo response size (64KB).
const maxUserinfoBody = 64 << 10

// Client resolves delegated tokens against the identity provider's
// userinfo endpoint. One outbound call per lookup, no caching.
type Client struct {
	userinfoURL string
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewClient creates a provider client for the given userinfo endpoint.
func NewClient(userinfoURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		userinfoURL: userinfoURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		logger:      logger.With("component", "identity"),
	}
}

// Lookup presents the token to the provider and returns the account login
// it belongs to. A non-200 response means the provider rejected the token.
func (c *Client) Lookup(ctx context.Context, token string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userinfoURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling identity provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxUserinfoBody))
		return "", fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}

	var userinfo struct {
		Login string `json:"login"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxUserinfoBody)).Decode(&userinfo); err != nil {
		return "", fmt.Errorf("decoding userinfo response: %w", err)
	}
	if userinfo.Login == "" {
		return "", fmt.Errorf("userinfo response missing login")
	}

	c.logger.Debug("resolved delegated token", "subject", userinfo.Login)
	return userinfo.Login, nil
}
