// Package opensubtitles is a thin client for the OpenSubtitles REST API:
// login exchange with a cached session token, subtitle search, and two-step
// file download (link exchange, then content fetch).
package opensubtitles

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/goddivor/solo-base-notes-api/internal/apperrors"
	"github.com/goddivor/solo-base-notes-api/internal/config"
	"github.com/goddivor/solo-base-notes-api/internal/metrics"
	"github.com/goddivor/solo-base-notes-api/internal/session"
)

const providerName = "opensubtitles"

// Tokens are valid for 24 hours; refresh an hour early so a cached token is
// never presented to a provider that is about to reject it.
const (
	tokenLifetime     = 24 * time.Hour
	tokenSafetyMargin = time.Hour
)

// Config carries the OpenSubtitles credentials and endpoint.
type Config struct {
	BaseURL   string
	APIKey    string
	Username  string
	Password  string
	UserAgent string
}

// Client calls the OpenSubtitles API. One Client is shared process-wide; its
// session token cache is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	cfg        Config
	session    *session.Cache
}

// NewClient creates an OpenSubtitles client around the shared HTTP client.
func NewClient(httpClient *http.Client, cfg Config) *Client {
	c := &Client{
		httpClient: httpClient,
		cfg:        cfg,
	}
	c.session = session.NewCache(c.login)
	return c
}

type loginResponse struct {
	Token string `json:"token"`
}

// login performs the credential exchange and computes the token expiry.
// Called lazily by the session cache whenever no valid token is held.
func (c *Client) login(ctx context.Context) (session.Token, error) {
	logger := config.GetLogger()

	switch {
	case c.cfg.APIKey == "":
		return session.Token{}, &apperrors.ErrConfiguration{Key: "OPENSUBTITLES_API_KEY"}
	case c.cfg.UserAgent == "":
		return session.Token{}, &apperrors.ErrConfiguration{Key: "OPENSUBTITLES_USERAGENT"}
	case c.cfg.Username == "":
		return session.Token{}, &apperrors.ErrConfiguration{Key: "OPENSUBTITLES_USERNAME"}
	case c.cfg.Password == "":
		return session.Token{}, &apperrors.ErrConfiguration{Key: "OPENSUBTITLES_PASSWORD"}
	}

	body, err := json.Marshal(map[string]string{
		"username": c.cfg.Username,
		"password": c.cfg.Password,
	})
	if err != nil {
		return session.Token{}, fmt.Errorf("failed to encode login body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/login", bytes.NewReader(body))
	if err != nil {
		return session.Token{}, fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Api-Key", c.cfg.APIKey)
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return session.Token{}, fmt.Errorf("failed to reach login endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return session.Token{}, &apperrors.ErrAuth{Provider: providerName, Status: resp.Status}
	}

	var payload loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return session.Token{}, fmt.Errorf("failed to decode login response: %w", err)
	}

	metrics.TokenRefreshesTotal.WithLabelValues(providerName).Inc()
	logger.Info().Str("provider", providerName).Msg("Logged in, session token refreshed")

	return session.Token{
		Value:  payload.Token,
		Expiry: time.Now().Add(tokenLifetime - tokenSafetyMargin),
	}, nil
}

// authedRequest builds a request carrying the API key, session token, and
// user agent the provider requires on every authenticated call.
func (c *Client) authedRequest(ctx context.Context, method, url string, body []byte) (*http.Request, error) {
	token, err := c.session.Get(ctx)
	if err != nil {
		return nil, err
	}

	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Api-Key", c.cfg.APIKey)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}
