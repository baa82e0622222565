// Package spotify provides track search and lookup against the Spotify Web
// API using the client-credentials flow.
package spotify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goddivor/solo-base-notes-api/internal/apperrors"
	"github.com/goddivor/solo-base-notes-api/internal/metrics"
	"github.com/goddivor/solo-base-notes-api/internal/models"
	"github.com/goddivor/solo-base-notes-api/internal/session"
)

const providerName = "spotify"

// tokenSafetyMargin is subtracted from the provider-declared token lifetime
// so a token is refreshed before Spotify stops accepting it.
const tokenSafetyMargin = 5 * time.Minute

// maxSearchLimit is the largest page size the Spotify search API accepts.
const maxSearchLimit = 50

// Config carries the Spotify credentials and endpoints.
type Config struct {
	BaseURL      string
	AccountsURL  string
	ClientID     string
	ClientSecret string
}

// Client is a Spotify Web API client. Access tokens come from the
// client-credentials flow and are cached until shortly before expiry.
type Client struct {
	httpClient *http.Client
	cfg        Config
	session    *session.Cache
}

// NewClient creates a Spotify client.
func NewClient(httpClient *http.Client, cfg Config) *Client {
	c := &Client{
		httpClient: httpClient,
		cfg:        cfg,
	}
	c.session = session.NewCache(c.login)
	return c
}

// login exchanges the client credentials for an access token.
func (c *Client) login(ctx context.Context) (tok session.Token, err error) {
	defer func() { metrics.RecordProviderRequest(providerName, err) }()

	switch {
	case c.cfg.ClientID == "":
		return session.Token{}, &apperrors.ErrConfiguration{Key: "SPOTIFY_CLIENT_ID"}
	case c.cfg.ClientSecret == "":
		return session.Token{}, &apperrors.ErrConfiguration{Key: "SPOTIFY_CLIENT_SECRET"}
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.AccountsURL+"/api/token", strings.NewReader(form.Encode()))
	if err != nil {
		return session.Token{}, fmt.Errorf("failed to create Spotify token request: %w", err)
	}
	basic := base64.StdEncoding.EncodeToString([]byte(c.cfg.ClientID + ":" + c.cfg.ClientSecret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return session.Token{}, fmt.Errorf("failed to reach Spotify accounts service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return session.Token{}, &apperrors.ErrAuth{Provider: providerName, Status: resp.Status}
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return session.Token{}, fmt.Errorf("failed to decode Spotify token response: %w", err)
	}
	if payload.AccessToken == "" {
		return session.Token{}, &apperrors.ErrAuth{Provider: providerName, Status: "empty access token"}
	}

	metrics.TokenRefreshesTotal.WithLabelValues(providerName).Inc()

	lifetime := time.Duration(payload.ExpiresIn)*time.Second - tokenSafetyMargin
	return session.Token{
		Value:  payload.AccessToken,
		Expiry: time.Now().Add(lifetime),
	}, nil
}

type spotifyTrack struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Artists []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"artists"`
	Album struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
	} `json:"album"`
	DurationMS   int    `json:"duration_ms"`
	PreviewURL   string `json:"preview_url"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
	URI string `json:"uri"`
}

func (t spotifyTrack) toModel() models.Track {
	track := models.Track{
		ID:         t.ID,
		Name:       t.Name,
		Duration:   t.DurationMS,
		PreviewURL: t.PreviewURL,
		SpotifyURL: t.ExternalURLs.Spotify,
		URI:        t.URI,
		Album: models.Album{
			ID:   t.Album.ID,
			Name: t.Album.Name,
		},
	}
	if len(t.Album.Images) > 0 {
		track.Album.Image = t.Album.Images[0].URL
	}
	for _, a := range t.Artists {
		track.Artists = append(track.Artists, models.Artist{ID: a.ID, Name: a.Name})
	}
	return track
}

// SearchTracks searches the Spotify catalog. The limit is clamped to the
// API maximum of 50; zero or negative means 20.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) (tracks []models.Track, err error) {
	defer func() { metrics.RecordProviderRequest(providerName, err) }()

	if query == "" {
		return nil, apperrors.NewValidationError("query")
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "track")
	params.Set("limit", fmt.Sprint(limit))

	var payload struct {
		Tracks struct {
			Items []spotifyTrack `json:"items"`
		} `json:"tracks"`
	}
	if err := c.getJSON(ctx, "/search?"+params.Encode(), "search", &payload); err != nil {
		return nil, err
	}

	tracks = make([]models.Track, 0, len(payload.Tracks.Items))
	for _, item := range payload.Tracks.Items {
		tracks = append(tracks, item.toModel())
	}
	return tracks, nil
}

// GetTrack fetches one track by its Spotify id.
func (c *Client) GetTrack(ctx context.Context, id string) (track models.Track, err error) {
	defer func() { metrics.RecordProviderRequest(providerName, err) }()

	if id == "" {
		return models.Track{}, apperrors.NewValidationError("track id")
	}

	var payload spotifyTrack
	if err := c.getJSON(ctx, "/tracks/"+url.PathEscape(id), "track lookup", &payload); err != nil {
		return models.Track{}, err
	}
	return payload.toModel(), nil
}

func (c *Client) getJSON(ctx context.Context, path, operation string, out interface{}) error {
	token, err := c.session.Get(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create Spotify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to query Spotify: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return apperrors.NewNotFoundError("track", path)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		// Token revoked ahead of its declared lifetime.
		c.session.Invalidate()
		return apperrors.NewProviderError(providerName, operation, resp.StatusCode, resp.Status)
	}
	if resp.StatusCode != http.StatusOK {
		return apperrors.NewProviderError(providerName, operation, resp.StatusCode, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode Spotify response: %w", err)
	}
	return nil
}
