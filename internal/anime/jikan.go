// Package anime aggregates anime catalog metadata from Jikan and the
// official MyAnimeList v2 API behind one source-switched service.
package anime

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"

	"github.com/goddivor/solo-base-notes-api/internal/apperrors"
	"github.com/goddivor/solo-base-notes-api/internal/metrics"
	"github.com/goddivor/solo-base-notes-api/internal/models"
)

// searchLimit caps catalog search results, matching what the UI pages.
const searchLimit = 20

// defaultEpisodeDuration is assumed when the catalog has no runtime, in
// minutes.
const defaultEpisodeDuration = 24

// JikanClient queries the unauthenticated Jikan REST API (api.jikan.moe).
type JikanClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewJikanClient creates a Jikan catalog client.
func NewJikanClient(httpClient *http.Client, baseURL string) *JikanClient {
	return &JikanClient{httpClient: httpClient, baseURL: baseURL}
}

type jikanAnime struct {
	MalID  int    `json:"mal_id"`
	Title  string `json:"title"`
	Images struct {
		JPG struct {
			ImageURL      string `json:"image_url"`
			LargeImageURL string `json:"large_image_url"`
		} `json:"jpg"`
	} `json:"images"`
	Synopsis string  `json:"synopsis"`
	Episodes int     `json:"episodes"`
	Score    float64 `json:"score"`
	Year     int     `json:"year"`
	Status   string  `json:"status"`
}

func (a jikanAnime) toModel() models.Anime {
	image := a.Images.JPG.ImageURL
	if image == "" {
		image = a.Images.JPG.LargeImageURL
	}
	return models.Anime{
		ID:       a.MalID,
		Title:    a.Title,
		Image:    image,
		Synopsis: a.Synopsis,
		Episodes: a.Episodes,
		Score:    a.Score,
		Year:     a.Year,
		Status:   a.Status,
	}
}

// SearchAnime returns up to 20 catalog entries matching the query.
func (c *JikanClient) SearchAnime(ctx context.Context, query string) (results []models.Anime, err error) {
	defer func() { metrics.RecordProviderRequest("jikan", err) }()

	if query == "" {
		return nil, apperrors.NewValidationError("query")
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", fmt.Sprint(searchLimit))

	var payload struct {
		Data []jikanAnime `json:"data"`
	}
	if err := c.getJSON(ctx, "/anime?"+params.Encode(), &payload); err != nil {
		return nil, err
	}

	results = make([]models.Anime, 0, len(payload.Data))
	for _, a := range payload.Data {
		results = append(results, a.toModel())
	}
	return results, nil
}

// GetAnime returns one catalog entry by MAL id.
func (c *JikanClient) GetAnime(ctx context.Context, id int) (anime models.Anime, err error) {
	defer func() { metrics.RecordProviderRequest("jikan", err) }()

	var payload struct {
		Data jikanAnime `json:"data"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/anime/%d", id), &payload); err != nil {
		return models.Anime{}, err
	}
	if payload.Data.MalID == 0 {
		return models.Anime{}, apperrors.NewNotFoundError("anime", id)
	}
	return payload.Data.toModel(), nil
}

// GetCharacters lists the characters appearing in an anime.
func (c *JikanClient) GetCharacters(ctx context.Context, animeID int) (characters []models.Character, err error) {
	defer func() { metrics.RecordProviderRequest("jikan", err) }()

	var payload struct {
		Data []struct {
			Character struct {
				MalID  int    `json:"mal_id"`
				Name   string `json:"name"`
				Images struct {
					JPG struct {
						ImageURL string `json:"image_url"`
					} `json:"jpg"`
				} `json:"images"`
			} `json:"character"`
		} `json:"data"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/anime/%d/characters", animeID), &payload); err != nil {
		return nil, err
	}

	characters = make([]models.Character, 0, len(payload.Data))
	for _, item := range payload.Data {
		characters = append(characters, models.Character{
			MalID: item.Character.MalID,
			Name:  item.Character.Name,
			Image: item.Character.Images.JPG.ImageURL,
		})
	}
	return characters, nil
}

// GetEpisodes lists an anime's episodes. Durations are reported in minutes;
// episodes without a known runtime default to 24 minutes.
func (c *JikanClient) GetEpisodes(ctx context.Context, animeID int) (episodes []models.Episode, err error) {
	defer func() { metrics.RecordProviderRequest("jikan", err) }()

	var payload struct {
		Data []struct {
			MalID    int    `json:"mal_id"`
			Title    string `json:"title"`
			Aired    string `json:"aired"`
			Duration int    `json:"duration"` // seconds
		} `json:"data"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/anime/%d/episodes", animeID), &payload); err != nil {
		return nil, err
	}

	episodes = make([]models.Episode, 0, len(payload.Data))
	for _, item := range payload.Data {
		duration := defaultEpisodeDuration
		if item.Duration > 0 {
			duration = int(math.Round(float64(item.Duration) / 60))
		}
		episodes = append(episodes, models.Episode{
			Number:   item.MalID,
			Title:    item.Title,
			Aired:    item.Aired,
			Duration: duration,
		})
	}
	return episodes, nil
}

func (c *JikanClient) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create Jikan request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to query Jikan: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return apperrors.NewNotFoundError("anime", path)
	}
	if resp.StatusCode != http.StatusOK {
		return apperrors.NewProviderError("jikan", "lookup", resp.StatusCode, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode Jikan response: %w", err)
	}
	return nil
}
