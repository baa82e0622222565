package anime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/goddivor/solo-base-notes-api/internal/apperrors"
	"github.com/goddivor/solo-base-notes-api/internal/metrics"
	"github.com/goddivor/solo-base-notes-api/internal/models"
)

// malFields is the field selector sent on every MAL v2 request; the API
// returns only id and title without it.
const malFields = "id,title,main_picture,synopsis,num_episodes,mean,start_season,status"

// MALClient queries the official MyAnimeList v2 API. Requests authenticate
// with the X-MAL-CLIENT-ID header.
type MALClient struct {
	httpClient *http.Client
	baseURL    string
	clientID   string
}

// NewMALClient creates a MyAnimeList catalog client.
func NewMALClient(httpClient *http.Client, baseURL, clientID string) *MALClient {
	return &MALClient{httpClient: httpClient, baseURL: baseURL, clientID: clientID}
}

type malAnime struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	MainPicture struct {
		Medium string `json:"medium"`
		Large  string `json:"large"`
	} `json:"main_picture"`
	Synopsis    string  `json:"synopsis"`
	NumEpisodes int     `json:"num_episodes"`
	Mean        float64 `json:"mean"`
	StartSeason struct {
		Year int `json:"year"`
	} `json:"start_season"`
	Status string `json:"status"`
}

func (a malAnime) toModel() models.Anime {
	image := a.MainPicture.Medium
	if image == "" {
		image = a.MainPicture.Large
	}
	return models.Anime{
		ID:       a.ID,
		Title:    a.Title,
		Image:    image,
		Synopsis: a.Synopsis,
		Episodes: a.NumEpisodes,
		Score:    a.Mean,
		Year:     a.StartSeason.Year,
		Status:   a.Status,
	}
}

// SearchAnime returns up to 20 catalog entries matching the query.
func (c *MALClient) SearchAnime(ctx context.Context, query string) (results []models.Anime, err error) {
	defer func() { metrics.RecordProviderRequest("mal", err) }()

	if query == "" {
		return nil, apperrors.NewValidationError("query")
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", fmt.Sprint(searchLimit))
	params.Set("fields", malFields)

	var payload struct {
		Data []struct {
			Node malAnime `json:"node"`
		} `json:"data"`
	}
	if err := c.getJSON(ctx, "/anime?"+params.Encode(), &payload); err != nil {
		return nil, err
	}

	results = make([]models.Anime, 0, len(payload.Data))
	for _, item := range payload.Data {
		results = append(results, item.Node.toModel())
	}
	return results, nil
}

// GetAnime returns one catalog entry by MAL id.
func (c *MALClient) GetAnime(ctx context.Context, id int) (anime models.Anime, err error) {
	defer func() { metrics.RecordProviderRequest("mal", err) }()

	params := url.Values{}
	params.Set("fields", malFields)

	var payload malAnime
	if err := c.getJSON(ctx, fmt.Sprintf("/anime/%d?%s", id, params.Encode()), &payload); err != nil {
		return models.Anime{}, err
	}
	if payload.ID == 0 {
		return models.Anime{}, apperrors.NewNotFoundError("anime", id)
	}
	return payload.toModel(), nil
}

func (c *MALClient) getJSON(ctx context.Context, path string, out interface{}) error {
	if c.clientID == "" {
		return &apperrors.ErrConfiguration{Key: "MAL_CLIENT_ID"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create MyAnimeList request: %w", err)
	}
	req.Header.Set("X-MAL-CLIENT-ID", c.clientID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to query MyAnimeList: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return apperrors.NewNotFoundError("anime", path)
	}
	if resp.StatusCode != http.StatusOK {
		return apperrors.NewProviderError("mal", "lookup", resp.StatusCode, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode MyAnimeList response: %w", err)
	}
	return nil
}
