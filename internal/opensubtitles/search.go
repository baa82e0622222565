package opensubtitles

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goddivor/solo-base-notes-api/internal/apperrors"
	"github.com/goddivor/solo-base-notes-api/internal/config"
	"github.com/goddivor/solo-base-notes-api/internal/metrics"
	"github.com/goddivor/solo-base-notes-api/internal/models"
)

// defaultLanguages is used when a search request carries no language filter.
var defaultLanguages = []string{"en", "fr"}

type searchResponse struct {
	Data []struct {
		Attributes struct {
			Language      string  `json:"language"`
			DownloadCount int     `json:"download_count"`
			Ratings       float64 `json:"ratings"`
			Release       string  `json:"release"`
			Uploader      struct {
				Name string `json:"name"`
			} `json:"uploader"`
			Files []struct {
				FileID   int64  `json:"file_id"`
				FileName string `json:"file_name"`
			} `json:"files"`
		} `json:"attributes"`
	} `json:"data"`
}

// Search queries the provider for subtitles matching the request. An empty
// result set is returned as an empty slice, not an error. Candidates whose
// first file carries no file id are dropped.
func (c *Client) Search(ctx context.Context, search models.SubtitleSearchRequest) (candidates []models.SubtitleCandidate, err error) {
	defer func() { metrics.RecordProviderRequest(providerName, err) }()
	logger := config.GetLogger()

	if search.ImdbID == "" {
		return nil, apperrors.NewValidationError("imdbId")
	}

	languages := search.Languages
	if len(languages) == 0 {
		languages = defaultLanguages
	}

	params := url.Values{}
	// The provider keys on the bare numeric part of the IMDb id.
	params.Set("imdb_id", strings.TrimPrefix(search.ImdbID, "tt"))
	params.Set("languages", strings.Join(languages, ","))
	if search.Episode != nil {
		params.Set("episode_number", strconv.Itoa(*search.Episode))
	}
	if search.Season != nil {
		params.Set("season_number", strconv.Itoa(*search.Season))
	}

	req, err := c.authedRequest(ctx, http.MethodGet, c.cfg.BaseURL+"/subtitles?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query subtitles: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewProviderError(providerName, "search", resp.StatusCode, resp.Status)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	candidates = make([]models.SubtitleCandidate, 0, len(payload.Data))
	for _, item := range payload.Data {
		attrs := item.Attributes
		if len(attrs.Files) == 0 || attrs.Files[0].FileID == 0 {
			continue
		}

		uploader := attrs.Uploader.Name
		if uploader == "" {
			uploader = "Unknown"
		}

		candidates = append(candidates, models.SubtitleCandidate{
			FileID:        strconv.FormatInt(attrs.Files[0].FileID, 10),
			FileName:      attrs.Files[0].FileName,
			Language:      attrs.Language,
			DownloadCount: attrs.DownloadCount,
			Rating:        attrs.Ratings,
			Release:       attrs.Release,
			Uploader:      uploader,
		})
	}

	logger.Debug().
		Str("imdbID", search.ImdbID).
		Int("results", len(candidates)).
		Msg("Subtitle search completed")

	return candidates, nil
}
