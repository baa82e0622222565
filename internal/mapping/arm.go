package mapping

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/goddivor/solo-base-notes-api/internal/apperrors"
	"github.com/goddivor/solo-base-notes-api/internal/metrics"
)

// armProvider queries the anime-relations-mapper API (arm.haglund.dev).
// The service is unauthenticated.
type armProvider struct {
	httpClient *http.Client
	baseURL    string
}

// NewARMProvider creates the ARM id-mapping provider.
func NewARMProvider(httpClient *http.Client, baseURL string) Provider {
	return &armProvider{httpClient: httpClient, baseURL: baseURL}
}

func (p *armProvider) Name() string {
	return "arm"
}

// armResponse is the subset of the ARM payload we consume. The API returns
// a JSON null body when it has no record at all.
type armResponse struct {
	Imdb string `json:"imdb"`
}

// Lookup returns the IMDb id for malID, or "" when ARM has no mapping.
func (p *armProvider) Lookup(ctx context.Context, malID int) (imdbID string, err error) {
	defer func() { metrics.RecordProviderRequest(p.Name(), err) }()

	if malID == 0 {
		return "", apperrors.NewValidationError("malId")
	}

	endpoint := fmt.Sprintf("%s/api/v2/ids?source=myanimelist&id=%d", p.baseURL, malID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create ARM request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to query ARM: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", apperrors.NewProviderError(p.Name(), "lookup", resp.StatusCode, resp.Status)
	}

	// Body may be "null" when ARM knows nothing about the id.
	var payload *armResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode ARM response: %w", err)
	}
	if payload == nil || payload.Imdb == "" {
		return "", nil
	}

	return payload.Imdb, nil
}
