package mapping

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/goddivor/solo-base-notes-api/internal/apperrors"
	"github.com/goddivor/solo-base-notes-api/internal/metrics"
)

// idsMoeProvider queries the ids.moe API, which requires a bearer API key.
type idsMoeProvider struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewIdsMoeProvider creates the ids.moe id-mapping provider.
func NewIdsMoeProvider(httpClient *http.Client, baseURL, apiKey string) Provider {
	return &idsMoeProvider{httpClient: httpClient, baseURL: baseURL, apiKey: apiKey}
}

func (p *idsMoeProvider) Name() string {
	return "idsmoe"
}

type idsMoeResponse struct {
	Imdb string `json:"imdb"`
}

// Lookup returns the IMDb id for malID, or "" when ids.moe has no mapping
// (HTTP 404) or its record carries no IMDb id.
func (p *idsMoeProvider) Lookup(ctx context.Context, malID int) (imdbID string, err error) {
	defer func() { metrics.RecordProviderRequest(p.Name(), err) }()

	if malID == 0 {
		return "", apperrors.NewValidationError("malId")
	}
	if p.apiKey == "" {
		return "", &apperrors.ErrConfiguration{Key: "IDS_MOE_API_KEY"}
	}

	endpoint := fmt.Sprintf("%s/ids/%d?platform=mal", p.baseURL, malID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create ids.moe request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to query ids.moe: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", apperrors.NewProviderError(p.Name(), "lookup", resp.StatusCode, resp.Status)
	}

	var payload idsMoeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode ids.moe response: %w", err)
	}

	return payload.Imdb, nil
}
