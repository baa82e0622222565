package opensubtitles

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/goddivor/solo-base-notes-api/internal/apperrors"
	"github.com/goddivor/solo-base-notes-api/internal/config"
	"github.com/goddivor/solo-base-notes-api/internal/metrics"
	"github.com/goddivor/solo-base-notes-api/internal/parser"
)

type downloadResponse struct {
	Link     string `json:"link"`
	FileName string `json:"file_name"`
}

// Download exchanges a file id for a one-time download link, then fetches
// the caption payload from that link as UTF-8 text.
func (c *Client) Download(ctx context.Context, fileID string) (content string, err error) {
	defer func() { metrics.RecordProviderRequest(providerName, err) }()
	logger := config.GetLogger()

	if fileID == "" {
		return "", apperrors.NewValidationError("fileId")
	}
	numericID, err := strconv.ParseInt(fileID, 10, 64)
	if err != nil {
		return "", &apperrors.ErrValidation{Field: "fileId", Reason: "not a numeric file id"}
	}

	body, err := json.Marshal(map[string]int64{"file_id": numericID})
	if err != nil {
		return "", fmt.Errorf("failed to encode download body: %w", err)
	}

	req, err := c.authedRequest(ctx, http.MethodPost, c.cfg.BaseURL+"/download", body)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to exchange file id for download link: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperrors.NewProviderError(providerName, "download", resp.StatusCode, resp.Status)
	}

	var payload downloadResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode download response: %w", err)
	}
	if payload.Link == "" {
		return "", &apperrors.ErrProvider{Provider: providerName, Operation: "download", Status: "no download link provided"}
	}

	// The link is pre-signed; no auth headers on the content fetch.
	fileReq, err := http.NewRequestWithContext(ctx, http.MethodGet, payload.Link, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create file request: %w", err)
	}
	fileReq.Header.Set("User-Agent", c.cfg.UserAgent)

	fileResp, err := c.httpClient.Do(fileReq)
	if err != nil {
		return "", fmt.Errorf("failed to download subtitle file: %w", err)
	}
	defer fileResp.Body.Close()

	if fileResp.StatusCode != http.StatusOK {
		return "", apperrors.NewProviderError(providerName, "file download", fileResp.StatusCode, fileResp.Status)
	}

	utf8Body, err := parser.NewUTF8Reader(fileResp.Body, fileResp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("failed to detect subtitle encoding: %w", err)
	}
	raw, err := io.ReadAll(utf8Body)
	if err != nil {
		return "", fmt.Errorf("failed to read subtitle file: %w", err)
	}

	logger.Debug().
		Str("fileID", fileID).
		Str("fileName", payload.FileName).
		Int("size", len(raw)).
		Msg("Subtitle file downloaded")

	return string(raw), nil
}
