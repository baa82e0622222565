// Package services ties the id-mapping, subtitle provider and parser layers
// into the operations the API serves.
package services

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goddivor/solo-base-notes-api/internal/cache"
	"github.com/goddivor/solo-base-notes-api/internal/config"
	"github.com/goddivor/solo-base-notes-api/internal/metrics"
	"github.com/goddivor/solo-base-notes-api/internal/models"
	"github.com/goddivor/solo-base-notes-api/internal/parser"
)

// SubtitleProvider searches and fetches subtitle files.
type SubtitleProvider interface {
	Search(ctx context.Context, search models.SubtitleSearchRequest) ([]models.SubtitleCandidate, error)
	Download(ctx context.Context, fileID string) (string, error)
}

// IDResolver maps a MyAnimeList id to an IMDb id. An empty id with a nil
// error means no mapping exists.
type IDResolver interface {
	Resolve(ctx context.Context, malID int, preferred string) (string, error)
}

// SubtitleService orchestrates the subtitle pipeline: id mapping, provider
// search, download, SRT parsing and timing-range extraction. Raw subtitle
// payloads are cached by file id so a search-download-extract flow fetches
// each file once.
type SubtitleService struct {
	provider SubtitleProvider
	resolver IDResolver
	cache    cache.Cache
}

// NewSubtitleService creates the subtitle orchestration service. The cache
// may be nil to disable payload caching.
func NewSubtitleService(provider SubtitleProvider, resolver IDResolver, payloadCache cache.Cache) *SubtitleService {
	return &SubtitleService{
		provider: provider,
		resolver: resolver,
		cache:    payloadCache,
	}
}

// SearchByAnime resolves the anime's IMDb id and searches the subtitle
// provider. An anime with no IMDb mapping yields an empty result, not an
// error: subtitles simply aren't findable for it.
func (s *SubtitleService) SearchByAnime(ctx context.Context, malID int, season, episode *int, languages []string, preferredMapper string) (candidates []models.SubtitleCandidate, err error) {
	defer func() { recordOutcome(metrics.SubtitleSearchesTotal, err) }()

	imdbID, err := s.resolver.Resolve(ctx, malID, preferredMapper)
	if err != nil {
		return nil, err
	}
	if imdbID == "" {
		logger := config.GetLogger()
		logger.Debug().Int("mal_id", malID).Msg("No IMDb mapping, returning empty subtitle result")
		return []models.SubtitleCandidate{}, nil
	}

	return s.provider.Search(ctx, models.SubtitleSearchRequest{
		ImdbID:    imdbID,
		Season:    season,
		Episode:   episode,
		Languages: languages,
	})
}

// Download fetches a subtitle file and parses it into timed entries.
func (s *SubtitleService) Download(ctx context.Context, fileID string) (doc models.SubtitleDocument, err error) {
	defer func() { recordOutcome(metrics.SubtitleDownloadsTotal, err) }()

	raw, err := s.fetchRaw(ctx, fileID)
	if err != nil {
		return models.SubtitleDocument{}, err
	}
	entries, err := parser.ParseSRT(raw)
	if err != nil {
		return models.SubtitleDocument{}, err
	}
	return models.SubtitleDocument{FileID: fileID, Entries: entries}, nil
}

// ExtractText fetches a subtitle file and returns the dialogue spoken inside
// the given timing range.
func (s *SubtitleService) ExtractText(ctx context.Context, fileID, startTime, endTime string) (text string, err error) {
	defer func() { recordOutcome(metrics.SubtitleExtractionsTotal, err) }()

	raw, err := s.fetchRaw(ctx, fileID)
	if err != nil {
		return "", err
	}
	entries, err := parser.ParseSRT(raw)
	if err != nil {
		return "", err
	}
	return parser.ExtractTextByTiming(entries, startTime, endTime)
}

// fetchRaw returns the subtitle payload for a file id, from cache when
// possible.
func (s *SubtitleService) fetchRaw(ctx context.Context, fileID string) (string, error) {
	key := "subtitle:" + fileID
	if s.cache != nil {
		if raw, ok := s.cache.Get(key); ok {
			return string(raw), nil
		}
	}

	raw, err := s.provider.Download(ctx, fileID)
	if err != nil {
		return "", err
	}
	if s.cache != nil {
		s.cache.Set(key, []byte(raw))
	}
	return raw, nil
}

func recordOutcome(counter *prometheus.CounterVec, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	counter.WithLabelValues(status).Inc()
}
