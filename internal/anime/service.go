package anime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goddivor/solo-base-notes-api/internal/apperrors"
	"github.com/goddivor/solo-base-notes-api/internal/cache"
	"github.com/goddivor/solo-base-notes-api/internal/config"
	"github.com/goddivor/solo-base-notes-api/internal/models"
)

// Metadata sources selectable per request.
const (
	SourceJikan = "jikan"
	SourceMAL   = "mal"
)

// Service routes catalog lookups to Jikan or MyAnimeList. Characters and
// episodes always come from Jikan: the MAL v2 API does not expose them.
// Responses are cached when a cache is provided.
type Service struct {
	jikan *JikanClient
	mal   *MALClient
	cache cache.Cache
}

// NewService creates the anime metadata service. The cache may be nil, in
// which case every call reaches the upstream API.
func NewService(jikan *JikanClient, mal *MALClient, metadataCache cache.Cache) *Service {
	return &Service{jikan: jikan, mal: mal, cache: metadataCache}
}

// SearchAnime searches the catalog of the given source. An empty source
// defaults to Jikan.
func (s *Service) SearchAnime(ctx context.Context, query, source string) ([]models.Anime, error) {
	source, err := s.normalizeSource(source)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("anime:%s:search:%s", source, query)
	var results []models.Anime
	if s.cachedGet(key, &results) {
		return results, nil
	}

	if source == SourceMAL {
		results, err = s.mal.SearchAnime(ctx, query)
	} else {
		results, err = s.jikan.SearchAnime(ctx, query)
	}
	if err != nil {
		return nil, err
	}

	s.cachedSet(key, results)
	return results, nil
}

// GetAnime fetches one anime by MAL id from the given source.
func (s *Service) GetAnime(ctx context.Context, id int, source string) (models.Anime, error) {
	source, err := s.normalizeSource(source)
	if err != nil {
		return models.Anime{}, err
	}

	key := fmt.Sprintf("anime:%s:detail:%d", source, id)
	var anime models.Anime
	if s.cachedGet(key, &anime) {
		return anime, nil
	}

	if source == SourceMAL {
		anime, err = s.mal.GetAnime(ctx, id)
	} else {
		anime, err = s.jikan.GetAnime(ctx, id)
	}
	if err != nil {
		return models.Anime{}, err
	}

	s.cachedSet(key, anime)
	return anime, nil
}

// GetCharacters lists the characters of an anime.
func (s *Service) GetCharacters(ctx context.Context, id int) ([]models.Character, error) {
	key := fmt.Sprintf("anime:characters:%d", id)
	var characters []models.Character
	if s.cachedGet(key, &characters) {
		return characters, nil
	}

	characters, err := s.jikan.GetCharacters(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cachedSet(key, characters)
	return characters, nil
}

// GetEpisodes lists the episodes of an anime.
func (s *Service) GetEpisodes(ctx context.Context, id int) ([]models.Episode, error) {
	key := fmt.Sprintf("anime:episodes:%d", id)
	var episodes []models.Episode
	if s.cachedGet(key, &episodes) {
		return episodes, nil
	}

	episodes, err := s.jikan.GetEpisodes(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cachedSet(key, episodes)
	return episodes, nil
}

func (s *Service) normalizeSource(source string) (string, error) {
	switch source {
	case "", SourceJikan:
		return SourceJikan, nil
	case SourceMAL:
		return SourceMAL, nil
	default:
		return "", &apperrors.ErrValidation{Field: "source", Reason: "must be jikan or mal"}
	}
}

func (s *Service) cachedGet(key string, out interface{}) bool {
	if s.cache == nil {
		return false
	}
	raw, ok := s.cache.Get(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		logger := config.GetLogger()
		logger.Warn().Err(err).Str("key", key).Msg("Dropping undecodable cache entry")
		return false
	}
	return true
}

func (s *Service) cachedSet(key string, value interface{}) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	s.cache.Set(key, raw)
}
