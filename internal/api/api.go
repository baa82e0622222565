// Package api exposes the service operations as a JSON HTTP API.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/goddivor/solo-base-notes-api/internal/config"
	"github.com/goddivor/solo-base-notes-api/internal/models"
)

// Rate limit applied per client IP across all endpoints.
const (
	rateLimitRequests = 100
	rateLimitWindow   = time.Minute
)

// SubtitleService is the subtitle pipeline surface the API serves.
type SubtitleService interface {
	SearchByAnime(ctx context.Context, malID int, season, episode *int, languages []string, preferredMapper string) ([]models.SubtitleCandidate, error)
	Download(ctx context.Context, fileID string) (models.SubtitleDocument, error)
	ExtractText(ctx context.Context, fileID, startTime, endTime string) (string, error)
}

// AnimeService serves catalog metadata lookups.
type AnimeService interface {
	SearchAnime(ctx context.Context, query, source string) ([]models.Anime, error)
	GetAnime(ctx context.Context, id int, source string) (models.Anime, error)
	GetCharacters(ctx context.Context, id int) ([]models.Character, error)
	GetEpisodes(ctx context.Context, id int) ([]models.Episode, error)
}

// TrackService serves Spotify track lookups.
type TrackService interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error)
	GetTrack(ctx context.Context, id string) (models.Track, error)
}

// ChannelService serves YouTube channel lookups.
type ChannelService interface {
	ChannelInfo(ctx context.Context, channelURL string) (models.Channel, error)
	ChannelVideos(ctx context.Context, channelURL string, limit int) ([]models.Video, error)
}

// Server bundles the services behind the HTTP handlers.
type Server struct {
	subtitles SubtitleService
	anime     AnimeService
	tracks    TrackService
	channels  ChannelService
}

// NewServer creates the API server. Nil services disable their routes with
// 404s rather than panics, so partial deployments stay usable.
func NewServer(subtitles SubtitleService, animeSvc AnimeService, tracks TrackService, channels ChannelService) *Server {
	return &Server{
		subtitles: subtitles,
		anime:     animeSvc,
		tracks:    tracks,
		channels:  channels,
	}
}

// Router builds the chi router with logging, panic recovery and per-IP rate
// limiting.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(httprate.LimitByIP(rateLimitRequests, rateLimitWindow))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/subtitles", func(r chi.Router) {
			r.Use(requireService(s.subtitles != nil))
			r.Get("/search", s.handleSubtitleSearch)
			r.Get("/{fileID}/download", s.handleSubtitleDownload)
			r.Get("/{fileID}/extract", s.handleSubtitleExtract)
		})
		r.Route("/anime", func(r chi.Router) {
			r.Use(requireService(s.anime != nil))
			r.Get("/search", s.handleAnimeSearch)
			r.Get("/{animeID}", s.handleAnimeDetail)
			r.Get("/{animeID}/characters", s.handleAnimeCharacters)
			r.Get("/{animeID}/episodes", s.handleAnimeEpisodes)
		})
		r.Route("/tracks", func(r chi.Router) {
			r.Use(requireService(s.tracks != nil))
			r.Get("/search", s.handleTrackSearch)
			r.Get("/{trackID}", s.handleTrackDetail)
		})
		r.Route("/youtube", func(r chi.Router) {
			r.Use(requireService(s.channels != nil))
			r.Get("/channel", s.handleChannelInfo)
			r.Get("/channel/videos", s.handleChannelVideos)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requireService 404s a route group whose backing service is not wired.
func requireService(enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if enabled {
			return next
		}
		return http.NotFoundHandler()
	}
}

// requestLogger logs one line per request with the zerolog logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		logger := config.GetLogger()
		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("Request handled")
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger := config.GetLogger()
		logger.Error().Err(err).Msg("Failed to encode response")
	}
}
