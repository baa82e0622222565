package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goddivor/solo-base-notes-api/internal/anime"
	"github.com/goddivor/solo-base-notes-api/internal/api"
	"github.com/goddivor/solo-base-notes-api/internal/cache"
	"github.com/goddivor/solo-base-notes-api/internal/config"
	"github.com/goddivor/solo-base-notes-api/internal/httpclient"
	"github.com/goddivor/solo-base-notes-api/internal/mapping"
	"github.com/goddivor/solo-base-notes-api/internal/metrics"
	"github.com/goddivor/solo-base-notes-api/internal/opensubtitles"
	"github.com/goddivor/solo-base-notes-api/internal/services"
	"github.com/goddivor/solo-base-notes-api/internal/spotify"
	"github.com/goddivor/solo-base-notes-api/internal/youtube"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger := config.GetLogger()
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}
	config.ConfigureLogging(cfg)
	logger := config.GetLogger()

	httpClient := httpclient.New(cfg)

	cacheTTL := time.Hour
	if cfg.Cache.TTL != "" {
		if parsed, err := time.ParseDuration(cfg.Cache.TTL); err == nil {
			cacheTTL = parsed
		} else {
			logger.Warn().Err(err).Str("ttl", cfg.Cache.TTL).Msg("Invalid cache TTL, using default 1h")
		}
	}
	newCache := func(group string) cache.Cache {
		c, err := cache.New(cfg.Cache.Provider, cache.ProviderConfig{
			Size:          cfg.Cache.Size,
			TTL:           cacheTTL,
			RedisAddress:  cfg.Cache.RedisAddress,
			RedisPassword: cfg.Cache.RedisPassword,
			RedisDB:       cfg.Cache.RedisDB,
			Group:         group,
		})
		if err != nil {
			logger.Fatal().Err(err).Str("provider", cfg.Cache.Provider).Str("group", group).Msg("Failed to create cache")
		}
		return c
	}
	subtitleCache := newCache("subtitles")
	metadataCache := newCache("anime")
	defer subtitleCache.Close()
	defer metadataCache.Close()

	resolver := mapping.NewResolver(cfg.Mapping.Preferred,
		mapping.NewARMProvider(httpClient, cfg.Mapping.ARMBaseURL),
		mapping.NewIdsMoeProvider(httpClient, cfg.Mapping.IdsMoeBaseURL, cfg.Mapping.IdsMoeAPIKey),
	)

	subtitleClient := opensubtitles.NewClient(httpClient, opensubtitles.Config{
		BaseURL:   cfg.OpenSubtitles.BaseURL,
		APIKey:    cfg.OpenSubtitles.APIKey,
		Username:  cfg.OpenSubtitles.Username,
		Password:  cfg.OpenSubtitles.Password,
		UserAgent: cfg.OpenSubtitles.UserAgent,
	})

	subtitleService := services.NewSubtitleService(subtitleClient, resolver, subtitleCache)

	animeService := anime.NewService(
		anime.NewJikanClient(httpClient, cfg.Anime.JikanBaseURL),
		anime.NewMALClient(httpClient, cfg.Anime.MALBaseURL, cfg.Anime.MALClientID),
		metadataCache,
	)

	spotifyClient := spotify.NewClient(httpClient, spotify.Config{
		BaseURL:      cfg.Spotify.BaseURL,
		AccountsURL:  cfg.Spotify.AccountsURL,
		ClientID:     cfg.Spotify.ClientID,
		ClientSecret: cfg.Spotify.ClientSecret,
	})

	youtubeClient := youtube.NewClient(httpClient, cfg.YouTube.BaseURL, cfg.YouTube.APIKey)

	apiServer := api.NewServer(subtitleService, animeService, spotifyClient, youtubeClient)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port),
		Handler:           apiServer.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	metricsServer := metrics.NewHTTPServer(cfg.Metrics.Address, cfg.Metrics.Port)

	go func() {
		logger.Info().Str("addr", metricsServer.Addr).Msg("Starting metrics server")
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("Metrics server failed")
		}
	}()

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("API server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info().Msg("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("API server shutdown failed")
	}
	if err := metricsServer.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Metrics server shutdown failed")
	}
}
