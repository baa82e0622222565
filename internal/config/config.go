package config

import (
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// DefaultUserAgent identifies this service to the external APIs that require
// a User-Agent (OpenSubtitles rejects requests without one).
const DefaultUserAgent = "solo-base-notes-api v1"

// Config holds every tunable of the service. Values come from config.yaml
// with APP_-prefixed environment overrides.
type Config struct {
	LogLevel      string `mapstructure:"log_level"`
	ClientTimeout string `mapstructure:"client_timeout"` // Go duration string like "30s"
	Proxy         string `mapstructure:"proxy"`
	UserAgent     string `mapstructure:"user_agent"`

	Server struct {
		Address string `mapstructure:"address"`
		Port    int    `mapstructure:"port"`
	} `mapstructure:"server"`

	Metrics struct {
		Address string `mapstructure:"address"`
		Port    int    `mapstructure:"port"`
	} `mapstructure:"metrics"`

	Cache struct {
		Provider      string `mapstructure:"provider"` // "memory" or "redis"
		Size          int    `mapstructure:"size"`
		TTL           string `mapstructure:"ttl"` // Go duration string like "1h"
		RedisAddress  string `mapstructure:"redis_address"`
		RedisPassword string `mapstructure:"redis_password"`
		RedisDB       int    `mapstructure:"redis_db"`
	} `mapstructure:"cache"`

	OpenSubtitles struct {
		BaseURL   string `mapstructure:"base_url"`
		APIKey    string `mapstructure:"api_key"`
		Username  string `mapstructure:"username"`
		Password  string `mapstructure:"password"`
		UserAgent string `mapstructure:"user_agent"`
	} `mapstructure:"opensubtitles"`

	Mapping struct {
		Preferred     string `mapstructure:"preferred"` // "arm" or "idsmoe"
		ARMBaseURL    string `mapstructure:"arm_base_url"`
		IdsMoeBaseURL string `mapstructure:"idsmoe_base_url"`
		IdsMoeAPIKey  string `mapstructure:"idsmoe_api_key"`
	} `mapstructure:"mapping"`

	Anime struct {
		JikanBaseURL string `mapstructure:"jikan_base_url"`
		MALBaseURL   string `mapstructure:"mal_base_url"`
		MALClientID  string `mapstructure:"mal_client_id"`
	} `mapstructure:"anime"`

	Spotify struct {
		BaseURL      string `mapstructure:"base_url"`
		AccountsURL  string `mapstructure:"accounts_url"`
		ClientID     string `mapstructure:"client_id"`
		ClientSecret string `mapstructure:"client_secret"`
	} `mapstructure:"spotify"`

	YouTube struct {
		BaseURL string `mapstructure:"base_url"`
		APIKey  string `mapstructure:"api_key"`
	} `mapstructure:"youtube"`
}

var (
	loggerOnce sync.Once
	logger     zerolog.Logger
)

// GetLogger returns the process-wide logger. The level is adjusted by
// ConfigureLogging once the config has been loaded.
func GetLogger() zerolog.Logger {
	loggerOnce.Do(func() {
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:     os.Stdout,
			NoColor: false,
		}).With().Timestamp().Logger()
	})
	return logger
}

// ConfigureLogging applies the configured log level to the global logger.
func ConfigureLogging(cfg *Config) {
	log := GetLogger()

	level := zerolog.InfoLevel
	if cfg.LogLevel != "" {
		if parsed, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
			level = parsed
		} else {
			log.Warn().Str("invalid_level", cfg.LogLevel).Msg("Invalid log level, using default 'info'")
		}
	}

	zerolog.SetGlobalLevel(level)
	logger = log.Level(level)
	logger.Info().Str("level", level.String()).Msg("Logging configured")
}

// LoadConfig reads config.yaml (working directory or ./config) merged with
// APP_-prefixed environment variables and fills in defaults.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	_ = viper.BindEnv("log_level", "LOG_LEVEL")

	viper.SetDefault("server.address", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("metrics.address", "0.0.0.0")
	viper.SetDefault("metrics.port", 9090)
	viper.SetDefault("cache.provider", "memory")
	viper.SetDefault("cache.size", 256)
	viper.SetDefault("cache.ttl", "1h")
	viper.SetDefault("mapping.preferred", "arm")
	viper.SetDefault("mapping.arm_base_url", "https://arm.haglund.dev")
	viper.SetDefault("mapping.idsmoe_base_url", "https://api.ids.moe")
	viper.SetDefault("opensubtitles.base_url", "https://api.opensubtitles.com/api/v1")
	viper.SetDefault("anime.jikan_base_url", "https://api.jikan.moe/v4")
	viper.SetDefault("anime.mal_base_url", "https://api.myanimelist.net/v2")
	viper.SetDefault("spotify.base_url", "https://api.spotify.com/v1")
	viper.SetDefault("spotify.accounts_url", "https://accounts.spotify.com")
	viper.SetDefault("youtube.base_url", "https://www.googleapis.com/youtube/v3")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	if config.OpenSubtitles.UserAgent == "" {
		config.OpenSubtitles.UserAgent = config.UserAgent
	}

	return &config, nil
}
