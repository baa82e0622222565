package httpclient

import (
	"net/http"
	"net/url"
	"time"

	"github.com/goddivor/solo-base-notes-api/internal/config"
)

// New builds the shared *http.Client used by every provider client: timeout
// from config, optional proxy, transparent response decompression.
func New(cfg *config.Config) *http.Client {
	timeout := 30 * time.Second // default
	if cfg.ClientTimeout != "" {
		if parsed, err := time.ParseDuration(cfg.ClientTimeout); err != nil {
			logger := config.GetLogger()
			logger.Warn().Err(err).Str("timeout", cfg.ClientTimeout).Msg("Invalid timeout duration, using default 30s")
		} else {
			timeout = parsed
		}
	}

	// Clone DefaultTransport to preserve its connection pooling and HTTP/2
	// settings.
	baseTransport := http.DefaultTransport.(*http.Transport).Clone()

	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			logger := config.GetLogger()
			logger.Warn().Err(err).Str("proxy", cfg.Proxy).Msg("Invalid proxy URL, continuing without proxy")
		} else {
			baseTransport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: NewCompressionTransport(baseTransport),
	}
}
