// Package mapping translates MyAnimeList ids to the IMDb-style ids the
// subtitle provider keys on, using two interchangeable lookup services with
// a single-fallback policy.
package mapping

import (
	"context"

	"github.com/goddivor/solo-base-notes-api/internal/apperrors"
	"github.com/goddivor/solo-base-notes-api/internal/config"
	"github.com/goddivor/solo-base-notes-api/internal/metrics"
)

// Provider is one id-mapping service. Lookup returns the IMDb id for a MAL
// id, or "" with a nil error when the service has no mapping — absence of a
// mapping is a legitimate outcome, distinct from a failed call.
type Provider interface {
	Name() string
	Lookup(ctx context.Context, malID int) (string, error)
}

// Resolver resolves MAL ids against a preferred provider with exactly one
// fallback attempt against the other when the preferred call fails for any
// reason other than "no mapping".
type Resolver struct {
	providers map[string]Provider
	preferred string
}

// NewResolver builds a resolver over the given providers. preferred names
// the default provider consulted first; callers may override it per call.
func NewResolver(preferred string, providers ...Provider) *Resolver {
	byName := make(map[string]Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &Resolver{providers: byName, preferred: preferred}
}

// Resolve returns the IMDb id for malID, or "" when neither provider knows
// a mapping. preferred selects the provider to try first ("" uses the
// configured default). When the preferred provider reports "no mapping" the
// fallback is not consulted. When both providers fail, the error wraps the
// preferred provider's original failure.
func (r *Resolver) Resolve(ctx context.Context, malID int, preferred string) (string, error) {
	logger := config.GetLogger()

	if preferred == "" {
		preferred = r.preferred
	}
	primary, ok := r.providers[preferred]
	if !ok {
		return "", &apperrors.ErrValidation{Field: "mappingService", Reason: "unknown provider " + preferred}
	}

	imdbID, primaryErr := primary.Lookup(ctx, malID)
	if primaryErr == nil {
		if imdbID == "" {
			logger.Debug().Int("malID", malID).Str("provider", primary.Name()).Msg("No IMDb mapping found")
		}
		return imdbID, nil
	}

	fallback := r.other(primary.Name())
	if fallback == nil {
		return "", primaryErr
	}

	logger.Warn().Err(primaryErr).
		Str("provider", primary.Name()).
		Str("fallback", fallback.Name()).
		Int("malID", malID).
		Msg("Mapping provider failed, trying fallback")
	metrics.MappingFallbacksTotal.Inc()

	imdbID, fallbackErr := fallback.Lookup(ctx, malID)
	if fallbackErr == nil {
		return imdbID, nil
	}

	logger.Error().Err(fallbackErr).
		Str("provider", fallback.Name()).
		Int("malID", malID).
		Msg("Fallback mapping provider also failed")

	return "", &apperrors.ErrMapping{
		Primary:  primary.Name(),
		Fallback: fallback.Name(),
		Err:      primaryErr,
	}
}

// other returns the one provider that is not named name, or nil when the
// resolver holds fewer than two providers.
func (r *Resolver) other(name string) Provider {
	for n, p := range r.providers {
		if n != name {
			return p
		}
	}
	return nil
}
