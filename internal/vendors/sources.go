// Package vendors queries external price sources. Every source applies its
// own timeout and fails soft: a network or parse problem yields "no quote",
// never an error that escapes into the search or batch flow.
package vendors

import (
	"context"

	"github.com/rs/zerolog/log"

	"pricedb/internal"
	"pricedb/internal/config"
)

// Source is one external price source.
type Source interface {
	Name() string
	// GetQuote returns nil when the part is unknown to the source.
	GetQuote(ctx context.Context, part string) (*internal.Quote, error)
}

// Recorder persists fetched quotes for history; may be nil.
type Recorder interface {
	RecordQuote(part string, q internal.Quote) error
}

type FetchService struct {
	sources  []Source
	limiter  *RateLimiter
	recorder Recorder
}

// NewFetchService wires up every source whose credentials are configured.
// The scraper needs none and is always on.
func NewFetchService(cfg config.Config, recorder Recorder) *FetchService {
	sources := []Source{NewACClient(cfg)}
	if cfg.MouserAPIKey != "" {
		sources = append(sources, NewMouserClient(cfg))
	}
	if cfg.NexarClientID != "" || cfg.NexarClientSecret != "" {
		octopart, err := NewOctopartClient(cfg)
		if err != nil {
			log.Warn().Err(err).Msg("octopart source disabled")
		} else {
			sources = append(sources, octopart)
		}
	}
	return &FetchService{
		sources:  sources,
		limiter:  NewRateLimiter(cfg.VendorRateLimitRPS),
		recorder: recorder,
	}
}

// NewFetchServiceWith builds a fetch service over an explicit source list;
// used by tests and callers composing their own sources.
func NewFetchServiceWith(limiter *RateLimiter, recorder Recorder, sources ...Source) *FetchService {
	if limiter == nil {
		limiter = NewRateLimiter(1000)
	}
	return &FetchService{sources: sources, limiter: limiter, recorder: recorder}
}

// GetQuotes fans the part number across all sources in order and collects
// whatever came back.
func (s *FetchService) GetQuotes(ctx context.Context, part string) []internal.Quote {
	if part == "" {
		return nil
	}
	out := make([]internal.Quote, 0, len(s.sources))
	for _, src := range s.sources {
		if err := s.limiter.Wait(ctx); err != nil {
			return out
		}

		quote, err := src.GetQuote(ctx, part)
		if err != nil {
			log.Warn().Err(err).Str("source", src.Name()).Str("part", part).Msg("quote fetch failed")
			continue
		}
		if quote == nil {
			continue
		}
		out = append(out, *quote)
		if s.recorder != nil {
			if err := s.recorder.RecordQuote(part, *quote); err != nil {
				log.Warn().Err(err).Str("part", part).Msg("quote history write failed")
			}
		}
	}
	return out
}
