package catalog

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"shelfscan/internal/logging"
	"shelfscan/internal/movie"
	"shelfscan/internal/services"
	"shelfscan/internal/titles"
)

var (
	// ErrNotConfigured marks a backend that cannot run without credentials.
	ErrNotConfigured = errors.New("catalog not configured")
	// ErrRateLimited marks a backend whose local request quota is exhausted.
	ErrRateLimited = errors.New("catalog request quota exhausted")
)

// Candidate is an unconfirmed movie title derived from one catalog listing.
type Candidate struct {
	Title  string
	Format movie.Format
	Source string
}

// Backend is one external product catalog keyed by barcode. Attempt returns
// (nil, nil) when the catalog has no usable listing.
type Backend interface {
	Name() string
	Attempt(ctx context.Context, barcode string) (*Candidate, error)
}

// Chain queries backends in order and stops at the first usable candidate.
type Chain struct {
	backends []Backend
	logger   *slog.Logger
}

// NewChain builds a chain over the supplied backends. Nil entries are ignored.
func NewChain(logger *slog.Logger, backends ...Backend) *Chain {
	ordered := make([]Backend, 0, len(backends))
	for _, backend := range backends {
		if backend != nil {
			ordered = append(ordered, backend)
		}
	}
	return &Chain{
		backends: ordered,
		logger:   logging.NewComponentLogger(logger, "catalog"),
	}
}

// Names lists backend names in query order.
func (c *Chain) Names() []string {
	names := make([]string, 0, len(c.backends))
	for _, backend := range c.backends {
		names = append(names, backend.Name())
	}
	return names
}

// Lookup returns the first usable candidate or nil when every backend misses.
func (c *Chain) Lookup(ctx context.Context, barcode string) *Candidate {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil
	}
	ctx = services.WithStage(services.WithBarcode(ctx, barcode), "catalog")
	logger := logging.WithContext(ctx, c.logger)

	for _, backend := range c.backends {
		candidate, err := backend.Attempt(ctx, barcode)
		switch {
		case errors.Is(err, ErrNotConfigured), errors.Is(err, ErrRateLimited):
			logger.Debug("catalog skipped",
				logging.String(logging.FieldSource, backend.Name()),
				logging.String("reason", err.Error()),
			)
			continue
		case err != nil:
			logging.WarnWithContext(logger, "catalog request failed", "catalog_request_failed",
				logging.String(logging.FieldSource, backend.Name()),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check network access and the catalog base url"),
				logging.String(logging.FieldImpact, "next catalog tried"),
			)
			continue
		case candidate == nil:
			logger.Debug("catalog had no usable listing", logging.String(logging.FieldSource, backend.Name()))
			continue
		}
		logger.Info("catalog candidate found",
			logging.String(logging.FieldSource, candidate.Source),
			logging.String("title", candidate.Title),
			logging.String("format", candidate.Format.String()),
		)
		return candidate
	}
	logger.Info("no catalog matched barcode", logging.Int("backends", len(c.backends)))
	return nil
}

// newCandidate applies the shared title length rule.
func newCandidate(cleaned string, format movie.Format, source string) *Candidate {
	if !titles.Usable(cleaned) {
		return nil
	}
	return &Candidate{Title: cleaned, Format: format, Source: source}
}
