// Package pipeline composes the catalog chain and metadata resolver into the
// barcode and title lookups exposed by the CLI and HTTP API.
package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"shelfscan/internal/catalog"
	"shelfscan/internal/logging"
	"shelfscan/internal/movie"
	"shelfscan/internal/services"
)

// CandidateFinder yields a candidate title for a barcode.
type CandidateFinder interface {
	Lookup(ctx context.Context, barcode string) *catalog.Candidate
}

// TitleResolver yields a movie record for a title.
type TitleResolver interface {
	Resolve(ctx context.Context, title string) (*movie.Record, error)
}

// Pipeline resolves barcodes and titles into movie records.
type Pipeline struct {
	finder   CandidateFinder
	resolver TitleResolver
	logger   *slog.Logger
}

// New constructs a pipeline.
func New(finder CandidateFinder, resolver TitleResolver, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		finder:   finder,
		resolver: resolver,
		logger:   logging.NewComponentLogger(logger, "pipeline"),
	}
}

// ResolveBarcode maps a barcode to a movie record, or nil when no catalog
// lists it or the catalog title has no metadata match. Only the first
// candidate title is tried.
func (p *Pipeline) ResolveBarcode(ctx context.Context, barcode string) *movie.Record {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil
	}
	ctx = services.WithBarcode(ctx, barcode)
	logger := logging.WithContext(ctx, p.logger)

	candidate := p.finder.Lookup(ctx, barcode)
	if candidate == nil {
		logger.Info("barcode not found in any catalog")
		return nil
	}

	record, err := p.resolver.Resolve(ctx, candidate.Title)
	if err != nil {
		logging.WarnWithContext(logger, "metadata resolution failed", "metadata_failed",
			logging.String("title", candidate.Title),
			logging.String(logging.FieldSource, candidate.Source),
			logging.Error(err),
			logging.String(logging.FieldImpact, "barcode reported as not found"),
		)
		return nil
	}
	if record == nil {
		logger.Info("catalog title has no metadata match",
			logging.String("title", candidate.Title),
			logging.String(logging.FieldSource, candidate.Source),
		)
		return nil
	}

	if record.Format == movie.FormatNone {
		record.Format = candidate.Format
	}
	record.Barcode = barcode
	record.LookupSource = candidate.Source
	logger.Info("barcode resolved",
		logging.String("title", record.Title),
		logging.String("format", record.Format.String()),
		logging.String(logging.FieldSource, record.LookupSource),
	)
	return record
}

// ResolveTitle bypasses the catalogs and resolves a user-supplied title.
func (p *Pipeline) ResolveTitle(ctx context.Context, title string) *movie.Record {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}
	record, err := p.resolver.Resolve(ctx, title)
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, p.logger), "title resolution failed", "metadata_failed",
			logging.String("title", title),
			logging.Error(err),
			logging.String(logging.FieldImpact, "title reported as not found"),
		)
		return nil
	}
	return record
}
