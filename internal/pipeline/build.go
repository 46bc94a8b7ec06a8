package pipeline

import (
	"fmt"
	"log/slog"

	"shelfscan/internal/catalog"
	"shelfscan/internal/config"
	"shelfscan/internal/metadata"
	"shelfscan/internal/tmdb"
)

// FromConfig wires the enabled catalogs and the TMDB resolver. A missing TMDB
// key is not an error here; the resolver reports it per lookup.
func FromConfig(cfg *config.Config, logger *slog.Logger) (*Pipeline, error) {
	if cfg == nil {
		return nil, fmt.Errorf("pipeline: config is required")
	}
	backends, err := catalog.BackendsFromConfig(cfg, nil)
	if err != nil {
		return nil, err
	}
	chain := catalog.NewChain(logger, backends...)

	var api tmdb.API
	if cfg.TMDBConfigured() {
		client, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language, tmdb.WithTimeout(cfg.CatalogTimeout()))
		if err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
		api = client
	}
	resolver := metadata.NewResolver(api, cfg.TMDB.ImageBaseURL, logger)
	return New(chain, resolver, logger), nil
}

// Backends lists the catalog names queried for barcodes, in order.
func (p *Pipeline) Backends() []string {
	if named, ok := p.finder.(interface{ Names() []string }); ok {
		return named.Names()
	}
	return nil
}

// MetadataConfigured reports whether titles can be resolved.
func (p *Pipeline) MetadataConfigured() bool {
	if configured, ok := p.resolver.(interface{ Configured() bool }); ok {
		return configured.Configured()
	}
	return p.resolver != nil
}
