package catalog

import (
	"fmt"
	"net/http"

	"shelfscan/internal/config"
)

// BackendsFromConfig instantiates the enabled catalogs in configured order.
// client may be nil to use a per-backend client with the configured timeout.
func BackendsFromConfig(cfg *config.Config, client *http.Client) ([]Backend, error) {
	if cfg == nil {
		return nil, fmt.Errorf("catalog: config is required")
	}
	timeout := cfg.CatalogTimeout()
	userAgent := cfg.Catalogs.UserAgent

	backends := make([]Backend, 0, len(cfg.Catalogs.Enabled))
	for _, name := range cfg.Catalogs.Enabled {
		switch name {
		case config.CatalogUPCItemDB:
			backends = append(backends, NewUPCItemDB(UPCItemDBOptions{
				BaseURL:           cfg.Catalogs.UPCItemDBBaseURL,
				RequestsPerMinute: cfg.Catalogs.UPCItemDBRequestsPerMinute,
				Timeout:           timeout,
				UserAgent:         userAgent,
				HTTPClient:        client,
			}))
		case config.CatalogOpenFoodFacts:
			backends = append(backends, NewOpenFoodFacts(cfg.Catalogs.OpenFoodFactsBaseURL, timeout, userAgent, client))
		case config.CatalogBarcodeLookup:
			backends = append(backends, NewBarcodeLookup(cfg.Catalogs.BarcodeLookupBaseURL, cfg.Catalogs.BarcodeLookupAPIKey, timeout, userAgent, client))
		default:
			return nil, fmt.Errorf("catalog: unknown backend %q", name)
		}
	}
	return backends, nil
}
