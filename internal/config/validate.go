package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable. A missing TMDB key is not an
// error here: decoding and collection management work without it, and the
// resolver reports the gap when a lookup is attempted.
func (c *Config) Validate() error {
	if err := c.validateURLs(); err != nil {
		return err
	}
	if err := c.validateCatalogs(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := ensurePositiveMap(map[string]int{
		"catalogs.timeout_seconds":     c.Catalogs.TimeoutSeconds,
		"server.max_body_mib":          c.Server.MaxBodyMiB,
		"server.read_timeout_seconds":  c.Server.ReadTimeoutSeconds,
		"server.write_timeout_seconds": c.Server.WriteTimeoutSeconds,
	}); err != nil {
		return err
	}
	if strings.TrimSpace(c.Collection.DefaultCondition) == "" {
		return errors.New("collection.default_condition must be set")
	}
	return nil
}

func (c *Config) validateURLs() error {
	for key, value := range map[string]string{
		"tmdb.base_url":                   c.TMDB.BaseURL,
		"tmdb.image_base_url":             c.TMDB.ImageBaseURL,
		"catalogs.upcitemdb_base_url":     c.Catalogs.UPCItemDBBaseURL,
		"catalogs.openfoodfacts_base_url": c.Catalogs.OpenFoodFactsBaseURL,
		"catalogs.barcodelookup_base_url": c.Catalogs.BarcodeLookupBaseURL,
	} {
		parsed, err := url.Parse(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return fmt.Errorf("%s must be an http(s) url, got %q", key, value)
		}
	}
	return nil
}

func (c *Config) validateCatalogs() error {
	known := map[string]struct{}{
		CatalogUPCItemDB:     {},
		CatalogOpenFoodFacts: {},
		CatalogBarcodeLookup: {},
	}
	for _, name := range c.Catalogs.Enabled {
		if _, ok := known[name]; !ok {
			return fmt.Errorf("catalogs.enabled: unknown catalog %q (expected one of %s)", name, strings.Join(DefaultCatalogOrder, ", "))
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
