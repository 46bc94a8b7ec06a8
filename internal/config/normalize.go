package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTMDB()
	c.normalizeCatalogs()
	c.normalizeServer()
	c.normalizeCollection()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	if c.Paths.APIToken == "" {
		if value, ok := os.LookupEnv("SHELFSCAN_API_TOKEN"); ok {
			c.Paths.APIToken = strings.TrimSpace(value)
		}
	}
	return nil
}

func (c *Config) normalizeTMDB() {
	c.TMDB.APIKey = strings.TrimSpace(c.TMDB.APIKey)
	if c.TMDB.APIKey == "" {
		if value, ok := os.LookupEnv("TMDB_API_KEY"); ok {
			c.TMDB.APIKey = strings.TrimSpace(value)
		}
	}
	c.TMDB.BaseURL = strings.TrimSpace(c.TMDB.BaseURL)
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = defaultTMDBBaseURL
	}
	c.TMDB.ImageBaseURL = strings.TrimSpace(c.TMDB.ImageBaseURL)
	if c.TMDB.ImageBaseURL == "" {
		c.TMDB.ImageBaseURL = defaultTMDBImageBaseURL
	}
	c.TMDB.Language = strings.TrimSpace(c.TMDB.Language)
}

func (c *Config) normalizeCatalogs() {
	if c.Catalogs.TimeoutSeconds <= 0 {
		c.Catalogs.TimeoutSeconds = defaultCatalogTimeoutSeconds
	}
	c.Catalogs.UserAgent = strings.TrimSpace(c.Catalogs.UserAgent)
	if c.Catalogs.UserAgent == "" {
		c.Catalogs.UserAgent = defaultCatalogUserAgent
	}
	c.Catalogs.UPCItemDBBaseURL = strings.TrimSpace(c.Catalogs.UPCItemDBBaseURL)
	if c.Catalogs.UPCItemDBBaseURL == "" {
		c.Catalogs.UPCItemDBBaseURL = defaultUPCItemDBBaseURL
	}
	if c.Catalogs.UPCItemDBRequestsPerMinute < 0 {
		c.Catalogs.UPCItemDBRequestsPerMinute = 0
	}
	c.Catalogs.OpenFoodFactsBaseURL = strings.TrimSpace(c.Catalogs.OpenFoodFactsBaseURL)
	if c.Catalogs.OpenFoodFactsBaseURL == "" {
		c.Catalogs.OpenFoodFactsBaseURL = defaultOpenFoodFactsBaseURL
	}
	c.Catalogs.BarcodeLookupBaseURL = strings.TrimSpace(c.Catalogs.BarcodeLookupBaseURL)
	if c.Catalogs.BarcodeLookupBaseURL == "" {
		c.Catalogs.BarcodeLookupBaseURL = defaultBarcodeLookupBaseURL
	}
	c.Catalogs.BarcodeLookupAPIKey = strings.TrimSpace(c.Catalogs.BarcodeLookupAPIKey)
	if c.Catalogs.BarcodeLookupAPIKey == "" {
		if value, ok := os.LookupEnv("BARCODE_LOOKUP_API_KEY"); ok {
			c.Catalogs.BarcodeLookupAPIKey = strings.TrimSpace(value)
		}
	}

	if c.Catalogs.Enabled == nil {
		c.Catalogs.Enabled = append([]string(nil), DefaultCatalogOrder...)
		return
	}
	names := make([]string, 0, len(c.Catalogs.Enabled))
	seen := make(map[string]struct{}, len(c.Catalogs.Enabled))
	for _, name := range c.Catalogs.Enabled {
		normalized := strings.ToLower(strings.TrimSpace(name))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		names = append(names, normalized)
	}
	c.Catalogs.Enabled = names
}

func (c *Config) normalizeServer() {
	if c.Server.MaxBodyMiB <= 0 {
		c.Server.MaxBodyMiB = defaultMaxBodyMiB
	}
	if c.Server.ReadTimeoutSeconds <= 0 {
		c.Server.ReadTimeoutSeconds = defaultReadTimeoutSeconds
	}
	if c.Server.WriteTimeoutSeconds <= 0 {
		c.Server.WriteTimeoutSeconds = defaultWriteTimeoutSeconds
	}
}

func (c *Config) normalizeCollection() {
	c.Collection.DefaultCondition = strings.TrimSpace(c.Collection.DefaultCondition)
	if c.Collection.DefaultCondition == "" {
		c.Collection.DefaultCondition = defaultCondition
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
