package testsupport

import (
	"path/filepath"
	"testing"

	"shelfscan/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Catalogs are disabled and no TMDB key is set unless options add them, so
// tests never reach the network by accident.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Catalogs.Enabled = []string{}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithTMDB points the resolver at baseURL using the given key.
func WithTMDB(key, baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.TMDB.APIKey = key
		if baseURL != "" {
			b.cfg.TMDB.BaseURL = baseURL
		}
	}
}

// WithCatalogs enables the named catalogs, each served from baseURL.
func WithCatalogs(baseURL string, names ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalogs.Enabled = append([]string(nil), names...)
		b.cfg.Catalogs.UPCItemDBBaseURL = baseURL
		b.cfg.Catalogs.OpenFoodFactsBaseURL = baseURL
		b.cfg.Catalogs.BarcodeLookupBaseURL = baseURL
	}
}

// WithAPIToken requires bearer authentication on the HTTP API.
func WithAPIToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.APIToken = token
	}
}

// WithDefaultCondition overrides the condition applied to new entries.
func WithDefaultCondition(condition string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Collection.DefaultCondition = condition
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}

// WithMaxBodyMiB overrides the HTTP request body limit.
func WithMaxBodyMiB(mib int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Server.MaxBodyMiB = mib
	}
}
