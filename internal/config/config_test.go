package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"shelfscan/internal/config"
)

func TestLoadDefaultConfigUsesEnvTMDBKeyAndExpandsPaths(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "test-key")
	t.Setenv("BARCODE_LOOKUP_API_KEY", "")
	t.Setenv("SHELFSCAN_API_TOKEN", "")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "shelfscan", "config.toml") {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "shelfscan")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.DatabasePath() != filepath.Join(wantData, "collection.db") {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}
	if cfg.Paths.APIBind != "127.0.0.1:5000" {
		t.Fatalf("unexpected api bind: %q", cfg.Paths.APIBind)
	}
	if cfg.TMDB.APIKey != "test-key" {
		t.Fatalf("expected TMDB key from env, got %q", cfg.TMDB.APIKey)
	}
	if !cfg.TMDBConfigured() {
		t.Fatal("expected TMDB to report configured")
	}
	if cfg.TMDB.ImageBaseURL != "https://image.tmdb.org/t/p/w500" {
		t.Fatalf("unexpected image base url: %q", cfg.TMDB.ImageBaseURL)
	}
	if strings.Join(cfg.Catalogs.Enabled, ",") != "upcitemdb,openfoodfacts,barcodelookup" {
		t.Fatalf("unexpected catalog order: %v", cfg.Catalogs.Enabled)
	}
	if cfg.Catalogs.UPCItemDBRequestsPerMinute != 6 {
		t.Fatalf("unexpected upcitemdb rate: %d", cfg.Catalogs.UPCItemDBRequestsPerMinute)
	}
	if cfg.CatalogTimeout().Seconds() != 10 {
		t.Fatalf("unexpected catalog timeout: %s", cfg.CatalogTimeout())
	}
	if cfg.MaxBodyBytes() != 16<<20 {
		t.Fatalf("unexpected body limit: %d", cfg.MaxBodyBytes())
	}
	if cfg.Collection.DefaultCondition != "Good" {
		t.Fatalf("unexpected default condition: %q", cfg.Collection.DefaultCondition)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadWithoutTMDBKeySucceeds(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.TMDBConfigured() {
		t.Fatal("expected TMDB to report unconfigured")
	}
}

func TestLoadCustomPath(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "shelfscan.toml")

	custom := struct {
		Paths struct {
			DataDir string `toml:"data_dir"`
		} `toml:"paths"`
		TMDB struct {
			APIKey  string `toml:"api_key"`
			BaseURL string `toml:"base_url"`
		} `toml:"tmdb"`
		Catalogs struct {
			Enabled []string `toml:"enabled"`
		} `toml:"catalogs"`
	}{}
	custom.Paths.DataDir = filepath.Join(tempDir, "data")
	custom.TMDB.APIKey = "file-key"
	custom.TMDB.BaseURL = "https://example.test/3"
	custom.Catalogs.Enabled = []string{" OpenFoodFacts ", "upcitemdb", "openfoodfacts", ""}

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Paths.DataDir != custom.Paths.DataDir {
		t.Fatalf("unexpected data dir: %q", cfg.Paths.DataDir)
	}
	if cfg.TMDB.APIKey != "file-key" {
		t.Fatalf("unexpected api key: %q", cfg.TMDB.APIKey)
	}
	if cfg.TMDB.BaseURL != "https://example.test/3" {
		t.Fatalf("unexpected base url: %q", cfg.TMDB.BaseURL)
	}
	if got := strings.Join(cfg.Catalogs.Enabled, ","); got != "openfoodfacts,upcitemdb" {
		t.Fatalf("expected normalized catalog order, got %q", got)
	}
	if cfg.Catalogs.TimeoutSeconds != 10 {
		t.Fatalf("expected default timeout preserved, got %d", cfg.Catalogs.TimeoutSeconds)
	}
}

func TestConfigFileValueWinsOverEnvFallback(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "env-key")
	t.Setenv("BARCODE_LOOKUP_API_KEY", "env-barcode")
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "shelfscan.toml")
	contents := "[tmdb]\napi_key = \"file-key\"\n"
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.TMDB.APIKey != "file-key" {
		t.Fatalf("expected file key to win, got %q", cfg.TMDB.APIKey)
	}
	if cfg.Catalogs.BarcodeLookupAPIKey != "env-barcode" {
		t.Fatalf("expected env fallback for barcode lookup key, got %q", cfg.Catalogs.BarcodeLookupAPIKey)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(configPath, []byte("[paths\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("sample config is not valid TOML: %v", err)
	}
	if cfg.Paths.APIBind != "127.0.0.1:5000" {
		t.Fatalf("unexpected sample api bind: %q", cfg.Paths.APIBind)
	}
	if len(cfg.Catalogs.Enabled) != 3 {
		t.Fatalf("expected sample to list all catalogs, got %v", cfg.Catalogs.Enabled)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{
			name:   "unknown catalog",
			mutate: func(c *config.Config) { c.Catalogs.Enabled = []string{"amazon"} },
			want:   "catalogs.enabled",
		},
		{
			name:   "bad url",
			mutate: func(c *config.Config) { c.TMDB.BaseURL = "ftp://example.test" },
			want:   "tmdb.base_url",
		},
		{
			name:   "bad level",
			mutate: func(c *config.Config) { c.Logging.Level = "chatty" },
			want:   "logging.level",
		},
		{
			name:   "zero timeout",
			mutate: func(c *config.Config) { c.Catalogs.TimeoutSeconds = 0 },
			want:   "catalogs.timeout_seconds",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error to mention %q, got %v", tt.want, err)
			}
		})
	}
}

func TestRedactedMasksSecrets(t *testing.T) {
	cfg := config.Default()
	cfg.TMDB.APIKey = "secret"
	cfg.Paths.APIToken = "token"
	redacted := cfg.Redacted()
	if redacted.TMDB.APIKey == "secret" || redacted.Paths.APIToken == "token" {
		t.Fatalf("expected secrets masked, got %+v", redacted)
	}
	if cfg.TMDB.APIKey != "secret" {
		t.Fatal("expected original config untouched")
	}
}

func TestWriteTimeoutCoversFullLookup(t *testing.T) {
	cfg := config.Default()
	if got := cfg.WriteTimeout(); got != 75*time.Second {
		t.Fatalf("expected default 75s, got %v", got)
	}
	if got := cfg.WriteTimeout(); got <= 6*cfg.CatalogTimeout() {
		t.Fatalf("write timeout %v does not cover six calls at %v", got, cfg.CatalogTimeout())
	}

	cfg.Server.WriteTimeoutSeconds = 30
	cfg.Catalogs.TimeoutSeconds = 20
	if got := cfg.WriteTimeout(); got != 135*time.Second {
		t.Fatalf("expected write timeout raised to 135s, got %v", got)
	}

	cfg.Server.WriteTimeoutSeconds = 300
	if got := cfg.WriteTimeout(); got != 300*time.Second {
		t.Fatalf("expected configured 300s to win, got %v", got)
	}
}
