package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir  string `toml:"data_dir"`
	LogDir   string `toml:"log_dir"`
	APIBind  string `toml:"api_bind"`
	APIToken string `toml:"api_token"`
}

// TMDB contains configuration for The Movie Database API.
type TMDB struct {
	APIKey       string `toml:"api_key"`
	BaseURL      string `toml:"base_url"`
	ImageBaseURL string `toml:"image_base_url"`
	Language     string `toml:"language"`
}

// Catalogs contains configuration for the barcode product catalogs queried
// before TMDB. Enabled lists backend names in the order they are tried.
type Catalogs struct {
	Enabled                    []string `toml:"enabled"`
	TimeoutSeconds             int      `toml:"timeout_seconds"`
	UserAgent                  string   `toml:"user_agent"`
	UPCItemDBBaseURL           string   `toml:"upcitemdb_base_url"`
	UPCItemDBRequestsPerMinute int      `toml:"upcitemdb_requests_per_minute"`
	OpenFoodFactsBaseURL       string   `toml:"openfoodfacts_base_url"`
	BarcodeLookupBaseURL       string   `toml:"barcodelookup_base_url"`
	BarcodeLookupAPIKey        string   `toml:"barcodelookup_api_key"`
}

// Server contains HTTP server limits.
type Server struct {
	MaxBodyMiB          int `toml:"max_body_mib"`
	ReadTimeoutSeconds  int `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds int `toml:"write_timeout_seconds"`
}

// Collection contains defaults applied to new collection entries.
type Collection struct {
	DefaultCondition string `toml:"default_condition"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for shelfscan.
//
// Configuration sections by subsystem:
//   - Paths: data/log directories, API bind address and token
//   - TMDB: movie metadata resolution via The Movie Database
//   - Catalogs: barcode product catalogs (UPCitemdb, Open Food Facts, Barcode Lookup)
//   - Server: HTTP limits
//   - Collection: defaults for new collection entries
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	TMDB       TMDB       `toml:"tmdb"`
	Catalogs   Catalogs   `toml:"catalogs"`
	Server     Server     `toml:"server"`
	Collection Collection `toml:"collection"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/shelfscan/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("shelfscan.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the location of the collection database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "collection.db")
}

// CatalogTimeout returns the per-request timeout for outbound lookups.
func (c *Config) CatalogTimeout() time.Duration {
	return time.Duration(c.Catalogs.TimeoutSeconds) * time.Second
}

// lookupCalls is the most outbound calls one barcode resolution can make:
// every catalog backend plus TMDB search, details and credits.
const lookupCalls = 6

const writeTimeoutMargin = 15 * time.Second

// WriteTimeout returns the HTTP write deadline, never shorter than a full
// barcode resolution at the configured per-call timeout.
func (c *Config) WriteTimeout() time.Duration {
	configured := time.Duration(c.Server.WriteTimeoutSeconds) * time.Second
	floor := lookupCalls*c.CatalogTimeout() + writeTimeoutMargin
	return max(configured, floor)
}

// MaxBodyBytes returns the request body limit for the HTTP API.
func (c *Config) MaxBodyBytes() int64 {
	return int64(c.Server.MaxBodyMiB) << 20
}

// TMDBConfigured reports whether metadata resolution can run.
func (c *Config) TMDBConfigured() bool {
	return strings.TrimSpace(c.TMDB.APIKey) != ""
}

// Redacted returns a copy with secrets masked, suitable for display.
func (c *Config) Redacted() Config {
	out := *c
	out.Catalogs.Enabled = append([]string(nil), c.Catalogs.Enabled...)
	out.TMDB.APIKey = redact(c.TMDB.APIKey)
	out.Catalogs.BarcodeLookupAPIKey = redact(c.Catalogs.BarcodeLookupAPIKey)
	out.Paths.APIToken = redact(c.Paths.APIToken)
	return out
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

func redact(value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return "********"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
