package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"shelfscan/internal/catalog"
	"shelfscan/internal/collection"
	"shelfscan/internal/config"
	"shelfscan/internal/tmdb"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckDatabase opens the collection database and counts its rows.
func CheckDatabase(ctx context.Context, cfg *config.Config) Result {
	const name = "Collection database"

	store, err := collection.Open(cfg)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	defer store.Close()

	count, err := store.Count(ctx)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d movies)", store.Path(), count)}
}

// CheckTMDB verifies that the TMDB key is present and accepted.
// It uses a 10-second timeout and a single attempt.
func CheckTMDB(ctx context.Context, cfg *config.Config) Result {
	const name = "TMDB"

	if !cfg.TMDBConfigured() {
		return Result{Name: name, Detail: "API key missing (set tmdb.api_key or TMDB_API_KEY)"}
	}
	client, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language, tmdb.WithTimeout(10*time.Second))
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeTMDBError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "API key accepted"}
}

// CheckCatalogs reports each known catalog as enabled, skipped, or disabled.
// Catalogs are not queried: their public endpoints have no side-effect free
// health route and UPCitemdb requests count against a small quota.
func CheckCatalogs(cfg *config.Config) []Result {
	results := make([]Result, 0, len(config.DefaultCatalogOrder))
	for _, name := range config.DefaultCatalogOrder {
		label := catalogLabel(name)
		position := slices.Index(cfg.Catalogs.Enabled, name)
		if position < 0 {
			results = append(results, Result{Name: label, Passed: true, Detail: "disabled"})
			continue
		}
		detail := fmt.Sprintf("enabled (priority %d)", position+1)
		switch name {
		case config.CatalogUPCItemDB:
			if rpm := cfg.Catalogs.UPCItemDBRequestsPerMinute; rpm > 0 {
				detail += fmt.Sprintf(", %d requests/min", rpm)
			}
		case config.CatalogBarcodeLookup:
			if strings.TrimSpace(cfg.Catalogs.BarcodeLookupAPIKey) == "" {
				detail = "skipped (API key missing)"
			}
		}
		results = append(results, Result{Name: label, Passed: true, Detail: detail})
	}
	return results
}

func catalogLabel(name string) string {
	switch name {
	case config.CatalogUPCItemDB:
		return catalog.UPCItemDBSource
	case config.CatalogOpenFoodFacts:
		return catalog.OpenFoodFactsSource
	case config.CatalogBarcodeLookup:
		return catalog.BarcodeLookupSource
	default:
		return name
	}
}

// summarizeTMDBError produces a human-readable summary for TMDB check failures.
func summarizeTMDBError(err error) string {
	var statusErr *tmdb.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return "auth failed (invalid api key)"
		default:
			return fmt.Sprintf("check failed (%d)", statusErr.StatusCode)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "check timed out (TMDB unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "check timed out (TMDB unreachable)"
	}
	return err.Error()
}
