package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shelfscan/internal/config"
	"shelfscan/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func tmdbServer(t *testing.T, key string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/configuration" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.URL.Query().Get("api_key") != key {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"images":{}}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckTMDB_OK(t *testing.T) {
	srv := tmdbServer(t, "good-key")
	cfg := testsupport.NewConfig(t, testsupport.WithTMDB("good-key", srv.URL))

	result := CheckTMDB(context.Background(), cfg)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestCheckTMDB_BadKey(t *testing.T) {
	srv := tmdbServer(t, "good-key")
	cfg := testsupport.NewConfig(t, testsupport.WithTMDB("bad-key", srv.URL))

	result := CheckTMDB(context.Background(), cfg)
	if result.Passed {
		t.Fatal("expected failure for bad key")
	}
	if !strings.Contains(result.Detail, "invalid api key") {
		t.Fatalf("unexpected detail: %s", result.Detail)
	}
}

func TestCheckTMDB_MissingKey(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	result := CheckTMDB(context.Background(), cfg)
	if result.Passed {
		t.Fatal("expected failure for missing key")
	}
}

func TestCheckTMDB_UnreachableHidesKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close()
	cfg := testsupport.NewConfig(t, testsupport.WithTMDB("secret-tmdb-key", endpoint))

	result := CheckTMDB(context.Background(), cfg)
	if result.Passed {
		t.Fatal("expected failure for unreachable server")
	}
	if strings.Contains(result.Detail, "secret-tmdb-key") {
		t.Fatalf("expected key to be redacted, got: %s", result.Detail)
	}
}

func TestCheckCatalogs(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCatalogs("http://127.0.0.1:1", config.CatalogBarcodeLookup, config.CatalogUPCItemDB))
	cfg.Catalogs.BarcodeLookupAPIKey = ""

	results := CheckCatalogs(cfg)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	details := map[string]string{}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("catalog %q should not fail preflight: %s", r.Name, r.Detail)
		}
		details[r.Name] = r.Detail
	}
	if !strings.HasPrefix(details["UPCitemdb"], "enabled (priority 2)") {
		t.Fatalf("unexpected UPCitemdb detail: %q", details["UPCitemdb"])
	}
	if details["Open Food Facts"] != "disabled" {
		t.Fatalf("unexpected Open Food Facts detail: %q", details["Open Food Facts"])
	}
	if !strings.HasPrefix(details["Barcode Lookup API"], "skipped") {
		t.Fatalf("unexpected Barcode Lookup detail: %q", details["Barcode Lookup API"])
	}
}

func TestCheckDatabase(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	result := CheckDatabase(context.Background(), cfg)
	if !result.Passed {
		t.Fatalf("expected database check to pass: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "(0 movies)") {
		t.Fatalf("unexpected detail: %s", result.Detail)
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	results := RunAll(context.Background(), nil)
	if results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_ReportsMissingTMDBKey(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	results := RunAll(context.Background(), cfg)
	// data dir, log dir, database, TMDB, three catalogs
	if len(results) != 7 {
		t.Fatalf("expected 7 results, got %d", len(results))
	}
	if Failed(results) != 1 {
		t.Fatalf("expected only the TMDB check to fail, got %d failures: %+v", Failed(results), results)
	}
}
