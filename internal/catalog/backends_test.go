package catalog_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"shelfscan/internal/catalog"
	"shelfscan/internal/movie"
)

func jsonServer(t *testing.T, hits *atomic.Int32, check func(*http.Request), body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestUPCItemDBUsesTitleAndDetectsFormat(t *testing.T) {
	server := jsonServer(t, nil, func(r *http.Request) {
		if r.URL.Path != "/prod/trial/lookup" || r.URL.Query().Get("upc") != "012345678905" {
			t.Errorf("unexpected request %s", r.URL)
		}
		if !strings.Contains(r.Header.Get("User-Agent"), "shelfscan") {
			t.Errorf("expected custom user agent, got %q", r.Header.Get("User-Agent"))
		}
	}, `{"code":"OK","total":1,"items":[{"title":"Inception [Blu-ray]","brand":"Warner","description":"Dream heist"}]}`)

	backend := catalog.NewUPCItemDB(catalog.UPCItemDBOptions{BaseURL: server.URL, UserAgent: "shelfscan-test"})
	candidate, err := backend.Attempt(context.Background(), "012345678905")
	if err != nil {
		t.Fatalf("Attempt returned error: %v", err)
	}
	if candidate == nil || candidate.Title != "Inception" || candidate.Format != movie.FormatBluRay || candidate.Source != "UPCitemdb" {
		t.Fatalf("unexpected candidate %+v", candidate)
	}
}

func TestUPCItemDBFallsBackToDescription(t *testing.T) {
	server := jsonServer(t, nil, nil, `{"items":[{"title":"DVD","description":"The Matrix DVD widescreen"}]}`)
	backend := catalog.NewUPCItemDB(catalog.UPCItemDBOptions{BaseURL: server.URL})

	candidate, err := backend.Attempt(context.Background(), "1")
	if err != nil {
		t.Fatalf("Attempt returned error: %v", err)
	}
	if candidate == nil || candidate.Title != "The Matrix widescreen" || candidate.Format != movie.FormatDVD {
		t.Fatalf("unexpected candidate %+v", candidate)
	}
}

func TestUPCItemDBNoItems(t *testing.T) {
	server := jsonServer(t, nil, nil, `{"code":"OK","total":0,"items":[]}`)
	backend := catalog.NewUPCItemDB(catalog.UPCItemDBOptions{BaseURL: server.URL})
	candidate, err := backend.Attempt(context.Background(), "1")
	if err != nil || candidate != nil {
		t.Fatalf("expected no match, got %+v, %v", candidate, err)
	}
}

func TestUPCItemDBRejectsShortTitle(t *testing.T) {
	server := jsonServer(t, nil, nil, `{"items":[{"title":"Up [DVD]","description":"Up"}]}`)
	backend := catalog.NewUPCItemDB(catalog.UPCItemDBOptions{BaseURL: server.URL})
	candidate, err := backend.Attempt(context.Background(), "1")
	if err != nil || candidate != nil {
		t.Fatalf("expected two-character title to be discarded, got %+v, %v", candidate, err)
	}
}

func TestUPCItemDBQuotaSkipsWithoutWaiting(t *testing.T) {
	var hits atomic.Int32
	server := jsonServer(t, &hits, nil, `{"items":[]}`)
	backend := catalog.NewUPCItemDB(catalog.UPCItemDBOptions{BaseURL: server.URL, RequestsPerMinute: 1})

	if _, err := backend.Attempt(context.Background(), "1"); err != nil {
		t.Fatalf("first attempt returned error: %v", err)
	}
	start := time.Now()
	_, err := backend.Attempt(context.Background(), "1")
	if !errors.Is(err, catalog.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatal("expected exhausted quota to return immediately")
	}
	if hits.Load() != 1 {
		t.Fatalf("expected a single outbound call, got %d", hits.Load())
	}
}

func TestOpenFoodFactsRequiresMediaIndicator(t *testing.T) {
	grocery := jsonServer(t, nil, nil, `{"status":1,"product":{"product_name":"Crunchy Peanut Butter","brands":"Acme","categories":"Spreads"}}`)
	backend := catalog.NewOpenFoodFacts(grocery.URL, 0, "", nil)
	candidate, err := backend.Attempt(context.Background(), "1")
	if err != nil || candidate != nil {
		t.Fatalf("expected grocery listing to be ignored, got %+v, %v", candidate, err)
	}

	media := jsonServer(t, nil, func(r *http.Request) {
		if r.URL.Path != "/api/v0/product/5051892008686.json" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}, `{"status":1,"product":{"product_name":"","product_name_en":"Gladiator","brands":"Universal","categories":"Movies, 4K Ultra HD"}}`)
	backend = catalog.NewOpenFoodFacts(media.URL, 0, "", nil)
	candidate, err = backend.Attempt(context.Background(), "5051892008686")
	if err != nil {
		t.Fatalf("Attempt returned error: %v", err)
	}
	if candidate == nil || candidate.Title != "Gladiator" || candidate.Format != movie.Format4KBluRay || candidate.Source != "Open Food Facts" {
		t.Fatalf("unexpected candidate %+v", candidate)
	}
}

func TestOpenFoodFactsProductMissing(t *testing.T) {
	server := jsonServer(t, nil, nil, `{"status":0,"status_verbose":"product not found"}`)
	backend := catalog.NewOpenFoodFacts(server.URL, 0, "", nil)
	candidate, err := backend.Attempt(context.Background(), "1")
	if err != nil || candidate != nil {
		t.Fatalf("expected no match, got %+v, %v", candidate, err)
	}
}

func TestBarcodeLookupSkippedWithoutKey(t *testing.T) {
	var hits atomic.Int32
	server := jsonServer(t, &hits, nil, `{}`)
	backend := catalog.NewBarcodeLookup(server.URL, "", 0, "", nil)
	_, err := backend.Attempt(context.Background(), "1")
	if !errors.Is(err, catalog.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if hits.Load() != 0 {
		t.Fatal("expected no outbound call without a key")
	}
}

func TestBarcodeLookupMatch(t *testing.T) {
	server := jsonServer(t, nil, func(r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/v3/products" || q.Get("key") != "secret" || q.Get("barcode") != "883929" || q.Get("formatted") != "y" {
			t.Errorf("unexpected request %s", r.URL)
		}
	}, `{"products":[{"title":"Heat (DVD)","description":"Crime film","category":"Media > DVDs & Videos"}]}`)
	backend := catalog.NewBarcodeLookup(server.URL, "secret", 0, "", nil)
	candidate, err := backend.Attempt(context.Background(), "883929")
	if err != nil {
		t.Fatalf("Attempt returned error: %v", err)
	}
	if candidate == nil || candidate.Title != "Heat" || candidate.Format != movie.FormatDVD || candidate.Source != "Barcode Lookup API" {
		t.Fatalf("unexpected candidate %+v", candidate)
	}
}

func TestBarcodeLookupErrorHidesKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	backend := catalog.NewBarcodeLookup(endpoint, "supersecret", time.Second, "", nil)
	_, err := backend.Attempt(context.Background(), "1")
	if err == nil {
		t.Fatal("expected transport error")
	}
	if strings.Contains(err.Error(), "supersecret") {
		t.Fatalf("expected key to be redacted, got %q", err.Error())
	}
}

func TestNon2xxIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)
	backend := catalog.NewOpenFoodFacts(server.URL, 0, "", nil)
	if _, err := backend.Attempt(context.Background(), "1"); err == nil {
		t.Fatal("expected error for 429 response")
	}
}
