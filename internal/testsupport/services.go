package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// FakeMovie is a TMDB entry served by FakeServices.
type FakeMovie struct {
	ID          int64
	Title       string
	ReleaseDate string
	Director    string
	Genres      []string
}

// FakeServices serves the UPCitemdb, Open Food Facts, Barcode Lookup and
// TMDB endpoints from one httptest server. Products maps barcodes to the
// UPCitemdb listing title; Movies maps TMDB search queries to results.
// The other catalogs always miss.
type FakeServices struct {
	Products map[string]string
	Movies   map[string]FakeMovie

	mu    sync.Mutex
	calls map[string]int
}

// Calls returns how often a path prefix was requested.
func (f *FakeServices) Calls(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for path, count := range f.calls {
		if strings.HasPrefix(path, prefix) {
			total += count
		}
	}
	return total
}

// Start launches the server and registers cleanup. The returned URL serves
// as every catalog base URL and the TMDB base URL.
func (f *FakeServices) Start(t testing.TB) string {
	t.Helper()
	f.calls = make(map[string]int)
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return srv.URL
}

func (f *FakeServices) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.calls[r.URL.Path]++
	f.mu.Unlock()

	path := r.URL.Path
	query := r.URL.Query()
	switch {
	case path == "/prod/trial/lookup":
		items := []map[string]string{}
		if title, ok := f.Products[query.Get("upc")]; ok {
			items = append(items, map[string]string{"title": title})
		}
		writeFake(w, map[string]any{"code": "OK", "items": items})
	case strings.HasPrefix(path, "/api/v0/product/"):
		writeFake(w, map[string]any{"status": 0})
	case path == "/v3/products":
		writeFake(w, map[string]any{"products": []any{}})
	case path == "/configuration":
		writeFake(w, map[string]any{"images": map[string]any{}})
	case path == "/search/movie":
		results := []map[string]any{}
		if movie, ok := f.Movies[query.Get("query")]; ok {
			results = append(results, map[string]any{
				"id":           movie.ID,
				"title":        movie.Title,
				"release_date": movie.ReleaseDate,
				"poster_path":  "/poster.jpg",
			})
		}
		writeFake(w, map[string]any{"results": results})
	case strings.HasPrefix(path, "/movie/"):
		f.serveMovie(w, strings.TrimPrefix(path, "/movie/"))
	default:
		http.NotFound(w, r)
	}
}

func (f *FakeServices) serveMovie(w http.ResponseWriter, rest string) {
	idPart, credits := strings.CutSuffix(rest, "/credits")
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	for _, movie := range f.Movies {
		if movie.ID != id {
			continue
		}
		if credits {
			crew := []map[string]string{}
			if movie.Director != "" {
				crew = append(crew, map[string]string{"name": movie.Director, "job": "Director"})
			}
			writeFake(w, map[string]any{"id": id, "crew": crew})
			return
		}
		genres := make([]map[string]any, 0, len(movie.Genres))
		for i, name := range movie.Genres {
			genres = append(genres, map[string]any{"id": i + 1, "name": name})
		}
		writeFake(w, map[string]any{"id": id, "title": movie.Title, "release_date": movie.ReleaseDate, "genres": genres})
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func writeFake(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
