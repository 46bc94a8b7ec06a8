package metadata_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"shelfscan/internal/metadata"
	"shelfscan/internal/services"
	"shelfscan/internal/tmdb"
)

type fakeAPI struct {
	search       *tmdb.SearchResponse
	searchErr    error
	details      *tmdb.MovieDetails
	detailsErr   error
	credits      *tmdb.Credits
	creditsErr   error
	searchCalls  int
	detailsCalls int
	creditsCalls int
}

func (f *fakeAPI) SearchMovie(context.Context, string) (*tmdb.SearchResponse, error) {
	f.searchCalls++
	return f.search, f.searchErr
}

func (f *fakeAPI) GetMovieDetails(context.Context, int64) (*tmdb.MovieDetails, error) {
	f.detailsCalls++
	return f.details, f.detailsErr
}

func (f *fakeAPI) GetMovieCredits(context.Context, int64) (*tmdb.Credits, error) {
	f.creditsCalls++
	return f.credits, f.creditsErr
}

func inceptionAPI() *fakeAPI {
	return &fakeAPI{
		search: &tmdb.SearchResponse{Results: []tmdb.SearchResult{
			{ID: 27205, Title: "Inception", ReleaseDate: "2010-07-15", PosterPath: "/poster.jpg"},
			{ID: 1, Title: "Inception: The Cobol Job"},
		}},
		details: &tmdb.MovieDetails{ID: 27205, Genres: []tmdb.Genre{{Name: "Action"}, {Name: "Science Fiction"}}},
		credits: &tmdb.Credits{Crew: []tmdb.CrewMember{
			{Name: "Emma Thomas", Job: "Producer"},
			{Name: "Christopher Nolan", Job: "Director"},
			{Name: "Someone Else", Job: "Director"},
		}},
	}
}

func TestResolveEnrichesTopResult(t *testing.T) {
	api := inceptionAPI()
	resolver := metadata.NewResolver(api, "https://image.tmdb.org/t/p/w500/", nil)

	record, err := resolver.Resolve(context.Background(), "Inception")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if record.Title != "Inception" || record.TMDBID != "27205" || record.Year != 2010 {
		t.Fatalf("unexpected record %+v", record)
	}
	if record.Director != "Christopher Nolan" {
		t.Fatalf("expected first director, got %q", record.Director)
	}
	if record.Genre != "Action, Science Fiction" {
		t.Fatalf("unexpected genre %q", record.Genre)
	}
	if record.PosterURL != "https://image.tmdb.org/t/p/w500/poster.jpg" {
		t.Fatalf("unexpected poster %q", record.PosterURL)
	}
}

func TestResolveZeroResultsSkipsDetailCalls(t *testing.T) {
	api := &fakeAPI{search: &tmdb.SearchResponse{}}
	record, err := metadata.NewResolver(api, "", nil).Resolve(context.Background(), "Nothing Here")
	if err != nil || record != nil {
		t.Fatalf("expected (nil, nil), got %+v, %v", record, err)
	}
	if api.detailsCalls != 0 || api.creditsCalls != 0 {
		t.Fatalf("expected no detail/credit calls, got %d/%d", api.detailsCalls, api.creditsCalls)
	}
}

func TestResolveDegradesRejectedSubQueries(t *testing.T) {
	api := inceptionAPI()
	api.detailsErr = &tmdb.StatusError{Operation: "movie details", StatusCode: http.StatusNotFound}
	api.details = nil
	api.creditsErr = &tmdb.StatusError{Operation: "movie credits", StatusCode: http.StatusInternalServerError}
	api.credits = nil

	record, err := metadata.NewResolver(api, "", nil).Resolve(context.Background(), "Inception")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if record.Genre != "" || record.Director != "" {
		t.Fatalf("expected missing genre and director, got %+v", record)
	}
	if record.Year != 2010 {
		t.Fatalf("expected year from search result, got %d", record.Year)
	}
}

func TestResolveTransportFailureAbandonsRecord(t *testing.T) {
	api := inceptionAPI()
	api.creditsErr = errors.New("connection reset")
	api.credits = nil

	record, err := metadata.NewResolver(api, "", nil).Resolve(context.Background(), "Inception")
	if record != nil {
		t.Fatalf("expected no partial record, got %+v", record)
	}
	if !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected external service error, got %v", err)
	}
}

func TestResolveSearchTimeoutIsClassified(t *testing.T) {
	api := &fakeAPI{searchErr: context.DeadlineExceeded}
	_, err := metadata.NewResolver(api, "", nil).Resolve(context.Background(), "Inception")
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected timeout marker, got %v", err)
	}
}

func TestResolveYearFallsBackToDetails(t *testing.T) {
	api := inceptionAPI()
	api.search.Results[0].ReleaseDate = ""
	api.details.ReleaseDate = "2014-05-06"

	record, err := metadata.NewResolver(api, "", nil).Resolve(context.Background(), "Inception")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if record.Year != 2014 {
		t.Fatalf("expected 2014, got %d", record.Year)
	}
}

func TestResolveWithoutClientIsConfigurationError(t *testing.T) {
	resolver := metadata.NewResolver(nil, "", nil)
	if resolver.Configured() {
		t.Fatal("expected resolver to be unconfigured")
	}
	_, err := resolver.Resolve(context.Background(), "Inception")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestParseYear(t *testing.T) {
	tests := map[string]int{
		"2014-05-06": 2014,
		"1999":       1999,
		"":           0,
		"19":         0,
		"TBA-01-01":  0,
		"20x4-01-01": 0,
	}
	for in, want := range tests {
		if got := metadata.ParseYear(in); got != want {
			t.Fatalf("ParseYear(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestResolveAgainstHTTPClient(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/movie", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[{"id":603,"title":"The Matrix","release_date":"1999-03-30"}]}`))
	})
	mux.HandleFunc("/movie/603", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/movie/603/credits", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"crew":[{"name":"Lana Wachowski","job":"Director"}]}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "en-US")
	if err != nil {
		t.Fatalf("tmdb.New returned error: %v", err)
	}
	record, err := metadata.NewResolver(client, "", nil).Resolve(context.Background(), "The Matrix")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if record.Year != 1999 || record.Director != "Lana Wachowski" || record.Genre != "" {
		t.Fatalf("unexpected record %+v", record)
	}
}
