package metadata

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"shelfscan/internal/logging"
	"shelfscan/internal/movie"
	"shelfscan/internal/services"
	"shelfscan/internal/tmdb"
)

// Resolver resolves titles against TMDB.
type Resolver struct {
	api          tmdb.API
	imageBaseURL string
	logger       *slog.Logger
}

// NewResolver constructs a resolver. A nil api produces a resolver that fails
// every lookup with a configuration error, which is how a missing TMDB key
// surfaces at request time.
func NewResolver(api tmdb.API, imageBaseURL string, logger *slog.Logger) *Resolver {
	return &Resolver{
		api:          api,
		imageBaseURL: strings.TrimRight(strings.TrimSpace(imageBaseURL), "/"),
		logger:       logging.NewComponentLogger(logger, "metadata"),
	}
}

// Configured reports whether a TMDB client is wired.
func (r *Resolver) Configured() bool {
	return r != nil && r.api != nil
}

// Resolve returns the best TMDB match for title. It returns (nil, nil) when
// the search has no results.
func (r *Resolver) Resolve(ctx context.Context, title string) (*movie.Record, error) {
	ctx = services.WithStage(ctx, "metadata")
	logger := logging.WithContext(ctx, r.logger)

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, services.Wrap(services.ErrValidation, "metadata", "resolve", "title is required", nil)
	}
	if !r.Configured() {
		err := services.Wrap(services.ErrConfiguration, "metadata", "resolve", "tmdb api key not configured", nil)
		logging.ErrorWithContext(logger, "metadata lookup unavailable", "tmdb_not_configured",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "set tmdb.api_key or TMDB_API_KEY"),
		)
		return nil, err
	}

	search, err := r.api.SearchMovie(ctx, title)
	if err != nil {
		return nil, classify("search", err)
	}
	if search == nil || len(search.Results) == 0 {
		logger.Info("tmdb search returned no results", logging.String("query", title))
		return nil, nil
	}
	top := search.Results[0]
	record := &movie.Record{
		Title:  top.Title,
		TMDBID: strconv.FormatInt(top.ID, 10),
	}
	if top.PosterPath != "" {
		record.PosterURL = r.imageBaseURL + top.PosterPath
	}
	releaseDate := top.ReleaseDate

	details, err := r.api.GetMovieDetails(ctx, top.ID)
	switch {
	case err == nil && details != nil:
		record.Genre = joinGenres(details.Genres)
		if releaseDate == "" {
			releaseDate = details.ReleaseDate
		}
		if record.PosterURL == "" && details.PosterPath != "" {
			record.PosterURL = r.imageBaseURL + details.PosterPath
		}
	case tmdb.IsStatusError(err):
		logging.WarnWithContext(logger, "tmdb details unavailable", "tmdb_details_rejected",
			logging.Int64("tmdb_id", top.ID),
			logging.Error(err),
			logging.String(logging.FieldImpact, "genre left empty"),
		)
	case err != nil:
		return nil, classify("details", err)
	}

	credits, err := r.api.GetMovieCredits(ctx, top.ID)
	switch {
	case err == nil && credits != nil:
		record.Director = firstDirector(credits.Crew)
	case tmdb.IsStatusError(err):
		logging.WarnWithContext(logger, "tmdb credits unavailable", "tmdb_credits_rejected",
			logging.Int64("tmdb_id", top.ID),
			logging.Error(err),
			logging.String(logging.FieldImpact, "director left empty"),
		)
	case err != nil:
		return nil, classify("credits", err)
	}

	record.Year = ParseYear(releaseDate)
	logger.Info("tmdb match resolved",
		logging.String("title", record.Title),
		logging.Int("year", record.Year),
		logging.String("tmdb_id", record.TMDBID),
	)
	return record, nil
}

// ParseYear returns the leading four-digit year of an ISO-like date, or 0.
func ParseYear(date string) int {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return 0
	}
	for _, ch := range date[:4] {
		if ch < '0' || ch > '9' {
			return 0
		}
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

func firstDirector(crew []tmdb.CrewMember) string {
	for _, member := range crew {
		if member.Job == "Director" {
			return member.Name
		}
	}
	return ""
}

func joinGenres(genres []tmdb.Genre) string {
	names := make([]string, 0, len(genres))
	for _, genre := range genres {
		if name := strings.TrimSpace(genre.Name); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

func classify(operation string, err error) error {
	marker := services.ErrExternalService
	if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		marker = services.ErrTimeout
	}
	return services.Wrap(marker, "metadata", operation, "tmdb request failed", err)
}

func isTimeout(err error) bool {
	var timeout interface{ Timeout() bool }
	return errors.As(err, &timeout) && timeout.Timeout()
}
