package catalog

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"shelfscan/internal/titles"
)

// UPCItemDBSource is the lookup source recorded for UPCitemdb matches.
const UPCItemDBSource = "UPCitemdb"

// UPCItemDB queries the UPCitemdb trial lookup endpoint. Its listings are
// assumed to be retail media already, so no media keyword filter applies.
type UPCItemDB struct {
	baseURL string
	fetch   fetcher
	limiter *rate.Limiter
}

type upcItemDBResponse struct {
	Code  string `json:"code"`
	Total int    `json:"total"`
	Items []struct {
		Title       string `json:"title"`
		Brand       string `json:"brand"`
		Description string `json:"description"`
		Category    string `json:"category"`
	} `json:"items"`
}

// UPCItemDBOptions configures a UPCItemDB backend.
type UPCItemDBOptions struct {
	BaseURL string
	// RequestsPerMinute bounds outbound calls to the trial quota. Zero disables the guard.
	RequestsPerMinute int
	Timeout           time.Duration
	UserAgent         string
	HTTPClient        *http.Client
}

// NewUPCItemDB constructs the UPCitemdb backend.
func NewUPCItemDB(opts UPCItemDBOptions) *UPCItemDB {
	backend := &UPCItemDB{
		baseURL: strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		fetch:   newFetcher(opts.HTTPClient, opts.Timeout, opts.UserAgent),
	}
	if opts.RequestsPerMinute > 0 {
		backend.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), opts.RequestsPerMinute)
	}
	return backend
}

func (u *UPCItemDB) Name() string { return UPCItemDBSource }

// Attempt looks the barcode up as a UPC. An exhausted quota skips the
// backend instead of waiting for a token.
func (u *UPCItemDB) Attempt(ctx context.Context, barcode string) (*Candidate, error) {
	if u.limiter != nil && !u.limiter.Allow() {
		return nil, ErrRateLimited
	}
	params := url.Values{}
	params.Set("upc", barcode)
	endpoint := u.baseURL + "/prod/trial/lookup?" + params.Encode()

	var payload upcItemDBResponse
	if err := u.fetch.getJSON(ctx, UPCItemDBSource, endpoint, &payload); err != nil {
		return nil, err
	}
	if len(payload.Items) == 0 {
		return nil, nil
	}
	item := payload.Items[0]

	cleaned := titles.CleanTitle(item.Title)
	if !titles.Usable(cleaned) {
		cleaned = titles.CleanTitle(item.Description)
	}
	format := titles.DetectFormat(item.Title)
	if format == "" {
		format = titles.DetectFormat(item.Description)
	}
	return newCandidate(cleaned, format, UPCItemDBSource), nil
}
