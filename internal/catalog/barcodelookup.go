package catalog

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shelfscan/internal/titles"
)

// BarcodeLookupSource is the lookup source recorded for Barcode Lookup matches.
const BarcodeLookupSource = "Barcode Lookup API"

// BarcodeLookup queries the key-gated barcodelookup.com API.
type BarcodeLookup struct {
	baseURL string
	apiKey  string
	fetch   fetcher
}

type barcodeLookupResponse struct {
	Products []struct {
		Title       string `json:"title"`
		ProductName string `json:"product_name"`
		Description string `json:"description"`
		Category    string `json:"category"`
	} `json:"products"`
}

// NewBarcodeLookup constructs the Barcode Lookup backend. An empty key leaves
// the backend in place but every attempt reports ErrNotConfigured.
func NewBarcodeLookup(baseURL, apiKey string, timeout time.Duration, userAgent string, client *http.Client) *BarcodeLookup {
	return &BarcodeLookup{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		fetch:   newFetcher(client, timeout, userAgent),
	}
}

func (b *BarcodeLookup) Name() string { return BarcodeLookupSource }

// Configured reports whether an API key is available.
func (b *BarcodeLookup) Configured() bool { return b.apiKey != "" }

func (b *BarcodeLookup) Attempt(ctx context.Context, barcode string) (*Candidate, error) {
	if !b.Configured() {
		return nil, ErrNotConfigured
	}
	params := url.Values{}
	params.Set("barcode", barcode)
	params.Set("formatted", "y")
	params.Set("key", b.apiKey)
	endpoint := b.baseURL + "/v3/products?" + params.Encode()

	var payload barcodeLookupResponse
	if err := b.fetch.getJSON(ctx, BarcodeLookupSource, endpoint, &payload); err != nil {
		return nil, redactKey(err, b.apiKey)
	}
	if len(payload.Products) == 0 {
		return nil, nil
	}
	product := payload.Products[0]

	title := firstNonEmpty(product.Title, product.ProductName)
	if title == "" {
		return nil, nil
	}
	fullText := strings.Join([]string{title, product.Description, product.Category}, " ")
	if !titles.HasMediaIndicator(fullText) {
		return nil, nil
	}
	return newCandidate(titles.CleanTitle(title), titles.DetectFormat(fullText), BarcodeLookupSource), nil
}

// redactKey keeps the API key out of logged transport errors, which embed the request URL.
func redactKey(err error, key string) error {
	if err == nil || key == "" || !strings.Contains(err.Error(), key) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), key, "REDACTED"), err: err}
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }

func (e *redactedError) Unwrap() error { return e.err }
