package catalog

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shelfscan/internal/titles"
)

// OpenFoodFactsSource is the lookup source recorded for Open Food Facts matches.
const OpenFoodFactsSource = "Open Food Facts"

// OpenFoodFacts queries the Open Food Facts product API. The database is
// mostly groceries, so a listing must mention a video medium to count.
type OpenFoodFacts struct {
	baseURL string
	fetch   fetcher
}

type openFoodFactsResponse struct {
	Status  int `json:"status"`
	Product *struct {
		ProductName   string `json:"product_name"`
		ProductNameEN string `json:"product_name_en"`
		GenericName   string `json:"generic_name"`
		Brands        string `json:"brands"`
		Categories    string `json:"categories"`
	} `json:"product"`
}

// NewOpenFoodFacts constructs the Open Food Facts backend.
func NewOpenFoodFacts(baseURL string, timeout time.Duration, userAgent string, client *http.Client) *OpenFoodFacts {
	return &OpenFoodFacts{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		fetch:   newFetcher(client, timeout, userAgent),
	}
}

func (o *OpenFoodFacts) Name() string { return OpenFoodFactsSource }

func (o *OpenFoodFacts) Attempt(ctx context.Context, barcode string) (*Candidate, error) {
	endpoint := o.baseURL + "/api/v0/product/" + url.PathEscape(barcode) + ".json"

	var payload openFoodFactsResponse
	if err := o.fetch.getJSON(ctx, OpenFoodFactsSource, endpoint, &payload); err != nil {
		return nil, err
	}
	if payload.Status != 1 || payload.Product == nil {
		return nil, nil
	}
	product := payload.Product

	title := firstNonEmpty(product.ProductName, product.ProductNameEN, product.GenericName)
	if title == "" {
		return nil, nil
	}
	fullText := strings.Join([]string{title, product.Brands, product.Categories}, " ")
	if !titles.HasMediaIndicator(fullText) {
		return nil, nil
	}
	return newCandidate(titles.CleanTitle(title), titles.DetectFormat(fullText), OpenFoodFactsSource), nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
