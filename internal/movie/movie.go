// Package movie defines the canonical movie record produced by the lookup
// pipeline and persisted by the collection store.
package movie

import (
	"strconv"
	"strings"
)

// Format identifies the physical disc format of a release.
type Format string

const (
	FormatNone     Format = ""
	FormatDVD      Format = "DVD"
	FormatBluRay   Format = "Blu-ray"
	Format4KBluRay Format = "4K Blu-ray"
)

// ParseFormat maps a user-supplied label onto a known format. Unknown labels
// return false.
func ParseFormat(value string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return FormatNone, true
	case "dvd":
		return FormatDVD, true
	case "blu-ray", "bluray", "blu ray":
		return FormatBluRay, true
	case "4k blu-ray", "4k", "4k uhd", "uhd":
		return Format4KBluRay, true
	default:
		return FormatNone, false
	}
}

func (f Format) String() string { return string(f) }

// Record is a resolved movie. Zero values mean the field is unknown.
type Record struct {
	Title        string `json:"title"`
	Year         int    `json:"year,omitempty"`
	Director     string `json:"director,omitempty"`
	Genre        string `json:"genre,omitempty"`
	TMDBID       string `json:"tmdb_id,omitempty"`
	PosterURL    string `json:"poster_url,omitempty"`
	Format       Format `json:"format_type,omitempty"`
	Barcode      string `json:"barcode,omitempty"`
	LookupSource string `json:"lookup_source,omitempty"`
}

// Map renders the record in its API form. Unknown fields are present as null
// so clients always see the same keys.
func (r Record) Map() map[string]any {
	var year any
	if r.Year > 0 {
		year = r.Year
	}
	return map[string]any{
		"title":         r.Title,
		"year":          year,
		"director":      Optional(r.Director),
		"genre":         Optional(r.Genre),
		"tmdb_id":       Optional(r.TMDBID),
		"poster_url":    Optional(r.PosterURL),
		"format_type":   Optional(string(r.Format)),
		"barcode":       Optional(r.Barcode),
		"lookup_source": Optional(r.LookupSource),
	}
}

// Optional returns nil for an empty string so it encodes as JSON null.
func Optional(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// DisplayTitle renders "Title (Year)" when the year is known.
func (r Record) DisplayTitle() string {
	if r.Year <= 0 {
		return r.Title
	}
	return r.Title + " (" + strconv.Itoa(r.Year) + ")"
}
