package movie_test

import (
	"testing"

	"shelfscan/internal/movie"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want movie.Format
		ok   bool
	}{
		{"", movie.FormatNone, true},
		{"dvd", movie.FormatDVD, true},
		{" Blu-Ray ", movie.FormatBluRay, true},
		{"4K Blu-ray", movie.Format4KBluRay, true},
		{"laserdisc", movie.FormatNone, false},
	}
	for _, tt := range tests {
		got, ok := movie.ParseFormat(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("ParseFormat(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDisplayTitle(t *testing.T) {
	if got := (movie.Record{Title: "Inception", Year: 2010}).DisplayTitle(); got != "Inception (2010)" {
		t.Fatalf("unexpected display title %q", got)
	}
	if got := (movie.Record{Title: "Inception"}).DisplayTitle(); got != "Inception" {
		t.Fatalf("unexpected display title %q", got)
	}
}

func TestRecordMapKeepsUnknownFieldsAsNull(t *testing.T) {
	m := movie.Record{Title: "Alien", Format: movie.FormatDVD}.Map()

	if m["title"] != "Alien" || m["format_type"] != "DVD" {
		t.Fatalf("unexpected known fields: %v", m)
	}
	for _, key := range []string{"year", "director", "genre", "tmdb_id", "poster_url", "barcode", "lookup_source"} {
		value, ok := m[key]
		if !ok {
			t.Fatalf("expected key %q to be present", key)
		}
		if value != nil {
			t.Fatalf("expected %q to be nil, got %v", key, value)
		}
	}

	if got := (movie.Record{Title: "Alien", Year: 1979}).Map()["year"]; got != 1979 {
		t.Fatalf("expected year 1979, got %v", got)
	}
}
