package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"shelfscan/internal/collection"
	"shelfscan/internal/movie"
)

type scanRequest struct {
	Image string `json:"image"`
}

type barcodeRequest struct {
	Barcode string `json:"barcode"`
}

type titleRequest struct {
	Title string `json:"title"`
}

// addMovieRequest mirrors movie.Record but tolerates year and tmdb_id sent
// either as numbers or strings, which is what browser forms produce.
type addMovieRequest struct {
	Title        string     `json:"title"`
	Year         looseInt   `json:"year"`
	Director     string     `json:"director"`
	Genre        string     `json:"genre"`
	FormatType   string     `json:"format_type"`
	Barcode      string     `json:"barcode"`
	TMDBID       looseToken `json:"tmdb_id"`
	PosterURL    string     `json:"poster_url"`
	LookupSource string     `json:"lookup_source"`
	Location     string     `json:"location"`
	Condition    string     `json:"condition"`
}

func (r addMovieRequest) toNewItem() collection.NewItem {
	return collection.NewItem{
		Record: movie.Record{
			Title:        r.Title,
			Year:         int(r.Year),
			Director:     r.Director,
			Genre:        r.Genre,
			TMDBID:       string(r.TMDBID),
			PosterURL:    r.PosterURL,
			Format:       movie.Format(r.FormatType),
			Barcode:      r.Barcode,
			LookupSource: r.LookupSource,
		},
		Location:  r.Location,
		Condition: r.Condition,
	}
}

type looseInt int

func (v *looseInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = 0
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*v = 0
			return nil
		}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("expected an integer, got %s", string(data))
	}
	*v = looseInt(n)
	return nil
}

type looseToken string

func (v *looseToken) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = looseToken(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = looseToken(n.String())
	return nil
}
