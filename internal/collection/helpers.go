package collection

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"shelfscan/internal/movie"
)

const itemColumns = "id, title, year, director, genre, format_type, barcode, tmdb_id, poster_url, lookup_source, added_date, location, condition"

// addedDateLayout is fixed width so added_date sorts lexically.
const addedDateLayout = "2006-01-02T15:04:05.000000Z07:00"

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func scanItem(scanner interface{ Scan(dest ...any) error }) (*Item, error) {
	var (
		id           int64
		title        string
		year         sql.NullInt64
		director     sql.NullString
		genre        sql.NullString
		formatType   sql.NullString
		barcode      sql.NullString
		tmdbID       sql.NullString
		posterURL    sql.NullString
		lookupSource sql.NullString
		addedRaw     sql.NullString
		location     sql.NullString
		condition    sql.NullString
	)
	if err := scanner.Scan(
		&id,
		&title,
		&year,
		&director,
		&genre,
		&formatType,
		&barcode,
		&tmdbID,
		&posterURL,
		&lookupSource,
		&addedRaw,
		&location,
		&condition,
	); err != nil {
		return nil, err
	}

	item := &Item{
		Record: movie.Record{
			Title:        title,
			Year:         int(year.Int64),
			Director:     director.String,
			Genre:        genre.String,
			TMDBID:       tmdbID.String,
			PosterURL:    posterURL.String,
			Format:       movie.Format(formatType.String),
			Barcode:      barcode.String,
			LookupSource: lookupSource.String,
		},
		ID:        id,
		Location:  location.String,
		Condition: Condition(condition.String),
	}
	if added, err := parseTimeString(addedRaw.String); err == nil {
		item.AddedAt = added
	}
	return item, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableInt(value int) any {
	if value <= 0 {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code()&0xff == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
