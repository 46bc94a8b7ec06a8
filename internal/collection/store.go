package collection

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"shelfscan/internal/config"
	"shelfscan/internal/movie"
	"shelfscan/internal/services"
)

// Store manages collection persistence backed by SQLite.
type Store struct {
	db               *sql.DB
	path             string
	defaultCondition Condition
	now              func() time.Time
}

// Open initializes or connects to the collection database under the
// configured data directory.
func Open(cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("collection: config is required")
	}
	condition, ok := ParseCondition(cfg.Collection.DefaultCondition)
	if !ok {
		return nil, services.Wrap(services.ErrConfiguration, "collection", "open",
			fmt.Sprintf("unknown default condition %q", cfg.Collection.DefaultCondition), nil)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.DatabasePath(), condition)
}

// OpenPath opens a database file directly.
func OpenPath(dbPath string, defaultCondition Condition) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if defaultCondition == "" {
		defaultCondition = ConditionGood
	}
	store := &Store{db: db, path: dbPath, defaultCondition: defaultCondition, now: time.Now}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Add validates and inserts a new item inside a transaction.
func (s *Store) Add(ctx context.Context, in NewItem) (*Item, error) {
	item, err := s.prepare(in)
	if err != nil {
		return nil, err
	}

	err = retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		res, err := tx.ExecContext(ctx,
			`INSERT INTO movies (
                title, year, director, genre, format_type, barcode, tmdb_id,
                poster_url, lookup_source, added_date, location, condition
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			item.Title,
			nullableInt(item.Year),
			nullableString(item.Director),
			nullableString(item.Genre),
			nullableString(string(item.Format)),
			nullableString(item.Barcode),
			nullableString(item.TMDBID),
			nullableString(item.PosterURL),
			nullableString(item.LookupSource),
			item.AddedAt.Format(addedDateLayout),
			nullableString(item.Location),
			string(item.Condition),
		)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		item.ID = id
		return nil
	})
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "collection", "add", "insert movie", err)
	}
	return item, nil
}

func (s *Store) prepare(in NewItem) (*Item, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, services.Wrap(services.ErrValidation, "collection", "add", "title is required", nil)
	}
	if in.Year < 0 {
		return nil, services.Wrap(services.ErrValidation, "collection", "add", "year must not be negative", nil)
	}
	format, ok := movie.ParseFormat(string(in.Format))
	if !ok {
		return nil, services.Wrap(services.ErrValidation, "collection", "add",
			fmt.Sprintf("unknown format %q", in.Format), nil)
	}
	condition := s.defaultCondition
	if strings.TrimSpace(in.Condition) != "" {
		parsed, ok := ParseCondition(in.Condition)
		if !ok {
			return nil, services.Wrap(services.ErrValidation, "collection", "add",
				fmt.Sprintf("unknown condition %q", in.Condition), nil)
		}
		condition = parsed
	}

	record := in.Record
	record.Title = title
	record.Format = format
	record.Director = strings.TrimSpace(record.Director)
	record.Genre = strings.TrimSpace(record.Genre)
	record.Barcode = strings.TrimSpace(record.Barcode)
	return &Item{
		Record:    record,
		AddedAt:   s.now().UTC(),
		Location:  strings.TrimSpace(in.Location),
		Condition: condition,
	}, nil
}

// List returns all items, most recently added first.
func (s *Store) List(ctx context.Context) ([]*Item, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM movies ORDER BY added_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}
	return items, nil
}

// Get fetches an item by id. A missing id is reported as services.ErrNotFound.
func (s *Store) Get(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM movies WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "collection", "get", fmt.Sprintf("movie %d not found", id), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}
	return item, nil
}

// Delete removes an item. A missing id is reported as services.ErrNotFound.
func (s *Store) Delete(ctx context.Context, id int64) error {
	var affected int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return services.Wrap(services.ErrTransient, "collection", "delete", "delete movie", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "collection", "delete", fmt.Sprintf("movie %d not found", id), nil)
	}
	return nil
}

// Export returns every item as its serializable map, newest first.
func (s *Store) Export(ctx context.Context) ([]map[string]any, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		out = append(out, item.Map())
	}
	return out, nil
}

// Count returns the number of stored items.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM movies`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return count, nil
}
