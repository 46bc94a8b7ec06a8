// Package collection persists the user's movie collection in SQLite.
//
// The store owns a single table of collection items. Items are inserted on an
// explicit add, listed newest first, read by id, and deleted by id; they are
// never edited in place. Every write runs inside its own transaction and
// SQLITE_BUSY is retried briefly, so concurrent API requests either commit a
// whole row or nothing.
//
// The schema is embedded and versioned. A database written by an incompatible
// version is rejected with ErrSchemaMismatch instead of being migrated.
package collection
