// Package config loads, normalizes, and validates shelfscan configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TMDB_API_KEY and BARCODE_LOOKUP_API_KEY. The Config type centralizes every
// knob the HTTP server and CLI need: where the collection database lives, which
// barcode catalogs to query and in what order, and the credentials for the
// external services that resolve a barcode into movie metadata.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, a canonical catalog order, and clear validation errors.
package config
