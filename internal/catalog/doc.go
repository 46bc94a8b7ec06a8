// Package catalog resolves a barcode into a candidate movie title by querying
// external product catalogs in a fixed priority order.
//
// Each catalog implements Backend. Chain walks an ordered slice of backends
// and returns the first usable Candidate; later backends are never contacted
// once one succeeds. Transport failures, rate-limit exhaustion, unconfigured
// backends, and listings that do not look like movies are all treated as "no
// result" for that backend only, so a single flaky service never fails the
// whole lookup.
//
// New catalogs are added by implementing Backend and appending it to the slice
// passed to NewChain; nothing else changes.
package catalog
