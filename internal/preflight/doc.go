// Package preflight provides readiness checks for the filesystem paths,
// collection database and external services shelfscan depends on.
//
// The CLI "shelfscan check" command runs RunAll and renders each Result.
// "shelfscan serve" runs the same checks at startup and logs failures
// without refusing to start, since decoding and collection management work
// even when lookups cannot.
//
// Each check is gated by configuration: catalogs that are not enabled are
// reported as disabled rather than queried.
package preflight
