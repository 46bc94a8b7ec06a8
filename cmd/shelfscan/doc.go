// Package main hosts the shelfscan CLI entrypoint and command graph.
//
// The Cobra-based command tree covers the HTTP server (serve), one-shot
// barcode decoding and lookups (scan, lookup, search), collection
// maintenance, configuration scaffolding, and readiness checks. Configuration
// resolution and logger setup live in commandContext so subcommands only
// deal with presentation.
//
// Keep this package lean: behaviour belongs in the internal packages, and
// commands here translate flags into calls and results into tables or JSON.
package main
