// Package services defines shared utilities consumed by the lookup pipeline,
// the collection store, and the HTTP API.
//
// Key responsibilities:
//   - Context helpers that stamp request IDs, barcodes, and stage names for
//     logging and tracing.
//   - Structured error markers plus the Wrap helper, and HTTPStatus which
//     translates a marked failure into the status code the API returns.
//
// Use these helpers when wiring new lookup logic so operational behaviour
// (error handling, observability) stays uniform across the service.
package services
