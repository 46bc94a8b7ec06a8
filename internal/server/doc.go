// Package server exposes the lookup pipeline and the collection store over a
// small JSON HTTP API.
//
// Routes are registered on a gorilla/mux router and wrapped, outermost first,
// with panic recovery, request correlation ids, optional bearer-token auth and
// a request body limit. Handlers translate classified errors from
// internal/services into status codes with services.HTTPStatus; lookups that
// simply find nothing are normal responses, not errors.
//
// Start acquires a file lock under the data directory so that two servers
// never share one collection database.
package server
