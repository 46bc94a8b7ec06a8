// Package tmdb provides the minimal TMDB API client used to resolve a movie
// title into canonical metadata.
//
// It authenticates requests and exposes movie search, movie details, and
// movie credits. Non-2xx responses are reported as *StatusError so callers
// can tell a rejected request apart from a transport failure. Options allow
// tests to supply custom HTTP clients without modifying production code.
package tmdb
