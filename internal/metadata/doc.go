// Package metadata turns a cleaned movie title into a canonical movie.Record
// using TMDB.
//
// Resolution takes the top search match only, then enriches it with the
// details and credits endpoints. A rejected details or credits request leaves
// the corresponding fields empty; a transport failure anywhere abandons the
// whole resolution so partial records never reach the collection.
package metadata
