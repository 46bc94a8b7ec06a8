// Package titles normalizes product listing titles into searchable movie
// titles and infers the disc format advertised in free text.
//
// Catalog listings carry packaging noise such as "[Blu-ray]", "Special
// Edition", or region markers. CleanTitle strips a fixed list of those
// substrings so the remainder can be sent to a metadata search, and
// DetectFormat classifies text as DVD, Blu-ray, or 4K Blu-ray with 4K taking
// precedence. HasMediaIndicator guards general-purpose catalogs that list
// groceries and movies side by side.
package titles
