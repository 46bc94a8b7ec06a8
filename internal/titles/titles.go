package titles

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"shelfscan/internal/movie"
)

// packagingNoise is removed in order; later entries see the partially cleaned string.
var packagingNoise = []string{
	"[DVD]", "[Blu-ray]", "[4K]", "[Ultra HD]", "[UHD]",
	"(DVD)", "(Blu-ray)", "(4K)", "(Ultra HD)", "(UHD)",
	"DVD", "Blu-ray", "BluRay", "4K UHD", "Ultra HD",
	"- Special Edition", "- Director's Cut", "- Extended Edition",
	"Special Edition", "Director's Cut", "Extended Edition",
	"(Widescreen)", "(Full Screen)", "Widescreen", "Full Screen",
	"- Collector's Edition", "Collector's Edition", "Deluxe Edition",
	"[Region 1]", "[Region 2]", "[Region 4]",
	"(Region 1)", "(Region 2)", "(Region 4)",
}

var mediaKeywords = []string{"dvd", "blu-ray", "bluray", "movie", "film", "cinema", "video"}

// CleanTitle strips packaging and edition noise from a product title. The
// result may be empty. Passes repeat until the text stops changing, so
// CleanTitle(CleanTitle(x)) == CleanTitle(x).
func CleanTitle(raw string) string {
	current := raw
	for {
		next := cleanOnce(current)
		if next == current {
			return next
		}
		current = next
	}
}

func cleanOnce(text string) string {
	for _, noise := range packagingNoise {
		text = strings.ReplaceAll(text, noise, "")
	}
	text = strings.Join(strings.Fields(text), " ")
	return strings.TrimFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == ',' || r == '.'
	})
}

// DetectFormat infers the disc format mentioned in text. 4K markers win over
// Blu-ray markers, which win over DVD.
func DetectFormat(text string) movie.Format {
	lowered := lower(text)
	switch {
	case lowered == "":
		return movie.FormatNone
	case containsAny(lowered, "4k", "ultra hd", "uhd"):
		return movie.Format4KBluRay
	case containsAny(lowered, "blu-ray", "blu ray", "bluray"):
		return movie.FormatBluRay
	case strings.Contains(lowered, "dvd"):
		return movie.FormatDVD
	default:
		return movie.FormatNone
	}
}

// HasMediaIndicator reports whether text mentions a video medium.
func HasMediaIndicator(text string) bool {
	return containsAny(lower(text), mediaKeywords...)
}

// Usable reports whether a cleaned title is long enough to search for.
func Usable(cleaned string) bool {
	return len([]rune(cleaned)) >= 3
}

func lower(text string) string {
	if text == "" {
		return ""
	}
	return cases.Lower(language.Und).String(text)
}

func containsAny(text string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}
