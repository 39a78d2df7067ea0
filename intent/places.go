package intent

import "strings"

// placeCodes maps spoken place names to the flight-search location codes
// the booking site expects. Unknown places fall back to their first three
// letters, which the site resolves more often than not.
var placeCodes = map[string]string{
	"edinburgh":                "edi",
	"kenya":                    "ke",
	"united kingdom":           "uk",
	"uk":                       "uk",
	"london":                   "lon",
	"manchester":               "man",
	"new york":                 "nyc",
	"usa":                      "us",
	"united states":            "us",
	"united states of america": "us",
	"japan":                    "jp",
	"tokyo":                    "tyo",
	"france":                   "fr",
	"paris":                    "par",
	"germany":                  "de",
	"spain":                    "es",
	"italy":                    "it",
	"australia":                "au",
	"canada":                   "ca",
	"china":                    "cn",
	"india":                    "in",
	"brazil":                   "br",
	"mexico":                   "mx",
	"nairobi":                  "nbo",
}

// PlaceCode resolves a place name to its location code.
func PlaceCode(place string) string {
	lower := strings.ToLower(strings.TrimSpace(place))
	if code, ok := placeCodes[lower]; ok {
		return code
	}
	var b strings.Builder
	for _, r := range lower {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
			if b.Len() == 3 {
				break
			}
		}
	}
	return b.String()
}

// findLocations returns every known place name mentioned in the text,
// ordered by position so "from X to Y" yields X before Y.
func findLocations(text string) []string {
	norm := NormalizeSpeech(text)
	if norm == "" {
		return nil
	}
	type hit struct {
		name string
		pos  int
	}
	var hits []hit
	for name := range placeCodes {
		if i := strings.Index(norm, name); i >= 0 {
			hits = append(hits, hit{name, i})
		}
	}
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].pos < hits[j-1].pos; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.name
	}
	return out
}
