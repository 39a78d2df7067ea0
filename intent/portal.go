package intent

import (
	"strings"

	"github.com/auralis/voicebridge/fuzzy"
)

// parsePortal resolves course navigation on the learning portal. It only
// runs when the page exposes course titles, and it outranks every other
// parser so "open grammar essentials" opens the course rather than a
// website.
func parsePortal(text string, ctx *Context) (Intent, bool, error) {
	if len(ctx.Courses) == 0 {
		return nil, false, nil
	}

	tokens := strings.Fields(text)
	verb := false
	for _, t := range tokens {
		switch t {
		case "open", "start", "continue", "resume", "show", "go":
			verb = true
		}
	}
	if !verb {
		return nil, false, nil
	}

	query := stripCourseFiller(tokens)
	if query == "" {
		return nil, false, nil
	}
	m, ok := fuzzy.BestCandidate(query, ctx.Courses)
	if !ok {
		return nil, false, nil
	}
	return OpenCourse{Query: ctx.Courses[m.Index]}, true, nil
}

func stripCourseFiller(tokens []string) string {
	filler := map[string]bool{
		"open": true, "start": true, "continue": true, "resume": true,
		"show": true, "go": true, "to": true, "the": true, "a": true, "my": true,
		"course": true, "lesson": true, "module": true, "unit": true, "please": true,
	}
	var kept []string
	for _, t := range tokens {
		if !filler[t] {
			kept = append(kept, t)
		}
	}
	return strings.Join(kept, " ")
}

// parseTravelProvider resolves a spoken provider or deal name against the
// offers listed on an active travel site, using the same relaxed floor as
// search-result domains.
func parseTravelProvider(text string, ctx *Context) (Intent, bool, error) {
	if len(ctx.TravelProviders) == 0 {
		return nil, false, nil
	}
	// A fresh booking request belongs to the flight parser, not to the
	// offers already on screen.
	if strings.Contains(text, "flight") || strings.Contains(text, "fly") {
		return nil, false, nil
	}

	tokens := strings.Fields(text)
	verb := false
	for _, t := range tokens {
		switch t {
		case "open", "choose", "select", "pick", "book", "take":
			verb = true
		}
	}
	if !verb {
		return nil, false, nil
	}

	keyword := stripProviderFiller(tokens)
	if keyword == "" {
		return nil, false, nil
	}
	i, ok := bestLabelMatch(keyword, ctx.TravelProviders)
	if !ok {
		return nil, false, ErrNoResultMatch
	}
	return ResolveSearchResult{Domain: ctx.TravelProviders[i]}, true, nil
}

func stripProviderFiller(tokens []string) string {
	filler := map[string]bool{
		"open": true, "choose": true, "select": true, "pick": true,
		"book": true, "take": true, "with": true, "the": true, "a": true,
		"one": true, "deal": true, "offer": true, "please": true,
	}
	var kept []string
	for _, t := range tokens {
		if !filler[t] {
			kept = append(kept, t)
		}
	}
	return strings.Join(kept, " ")
}
