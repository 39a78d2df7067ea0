package intent

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/auralis/voicebridge/fuzzy"
)

// domainMatchFloor is the minimum blended similarity for matching a spoken
// keyword against a result domain or label. Lower than the general
// acceptance curve because domains are short and rarely ambiguous.
const domainMatchFloor = 0.33

var googleTabs = map[string]string{
	"images":   "isch",
	"image":    "isch",
	"pictures": "isch",
	"news":     "nws",
	"videos":   "vid",
	"video":    "vid",
	"shopping": "shop",
	"books":    "bks",
}

// parseSearch handles search-engine commands: starting a search, switching
// result tabs, and opening a result by position or by domain keyword.
func parseSearch(text string, ctx *Context) (Intent, bool, error) {
	tokens := strings.Fields(text)

	if q, ok := searchQuery(tokens); ok {
		return Navigate{URL: "https://www.google.com/search?q=" + url.QueryEscape(q)}, true, nil
	}

	if u, ok := tabSwitch(tokens, ctx); ok {
		return Navigate{URL: u}, true, nil
	}

	if !strings.Contains(text, "result") {
		return nil, false, nil
	}

	if n, ok := resultOrdinal(tokens); ok {
		if len(ctx.SearchResults) > 0 && n > len(ctx.SearchResults) {
			return nil, false, ErrNoResultMatch
		}
		return ResolveSearchResult{Index: n}, true, nil
	}

	keyword := resultKeyword(tokens)
	if keyword == "" {
		return nil, false, nil
	}
	norm := fuzzy.Normalize(keyword)
	best, bestScore := -1, 0.0
	for i, r := range ctx.SearchResults {
		s := fuzzy.EvaluatePair(norm, fuzzy.Normalize(r.Domain))
		if ts := fuzzy.EvaluatePair(norm, fuzzy.Normalize(r.Title)); ts > s {
			s = ts
		}
		if s > bestScore {
			best, bestScore = i, s
		}
	}
	if best < 0 || bestScore < domainMatchFloor {
		return nil, false, ErrNoResultMatch
	}
	return ResolveSearchResult{Domain: ctx.SearchResults[best].Domain}, true, nil
}

// searchQuery recognizes "search for X" and "look up X".
func searchQuery(tokens []string) (string, bool) {
	for i, t := range tokens {
		if t == "search" && i+1 < len(tokens) {
			rest := tokens[i+1:]
			if rest[0] == "for" {
				rest = rest[1:]
			}
			if len(rest) > 0 {
				return strings.Join(rest, " "), true
			}
		}
		if t == "look" && i+2 < len(tokens) && tokens[i+1] == "up" {
			return strings.Join(tokens[i+2:], " "), true
		}
	}
	return "", false
}

// tabSwitch recognizes "show images", "switch to the news tab" and the
// like, rewriting the current search URL with the matching tab parameter.
// Only meaningful on a search page whose URL carries a query.
func tabSwitch(tokens []string, ctx *Context) (string, bool) {
	verb := false
	tab := ""
	for _, t := range tokens {
		switch t {
		case "show", "switch", "go", "see", "view":
			verb = true
		default:
			if code, ok := googleTabs[t]; ok {
				tab = code
			}
		}
	}
	if !verb || tab == "" {
		return "", false
	}

	u, err := url.Parse(ctx.PageURL)
	if err != nil || !strings.Contains(u.Host, "google.") {
		return "", false
	}
	q := u.Query()
	if q.Get("q") == "" {
		return "", false
	}
	q.Set("tbm", tab)
	u.RawQuery = q.Encode()
	return u.String(), true
}

// cardinalWords covers spoken positions like "result number two". "one"
// is deliberately absent: it stays filler so "the wikipedia one" names a
// result instead of selecting the first.
var cardinalWords = map[string]int{
	"two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// resultOrdinal finds a 1-based result position: "the third result",
// "result 3", "open result number two".
func resultOrdinal(tokens []string) (int, bool) {
	for _, t := range tokens {
		if n, ok := ordinalWords[t]; ok {
			return n, true
		}
		if n, ok := cardinalWords[t]; ok {
			return n, true
		}
		if n, ok := numberToken(t); ok {
			return n, true
		}
	}
	return 0, false
}

// numberToken parses "3", "3rd", "21st" and the like.
func numberToken(t string) (int, bool) {
	for _, suffix := range [...]string{"st", "nd", "rd", "th"} {
		t = strings.TrimSuffix(t, suffix)
	}
	n, err := strconv.Atoi(t)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// resultKeyword strips command filler, leaving the words that should name
// the result, e.g. "open the wikipedia result" leaves "wikipedia".
func resultKeyword(tokens []string) string {
	filler := map[string]bool{
		"open": true, "click": true, "select": true, "choose": true,
		"the": true, "a": true, "result": true, "results": true,
		"please": true, "one": true, "link": true, "go": true, "to": true,
	}
	var kept []string
	for _, t := range tokens {
		if !filler[t] {
			kept = append(kept, t)
		}
	}
	return strings.Join(kept, " ")
}

// bestLabelMatch scores keyword against each label and returns the best
// index if it clears the domain floor.
func bestLabelMatch(keyword string, labels []string) (int, bool) {
	norm := fuzzy.Normalize(keyword)
	best, bestScore := -1, 0.0
	for i, l := range labels {
		if s := fuzzy.EvaluatePair(norm, fuzzy.Normalize(l)); s > bestScore {
			best, bestScore = i, s
		}
	}
	if best < 0 || bestScore < domainMatchFloor {
		return -1, false
	}
	return best, true
}

var openTriggers = map[string]bool{
	"open": true, "goto": true, "go": true, "visit": true, "launch": true,
}

var knownSites = map[string]string{
	"google":    "https://google.com",
	"youtube":   "https://youtube.com",
	"gmail":     "https://mail.google.com",
	"wikipedia": "https://wikipedia.org",
	"amazon":    "https://amazon.com",
	"reddit":    "https://reddit.com",
	"bbc":       "https://bbc.co.uk",
	"netflix":   "https://netflix.com",
	"twitter":   "https://twitter.com",
	"facebook":  "https://facebook.com",
}

// parseOpenSite handles generic "open <site>" commands. Google gets
// special treatment: transcription garbles it often enough that any
// google-looking token within a few words of a trigger counts.
func parseOpenSite(text string, _ *Context) (Intent, bool, error) {
	tokens := strings.Fields(text)
	for i, t := range tokens {
		if !openTriggers[t] {
			continue
		}
		for j := i + 1; j < len(tokens) && j <= i+4; j++ {
			if looksLikeGoogle(tokens[j]) {
				return Navigate{URL: "https://google.com"}, true, nil
			}
		}
		if i+1 < len(tokens) {
			target := tokens[i+1]
			if target == "the" || target == "a" {
				if i+2 >= len(tokens) {
					continue
				}
				target = tokens[i+2]
			}
			if strings.Contains(target, ".") && len(target) > 2 {
				return Navigate{URL: "https://" + target}, true, nil
			}
			if u, ok := matchSite(target); ok {
				return Navigate{URL: u}, true, nil
			}
		}
	}
	if strings.Contains(text, "open google") {
		return Navigate{URL: "https://google.com"}, true, nil
	}
	return nil, false, nil
}

func matchSite(word string) (string, bool) {
	if u, ok := knownSites[word]; ok {
		return u, true
	}
	for name, u := range knownSites {
		if fuzzy.EditDistance(word, name) <= 1 {
			return u, true
		}
	}
	return "", false
}

// looksLikeGoogle accepts the usual transcription manglings of "google".
func looksLikeGoogle(word string) bool {
	var b strings.Builder
	for _, r := range word {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return false
	}
	if strings.HasPrefix(cleaned, "googl") {
		return true
	}
	return fuzzy.EditDistance(cleaned, "google") <= 2
}

// parseMaps handles direction and travel-time questions, answering both
// with a maps URL.
func parseMaps(text string, _ *Context) (Intent, bool, error) {
	tokens := strings.Fields(text)

	for i, t := range tokens {
		if (t == "directions" || t == "navigate") && i+1 < len(tokens) && tokens[i+1] == "to" && i+2 < len(tokens) {
			dest := strings.Join(tokens[i+2:], " ")
			return Navigate{URL: "https://www.google.com/maps/dir/?api=1&destination=" + url.QueryEscape(dest)}, true, nil
		}
	}

	asksDuration := strings.Contains(text, "how long") || strings.Contains(text, "how far") ||
		strings.Contains(text, "travel time")
	if !asksDuration {
		return nil, false, nil
	}
	m := fromToRe.FindStringSubmatch(text)
	if m == nil {
		return nil, false, nil
	}
	origin := strings.TrimSpace(m[1])
	dest := strings.TrimSpace(m[2])
	return Navigate{
		URL: "https://www.google.com/maps/dir/?api=1&origin=" + url.QueryEscape(origin) +
			"&destination=" + url.QueryEscape(dest),
	}, true, nil
}
