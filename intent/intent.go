// Package intent turns recognized speech into a structured page action.
// Interpretation is a priority chain of independent parsers; each parser
// either claims the utterance with a complete intent or declines, and a
// decline is never an error, only the next parser's opportunity.
package intent

import (
	"errors"
	"strings"
	"unicode"

	"github.com/auralis/voicebridge/internal/types"
)

// ErrNoResultMatch is returned when the utterance clearly asks for a
// search result but nothing on the page matches.
var ErrNoResultMatch = errors.New("intent: no search result matches")

// Intent is the structured action derived from one utterance.
type Intent interface {
	// Kind is a stable label for logging and metrics.
	Kind() string
}

// VisualUpdate patches one or more visual accessibility settings.
type VisualUpdate struct {
	Fields map[string]any
}

func (VisualUpdate) Kind() string { return "visual_update" }

// Navigate opens a URL in the active tab.
type Navigate struct {
	URL string
}

func (Navigate) Kind() string { return "navigate" }

// OpenCourse opens a course on the learning portal.
type OpenCourse struct {
	Query string
}

func (OpenCourse) Kind() string { return "open_course" }

// ResolveSearchResult selects a result on the current page, either by
// 1-based position or by a matched domain or label keyword.
type ResolveSearchResult struct {
	Index  int
	Domain string
}

func (ResolveSearchResult) Kind() string { return "resolve_search_result" }

// BookFlight opens a flight search. Dates are 6-digit YYMMDD tokens.
type BookFlight struct {
	Origin      string
	Destination string
	DepartDate  string
	ReturnDate  string
}

func (BookFlight) Kind() string { return "book_flight" }

// None means no parser claimed the utterance; nothing is dispatched.
type None struct{}

func (None) Kind() string { return "none" }

// SearchResult is one candidate result visible on the page.
type SearchResult struct {
	Title  string
	Domain string
}

// Context is the page state parsers may consult. All fields are optional.
type Context struct {
	PageURL         string
	SearchResults   []SearchResult
	Courses         []string
	TravelProviders []string
	Settings        types.Settings
}

// Parser inspects a normalized utterance and either claims it or declines.
// A claimed parse may still carry an error (an explicit no-match), which
// stops the chain.
type Parser func(text string, ctx *Context) (Intent, bool, error)

// Interpreter runs the parser chain in fixed priority order.
type Interpreter struct {
	parsers []Parser
}

// NewInterpreter builds the default chain. Order matters: page-specific
// parsers run before generic ones so "open grammar essentials" on the
// portal opens a course rather than a website.
func NewInterpreter() *Interpreter {
	return &Interpreter{parsers: []Parser{
		parsePortal,
		parseTravelProvider,
		parseSearch,
		parseVisual,
		parseOpenSite,
		parseMaps,
		parseFlight,
	}}
}

// Interpret resolves text to an intent. The zero result is None; an error
// is only returned for an explicit no-match, never for a plain decline.
func (in *Interpreter) Interpret(text string, ctx *Context) (Intent, error) {
	if ctx == nil {
		ctx = &Context{}
	}
	norm := NormalizeSpeech(text)
	if norm == "" {
		return None{}, nil
	}
	for _, p := range in.parsers {
		it, ok, err := p(norm, ctx)
		if err != nil {
			return None{}, err
		}
		if ok {
			return it, nil
		}
	}
	return None{}, nil
}

// NormalizeSpeech lowercases and keeps letters, digits, '.' and '-',
// collapsing everything else to single spaces. Dots survive so spoken
// domains like "google.com" stay intact.
func NormalizeSpeech(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := true
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-':
			b.WriteRune(r)
			space = false
		case !space:
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimSpace(b.String())
}
