package intent

import (
	"errors"
	"testing"
)

func interpret(t *testing.T, text string, ctx *Context) Intent {
	t.Helper()
	it, err := NewInterpreter().Interpret(text, ctx)
	if err != nil {
		t.Fatalf("Interpret(%q) error: %v", text, err)
	}
	return it
}

func TestTurnOffHighContrast(t *testing.T) {
	it := interpret(t, "turn off high contrast", nil)
	vu, ok := it.(VisualUpdate)
	if !ok {
		t.Fatalf("intent = %T, want VisualUpdate", it)
	}
	if v, ok := vu.Fields["highContrastEnabled"]; !ok || v != false {
		t.Errorf("fields = %v, want highContrastEnabled=false", vu.Fields)
	}
}

func TestVisualFuzzyFallback(t *testing.T) {
	it := interpret(t, "enable the reeding ruler", nil)
	vu, ok := it.(VisualUpdate)
	if !ok {
		t.Fatalf("intent = %T, want VisualUpdate", it)
	}
	if v := vu.Fields["lineGuideEnabled"]; v != true {
		t.Errorf("fields = %v, want lineGuideEnabled=true", vu.Fields)
	}
}

func TestSetFontSize(t *testing.T) {
	it := interpret(t, "set the font size to 60", nil)
	vu, ok := it.(VisualUpdate)
	if !ok {
		t.Fatalf("intent = %T, want VisualUpdate", it)
	}
	if vu.Fields["fontSizePx"] != 60 || vu.Fields["fontSizeEnabled"] != true {
		t.Errorf("fields = %v", vu.Fields)
	}
}

func TestSetDimmingPercent(t *testing.T) {
	it := interpret(t, "set screen dimming to 40", nil)
	vu, ok := it.(VisualUpdate)
	if !ok {
		t.Fatalf("intent = %T, want VisualUpdate", it)
	}
	if vu.Fields["dimmingLevel"] != 0.4 {
		t.Errorf("fields = %v, want dimmingLevel=0.4", vu.Fields)
	}
}

func TestOpenThirdResult(t *testing.T) {
	ctx := &Context{SearchResults: []SearchResult{
		{Title: "First", Domain: "a.com"},
		{Title: "Second", Domain: "b.com"},
		{Title: "Third", Domain: "c.com"},
	}}
	it := interpret(t, "open the third result", ctx)
	rs, ok := it.(ResolveSearchResult)
	if !ok {
		t.Fatalf("intent = %T, want ResolveSearchResult", it)
	}
	if rs.Index != 3 {
		t.Errorf("index = %d, want 3", rs.Index)
	}
}

func TestResultCardinalWord(t *testing.T) {
	ctx := &Context{SearchResults: []SearchResult{
		{Title: "First", Domain: "a.com"},
		{Title: "Second", Domain: "b.com"},
	}}
	it := interpret(t, "open result number two", ctx)
	rs, ok := it.(ResolveSearchResult)
	if !ok {
		t.Fatalf("intent = %T, want ResolveSearchResult", it)
	}
	if rs.Index != 2 {
		t.Errorf("index = %d, want 2", rs.Index)
	}
}

func TestResultIndexOutOfRange(t *testing.T) {
	ctx := &Context{SearchResults: []SearchResult{{Title: "Only", Domain: "a.com"}}}
	_, err := NewInterpreter().Interpret("open the fifth result", ctx)
	if !errors.Is(err, ErrNoResultMatch) {
		t.Fatalf("err = %v, want ErrNoResultMatch", err)
	}
}

func TestResultByDomain(t *testing.T) {
	ctx := &Context{SearchResults: []SearchResult{
		{Title: "BBC News Home", Domain: "bbc.co.uk"},
		{Title: "Wikipedia, the free encyclopedia", Domain: "wikipedia.org"},
	}}
	it := interpret(t, "open the wikipedia result", ctx)
	rs, ok := it.(ResolveSearchResult)
	if !ok {
		t.Fatalf("intent = %T, want ResolveSearchResult", it)
	}
	if rs.Domain != "wikipedia.org" {
		t.Errorf("domain = %q, want wikipedia.org", rs.Domain)
	}
}

func TestFlightBooking(t *testing.T) {
	it := interpret(t, "book a flight from edinburgh to paris from the 3rd of june to the 10th of june", nil)
	bf, ok := it.(BookFlight)
	if !ok {
		t.Fatalf("intent = %T, want BookFlight", it)
	}
	want := BookFlight{Origin: "edinburgh", Destination: "paris", DepartDate: "260603", ReturnDate: "260610"}
	if bf != want {
		t.Errorf("booking = %+v, want %+v", bf, want)
	}
}

func TestFlightDestinationOnly(t *testing.T) {
	it := interpret(t, "book a flight to tokyo from the 1st of july to the 8th of july", nil)
	bf, ok := it.(BookFlight)
	if !ok {
		t.Fatalf("intent = %T, want BookFlight", it)
	}
	if bf.Origin != "edinburgh" || bf.Destination != "tokyo" {
		t.Errorf("booking = %+v", bf)
	}
	if bf.DepartDate != "260701" || bf.ReturnDate != "260708" {
		t.Errorf("dates = %s %s", bf.DepartDate, bf.ReturnDate)
	}
}

func TestFlightMissingDatesDeclines(t *testing.T) {
	it := interpret(t, "book a flight to tokyo", nil)
	if _, ok := it.(None); !ok {
		t.Fatalf("intent = %#v, want None", it)
	}
}

func TestOpenGoogleVariants(t *testing.T) {
	for _, text := range []string{
		"open google",
		"please go to googol now",
		"launch googel for me",
	} {
		it := interpret(t, text, nil)
		nav, ok := it.(Navigate)
		if !ok {
			t.Fatalf("intent for %q = %T, want Navigate", text, it)
		}
		if nav.URL != "https://google.com" {
			t.Errorf("url for %q = %q", text, nav.URL)
		}
	}
}

func TestOpenSpokenDomain(t *testing.T) {
	it := interpret(t, "open wikipedia.org", nil)
	nav, ok := it.(Navigate)
	if !ok {
		t.Fatalf("intent = %T, want Navigate", it)
	}
	if nav.URL != "https://wikipedia.org" {
		t.Errorf("url = %q", nav.URL)
	}
}

func TestSearchFor(t *testing.T) {
	it := interpret(t, "search for dyslexia friendly fonts", nil)
	nav, ok := it.(Navigate)
	if !ok {
		t.Fatalf("intent = %T, want Navigate", it)
	}
	if nav.URL != "https://www.google.com/search?q=dyslexia+friendly+fonts" {
		t.Errorf("url = %q", nav.URL)
	}
}

func TestTabSwitch(t *testing.T) {
	ctx := &Context{PageURL: "https://www.google.com/search?q=cats"}
	it := interpret(t, "show me the news tab", ctx)
	nav, ok := it.(Navigate)
	if !ok {
		t.Fatalf("intent = %T, want Navigate", it)
	}
	if nav.URL != "https://www.google.com/search?q=cats&tbm=nws" {
		t.Errorf("url = %q", nav.URL)
	}
}

func TestPortalCourse(t *testing.T) {
	ctx := &Context{Courses: []string{"Grammar Essentials", "Creative Writing", "Everyday Maths"}}
	it := interpret(t, "open grammar essentials", ctx)
	oc, ok := it.(OpenCourse)
	if !ok {
		t.Fatalf("intent = %T, want OpenCourse", it)
	}
	if oc.Query != "Grammar Essentials" {
		t.Errorf("query = %q", oc.Query)
	}
}

func TestPortalOutranksOpenSite(t *testing.T) {
	ctx := &Context{Courses: []string{"Google Workspace Basics"}}
	it := interpret(t, "open google workspace basics", ctx)
	if _, ok := it.(OpenCourse); !ok {
		t.Fatalf("intent = %T, want OpenCourse", it)
	}
}

func TestTravelProvider(t *testing.T) {
	ctx := &Context{TravelProviders: []string{"Ryanair", "EasyJet", "British Airways"}}
	it := interpret(t, "choose the easy jet one", ctx)
	rs, ok := it.(ResolveSearchResult)
	if !ok {
		t.Fatalf("intent = %T, want ResolveSearchResult", it)
	}
	if rs.Domain != "EasyJet" {
		t.Errorf("provider = %q", rs.Domain)
	}
}

func TestMapsDirections(t *testing.T) {
	it := interpret(t, "directions to edinburgh castle", nil)
	nav, ok := it.(Navigate)
	if !ok {
		t.Fatalf("intent = %T, want Navigate", it)
	}
	if nav.URL != "https://www.google.com/maps/dir/?api=1&destination=edinburgh+castle" {
		t.Errorf("url = %q", nav.URL)
	}
}

func TestMapsDuration(t *testing.T) {
	it := interpret(t, "how long from edinburgh to glasgow", nil)
	nav, ok := it.(Navigate)
	if !ok {
		t.Fatalf("intent = %T, want Navigate", it)
	}
	if nav.URL != "https://www.google.com/maps/dir/?api=1&origin=edinburgh&destination=glasgow" {
		t.Errorf("url = %q", nav.URL)
	}
}

func TestUnclaimedUtteranceIsNone(t *testing.T) {
	for _, text := range []string{"", "hello there", "what a lovely day"} {
		it := interpret(t, text, nil)
		if _, ok := it.(None); !ok {
			t.Errorf("intent for %q = %T, want None", text, it)
		}
	}
}
