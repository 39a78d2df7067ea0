package holdsession

import (
	"strings"
	"testing"
	"time"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type finalized struct {
	holdID string
	text   string
	called bool
}

func newTestManager() (*Manager, *fakeClock, *finalized) {
	clk := &fakeClock{now: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)}
	fin := &finalized{}
	m := NewManager(Config{}, clk, nil, func(id, text string) {
		fin.holdID, fin.text, fin.called = id, text, true
	})
	return m, clk, fin
}

// drive advances the clock to the manager's deadline and ticks, repeating
// until the session finalizes or the step limit trips.
func drive(t *testing.T, m *Manager, clk *fakeClock, fin *finalized) {
	t.Helper()
	for i := 0; i < 50 && !fin.called; i++ {
		next := m.NextDeadline()
		if next.IsZero() {
			t.Fatal("no deadline scheduled while pending")
		}
		if next.After(clk.now) {
			clk.now = next
		}
		m.Tick()
	}
	if !fin.called {
		t.Fatal("session never finalized")
	}
}

func TestEmptySessionFinalizesToNoOp(t *testing.T) {
	m, clk, fin := newTestManager()
	m.Start("h1")
	m.Stop("h1")
	drive(t, m, clk, fin)
	if fin.text != "" {
		t.Errorf("transcript = %q, want empty", fin.text)
	}
	if m.Active() {
		t.Error("manager still active after finalize")
	}
}

func TestStartIsIdempotent(t *testing.T) {
	m, _, fin := newTestManager()
	m.Start("h1")
	m.OnTranscript("open the third result")
	m.Start("h1")
	if fin.called {
		t.Fatal("second Start finalized the session")
	}
	m.Stop("h1")
	clk := m.clock.(*fakeClock)
	drive(t, m, clk, fin)
	if fin.text != "open the third result" {
		t.Errorf("transcript = %q", fin.text)
	}
}

func TestLongerPartialReplaces(t *testing.T) {
	m, clk, fin := newTestManager()
	m.Start("h1")
	m.OnTranscript("open the")
	m.OnTranscript("open the third result")
	m.Stop("h1")
	drive(t, m, clk, fin)
	if fin.text != "open the third result" {
		t.Errorf("transcript = %q", fin.text)
	}
}

func TestShorterDistinctFragmentAppends(t *testing.T) {
	m, clk, fin := newTestManager()
	m.Start("h1")
	m.OnTranscript("open the third result")
	m.OnTranscript("please")
	m.Stop("h1")
	drive(t, m, clk, fin)
	if fin.text != "open the third result please" {
		t.Errorf("transcript = %q", fin.text)
	}
}

func TestShorterContainedFragmentIgnored(t *testing.T) {
	m, clk, fin := newTestManager()
	m.Start("h1")
	m.OnTranscript("turn off high contrast")
	m.OnTranscript("high contrast")
	m.Stop("h1")
	drive(t, m, clk, fin)
	if fin.text != "turn off high contrast" {
		t.Errorf("transcript = %q", fin.text)
	}
}

func TestTranscriptCapKeepsNewestSpeech(t *testing.T) {
	m, clk, fin := newTestManager()
	m.Start("h1")
	m.OnTranscript(strings.Repeat("letters and numbers ", 230))
	m.OnTranscript("book a flight to paris")
	m.Stop("h1")
	drive(t, m, clk, fin)
	if !strings.HasSuffix(fin.text, "book a flight to paris") {
		t.Errorf("newest words lost, transcript ends %q", fin.text[len(fin.text)-40:])
	}
	if len(fin.text) > DefaultMaxTranscript {
		t.Errorf("transcript length %d exceeds cap %d", len(fin.text), DefaultMaxTranscript)
	}
}

func TestLatePartialInsideGraceWindow(t *testing.T) {
	m, clk, fin := newTestManager()
	m.Start("h1")
	m.OnTranscript("book a flight")
	m.Stop("h1")
	clk.Advance(2 * time.Second)
	m.OnTranscript("book a flight from edinburgh to paris")
	drive(t, m, clk, fin)
	if fin.text != "book a flight from edinburgh to paris" {
		t.Errorf("transcript = %q", fin.text)
	}
}

func TestUpdateAfterGraceWindowDropped(t *testing.T) {
	m, clk, fin := newTestManager()
	m.Start("h1")
	m.OnTranscript("hello")
	m.Stop("h1")
	clk.Advance(16 * time.Second) // past the grace window
	m.OnTranscript("hello goodbye something else")
	m.Tick()
	if !fin.called {
		t.Fatal("expected forced finalize after grace window")
	}
	if fin.text != "hello" {
		t.Errorf("transcript = %q, want %q", fin.text, "hello")
	}
}

func TestRecordStoppedShortensDebounce(t *testing.T) {
	m, clk, fin := newTestManager()
	m.Start("h1")
	m.OnTranscript("increase font size")
	m.Stop("h1")
	m.RecordStopped()

	next := m.NextDeadline()
	if d := next.Sub(clk.now); d != DefaultSettledDebounce {
		t.Errorf("deadline in %v, want %v", d, DefaultSettledDebounce)
	}
	clk.now = next
	m.Tick()
	if !fin.called {
		t.Fatal("expected finalize at settled debounce")
	}
}

func TestStaleSessionDiscardedOnNewStart(t *testing.T) {
	m, clk, fin := newTestManager()
	m.Start("old")
	m.OnTranscript("stale words")
	clk.Advance(25 * time.Second)
	m.Start("new")
	if fin.called {
		t.Error("stale session should be discarded, not finalized")
	}
	if m.HoldID() != "new" {
		t.Errorf("active hold = %q, want %q", m.HoldID(), "new")
	}
}

func TestLiveSessionFinalizedOnNewStart(t *testing.T) {
	m, clk, fin := newTestManager()
	m.Start("old")
	m.OnTranscript("first command")
	clk.Advance(2 * time.Second)
	m.Start("new")
	if !fin.called || fin.holdID != "old" || fin.text != "first command" {
		t.Errorf("finalize = %+v, want old/first command", fin)
	}
	if m.HoldID() != "new" {
		t.Errorf("active hold = %q", m.HoldID())
	}
}

func TestStopMismatchedHoldIgnored(t *testing.T) {
	m, _, _ := newTestManager()
	m.Start("h1")
	m.Stop("other")
	if !m.NextDeadline().IsZero() {
		t.Error("mismatched Stop scheduled a finalize")
	}
	if !m.Active() {
		t.Error("session torn down by mismatched Stop")
	}
}

func TestTickBeforeDeadlineIsNoOp(t *testing.T) {
	m, _, fin := newTestManager()
	m.Start("h1")
	m.OnTranscript("hello")
	m.Stop("h1")
	m.Tick()
	if fin.called {
		t.Error("ticked before deadline yet finalized")
	}
}

func TestNormalizeTranscript(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Open GOOGLE.com, please!", "open google.com please"},
		{"  twenty-first   of June ", "twenty-first of june"},
		{"???", ""},
	}
	for _, tt := range tests {
		if got := normalizeTranscript(tt.in); got != tt.want {
			t.Errorf("normalizeTranscript(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
