// Package holdsession accumulates streaming transcripts for a push-to-hold
// voice command. Transcription keeps emitting partials after the user
// releases the key, and partials are non-monotonic, so the session survives
// key-up inside a grace window and finalizes on a debounced deadline rather
// than immediately.
package holdsession

import (
	"log/slog"
	"strings"
	"time"
	"unicode"
)

// Timing defaults, tuned against streaming transcription jitter. The
// debounce starts long to let the first trailing partial land, then
// shortens once the provider signals it stopped or the stream goes quiet.
const (
	DefaultGraceWindow     = 15 * time.Second
	DefaultInitialDebounce = 3500 * time.Millisecond
	DefaultSettledDebounce = 700 * time.Millisecond
	DefaultQuietPeriod     = 900 * time.Millisecond
	DefaultRecheck         = 800 * time.Millisecond
	DefaultStaleAfter      = 20 * time.Second
	DefaultMaxTranscript   = 4000
)

// Config overrides the timing defaults. Zero fields take the defaults.
type Config struct {
	GraceWindow     time.Duration
	InitialDebounce time.Duration
	SettledDebounce time.Duration
	QuietPeriod     time.Duration
	Recheck         time.Duration
	StaleAfter      time.Duration
	MaxTranscript   int
}

func (c *Config) applyDefaults() {
	if c.GraceWindow == 0 {
		c.GraceWindow = DefaultGraceWindow
	}
	if c.InitialDebounce == 0 {
		c.InitialDebounce = DefaultInitialDebounce
	}
	if c.SettledDebounce == 0 {
		c.SettledDebounce = DefaultSettledDebounce
	}
	if c.QuietPeriod == 0 {
		c.QuietPeriod = DefaultQuietPeriod
	}
	if c.Recheck == 0 {
		c.Recheck = DefaultRecheck
	}
	if c.StaleAfter == 0 {
		c.StaleAfter = DefaultStaleAfter
	}
	if c.MaxTranscript == 0 {
		c.MaxTranscript = DefaultMaxTranscript
	}
}

type state int

const (
	stateIdle state = iota
	stateRecording
	statePending
)

// session is the mutable state of one hold interaction.
type session struct {
	holdID           string
	startedAt        time.Time
	transcript       string
	bestLength       int
	pendingUntil     time.Time
	lastTranscriptAt time.Time
	recordStopped    bool
}

// Manager owns at most one hold session at a time. All methods must be
// called from a single goroutine; the owner drives the deadline returned
// by NextDeadline and calls Tick when it fires. Every event recomputes the
// one deadline; timers are never stacked.
type Manager struct {
	cfg    Config
	clock  Clock
	log    *slog.Logger
	final  func(holdID, transcript string)
	state  state
	sess   session
	nextAt time.Time
}

// NewManager creates a manager that calls onFinalize exactly once per
// session, with the trimmed transcript (possibly empty). clock may be nil
// for the system clock.
func NewManager(cfg Config, clock Clock, log *slog.Logger, onFinalize func(holdID, transcript string)) *Manager {
	cfg.applyDefaults()
	if clock == nil {
		clock = SystemClock()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Manager{cfg: cfg, clock: clock, log: log, final: onFinalize}
}

// Start opens a session for holdID. Starting the already-active holdID is
// a no-op. A different live session is superseded: if it is stale it is
// dropped outright, otherwise it is finalized with whatever it collected.
func (m *Manager) Start(holdID string) {
	now := m.clock.Now()
	if m.state != stateIdle {
		if m.sess.holdID == holdID {
			return
		}
		if m.stale(now) {
			m.log.Warn("discarding stale hold session", "hold_id", m.sess.holdID)
			m.reset()
		} else {
			m.finalize(now)
		}
	}

	m.state = stateRecording
	m.sess = session{holdID: holdID, startedAt: now}
	m.nextAt = time.Time{}
	m.log.Debug("hold session started", "hold_id", holdID)
}

func (m *Manager) stale(now time.Time) bool {
	return m.sess.recordStopped || now.Sub(m.sess.startedAt) > m.cfg.StaleAfter
}

// Active reports whether a session is recording or pending finalize.
func (m *Manager) Active() bool { return m.state != stateIdle }

// HoldID returns the active session id, or empty.
func (m *Manager) HoldID() string {
	if m.state == stateIdle {
		return ""
	}
	return m.sess.holdID
}

// OnTranscript merges one streaming transcript update into the session.
// Longer text replaces the accumulator on the assumption that partials
// extend forward; shorter text that is not already contained is appended
// as a distinct fragment, trimmed from the front when the cap is hit so
// the newest speech survives. Updates after the grace window are dropped.
func (m *Manager) OnTranscript(text string) {
	if m.state == stateIdle {
		return
	}
	now := m.clock.Now()
	if m.state == statePending && now.After(m.sess.pendingUntil) {
		return
	}

	norm := normalizeTranscript(text)
	if norm == "" {
		return
	}

	switch {
	case len(norm) >= m.sess.bestLength:
		m.sess.transcript = norm
		m.sess.bestLength = len(norm)
	case !strings.Contains(m.sess.transcript, norm):
		m.sess.transcript = strings.TrimSpace(m.sess.transcript + " " + norm)
		if over := len(m.sess.transcript) - m.cfg.MaxTranscript; over > 0 {
			m.sess.transcript = m.sess.transcript[over:]
		}
	}
	m.sess.lastTranscriptAt = now

	if m.state == statePending {
		m.schedule(now)
	}
}

// RecordStopped notes that the capture source confirmed it stopped, which
// shortens the finalize debounce.
func (m *Manager) RecordStopped() {
	if m.state == stateIdle {
		return
	}
	m.sess.recordStopped = true
	if m.state == statePending {
		m.schedule(m.clock.Now())
	}
}

// Stop ends recording for holdID and enters the pending-finalize window.
// A mismatched holdID is ignored.
func (m *Manager) Stop(holdID string) {
	if m.state != stateRecording || m.sess.holdID != holdID {
		return
	}
	now := m.clock.Now()
	m.state = statePending
	m.sess.pendingUntil = now.Add(m.cfg.GraceWindow)
	m.schedule(now)
	m.log.Debug("hold session pending finalize", "hold_id", holdID, "until", m.sess.pendingUntil)
}

// schedule recomputes the single finalize deadline.
func (m *Manager) schedule(now time.Time) {
	d := m.cfg.InitialDebounce
	if m.sess.recordStopped || m.quiet(now) {
		d = m.cfg.SettledDebounce
	}
	m.nextAt = now.Add(d)
	if m.nextAt.After(m.sess.pendingUntil) {
		m.nextAt = m.sess.pendingUntil
	}
}

func (m *Manager) quiet(now time.Time) bool {
	return !m.sess.lastTranscriptAt.IsZero() &&
		now.Sub(m.sess.lastTranscriptAt) >= m.cfg.QuietPeriod
}

// NextDeadline returns when Tick should next run, or the zero time when no
// timer is needed.
func (m *Manager) NextDeadline() time.Time {
	if m.state != statePending {
		return time.Time{}
	}
	return m.nextAt
}

// Tick evaluates the finalize conditions at the current clock time. The
// session finalizes when the grace window is exhausted, the source
// confirmed it stopped, or the transcript has been quiet long enough.
// Otherwise the deadline is pushed out for another check.
func (m *Manager) Tick() {
	if m.state != statePending {
		return
	}
	now := m.clock.Now()
	if now.Before(m.nextAt) {
		return
	}

	forced := !now.Before(m.sess.pendingUntil)
	quiet := m.quiet(now) || m.sess.lastTranscriptAt.IsZero()
	if forced || m.sess.recordStopped || quiet {
		m.finalize(now)
		return
	}
	m.nextAt = now.Add(m.cfg.Recheck)
	if m.nextAt.After(m.sess.pendingUntil) {
		m.nextAt = m.sess.pendingUntil
	}
}

// Flush finalizes the active session immediately with whatever transcript
// it collected. No-op when idle.
func (m *Manager) Flush() {
	if m.state == stateIdle {
		return
	}
	m.finalize(m.clock.Now())
}

func (m *Manager) finalize(now time.Time) {
	holdID := m.sess.holdID
	text := strings.TrimSpace(m.sess.transcript)
	m.reset()
	m.log.Debug("hold session finalized", "hold_id", holdID, "chars", len(text))
	if m.final != nil {
		m.final(holdID, text)
	}
}

func (m *Manager) reset() {
	m.state = stateIdle
	m.sess = session{}
	m.nextAt = time.Time{}
}

// normalizeTranscript lowercases, keeps letters, digits, '.' and '-', and
// collapses runs of anything else to single spaces.
func normalizeTranscript(s string) string {
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
