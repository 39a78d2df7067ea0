// Package assist orchestrates capture, transcription, interpretation and
// dispatch. It owns the one active session: starting any capture mode
// first tears down whatever mode was running.
package assist

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/auralis/voicebridge/audioproc"
	"github.com/auralis/voicebridge/capture"
	"github.com/auralis/voicebridge/config"
	"github.com/auralis/voicebridge/dispatch"
	"github.com/auralis/voicebridge/holdsession"
	"github.com/auralis/voicebridge/intent"
	"github.com/auralis/voicebridge/internal/metrics"
	"github.com/auralis/voicebridge/internal/types"
	"github.com/auralis/voicebridge/segmenter"
	"github.com/auralis/voicebridge/transcribe"
)

// Session error taxonomy. Session state is always cleared before one of
// these surfaces, so the state machine cannot wedge.
var (
	ErrCaptureUnavailable = errors.New("assist: capture source unavailable")
	ErrTranscription      = errors.New("assist: transcription connection failed")
	ErrResponseTimeout    = errors.New("assist: response timed out")
)

// dupWindow suppresses a repeated identical command; streaming
// transcription tends to deliver the same utterance twice in quick
// succession.
const dupWindow = 4 * time.Second

// Mode is the active capture mode.
type Mode string

const (
	ModeNone       Mode = ""
	ModeHold       Mode = "hold"
	ModeContinuous Mode = "continuous"
)

// Dispatcher performs the side effect of a resolved intent. The core never
// touches the page itself.
type Dispatcher interface {
	Dispatch(ctx context.Context, it intent.Intent) error
}

// ResponseHandler receives conversational answers from the backend.
type ResponseHandler func(types.AssistResponse)

// Transcriber is the streaming transcription connection used by hold mode.
type Transcriber interface {
	Connect(ctx context.Context) error
	SendAudio(ctx context.Context, pcm []byte, sampleRate int) error
	Events() <-chan transcribe.Event
	Errors() <-chan error
	Close() error
}

// Options wires the controller's collaborators.
type Options struct {
	Config     config.Config
	Source     capture.Source
	Dispatcher Dispatcher
	Backend    Backend
	Responses  ResponseHandler
	Snapshot   dispatch.SnapshotFunc
	// PageContext supplies the current page state for interpretation.
	// May be nil.
	PageContext func() *intent.Context
	// NewTranscriber overrides the transcription client constructor.
	NewTranscriber func() Transcriber
	Clock          holdsession.Clock
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
}

// Controller owns the active session.
type Controller struct {
	cfg        config.Config
	log        *slog.Logger
	metrics    *metrics.Metrics
	clock      holdsession.Clock
	source     capture.Source
	dispatcher Dispatcher
	backend    Backend
	responses  ResponseHandler
	snapshots  *dispatch.SnapshotCache
	pageCtx    func() *intent.Context
	newTS      func() Transcriber
	interp     *intent.Interpreter

	mu        sync.Mutex
	mode      Mode
	sessionID string
	cancel    context.CancelFunc
	stream    *capture.Stream
	ts        Transcriber
	acc       transcribe.Accumulator
	holds     *holdsession.Manager
	holdTimer *time.Timer
	stopTimer *time.Timer
	lastKey   string
	lastAt    time.Time
}

// NewController builds a controller from its options.
func NewController(opts Options) *Controller {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = holdsession.SystemClock()
	}
	c := &Controller{
		cfg:        opts.Config,
		log:        log,
		metrics:    opts.Metrics,
		clock:      clock,
		source:     opts.Source,
		dispatcher: opts.Dispatcher,
		backend:    opts.Backend,
		responses:  opts.Responses,
		pageCtx:    opts.PageContext,
		newTS:      opts.NewTranscriber,
		interp:     intent.NewInterpreter(),
	}
	if opts.Snapshot != nil {
		c.snapshots = dispatch.NewSnapshotCache(opts.Snapshot, opts.Config.Dispatch.SnapshotTTL)
	}
	if c.newTS == nil {
		c.newTS = func() Transcriber {
			return transcribe.NewClient(transcribe.ClientConfig{
				URL:         opts.Config.Transcription.URL,
				DialTimeout: opts.Config.Transcription.DialTimeout,
			}, log)
		}
	}
	c.holds = holdsession.NewManager(holdsession.Config{
		GraceWindow:     opts.Config.Hold.GraceWindow,
		InitialDebounce: opts.Config.Hold.InitialDebounce,
		SettledDebounce: opts.Config.Hold.SettledDebounce,
		QuietPeriod:     opts.Config.Hold.QuietPeriod,
		StaleAfter:      opts.Config.Hold.StaleAfter,
		MaxTranscript:   opts.Config.Hold.MaxTranscriptLen,
	}, clock, log, c.onHoldFinalized)
	return c
}

// Mode returns the active capture mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// State reports the current session for display.
func (c *Controller) State() types.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := types.SessionState{Mode: string(c.mode), SessionID: c.sessionID}
	if c.stream != nil {
		st.Active = c.stream.IsCapturing()
		st.Duration = int64(c.stream.Duration().Seconds())
	}
	return st
}

// StartHold begins a push-to-hold session and returns its id. Any other
// active mode is torn down first.
func (c *Controller) StartHold(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.teardownLocked()

	holdID := uuid.NewString()
	runCtx, cancel := context.WithCancel(context.Background())

	ts := c.newTS()
	if err := ts.Connect(ctx); err != nil {
		cancel()
		return "", fmt.Errorf("%w: %v", ErrTranscription, err)
	}

	stream := capture.NewStream(c.source, capture.Config{})
	frontend := audioproc.NewFrontend(c.source.SampleRate(), c.cfg.Audio.TargetSampleRate, c.cfg.Audio.VADThreshold)

	// The frame callback must never block; audio is handed to a pump
	// goroutine and shed when the pump falls behind.
	chunks := make(chan []byte, 16)
	stream.OnFrame(func(frame []float32) {
		resampled, _ := frontend.Process(frame)
		select {
		case chunks <- audioproc.FloatToPCM16(resampled):
		default:
		}
	})

	if err := stream.Start(); err != nil {
		ts.Close()
		cancel()
		return "", fmt.Errorf("%w: %v", ErrCaptureUnavailable, err)
	}

	c.mode = ModeHold
	c.sessionID = holdID
	c.cancel = cancel
	c.stream = stream
	c.ts = ts
	c.acc.Reset()
	c.holds.Start(holdID)

	go c.pumpAudio(runCtx, ts, chunks)
	go c.pumpTranscripts(runCtx, holdID, ts)

	c.log.Info("hold session started", "hold_id", holdID)
	return holdID, nil
}

func (c *Controller) pumpAudio(ctx context.Context, ts Transcriber, chunks <-chan []byte) {
	for {
		select {
		case <-ctx.Done():
			return
		case pcm := <-chunks:
			if err := ts.SendAudio(ctx, pcm, c.cfg.Audio.TargetSampleRate); err != nil {
				if ctx.Err() == nil {
					c.log.Warn("audio send failed", "error", err)
				}
				return
			}
		}
	}
}

func (c *Controller) pumpTranscripts(ctx context.Context, holdID string, ts Transcriber) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ts.Events():
			if !ok {
				return
			}
			c.onTranscriptEvent(holdID, ev)
		case err := <-ts.Errors():
			c.onTranscriptionError(holdID, err)
			return
		}
	}
}

func (c *Controller) onTranscriptEvent(holdID string, ev transcribe.Event) {
	c.mu.Lock()
	if c.holds.HoldID() != holdID {
		c.mu.Unlock()
		return
	}

	te, ok, err := c.acc.Apply(ev)
	if err == nil && ok {
		if c.metrics != nil {
			c.metrics.TranscriptEvents.Inc()
			if te.IsFinal {
				c.metrics.FinalTranscripts.Inc()
			}
		}
		c.holds.OnTranscript(te.Text)
		c.armHoldTimerLocked()
	}
	c.mu.Unlock()

	if err != nil {
		c.onTranscriptionError(holdID, err)
	}
}

// onTranscriptionError aborts the session but still finalizes whatever
// transcript arrived before the connection dropped.
func (c *Controller) onTranscriptionError(holdID string, err error) {
	c.log.Error("transcription stream failed", "hold_id", holdID, "error", err)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.holds.HoldID() != holdID {
		return
	}
	c.holds.Stop(holdID)
	c.holds.RecordStopped()
	c.armHoldTimerLocked()
}

// StopHold releases the hold key. Capture keeps running briefly so the
// service can emit trailing words, then stops.
func (c *Controller) StopHold(holdID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.holds.HoldID() != holdID {
		return
	}
	c.holds.Stop(holdID)
	c.armHoldTimerLocked()

	if c.stopTimer != nil {
		c.stopTimer.Stop()
	}
	c.stopTimer = time.AfterFunc(c.cfg.Hold.StopDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.sessionID != holdID {
			return
		}
		if c.stream != nil {
			c.stream.Stop()
		}
		if c.ts != nil {
			c.ts.Close()
		}
		c.holds.RecordStopped()
		c.armHoldTimerLocked()
	})
}

// armHoldTimerLocked reschedules the single finalize timer to the
// manager's next deadline. Callers hold c.mu.
func (c *Controller) armHoldTimerLocked() {
	if c.holdTimer != nil {
		c.holdTimer.Stop()
		c.holdTimer = nil
	}
	next := c.holds.NextDeadline()
	if next.IsZero() {
		return
	}
	d := next.Sub(c.clock.Now())
	if d < 0 {
		d = 0
	}
	c.holdTimer = time.AfterFunc(d, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.holds.Tick()
		c.armHoldTimerLocked()
	})
}

// onHoldFinalized runs inside c.mu via the manager. An empty transcript is
// a no-op.
func (c *Controller) onHoldFinalized(holdID, transcript string) {
	if c.sessionID == holdID {
		c.teardownLocked()
	}
	if transcript == "" {
		return
	}
	go c.executeCommand(holdID, transcript)
}

// executeCommand interprets and dispatches one finalized transcript,
// bounded by the finalize timeout.
func (c *Controller) executeCommand(holdID, transcript string) {
	var pctx *intent.Context
	if c.pageCtx != nil {
		pctx = c.pageCtx()
	}

	it, err := c.interp.Interpret(transcript, pctx)
	if err != nil {
		// An explicit no-match fails closed; nothing is dispatched.
		c.log.Warn("command did not match", "hold_id", holdID, "error", err)
		if c.metrics != nil {
			c.metrics.IntentsRejected.Inc()
		}
		return
	}
	if _, none := it.(intent.None); none {
		c.log.Debug("no intent", "hold_id", holdID, "transcript", transcript)
		return
	}

	key := commandKey(it)
	c.mu.Lock()
	now := c.clock.Now()
	if key == c.lastKey && now.Sub(c.lastAt) < dupWindow {
		c.mu.Unlock()
		c.log.Debug("duplicate command suppressed", "key", key)
		return
	}
	c.lastKey, c.lastAt = key, now
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.IntentsResolved.WithLabelValues(it.Kind()).Inc()
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.Hold.FinalizeTimeout)
	defer cancel()
	if err := c.dispatcher.Dispatch(ctx, it); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = ErrResponseTimeout
		}
		c.log.Error("dispatch failed", "kind", it.Kind(), "error", err)
	}
}

// commandKey fingerprints an intent for duplicate suppression.
func commandKey(it intent.Intent) string {
	switch v := it.(type) {
	case intent.Navigate:
		return v.URL
	case intent.BookFlight:
		return intent.BookingURL(v)
	default:
		return fmt.Sprintf("%s:%+v", it.Kind(), it)
	}
}

// StartContinuous begins continuous capture: segments flow through the
// dispatch queue to the backend one request at a time, each with a cached
// page snapshot.
func (c *Controller) StartContinuous(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.teardownLocked()

	sessionID := uuid.NewString()
	runCtx, cancel := context.WithCancel(context.Background())

	stream := capture.NewStream(c.source, capture.Config{})
	frontend := audioproc.NewFrontend(c.source.SampleRate(), c.cfg.Audio.TargetSampleRate, c.cfg.Audio.VADThreshold)
	queue := dispatch.NewQueue(c.cfg.Dispatch.QueueCap, c.metrics)

	assembler := segmenter.NewAssembler(segmenter.Config{
		SampleRate:  c.cfg.Audio.TargetSampleRate,
		MinDuration: c.cfg.Audio.MinSegment,
		MaxDuration: c.cfg.Audio.MaxSegment,
		SilenceEnd:  c.cfg.Audio.SilenceEnd,
	}, c.metrics, func(seg segmenter.Segment) {
		queue.Push(dispatch.Item{Segment: seg, QueuedAt: time.Now()})
	})

	stream.OnFrame(func(frame []float32) {
		resampled, voice := frontend.Process(frame)
		assembler.Push(resampled, voice)
	})

	if err := stream.Start(); err != nil {
		cancel()
		return "", fmt.Errorf("%w: %v", ErrCaptureUnavailable, err)
	}

	c.mode = ModeContinuous
	c.sessionID = sessionID
	c.cancel = cancel
	c.stream = stream

	worker := dispatch.NewWorker(queue, c.sendSegment(sessionID), c.log, c.metrics)
	go worker.Run(runCtx)

	c.log.Info("continuous session started", "session_id", sessionID)
	return sessionID, nil
}

// sendSegment builds the dispatch send function for one session. A
// response arriving after the session changed is discarded.
func (c *Controller) sendSegment(sessionID string) dispatch.SendFunc {
	return func(ctx context.Context, item dispatch.Item) error {
		var pageURL string
		if c.pageCtx != nil {
			if pctx := c.pageCtx(); pctx != nil {
				pageURL = pctx.PageURL
			}
		}

		var screenshot string
		if c.snapshots != nil {
			snap, err := c.snapshots.Get(ctx, pageURL)
			if err != nil {
				c.log.Warn("snapshot unavailable", "error", err)
			} else {
				screenshot = string(snap)
			}
		}

		reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Backend.Timeout)
		defer cancel()
		resp, err := c.backend.Assist(reqCtx, types.AssistRequest{
			Audio:          base64.StdEncoding.EncodeToString(item.Segment.PCM()),
			AudioMimeType:  fmt.Sprintf("audio/pcm;rate=%d", item.Segment.SampleRate),
			PageURL:        pageURL,
			ConversationID: sessionID,
			Screenshot:     screenshot,
		})
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return ErrResponseTimeout
			}
			return err
		}

		c.mu.Lock()
		stale := c.sessionID != sessionID
		c.mu.Unlock()
		if stale {
			c.log.Debug("discarding stale response", "session_id", sessionID)
			return nil
		}
		if c.responses != nil {
			c.responses(resp)
		}
		return nil
	}
}

// OneShot answers a single prepared audio clip without a capture session.
func (c *Controller) OneShot(ctx context.Context, audio []byte, mimeType string) (types.AssistResponse, error) {
	var pageURL string
	if c.pageCtx != nil {
		if pctx := c.pageCtx(); pctx != nil {
			pageURL = pctx.PageURL
		}
	}
	var screenshot string
	if c.snapshots != nil {
		if snap, err := c.snapshots.Get(ctx, pageURL); err == nil {
			screenshot = string(snap)
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Backend.Timeout)
	defer cancel()
	resp, err := c.backend.Assist(reqCtx, types.AssistRequest{
		Audio:          base64.StdEncoding.EncodeToString(audio),
		AudioMimeType:  mimeType,
		PageURL:        pageURL,
		ConversationID: uuid.NewString(),
		Screenshot:     screenshot,
	})
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return types.AssistResponse{}, ErrResponseTimeout
	}
	return resp, err
}

// OneShotFromCapture answers from the most recent audio in the running
// session's rolling buffer instead of a prepared clip, so "what did it
// just say" style questions need no separate recording.
func (c *Controller) OneShotFromCapture(ctx context.Context, last time.Duration) (types.AssistResponse, error) {
	c.mu.Lock()
	stream := c.stream
	c.mu.Unlock()
	if stream == nil || !stream.IsCapturing() {
		return types.AssistResponse{}, ErrCaptureUnavailable
	}

	samples := stream.Buffered(last)
	if len(samples) == 0 {
		return types.AssistResponse{}, ErrCaptureUnavailable
	}
	resampled := audioproc.Resample(samples, stream.SampleRate(), c.cfg.Audio.TargetSampleRate)
	pcm := audioproc.FloatToPCM16(resampled)
	return c.OneShot(ctx, pcm, fmt.Sprintf("audio/pcm;rate=%d", c.cfg.Audio.TargetSampleRate))
}

// Stop tears down whatever session is active.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.teardownLocked()
}

func (c *Controller) teardownLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.stopTimer != nil {
		c.stopTimer.Stop()
		c.stopTimer = nil
	}
	if c.holdTimer != nil {
		c.holdTimer.Stop()
		c.holdTimer = nil
	}
	if c.stream != nil {
		c.stream.Stop()
		c.stream = nil
	}
	if c.ts != nil {
		c.ts.Close()
		c.ts = nil
	}
	c.mode = ModeNone
	c.sessionID = ""
	// A hold session caught mid-flight still finalizes with whatever it
	// collected. The manager is already idle when teardown runs from the
	// finalize callback, so this cannot recurse.
	if c.holds != nil && c.holds.Active() {
		c.holds.Flush()
	}
}

// DecodeAudio decodes the base64 payload of a response for playback.
func DecodeAudio(resp types.AssistResponse) ([]byte, error) {
	if resp.AudioBase64 == "" {
		return nil, nil
	}
	return base64.StdEncoding.DecodeString(resp.AudioBase64)
}
