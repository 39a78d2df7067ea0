// Package segmenter assembles classified audio frames into utterance
// segments: a segment opens on the first voice frame, absorbs trailing
// silence up to the hangover window, and closes when silence outlasts the
// window, the segment hits its maximum length, or capture stops.
package segmenter

import (
	"time"

	"github.com/auralis/voicebridge/audioproc"
	"github.com/auralis/voicebridge/internal/metrics"
)

// Segment is one bounded span of captured audio.
type Segment struct {
	Seq        uint64
	Samples    []float32
	SampleRate int
	// Final marks the flush produced by an explicit stop; it may be
	// shorter than the minimum duration.
	Final bool
	// Forced is set when the segment was cut at the maximum length
	// rather than ended by silence.
	Forced bool
}

// Duration is derived from the sample count, never from wall time.
func (s Segment) Duration() time.Duration {
	if s.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(s.Samples)) * time.Second / time.Duration(s.SampleRate)
}

// PCM encodes the samples as little-endian 16-bit PCM for transport.
func (s Segment) PCM() []byte {
	return audioproc.FloatToPCM16(s.Samples)
}

// Config controls segment boundaries.
type Config struct {
	SampleRate  int
	MinDuration time.Duration // speech shorter than this is discarded
	MaxDuration time.Duration // segments are force-split at this length
	SilenceEnd  time.Duration // trailing silence that closes a segment
}

// Assembler folds (frame, isVoice) pairs into segments. Not safe for
// concurrent use; the capture callback is the only caller.
type Assembler struct {
	cfg     Config
	onSeg   func(Segment)
	metrics *metrics.Metrics

	seq        uint64
	buf        []float32
	speechLen  int // voice samples in the open segment
	silenceRun int // trailing silence samples in the open segment
	minSamples int
	maxSamples int
	endSamples int
}

// NewAssembler creates an assembler that calls onSegment for every emitted
// segment. m may be nil.
func NewAssembler(cfg Config, m *metrics.Metrics, onSegment func(Segment)) *Assembler {
	return &Assembler{
		cfg:        cfg,
		onSeg:      onSegment,
		metrics:    m,
		minSamples: samplesFor(cfg.MinDuration, cfg.SampleRate),
		maxSamples: samplesFor(cfg.MaxDuration, cfg.SampleRate),
		endSamples: samplesFor(cfg.SilenceEnd, cfg.SampleRate),
	}
}

func samplesFor(d time.Duration, rate int) int {
	return int(d.Nanoseconds() * int64(rate) / int64(time.Second))
}

// Push feeds one classified frame. It never blocks and performs no I/O
// beyond the segment callback. Silence before any speech is dropped;
// silence inside a segment is kept so word endings are not clipped.
func (a *Assembler) Push(frame []float32, isVoice bool) {
	if a.metrics != nil {
		a.metrics.FramesProcessed.Inc()
		if isVoice {
			a.metrics.VoiceFrames.Inc()
		}
	}

	if len(a.buf) == 0 && !isVoice {
		return
	}

	a.buf = append(a.buf, frame...)
	if isVoice {
		a.speechLen += len(frame)
		a.silenceRun = 0
	} else {
		a.silenceRun += len(frame)
	}

	if a.silenceRun >= a.endSamples {
		if a.speechLen >= a.minSamples {
			a.emit(false, false)
		} else {
			// Too little speech to bother transcribing.
			a.reset()
		}
		return
	}
	// Total buffered length, not speech alone: an emitted segment never
	// exceeds the max duration even with retained silence interleaved.
	if len(a.buf) >= a.maxSamples {
		a.emit(false, true)
	}
}

// Stop flushes whatever is accumulated as a final segment, bypassing the
// minimum-duration rule, and resets the assembler.
func (a *Assembler) Stop() {
	if len(a.buf) > 0 {
		a.emit(true, true)
	}
	a.reset()
}

func (a *Assembler) reset() {
	a.buf = a.buf[:0]
	a.speechLen = 0
	a.silenceRun = 0
}

func (a *Assembler) emit(final, forced bool) {
	a.seq++
	seg := Segment{
		Seq:        a.seq,
		Samples:    append([]float32(nil), a.buf...),
		SampleRate: a.cfg.SampleRate,
		Final:      final,
		Forced:     forced,
	}
	a.reset()

	if a.metrics != nil {
		a.metrics.SegmentsEmitted.Inc()
		a.metrics.SegmentDuration.Observe(seg.Duration().Seconds())
		if forced && !final {
			a.metrics.ForcedFlushes.Inc()
		}
	}
	if a.onSeg != nil {
		a.onSeg(seg)
	}
}
