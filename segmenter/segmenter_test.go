package segmenter

import (
	"testing"
	"time"
)

func testConfig() Config {
	return Config{
		SampleRate:  16000,
		MinDuration: 300 * time.Millisecond,
		MaxDuration: 8 * time.Second,
		SilenceEnd:  600 * time.Millisecond,
	}
}

// frame returns 10ms of audio at 16kHz.
func frame() []float32 { return make([]float32, 160) }

func collect(t *testing.T) (*Assembler, *[]Segment) {
	t.Helper()
	var got []Segment
	a := NewAssembler(testConfig(), nil, func(s Segment) { got = append(got, s) })
	return a, &got
}

func TestSegmentEndsOnSilence(t *testing.T) {
	a, got := collect(t)

	for i := 0; i < 50; i++ { // 500ms voice
		a.Push(frame(), true)
	}
	for i := 0; i < 60; i++ { // 600ms silence
		a.Push(frame(), false)
	}

	if len(*got) != 1 {
		t.Fatalf("segments = %d, want 1", len(*got))
	}
	seg := (*got)[0]
	if seg.Forced || seg.Final {
		t.Errorf("natural segment flagged forced=%v final=%v", seg.Forced, seg.Final)
	}
	// Trailing silence is kept, so the segment is voice plus hangover.
	if d := seg.Duration(); d != 1100*time.Millisecond {
		t.Errorf("duration = %v, want 1.1s", d)
	}
	if seg.Seq != 1 {
		t.Errorf("seq = %d, want 1", seg.Seq)
	}
}

func TestShortSpeechDiscarded(t *testing.T) {
	a, got := collect(t)

	for i := 0; i < 10; i++ { // 100ms voice, under the minimum
		a.Push(frame(), true)
	}
	for i := 0; i < 60; i++ {
		a.Push(frame(), false)
	}

	if len(*got) != 0 {
		t.Fatalf("segments = %d, want 0", len(*got))
	}
}

func TestLeadingSilenceDropped(t *testing.T) {
	a, got := collect(t)

	for i := 0; i < 100; i++ {
		a.Push(frame(), false)
	}
	for i := 0; i < 50; i++ {
		a.Push(frame(), true)
	}
	a.Stop()

	if len(*got) != 1 {
		t.Fatalf("segments = %d, want 1", len(*got))
	}
	if d := (*got)[0].Duration(); d != 500*time.Millisecond {
		t.Errorf("duration = %v, want 500ms", d)
	}
}

func TestForcedSplitAtMax(t *testing.T) {
	a, got := collect(t)

	for i := 0; i < 900; i++ { // 9s continuous voice
		a.Push(frame(), true)
	}

	if len(*got) != 1 {
		t.Fatalf("segments = %d, want 1", len(*got))
	}
	seg := (*got)[0]
	if !seg.Forced || seg.Final {
		t.Errorf("forced split flagged forced=%v final=%v", seg.Forced, seg.Final)
	}
	if d := seg.Duration(); d != 8*time.Second {
		t.Errorf("duration = %v, want 8s", d)
	}
}

func TestSegmentDurationBounds(t *testing.T) {
	a, got := collect(t)

	for _, voiceFrames := range []int{40, 200, 35, 790} {
		for i := 0; i < voiceFrames; i++ {
			a.Push(frame(), true)
		}
		for i := 0; i < 80; i++ {
			a.Push(frame(), false)
		}
	}

	cfg := testConfig()
	for i, s := range *got {
		d := s.Duration()
		if d < cfg.MinDuration || d > cfg.MaxDuration {
			t.Errorf("segment %d duration %v outside [%v, %v]", i, d, cfg.MinDuration, cfg.MaxDuration)
		}
	}
}

func TestStopFlushesShortFinalSegment(t *testing.T) {
	a, got := collect(t)

	for i := 0; i < 10; i++ { // 100ms, under the minimum
		a.Push(frame(), true)
	}
	a.Stop()

	if len(*got) != 1 {
		t.Fatalf("segments = %d, want 1", len(*got))
	}
	if !(*got)[0].Final {
		t.Error("stop flush not marked final")
	}
}

func TestStopIsNoOpWhenIdle(t *testing.T) {
	a, got := collect(t)
	a.Stop()
	if len(*got) != 0 {
		t.Fatalf("segments = %d, want 0", len(*got))
	}
}

func TestSequenceNumbersIncrease(t *testing.T) {
	a, got := collect(t)

	for seg := 0; seg < 3; seg++ {
		for i := 0; i < 50; i++ {
			a.Push(frame(), true)
		}
		for i := 0; i < 60; i++ {
			a.Push(frame(), false)
		}
	}

	if len(*got) != 3 {
		t.Fatalf("segments = %d, want 3", len(*got))
	}
	for i, s := range *got {
		if s.Seq != uint64(i+1) {
			t.Errorf("segment %d seq = %d, want %d", i, s.Seq, i+1)
		}
	}
}

func TestPCMLength(t *testing.T) {
	a, got := collect(t)
	for i := 0; i < 50; i++ {
		a.Push(frame(), true)
	}
	a.Stop()

	seg := (*got)[0]
	if len(seg.PCM()) != len(seg.Samples)*2 {
		t.Errorf("PCM length = %d, want %d", len(seg.PCM()), len(seg.Samples)*2)
	}
}
