package transcribe

import (
	"errors"
	"testing"
)

func TestAccumulatorPartialOverCommitted(t *testing.T) {
	var a Accumulator

	ev, ok, err := a.Apply(Event{MessageType: TypePartialTranscript, Text: "open the"})
	if err != nil || !ok {
		t.Fatalf("partial: ok=%v err=%v", ok, err)
	}
	if ev.Text != "open the" || ev.IsFinal {
		t.Errorf("event = %+v", ev)
	}

	ev, ok, err = a.Apply(Event{MessageType: TypeCommittedTranscript, Text: "open the third"})
	if err != nil || !ok {
		t.Fatalf("committed: ok=%v err=%v", ok, err)
	}
	if ev.Text != "open the third" || !ev.IsFinal {
		t.Errorf("event = %+v", ev)
	}

	// Partials layer on top of committed text without changing it.
	ev, ok, _ = a.Apply(Event{MessageType: TypePartialTranscript, Text: "result"})
	if !ok || ev.Text != "open the third result" || ev.IsFinal {
		t.Errorf("event = %+v", ev)
	}
	if a.Transcript() != "open the third" {
		t.Errorf("committed = %q", a.Transcript())
	}

	ev, ok, _ = a.Apply(Event{MessageType: TypeFinalTranscript, Text: "result"})
	if !ok || ev.Text != "open the third result" || !ev.IsFinal {
		t.Errorf("event = %+v", ev)
	}
}

func TestAccumulatorEmptyTextIgnored(t *testing.T) {
	var a Accumulator
	if _, ok, _ := a.Apply(Event{MessageType: TypePartialTranscript}); ok {
		t.Error("empty partial surfaced")
	}
	if _, ok, _ := a.Apply(Event{MessageType: TypeFinalTranscript}); ok {
		t.Error("empty final surfaced")
	}
}

func TestAccumulatorServiceError(t *testing.T) {
	var a Accumulator
	_, _, err := a.Apply(Event{Error: "model overloaded"})
	if !errors.Is(err, ErrService) {
		t.Fatalf("err = %v, want ErrService", err)
	}
}

func TestAccumulatorReset(t *testing.T) {
	var a Accumulator
	a.Apply(Event{MessageType: TypeFinalTranscript, Text: "hello"})
	a.Reset()
	if a.Transcript() != "" {
		t.Errorf("transcript after reset = %q", a.Transcript())
	}
}
