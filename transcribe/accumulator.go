package transcribe

import (
	"errors"
	"strings"
	"time"

	"github.com/auralis/voicebridge/internal/types"
)

// ErrService wraps an error message reported by the transcription service
// inside the stream.
var ErrService = errors.New("transcribe: service error")

// Accumulator folds the event stream into display transcripts. Committed
// and final text is appended permanently; partial text is shown on top of
// what is committed but never stored.
type Accumulator struct {
	committed string
}

// Apply consumes one event and returns the transcript to surface, if any.
func (a *Accumulator) Apply(ev Event) (types.TranscriptEvent, bool, error) {
	if ev.Error != "" {
		return types.TranscriptEvent{}, false, errors.Join(ErrService, errors.New(ev.Error))
	}

	switch ev.MessageType {
	case TypePartialTranscript:
		text := strings.TrimSpace(a.committed + " " + ev.Text)
		if text == "" {
			return types.TranscriptEvent{}, false, nil
		}
		return types.TranscriptEvent{Text: text, Timestamp: time.Now().UnixMilli()}, true, nil

	case TypeCommittedTranscript, TypeFinalTranscript:
		if ev.Text == "" {
			return types.TranscriptEvent{}, false, nil
		}
		a.committed = strings.TrimSpace(a.committed + " " + ev.Text)
		return types.TranscriptEvent{Text: a.committed, IsFinal: true, Timestamp: time.Now().UnixMilli()}, true, nil
	}
	return types.TranscriptEvent{}, false, nil
}

// Transcript returns the committed transcript so far.
func (a *Accumulator) Transcript() string { return a.committed }

// Reset clears the accumulator for a new session.
func (a *Accumulator) Reset() { a.committed = "" }
