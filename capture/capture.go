// Package capture defines the contract with the external audio capture
// collaborator and the buffering glue between its callback and the rest of
// the core.
package capture

import (
	"errors"
	"sync"
	"time"
)

// ErrNotCapturing is returned when trying to read audio while not capturing.
var ErrNotCapturing = errors.New("not capturing audio")

// ErrAlreadyCapturing is returned when starting a source that is running.
var ErrAlreadyCapturing = errors.New("already capturing audio")

// Source is implemented by the embedding application's audio capture device.
// It delivers fixed-size blocks of mono float32 samples in [-1, 1] at the
// declared input rate. The callback runs on the capture thread and must not
// block.
type Source interface {
	Start(onFrame func(samples []float32)) error
	Stop() error
	SampleRate() int
}

// Stream fans a Source's frames out to registered callbacks and keeps a
// short rolling buffer of recent audio for context.
type Stream struct {
	mu sync.RWMutex

	source    Source
	capturing bool
	startTime time.Time

	buffer *RingBuffer

	onFrame []func(samples []float32)
}

// Config holds configuration for a capture stream.
type Config struct {
	BufferSize time.Duration // rolling buffer duration, default 30 seconds
}

// NewStream creates a stream over the given source.
func NewStream(src Source, cfg Config) *Stream {
	if cfg.BufferSize == 0 {
		cfg.BufferSize = 30 * time.Second
	}
	bufferSamples := int(cfg.BufferSize.Seconds()) * src.SampleRate()

	return &Stream{
		source: src,
		buffer: NewRingBuffer(bufferSamples),
	}
}

// Start begins capturing from the source.
func (s *Stream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capturing {
		return ErrAlreadyCapturing
	}

	if err := s.source.Start(s.handleFrame); err != nil {
		return err
	}

	s.capturing = true
	s.startTime = time.Now()
	return nil
}

// Stop stops capturing. Stopping an idle stream is a no-op.
func (s *Stream) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.capturing {
		return nil
	}

	err := s.source.Stop()
	s.capturing = false
	return err
}

// IsCapturing returns true while the source is running.
func (s *Stream) IsCapturing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.capturing
}

// Duration returns how long capture has been running.
func (s *Stream) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.capturing {
		return 0
	}
	return time.Since(s.startTime)
}

// OnFrame registers a callback for captured frames. Callbacks run on the
// capture thread in registration order.
func (s *Stream) OnFrame(callback func(samples []float32)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onFrame = append(s.onFrame, callback)
}

// SampleRate returns the source's declared input rate.
func (s *Stream) SampleRate() int {
	return s.source.SampleRate()
}

// Buffered returns the last duration of captured audio.
func (s *Stream) Buffered(duration time.Duration) []float32 {
	samples := int(duration.Seconds() * float64(s.source.SampleRate()))
	return s.buffer.Read(samples)
}

func (s *Stream) handleFrame(samples []float32) {
	s.mu.RLock()
	callbacks := s.onFrame
	s.mu.RUnlock()

	s.buffer.Write(samples)

	for _, cb := range callbacks {
		cb(samples)
	}
}

// RingBuffer is a thread-safe circular buffer for audio samples.
type RingBuffer struct {
	mu       sync.RWMutex
	data     []float32
	writePos int
	size     int
	filled   int
}

// NewRingBuffer creates a new ring buffer with the given capacity.
func NewRingBuffer(size int) *RingBuffer {
	return &RingBuffer{
		data: make([]float32, size),
		size: size,
	}
}

// Write adds samples to the buffer.
func (rb *RingBuffer) Write(samples []float32) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	for _, s := range samples {
		rb.data[rb.writePos] = s
		rb.writePos = (rb.writePos + 1) % rb.size
		if rb.filled < rb.size {
			rb.filled++
		}
	}
}

// Read returns the last n samples from the buffer.
func (rb *RingBuffer) Read(n int) []float32 {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	if n > rb.filled {
		n = rb.filled
	}
	if n == 0 {
		return nil
	}

	result := make([]float32, n)
	startPos := (rb.writePos - n + rb.size) % rb.size
	for i := 0; i < n; i++ {
		result[i] = rb.data[(startPos+i)%rb.size]
	}
	return result
}

// Clear empties the buffer.
func (rb *RingBuffer) Clear() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.writePos = 0
	rb.filled = 0
}

// Len returns the number of samples in the buffer.
func (rb *RingBuffer) Len() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.filled
}
