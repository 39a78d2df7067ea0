package capture

import "testing"

// fakeSource pushes frames synchronously from the test.
type fakeSource struct {
	started bool
	stopped bool
	onFrame func([]float32)
	rate    int
}

func (f *fakeSource) Start(cb func([]float32)) error {
	f.started = true
	f.onFrame = cb
	return nil
}

func (f *fakeSource) Stop() error {
	f.stopped = true
	return nil
}

func (f *fakeSource) SampleRate() int { return f.rate }

func TestStreamLifecycle(t *testing.T) {
	src := &fakeSource{rate: 16000}
	s := NewStream(src, Config{})

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !src.started {
		t.Error("source not started")
	}
	if err := s.Start(); err != ErrAlreadyCapturing {
		t.Errorf("second Start() = %v, want ErrAlreadyCapturing", err)
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if !src.stopped {
		t.Error("source not stopped")
	}
	if err := s.Stop(); err != nil {
		t.Errorf("idle Stop() = %v, want nil", err)
	}
}

func TestStreamFanOut(t *testing.T) {
	src := &fakeSource{rate: 16000}
	s := NewStream(src, Config{})

	var got [][]float32
	s.OnFrame(func(samples []float32) {
		got = append(got, samples)
	})

	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	src.onFrame([]float32{0.1, 0.2})
	src.onFrame([]float32{0.3})

	if len(got) != 2 {
		t.Fatalf("callback invoked %d times, want 2", len(got))
	}
	if got[1][0] != 0.3 {
		t.Errorf("second frame = %v", got[1])
	}
}

func TestRingBufferWrap(t *testing.T) {
	rb := NewRingBuffer(4)
	rb.Write([]float32{1, 2, 3, 4, 5, 6})

	got := rb.Read(4)
	want := []float32{3, 4, 5, 6}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Read(4) = %v, want %v", got, want)
		}
	}

	if n := len(rb.Read(10)); n != 4 {
		t.Errorf("Read(10) returned %d samples, want 4", n)
	}

	rb.Clear()
	if rb.Len() != 0 {
		t.Errorf("Len() after Clear = %d", rb.Len())
	}
}
