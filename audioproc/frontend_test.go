package audioproc

import (
	"math"
	"testing"
)

func TestResampleIdentity(t *testing.T) {
	in := []float32{0.1, -0.2, 0.3, -0.4}
	out := Resample(in, 16000, 16000)
	if len(out) != len(in) {
		t.Fatalf("length = %d, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("sample %d = %v, want %v", i, out[i], in[i])
		}
	}
}

func TestResampleDownsampleLength(t *testing.T) {
	in := make([]float32, 480) // 10ms at 48kHz
	out := Resample(in, 48000, 16000)
	if len(out) != 160 {
		t.Errorf("length = %d, want 160", len(out))
	}
}

func TestResampleEmpty(t *testing.T) {
	if out := Resample(nil, 48000, 16000); len(out) != 0 {
		t.Errorf("expected empty output, got %d samples", len(out))
	}
}

func TestRMS(t *testing.T) {
	tests := []struct {
		name    string
		samples []float32
		want    float64
	}{
		{"empty", nil, 0},
		{"silence", []float32{0, 0, 0, 0}, 0},
		{"constant", []float32{0.5, 0.5, 0.5, 0.5}, 0.5},
		{"alternating", []float32{1, -1, 1, -1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RMS(tt.samples)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("RMS() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFrontendProcess(t *testing.T) {
	f := NewFrontend(16000, 16000, 0)

	silence := make([]float32, 160)
	if _, voice := f.Process(silence); voice {
		t.Error("silence classified as voice")
	}

	speech := make([]float32, 160)
	for i := range speech {
		speech[i] = 0.1
	}
	out, voice := f.Process(speech)
	if !voice {
		t.Error("loud frame classified as silence")
	}
	if len(out) != 160 {
		t.Errorf("output length = %d, want 160", len(out))
	}
}

func TestFloatToPCM16Extremes(t *testing.T) {
	out := FloatToPCM16([]float32{-1, 1, 0, -2, 2})
	want := []int16{-0x8000, 0x7fff, 0, -0x8000, 0x7fff}
	for i, w := range want {
		got := int16(uint16(out[i*2]) | uint16(out[i*2+1])<<8)
		if got != w {
			t.Errorf("sample %d = %d, want %d", i, got, w)
		}
	}
}

func TestPCM16RoundTrip(t *testing.T) {
	in := []float32{0, 0.25, -0.25, 0.9, -0.9}
	back := PCM16ToFloat(FloatToPCM16(in))
	for i := range in {
		if math.Abs(float64(back[i]-in[i])) > 1.0/0x7fff {
			t.Errorf("sample %d = %v, want ~%v", i, back[i], in[i])
		}
	}
}
