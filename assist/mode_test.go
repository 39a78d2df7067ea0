package assist

import "testing"

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want AudioMode
	}{
		{"local", AudioModeLocal},
		{"Local Whisper", AudioModeLocal},
		{"whisper", AudioModeLocal},
		{"local_whisper", AudioModeLocal},
		{"elevenlabs", AudioModeElevenLabs},
		{"Eleven Labs", AudioModeElevenLabs},
		{"11labs", AudioModeElevenLabs},
		{"eleven", AudioModeElevenLabs},
		{"", AudioModeElevenLabs},
		{"something else", AudioModeElevenLabs},
	}
	for _, tt := range tests {
		if got := ParseMode(tt.in); got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
