package assist

import "strings"

// AudioMode selects the transcription path for hold capture.
type AudioMode string

const (
	AudioModeLocal      AudioMode = "local"
	AudioModeElevenLabs AudioMode = "elevenlabs"
)

// ParseMode normalizes a spoken or stored audio-mode label. Spacing,
// underscores and hyphens are ignored; unknown labels fall back to the
// streaming service.
func ParseMode(s string) AudioMode {
	token := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '_', '-':
			return -1
		}
		return r
	}, strings.ToLower(s))

	switch token {
	case "local", "localwhisper", "whisper":
		return AudioModeLocal
	case "elevenlabs", "elevenlab", "eleven", "11labs":
		return AudioModeElevenLabs
	}
	return AudioModeElevenLabs
}
