// Package config loads and validates the voice core configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete voice core configuration.
type Config struct {
	Audio         AudioConfig         `yaml:"audio"`
	Hold          HoldConfig          `yaml:"hold"`
	Dispatch      DispatchConfig      `yaml:"dispatch"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	Backend       BackendConfig       `yaml:"backend"`
}

// AudioConfig contains resampling, voice detection and segmentation
// parameters.
type AudioConfig struct {
	TargetSampleRate int           `yaml:"target_sample_rate"` // Hz, rate sent downstream
	VADThreshold     float64       `yaml:"vad_threshold"`      // RMS threshold on full-scale [-1,1] samples
	MinSegment       time.Duration `yaml:"min_segment"`        // minimum speech before a natural flush
	MaxSegment       time.Duration `yaml:"max_segment"`        // forced split to bound latency
	SilenceEnd       time.Duration `yaml:"silence_end"`        // trailing silence that ends an utterance
}

// HoldConfig contains push-to-talk session tuning.
type HoldConfig struct {
	GraceWindow      time.Duration `yaml:"grace_window"`       // accept late transcripts after key release
	InitialDebounce  time.Duration `yaml:"initial_debounce"`   // first finalize delay after stop
	SettledDebounce  time.Duration `yaml:"settled_debounce"`   // finalize delay once the stream has stopped
	QuietPeriod      time.Duration `yaml:"quiet_period"`       // transcript silence treated as settled
	StaleAfter       time.Duration `yaml:"stale_after"`        // a session running longer than this may be superseded
	StopDelay        time.Duration `yaml:"stop_delay"`         // delay before signalling capture stop
	FinalizeTimeout  time.Duration `yaml:"finalize_timeout"`   // hard cap on a pending hold flow
	MaxTranscriptLen int           `yaml:"max_transcript_len"` // accumulated transcript cap in bytes
}

// DispatchConfig contains streaming dispatch queue tuning.
type DispatchConfig struct {
	QueueCap    int           `yaml:"queue_cap"`    // bounded queue capacity
	SnapshotTTL time.Duration `yaml:"snapshot_ttl"` // context snapshot reuse window
}

// TranscriptionConfig contains the streaming transcription service endpoint.
type TranscriptionConfig struct {
	URL         string        `yaml:"url"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
}

// BackendConfig contains the conversational backend endpoint.
type BackendConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultConfig returns the configuration tuned for low-latency voice
// commands.
func DefaultConfig() Config {
	return Config{
		Audio: AudioConfig{
			TargetSampleRate: 16000,
			VADThreshold:     0.009,
			MinSegment:       300 * time.Millisecond,
			MaxSegment:       8 * time.Second,
			SilenceEnd:       600 * time.Millisecond,
		},
		Hold: HoldConfig{
			GraceWindow:      15 * time.Second,
			InitialDebounce:  3500 * time.Millisecond,
			SettledDebounce:  700 * time.Millisecond,
			QuietPeriod:      900 * time.Millisecond,
			StaleAfter:       20 * time.Second,
			StopDelay:        1200 * time.Millisecond,
			FinalizeTimeout:  45 * time.Second,
			MaxTranscriptLen: 4000,
		},
		Dispatch: DispatchConfig{
			QueueCap:    2,
			SnapshotTTL: 5 * time.Second,
		},
		Transcription: TranscriptionConfig{
			URL:         "ws://localhost:8000/ws/stream",
			DialTimeout: 10 * time.Second,
		},
		Backend: BackendConfig{
			URL:     "http://localhost:8000/assist",
			Timeout: 60 * time.Second,
		},
	}
}

// Load reads a YAML configuration file, fills unset values with defaults and
// validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks every section for values the core cannot run with.
func (c *Config) Validate() error {
	if err := c.Audio.Validate(); err != nil {
		return fmt.Errorf("audio config: %w", err)
	}
	if err := c.Hold.Validate(); err != nil {
		return fmt.Errorf("hold config: %w", err)
	}
	if err := c.Dispatch.Validate(); err != nil {
		return fmt.Errorf("dispatch config: %w", err)
	}
	if c.Transcription.URL == "" {
		return fmt.Errorf("transcription config: url is required")
	}
	if c.Backend.URL == "" {
		return fmt.Errorf("backend config: url is required")
	}
	return nil
}

// Validate checks the audio section.
func (a *AudioConfig) Validate() error {
	if a.TargetSampleRate <= 0 {
		return fmt.Errorf("target_sample_rate must be positive, got %d", a.TargetSampleRate)
	}
	if a.VADThreshold <= 0 || a.VADThreshold >= 1 {
		return fmt.Errorf("vad_threshold must be in (0,1), got %f", a.VADThreshold)
	}
	if a.MinSegment <= 0 {
		return fmt.Errorf("min_segment must be positive, got %v", a.MinSegment)
	}
	if a.MaxSegment <= a.MinSegment {
		return fmt.Errorf("max_segment %v must exceed min_segment %v", a.MaxSegment, a.MinSegment)
	}
	if a.SilenceEnd <= 0 {
		return fmt.Errorf("silence_end must be positive, got %v", a.SilenceEnd)
	}
	return nil
}

// Validate checks the hold section.
func (h *HoldConfig) Validate() error {
	if h.GraceWindow <= 0 {
		return fmt.Errorf("grace_window must be positive, got %v", h.GraceWindow)
	}
	if h.InitialDebounce <= 0 || h.SettledDebounce <= 0 {
		return fmt.Errorf("debounce delays must be positive")
	}
	if h.QuietPeriod <= 0 {
		return fmt.Errorf("quiet_period must be positive, got %v", h.QuietPeriod)
	}
	if h.FinalizeTimeout <= h.GraceWindow {
		return fmt.Errorf("finalize_timeout %v must exceed grace_window %v", h.FinalizeTimeout, h.GraceWindow)
	}
	if h.MaxTranscriptLen <= 0 {
		return fmt.Errorf("max_transcript_len must be positive, got %d", h.MaxTranscriptLen)
	}
	return nil
}

// Validate checks the dispatch section.
func (d *DispatchConfig) Validate() error {
	if d.QueueCap <= 0 {
		return fmt.Errorf("queue_cap must be positive, got %d", d.QueueCap)
	}
	if d.SnapshotTTL <= 0 {
		return fmt.Errorf("snapshot_ttl must be positive, got %v", d.SnapshotTTL)
	}
	return nil
}
