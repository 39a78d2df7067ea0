// Package transcribe streams audio to the transcription service over a
// persistent websocket and surfaces partial and final transcript events.
package transcribe

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"nhooyr.io/websocket"
)

const (
	// DefaultURL is the default streaming transcription endpoint.
	DefaultURL = "ws://localhost:8000/ws/stream"
	// DefaultDialTimeout bounds the websocket handshake.
	DefaultDialTimeout = 10 * time.Second
)

// Message types on the wire.
const (
	TypeInputAudioChunk     = "input_audio_chunk"
	TypePartialTranscript   = "partial_transcript"
	TypeCommittedTranscript = "committed_transcript"
	TypeFinalTranscript     = "final_transcript"
)

// ErrNotConnected is returned when sending before Connect.
var ErrNotConnected = errors.New("transcribe: not connected")

// Event is one websocket message in either direction.
type Event struct {
	MessageType string `json:"message_type"`
	Text        string `json:"text,omitempty"`
	AudioBase64 string `json:"audio_base_64,omitempty"`
	SampleRate  int    `json:"sample_rate,omitempty"`
	Error       string `json:"error,omitempty"`
}

// ClientConfig holds configuration for the streaming client.
type ClientConfig struct {
	URL         string
	DialTimeout time.Duration
}

// Client handles the websocket connection to the transcription service.
type Client struct {
	url         string
	dialTimeout time.Duration
	log         *slog.Logger
	conn        *websocket.Conn
	events      chan Event
	errChan     chan error
	done        chan struct{}
	closed      bool
	mu          sync.Mutex
}

// NewClient creates a streaming transcription client.
func NewClient(cfg ClientConfig, log *slog.Logger) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = DefaultDialTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		url:         cfg.URL,
		dialTimeout: cfg.DialTimeout,
		log:         log,
		events:      make(chan Event, 100),
		errChan:     make(chan error, 1),
		done:        make(chan struct{}),
	}
}

// Connect establishes the websocket connection and starts the read loop.
func (c *Client) Connect(ctx context.Context) error {
	dialCtx, cancel := context.WithTimeout(ctx, c.dialTimeout)
	defer cancel()

	conn, _, err := websocket.Dial(dialCtx, c.url, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	c.conn = conn
	go c.readLoop()
	return nil
}

// SendAudio streams one PCM chunk, base64-encoded per the wire protocol.
func (c *Client) SendAudio(ctx context.Context, pcm []byte, sampleRate int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return ErrNotConnected
	}

	data, err := json.Marshal(Event{
		MessageType: TypeInputAudioChunk,
		AudioBase64: base64.StdEncoding.EncodeToString(pcm),
		SampleRate:  sampleRate,
	})
	if err != nil {
		return fmt.Errorf("marshal audio chunk: %w", err)
	}
	return c.conn.Write(ctx, websocket.MessageText, data)
}

// Events returns the channel of transcript events from the service.
func (c *Client) Events() <-chan Event { return c.events }

// Errors returns a channel that receives the terminal connection error.
func (c *Client) Errors() <-chan error { return c.errChan }

// Close closes the connection. Safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	close(c.done)

	if c.conn != nil {
		return c.conn.Close(websocket.StatusNormalClosure, "closing")
	}
	return nil
}

func (c *Client) readLoop() {
	defer close(c.events)

	ctx := context.Background()
	for {
		select {
		case <-c.done:
			return
		default:
			_, data, err := c.conn.Read(ctx)
			if err != nil {
				select {
				case <-c.done:
				default:
					c.errChan <- fmt.Errorf("read: %w", err)
				}
				return
			}

			var ev Event
			if err := json.Unmarshal(data, &ev); err != nil {
				c.log.Error("bad transcription message", "error", err, "data", string(data))
				continue
			}

			select {
			case c.events <- ev:
			case <-time.After(100 * time.Millisecond):
				c.log.Warn("event channel full, dropping", "type", ev.MessageType)
			}
		}
	}
}
