// Package types provides shared type definitions for the voice command core.
package types

// TranscriptEvent represents a transcription result from the streaming
// transcription service.
type TranscriptEvent struct {
	Text      string `json:"text"`      // Recognized text for this event
	IsFinal   bool   `json:"isFinal"`   // Whether the provider committed this text
	Timestamp int64  `json:"timestamp"` // Unix timestamp in milliseconds
}

// SessionState describes the lifecycle of a capture session as reported to
// the embedding application.
type SessionState struct {
	Active    bool   `json:"active"`
	Mode      string `json:"mode"`      // "hold", "continuous" or "oneshot"
	SessionID string `json:"sessionId"` // Identifier of the active session
	Duration  int64  `json:"duration"`  // Running duration in seconds
}

// AssistRequest is the payload sent to the conversational backend for the
// real-time assistant flow.
type AssistRequest struct {
	Audio          string `json:"audio"` // Base64-encoded audio payload
	AudioMimeType  string `json:"audioMimeType"`
	PageURL        string `json:"pageUrl,omitempty"`
	ConversationID string `json:"conversationId"`
	Screenshot     string `json:"screenshot,omitempty"` // Opaque page snapshot, passthrough only
}

// AssistResponse is the conversational backend's reply.
type AssistResponse struct {
	Answer        string `json:"answer"`
	Transcript    string `json:"transcript"`
	AudioBase64   string `json:"audioBase64,omitempty"`
	AudioMimeType string `json:"audioMimeType,omitempty"`
	Model         string `json:"model"`
	Debug         any    `json:"debug,omitempty"`
}
