package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/auralis/voicebridge/internal/types"
)

// Backend answers one voice query with screen context.
type Backend interface {
	Assist(ctx context.Context, req types.AssistRequest) (types.AssistResponse, error)
}

// HTTPBackend talks to the conversational backend over plain HTTP.
type HTTPBackend struct {
	url    string
	client *http.Client
	log    *slog.Logger
}

// NewHTTPBackend creates a backend client. timeout bounds the whole
// request including body read.
func NewHTTPBackend(url string, timeout time.Duration, log *slog.Logger) *HTTPBackend {
	if log == nil {
		log = slog.Default()
	}
	return &HTTPBackend{
		url:    url,
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

// Assist posts the request and decodes the answer.
func (b *HTTPBackend) Assist(ctx context.Context, req types.AssistRequest) (types.AssistResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return types.AssistResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, bytes.NewReader(body))
	if err != nil {
		return types.AssistResponse{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	httpResp, err := b.client.Do(httpReq)
	if err != nil {
		return types.AssistResponse{}, fmt.Errorf("assist request: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(httpResp.Body, 1024))
		return types.AssistResponse{}, fmt.Errorf("assist request: status %d: %s", httpResp.StatusCode, data)
	}

	var resp types.AssistResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return types.AssistResponse{}, fmt.Errorf("decode response: %w", err)
	}

	b.log.Debug("assist response",
		"took", time.Since(start),
		"model", resp.Model,
		"answer_chars", len(resp.Answer))
	return resp, nil
}
