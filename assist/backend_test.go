package assist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/auralis/voicebridge/internal/types"
)

func TestHTTPBackendAssist(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req types.AssistRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.PageURL != "https://example.com" {
			t.Errorf("page_url = %q", req.PageURL)
		}
		json.NewEncoder(w).Encode(types.AssistResponse{Answer: "the page lists three articles"})
	}))
	defer srv.Close()

	b := NewHTTPBackend(srv.URL, 2*time.Second, nil)
	resp, err := b.Assist(context.Background(), types.AssistRequest{PageURL: "https://example.com"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Answer != "the page lists three articles" {
		t.Errorf("answer = %q", resp.Answer)
	}
}

func TestHTTPBackendErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	b := NewHTTPBackend(srv.URL, 2*time.Second, nil)
	if _, err := b.Assist(context.Background(), types.AssistRequest{}); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}
