package openai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ariabot/aria/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient(&config.OpenAIConfig{
		Token:       "test-token",
		BaseURL:     server.URL + "/v1",
		Model:       "gpt-4o-mini",
		Temperature: 0.5,
		MaxTokens:   400,
		Timeout:     5 * time.Second,
	}, nil)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return c
}

func TestCompleteReturnsChoiceContent(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices": [{"message": {"role": "assistant", "content": "Ciao Marco!"}}],
			"usage": {"total_tokens": 42}
		}`))
	})

	reply, err := c.Complete(context.Background(), []ChatMessage{
		{Role: RoleSystem, Content: "You are a companion."},
		{Role: RoleUser, Content: "Ciao!"},
	})
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if reply != "Ciao Marco!" {
		t.Errorf("reply = %q, want %q", reply, "Ciao Marco!")
	}
}

func TestCompleteEmptyContentUsesDefaultReply(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "   "}}]}`))
	})

	reply, err := c.Complete(context.Background(), []ChatMessage{{Role: RoleUser, Content: "hi"}})
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if reply != DefaultReply {
		t.Errorf("reply = %q, want default %q", reply, DefaultReply)
	}
}

func TestCompleteNoChoicesUsesDefaultReply(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": []}`))
	})

	reply, err := c.Complete(context.Background(), []ChatMessage{{Role: RoleUser, Content: "hi"}})
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if reply != DefaultReply {
		t.Errorf("reply = %q, want default %q", reply, DefaultReply)
	}
}

func TestCompleteUpstreamErrorYieldsRequestError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limit exceeded", "type": "requests"}}`))
	})

	_, err := c.Complete(context.Background(), []ChatMessage{{Role: RoleUser, Content: "hi"}})
	if err == nil {
		t.Fatal("expected error from non-2xx response")
	}

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error %v is not a *RequestError", err)
	}
	if reqErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", reqErr.StatusCode, http.StatusTooManyRequests)
	}
	if reqErr.Body == "" {
		t.Error("expected error body to be captured")
	}
}

func TestCompleteEmptyPrompt(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be made for an empty prompt")
	})

	if _, err := c.Complete(context.Background(), nil); err == nil {
		t.Error("expected error for empty prompt")
	}
}
