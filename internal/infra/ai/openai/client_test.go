package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bryanwahyu/roast-radar/internal/domain/ai"
	"github.com/bryanwahyu/roast-radar/internal/domain/upstream"
)

func TestClient_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer or-key" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("HTTP-Referer"); got != "https://roastradar.example" {
			t.Errorf("HTTP-Referer = %q", got)
		}
		var body struct {
			Model       string  `json:"model"`
			Temperature float64 `json:"temperature"`
			MaxTokens   int     `json:"max_tokens"`
			Messages    []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Model != "openai/gpt-4o" || body.MaxTokens != 1500 {
			t.Errorf("unexpected request: %+v", body)
		}
		if body.Temperature < 0.19 || body.Temperature > 0.21 {
			t.Errorf("temperature = %v, want 0.2", body.Temperature)
		}
		if len(body.Messages) != 1 || body.Messages[0].Role != "user" || body.Messages[0].Content != "the prompt" {
			t.Errorf("unexpected messages: %+v", body.Messages)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{\"summary\":\"s\"}"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "https://roastradar.example", 0)
	model, _ := ai.ModelByID("openai/gpt-4o")
	text, err := c.Complete(context.Background(), model, "or-key", "the prompt")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if text != `{"summary":"s"}` {
		t.Errorf("text = %q", text)
	}
}

func TestClient_CompleteQuota(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"Rate limit exceeded","code":429}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 0)
	_, err := c.Complete(context.Background(), ai.Model{ID: "openai/gpt-4o"}, "k", "p")
	if !errors.Is(err, ai.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
}

func TestClient_CompleteErrorEnvelopeOn200(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		status    int
		wantQuota bool
	}{
		{"rate limit", `{"error":{"message":"Rate limit exceeded: free-models-per-day","code":429}}`, http.StatusTooManyRequests, true},
		{"string code", `{"error":{"message":"Provider returned error","code":"provider_error"}}`, http.StatusBadGateway, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, "", 0).Complete(context.Background(), ai.Model{ID: "openai/gpt-4o"}, "k", "p")
			var perr *ai.ProviderError
			if !errors.As(err, &perr) {
				t.Fatalf("expected ProviderError, got %v", err)
			}
			if perr.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", perr.StatusCode, tt.status)
			}
			if errors.Is(err, ai.ErrQuotaExceeded) != tt.wantQuota {
				t.Errorf("quota = %v, want %v", errors.Is(err, ai.ErrQuotaExceeded), tt.wantQuota)
			}
			if perr.Message == "" {
				t.Error("upstream message lost")
			}
		})
	}
}

func TestClient_CompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"x","choices":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 0)
	_, err := c.Complete(context.Background(), ai.Model{ID: "openai/gpt-4o"}, "k", "p")
	var perr *ai.ResponseParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ResponseParseError, got %v", err)
	}
}

func TestClient_CompleteTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	c := NewClient(base, "", 0)
	_, err := c.Complete(context.Background(), ai.Model{ID: "openai/gpt-4o"}, "k", "p")
	var terr *upstream.TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestClient_PostLimit(t *testing.T) {
	c := NewClient("", "", 0)
	tests := []struct {
		model ai.Model
		want  int
	}{
		{ai.Model{ID: "deepseek/deepseek-chat:free", Provider: ai.ProviderDeepSeek}, 15},
		{ai.Model{ID: "openai/gpt-3.5-turbo", Provider: ai.ProviderOpenAI}, 10},
		{ai.Model{ID: "openai/gpt-4-turbo", Provider: ai.ProviderOpenAI}, 10},
		{ai.Model{ID: "openai/gpt-4o", Provider: ai.ProviderOpenAI}, 20},
		{ai.Model{ID: "anthropic/claude-3-haiku", Provider: ai.ProviderAnthropic}, 20},
	}
	for _, tt := range tests {
		if got := c.PostLimit(tt.model); got != tt.want {
			t.Errorf("PostLimit(%s) = %d, want %d", tt.model.ID, got, tt.want)
		}
	}
}
