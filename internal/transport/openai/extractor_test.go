package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/symptomd/internal/domain"
	"github.com/kailas-cloud/symptomd/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterPredictionMetrics()
	os.Exit(m.Run())
}

var vocab = []string{"fever", "cough", "headache", "runny_nose"}

func completionServer(t *testing.T, content string, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 2 || !strings.Contains(req.Messages[0].Content, "runny_nose") {
			t.Errorf("system prompt should list the vocabulary: %+v", req.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  req.Model,
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
}

func newTestExtractor(url string, failures uint32) *Extractor {
	return NewExtractor(&Config{
		APIKey:          "test-key",
		BaseURL:         url,
		Model:           "test-model",
		Timeout:         time.Second,
		BreakerFailures: failures,
		BreakerOpen:     time.Minute,
		Logger:          zap.NewNop(),
	})
}

func TestExtract(t *testing.T) {
	server := completionServer(t, `{"symptoms": ["Fever", "cough", "sneezing", "fever"]}`, nil)
	defer server.Close()

	got, err := newTestExtractor(server.URL, 3).Extract(context.Background(), "hot and coughing", vocab)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	want := []string{"fever", "cough"}
	if len(got) != len(want) {
		t.Fatalf("Extract() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Extract()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExtract_BlankTextSkipsCall(t *testing.T) {
	var hits atomic.Int32
	server := completionServer(t, `{"symptoms": []}`, &hits)
	defer server.Close()

	got, err := newTestExtractor(server.URL, 3).Extract(context.Background(), "   ", vocab)
	if err != nil || got != nil {
		t.Fatalf("Extract() = %v, %v", got, err)
	}
	if hits.Load() != 0 {
		t.Errorf("expected no API call, got %d", hits.Load())
	}
}

func TestExtract_MalformedContent(t *testing.T) {
	server := completionServer(t, `not json`, nil)
	defer server.Close()

	_, err := newTestExtractor(server.URL, 3).Extract(context.Background(), "fever", vocab)
	if !errors.Is(err, domain.ErrExtractorUnavailable) {
		t.Fatalf("expected ErrExtractorUnavailable, got %v", err)
	}
}

func TestExtract_APIErrorDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": "model not found"}`))
	}))
	defer server.Close()

	_, err := newTestExtractor(server.URL, 3).Extract(context.Background(), "fever", vocab)
	if !errors.Is(err, domain.ErrExtractorUnavailable) {
		t.Fatalf("expected ErrExtractorUnavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), "model not found") {
		t.Errorf("expected detail in error, got %v", err)
	}
}

func TestExtract_BreakerOpens(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ext := newTestExtractor(server.URL, 2)
	for range 4 {
		if _, err := ext.Extract(context.Background(), "fever", vocab); !errors.Is(err, domain.ErrExtractorUnavailable) {
			t.Fatalf("expected ErrExtractorUnavailable, got %v", err)
		}
	}
	if hits.Load() != 2 {
		t.Errorf("expected breaker to stop calls after 2 failures, got %d calls", hits.Load())
	}
	if err := ext.HealthCheck(context.Background()); !errors.Is(err, domain.ErrExtractorUnavailable) {
		t.Errorf("HealthCheck() with open breaker = %v", err)
	}
}

func TestHealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object": "list", "data": []}`))
	}))
	defer server.Close()

	if err := newTestExtractor(server.URL, 3).HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck failed: %v", err)
	}
}
