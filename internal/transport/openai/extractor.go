package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	openai "github.com/sashabaranov/go-openai"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/symptomd/internal/domain"
	"github.com/kailas-cloud/symptomd/internal/metrics"
)

const breakerName = "symptom-extractor"

const systemPrompt = `You map a patient's free-text description to known symptom identifiers.
Answer with a JSON object {"symptoms": [...]} using only identifiers from this list:
%s
Return an empty list when nothing matches. Do not invent identifiers.`

// Extractor maps free text to vocabulary symptoms using an OpenAI-compatible chat API.
type Extractor struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	cb      *gobreaker.CircuitBreaker[[]string]
	logger  *zap.Logger
}

// Config holds the extractor settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	// BreakerFailures is the number of consecutive failures that opens the breaker.
	BreakerFailures uint32
	// BreakerOpen is how long the breaker stays open before probing again.
	BreakerOpen time.Duration
	Logger      *zap.Logger
}

// NewExtractor creates an OpenAI-compatible symptom extractor.
func NewExtractor(cfg *Config) *Extractor {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}

	metrics.ExtractorBreakerState.Set(0)

	cb := gobreaker.NewCircuitBreaker[[]string](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.BreakerOpen,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			// Caller cancellation says nothing about provider health.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.ExtractorBreakerState.Set(stateValue(to))
		},
	})

	return &Extractor{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		cb:      cb,
		logger:  logger,
	}
}

// Extract returns the vocabulary symptoms mentioned in text.
// Identifiers outside vocabulary are dropped. All failures wrap domain.ErrExtractorUnavailable.
func (e *Extractor) Extract(ctx context.Context, text string, vocabulary []string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	start := time.Now()
	found, err := e.cb.Execute(func() ([]string, error) {
		return e.complete(ctx, text, vocabulary)
	})
	if err != nil {
		status := "error"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			status = "rejected"
		}
		metrics.ExtractorRequestsTotal.WithLabelValues(e.model, status).Inc()
		if errors.Is(err, domain.ErrExtractorUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrExtractorUnavailable, err)
	}

	metrics.ExtractorRequestsTotal.WithLabelValues(e.model, "success").Inc()
	metrics.ExtractorRequestDuration.WithLabelValues(e.model).Observe(time.Since(start).Seconds())

	return filter(found, vocabulary), nil
}

func (e *Extractor) complete(ctx context.Context, text string, vocabulary []string) ([]string, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: fmt.Sprintf(systemPrompt, strings.Join(vocabulary, ", "))},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, parseAPIError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty completion response: %w", domain.ErrExtractorUnavailable)
	}

	var parsed struct {
		Symptoms []string `json:"symptoms"`
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &parsed); err != nil {
		return nil, fmt.Errorf("decode completion: %w: %w", err, domain.ErrExtractorUnavailable)
	}
	return parsed.Symptoms, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (e *Extractor) HealthCheck(ctx context.Context) error {
	if e.cb.State() == gobreaker.StateOpen {
		return fmt.Errorf("circuit open: %w", domain.ErrExtractorUnavailable)
	}
	if _, err := e.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func filter(found, vocabulary []string) []string {
	known := make(map[string]struct{}, len(vocabulary))
	for _, v := range vocabulary {
		known[v] = struct{}{}
	}
	out := make([]string, 0, len(found))
	seen := make(map[string]struct{}, len(found))
	for _, s := range found {
		s = strings.ToLower(strings.TrimSpace(s))
		if _, ok := known[s]; !ok {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// parseAPIError extracts a human-readable error from the API response.
func parseAPIError(err error) error {
	wrap := domain.ErrExtractorUnavailable

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("extractor API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("extractor API error %d: %s: %w", reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("extractor API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("extractor request failed: %w: %w", err, wrap)
}

// extractDetail extracts the "detail" field from a JSON error body (Nebius error format).
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
