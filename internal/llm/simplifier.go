package llm

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/legalese/internal/model"
)

// retryAfterFunc is overridden in tests
var retryAfterFunc = time.After

const retryBackoff = 2 * time.Second

// ErrDisabled is returned when analysis is requested without a provider
var ErrDisabled = errors.New("LLM provider not configured")

// Simplifier asks a provider for a structured plain-English analysis
type Simplifier struct {
	provider Provider
	config   Config
	logger   *zap.Logger
}

// Result is a parsed provider answer with its provenance
type Result struct {
	Analysis   model.AIAnalysis `json:"analysis"`
	Provider   string           `json:"provider"`
	Model      string           `json:"model"`
	TokensUsed int              `json:"tokens_used"`
	Structured bool             `json:"structured"`
}

// NewSimplifier creates a simplifier for the configured provider.
// With no provider configured the simplifier is disabled.
func NewSimplifier(config Config, logger *zap.Logger) (*Simplifier, error) {
	provider, err := NewProvider(config, logger)
	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}
	return NewSimplifierWithProvider(provider, config, logger), nil
}

// NewSimplifierWithProvider creates a simplifier around an existing provider
func NewSimplifierWithProvider(provider Provider, config Config, logger *zap.Logger) *Simplifier {
	return &Simplifier{
		provider: provider,
		config:   config,
		logger:   orNop(logger),
	}
}

// IsEnabled returns true if a provider is configured
func (s *Simplifier) IsEnabled() bool {
	return s != nil && s.provider != nil
}

// ProviderName returns the provider name, or "" when disabled
func (s *Simplifier) ProviderName() string {
	if !s.IsEnabled() {
		return ""
	}
	return s.provider.Name()
}

// ModelName returns the configured model, which may be empty
func (s *Simplifier) ModelName() string {
	if s == nil {
		return ""
	}
	return s.config.Model
}

// Check reports whether the provider is reachable
func (s *Simplifier) Check(ctx context.Context) error {
	if !s.IsEnabled() {
		return ErrDisabled
	}
	if !s.provider.IsAvailable(ctx) {
		return fmt.Errorf("provider %s is not available", s.provider.Name())
	}
	return nil
}

// Analyze sends text to the provider and parses the answer.
// Answers that are not JSON are wrapped, never rejected.
func (s *Simplifier) Analyze(ctx context.Context, text string) (*Result, error) {
	if !s.IsEnabled() {
		return nil, ErrDisabled
	}

	req := CompletionRequest{
		System:      SystemPrompt,
		Prompt:      BuildPrompt(text, s.config.ExtractDefinitions),
		Model:       s.config.Model,
		MaxTokens:   s.config.MaxTokens(),
		Temperature: DefaultTemperature,
	}

	s.logger.Debug("requesting analysis",
		zap.String("provider", s.provider.Name()),
		zap.String("model", req.Model),
		zap.Int("max_tokens", req.MaxTokens),
		zap.Int("chars", len(text)))

	resp, err := s.complete(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s completion: %w", s.provider.Name(), err)
	}

	analysis := ParseAnalysis(resp.Content)
	if analysis.Unstructured {
		s.logger.Warn("provider answer was not JSON, using raw text",
			zap.String("provider", s.provider.Name()))
	}

	return &Result{
		Analysis:   *analysis,
		Provider:   s.provider.Name(),
		Model:      resp.Model,
		TokensUsed: resp.TokensUsed,
		Structured: !analysis.Unstructured,
	}, nil
}

// complete retries temporary provider errors (429, 5xx) with linear backoff
func (s *Simplifier) complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	for attempt := 1; ; attempt++ {
		resp, err := s.provider.Complete(ctx, req)
		if err == nil {
			return resp, nil
		}

		var apiErr *APIError
		if !errors.As(err, &apiErr) || !apiErr.Temporary() || attempt > s.config.MaxRetries {
			return nil, err
		}

		wait := time.Duration(attempt) * retryBackoff
		s.logger.Warn("provider busy, retrying",
			zap.String("provider", s.provider.Name()),
			zap.Int("status", apiErr.StatusCode),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-retryAfterFunc(wait):
		}
	}
}

// CacheKeyParts identifies a request for caching: the same text sent with
// the same provider settings yields the same parts
func (s *Simplifier) CacheKeyParts(text string) []string {
	return []string{
		s.ProviderName(),
		s.ModelName(),
		strconv.FormatBool(s.config.DetailedAnalysis),
		strconv.FormatBool(s.config.ExtractDefinitions),
		text,
	}
}
