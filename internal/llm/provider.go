// Package llm delegates legal-text simplification to external language-model
// providers. Providers only complete prompts; prompt construction and answer
// parsing live in this package so every provider behaves the same.
package llm

import (
	"context"
	"time"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends a single system+user exchange and returns the raw answer
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest contains the input for one completion
type CompletionRequest struct {
	// System is the system instruction
	System string

	// Prompt is the user message
	Prompt string

	// Model overrides the configured model (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int

	// Temperature controls sampling
	Temperature float64
}

// CompletionResponse contains the provider's raw answer
type CompletionResponse struct {
	// Content is the answer text
	Content string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", "gemini", "" or "none"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic/Gemini
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama, OpenAI-compatible gateways)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// DetailedAnalysis raises the answer budget
	DetailedAnalysis bool

	// ExtractDefinitions asks the provider for term definitions
	ExtractDefinitions bool

	// MaxRetries bounds extra attempts after a temporary provider error
	MaxRetries int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// Sampling and budget settings shared by all providers
const (
	DefaultTemperature    = 0.3
	DefaultMaxTokens      = 1000
	DetailedMaxTokens     = 2000
	DefaultMaxRetries     = 2
	defaultRequestTimeout = 30 * time.Second
)

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:           "", // Disabled by default
		Timeout:            30,
		DetailedAnalysis:   true,
		ExtractDefinitions: true,
		MaxRetries:         DefaultMaxRetries,
	}
}

// MaxTokens returns the answer budget for the configuration
func (c Config) MaxTokens() int {
	if c.DetailedAnalysis {
		return DetailedMaxTokens
	}
	return DefaultMaxTokens
}

// RequestTimeout returns the per-request timeout
func (c Config) RequestTimeout() time.Duration {
	if c.Timeout <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.Timeout) * time.Second
}

func resolveModel(req CompletionRequest, config Config, fallback string) string {
	if req.Model != "" {
		return req.Model
	}
	if config.Model != "" {
		return config.Model
	}
	return fallback
}

func resolveMaxTokens(req CompletionRequest, config Config) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	return config.MaxTokens()
}
