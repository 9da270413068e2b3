package llm

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/legalese/internal/model"
)

// NewProvider creates a new LLM provider based on configuration.
// An empty or "none" provider disables delegation and returns nil, nil.
func NewProvider(config Config, logger *zap.Logger) (Provider, error) {
	switch NormalizeProvider(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config, logger)

	case "anthropic":
		return NewAnthropicProvider(config, logger)

	case "ollama":
		return NewOllamaProvider(config, logger)

	case "gemini":
		return NewGeminiProvider(config, logger)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama, gemini)", config.Provider)
	}
}

// NormalizeProvider maps provider aliases onto canonical names.
// "none" and "" both mean disabled.
func NormalizeProvider(name string) string {
	switch p := strings.ToLower(strings.TrimSpace(name)); p {
	case "none":
		return ""
	case "claude":
		return "anthropic"
	case "google":
		return "gemini"
	default:
		return p
	}
}

// ConfigFromModel converts the application configuration to llm.Config.
// API keys and the Ollama URL are taken from the environment when the
// configuration leaves them empty.
func ConfigFromModel(llmCfg model.LLMConfig, httpCfg model.HTTPConfig) Config {
	cfg := Config{
		Provider:           NormalizeProvider(llmCfg.Provider),
		Model:              llmCfg.Model,
		APIKey:             llmCfg.APIKey,
		BaseURL:            llmCfg.BaseURL,
		Timeout:            llmCfg.Timeout,
		DetailedAnalysis:   llmCfg.DetailedAnalysis,
		ExtractDefinitions: llmCfg.ExtractDefinitions,
		MaxRetries:         llmCfg.MaxRetries,
		HTTPProxy:          httpCfg.HTTPProxy,
		HTTPSProxy:         httpCfg.HTTPSProxy,
		NoProxy:            httpCfg.NoProxy,
	}

	if cfg.APIKey == "" {
		cfg.APIKey = APIKeyFromEnv(cfg.Provider)
	}
	if cfg.BaseURL == "" && cfg.Provider == "ollama" {
		cfg.BaseURL = os.Getenv("OLLAMA_BASE_URL")
	}

	return cfg
}

// APIKeyFromEnv returns the provider's API key from its environment variable
func APIKeyFromEnv(provider string) string {
	switch NormalizeProvider(provider) {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	case "gemini":
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			return key
		}
		return os.Getenv("GOOGLE_API_KEY")
	default:
		return ""
	}
}
