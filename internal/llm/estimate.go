package llm

import (
	"unicode/utf16"

	"github.com/ppiankov/legalese/internal/model"
)

// Prices in USD per 1000 tokens
const (
	gpt4PricePer1K  = 0.03
	gpt35PricePer1K = 0.002
)

// EstimateTokens approximates the token count as one token per four
// characters, counted in UTF-16 code units
func EstimateTokens(text string) int {
	n := len(utf16.Encode([]rune(text)))
	return (n + 3) / 4
}

// EstimateCost estimates the prompt cost of sending text to a provider.
// Providers without a known price report the token count at zero cost.
func EstimateCost(provider, modelName, text string) model.Estimate {
	tokens := EstimateTokens(text)

	switch NormalizeProvider(provider) {
	case "openai":
		if modelName == "gpt-4" {
			return model.Estimate{Tokens: tokens, Cost: float64(tokens) / 1000 * gpt4PricePer1K, Model: "GPT-4"}
		}
		return model.Estimate{Tokens: tokens, Cost: float64(tokens) / 1000 * gpt35PricePer1K, Model: "GPT-3.5-turbo"}

	case "gemini":
		return model.Estimate{Tokens: tokens, Cost: 0, Model: "Gemini Pro"}

	case "anthropic", "ollama":
		name := modelName
		if name == "" {
			name = NormalizeProvider(provider)
		}
		return model.Estimate{Tokens: tokens, Cost: 0, Model: name}

	default:
		return model.Estimate{Tokens: 0, Cost: 0, Model: "None"}
	}
}
