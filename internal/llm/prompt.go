package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/legalese/internal/model"
)

// SystemPrompt is sent with every simplification request
const SystemPrompt = "You are a legal document simplification assistant. Provide responses in JSON format only."

// Answer used when the provider did not return JSON
const (
	FallbackKeyPoint   = "AI response received - see simplified explanation"
	FallbackRiskLevel  = "Medium"
	FallbackRiskReason = "Unable to automatically assess - please review carefully"
)

var codeFencePattern = regexp.MustCompile("```json\\n?|\\n?```")

// BuildPrompt constructs the simplification prompt for a legal text
func BuildPrompt(text string, extractDefinitions bool) string {
	definitions := ""
	if extractDefinitions {
		definitions = `"definitions": ["term1: definition", "term2: definition"],`
	}

	return fmt.Sprintf(`You are a legal document simplifier. Your task is to convert complex legal text into plain English for educational purposes.

STRICT RULES:
1. Do NOT provide legal advice or recommendations
2. Do NOT change the meaning or obligations in the original text
3. Preserve factual accuracy
4. Maintain neutrality

Input Legal Text:
%s

Please provide your response in the following JSON format:
{
    "simplified": "Plain English explanation of the text",
    "keyPoints": [
        "Key point 1",
        "Key point 2",
        "Key point 3"
    ],
    "riskLevel": "Low|Medium|High",
    "riskReason": "Brief explanation of the risk level",
    %s
    "obligations": ["obligation 1", "obligation 2"],
    "parties": ["party 1", "party 2"],
    "timelines": ["timeline 1", "timeline 2"]
}

Respond with ONLY the JSON object, no additional text.`, text, definitions)
}

// ParseAnalysis decodes a provider answer. Markdown code fences are removed
// first; an answer that still is not JSON is wrapped in a fallback analysis
// carrying the raw text as the simplified explanation.
func ParseAnalysis(content string) *model.AIAnalysis {
	cleaned := strings.TrimSpace(codeFencePattern.ReplaceAllString(content, ""))

	var analysis model.AIAnalysis
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		return fallbackAnalysis(content)
	}
	return &analysis
}

func fallbackAnalysis(content string) *model.AIAnalysis {
	return &model.AIAnalysis{
		Simplified:   content,
		KeyPoints:    []string{FallbackKeyPoint},
		RiskLevel:    FallbackRiskLevel,
		RiskReason:   FallbackRiskReason,
		Obligations:  []string{},
		Parties:      []string{},
		Timelines:    []string{},
		Unstructured: true,
	}
}
