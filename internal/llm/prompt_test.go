package llm

import (
	"math"
	"strings"
	"testing"
)

func TestBuildPrompt_BasicStructure(t *testing.T) {
	prompt := BuildPrompt("The Lessee shall indemnify the Lessor.", true)

	required := []string{
		"You are a legal document simplifier.",
		"1. Do NOT provide legal advice or recommendations",
		"4. Maintain neutrality",
		"Input Legal Text:\nThe Lessee shall indemnify the Lessor.\n",
		`"riskLevel": "Low|Medium|High",`,
		`    "definitions": ["term1: definition", "term2: definition"],` + "\n",
		`"timelines": ["timeline 1", "timeline 2"]`,
	}
	for _, want := range required {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected prompt to contain %q", want)
		}
	}

	if !strings.HasSuffix(prompt, "Respond with ONLY the JSON object, no additional text.") {
		t.Error("Expected prompt to end with the JSON-only instruction")
	}
}

func TestBuildPrompt_WithoutDefinitions(t *testing.T) {
	prompt := BuildPrompt("text", false)

	if strings.Contains(prompt, "definitions") {
		t.Error("Expected no definitions field when extraction is disabled")
	}
	if !strings.Contains(prompt, "\"riskReason\": \"Brief explanation of the risk level\",\n    \n    \"obligations\"") {
		t.Error("Expected the definitions line to be left blank")
	}
}

func TestParseAnalysis_JSON(t *testing.T) {
	content := `{
		"simplified": "You must pay rent monthly.",
		"keyPoints": ["Pay rent", "On time"],
		"riskLevel": "Low",
		"riskReason": "Routine obligation",
		"definitions": ["Tenant: the renter"],
		"obligations": ["pay rent"],
		"parties": ["Tenant", "Landlord"],
		"timelines": ["monthly"]
	}`

	analysis := ParseAnalysis(content)

	if analysis.Unstructured {
		t.Fatal("Expected structured analysis")
	}
	if analysis.Simplified != "You must pay rent monthly." {
		t.Errorf("Unexpected simplified: %q", analysis.Simplified)
	}
	if len(analysis.KeyPoints) != 2 || analysis.RiskLevel != "Low" {
		t.Errorf("Unexpected analysis: %+v", analysis)
	}
	if len(analysis.Definitions) != 1 || len(analysis.Parties) != 2 {
		t.Errorf("Unexpected optional fields: %+v", analysis)
	}
}

func TestParseAnalysis_CodeFence(t *testing.T) {
	content := "```json\n{\"simplified\": \"plain\", \"riskLevel\": \"High\"}\n```"

	analysis := ParseAnalysis(content)

	if analysis.Unstructured {
		t.Fatal("Expected fenced JSON to parse")
	}
	if analysis.Simplified != "plain" || analysis.RiskLevel != "High" {
		t.Errorf("Unexpected analysis: %+v", analysis)
	}
}

func TestParseAnalysis_Fallback(t *testing.T) {
	content := "The tenant has to pay rent every month."

	analysis := ParseAnalysis(content)

	if !analysis.Unstructured {
		t.Error("Expected unstructured analysis")
	}
	if analysis.Simplified != content {
		t.Errorf("Expected raw content as simplified text, got %q", analysis.Simplified)
	}
	if len(analysis.KeyPoints) != 1 || analysis.KeyPoints[0] != FallbackKeyPoint {
		t.Errorf("Unexpected key points: %v", analysis.KeyPoints)
	}
	if analysis.RiskLevel != "Medium" || analysis.RiskReason != FallbackRiskReason {
		t.Errorf("Unexpected risk: %s / %s", analysis.RiskLevel, analysis.RiskReason)
	}
	if analysis.Obligations == nil || analysis.Parties == nil || analysis.Timelines == nil {
		t.Error("Expected empty, non-nil lists in fallback")
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := map[string]int{
		"":           0,
		"a":          1,
		"abcd":       1,
		"abcde":      2,
		"vis-à-vis":  3, // 9 UTF-16 units
		"\U0001F600": 1, // surrogate pair, 2 units
	}

	for text, want := range tests {
		if got := EstimateTokens(text); got != want {
			t.Errorf("EstimateTokens(%q) = %d, expected %d", text, got, want)
		}
	}
}

func TestEstimateCost(t *testing.T) {
	text := strings.Repeat("a", 4000) // 1000 tokens

	tests := []struct {
		provider, model string
		wantTokens      int
		wantCost        float64
		wantModel       string
	}{
		{"openai", "gpt-4", 1000, 0.03, "GPT-4"},
		{"openai", "gpt-3.5-turbo", 1000, 0.002, "GPT-3.5-turbo"},
		{"openai", "", 1000, 0.002, "GPT-3.5-turbo"},
		{"gemini", "gemini-pro", 1000, 0, "Gemini Pro"},
		{"anthropic", "claude-3-5-haiku-20241022", 1000, 0, "claude-3-5-haiku-20241022"},
		{"ollama", "", 1000, 0, "ollama"},
		{"", "", 0, 0, "None"},
		{"none", "gpt-4", 0, 0, "None"},
	}

	for _, tt := range tests {
		got := EstimateCost(tt.provider, tt.model, text)
		if got.Tokens != tt.wantTokens || math.Abs(got.Cost-tt.wantCost) > 1e-9 || got.Model != tt.wantModel {
			t.Errorf("EstimateCost(%q, %q) = %+v, expected {%d %v %s}",
				tt.provider, tt.model, got, tt.wantTokens, tt.wantCost, tt.wantModel)
		}
	}
}
