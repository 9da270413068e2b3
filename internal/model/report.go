package model

import "time"

// Mode identifies which path produced a report
type Mode string

const (
	ModeBasic Mode = "basic" // Rule-based local pipeline
	ModeAI    Mode = "ai"    // Delegated to a language-model provider
)

// Report is the complete analysis report for one document
type Report struct {
	Source      SourceMeta `json:"source"`                 // Where the text came from
	Mode        Mode       `json:"mode"`                   // basic or ai
	Provider    string     `json:"provider,omitempty"`     // openai, anthropic, ollama, gemini
	Model       string     `json:"model,omitempty"`        // Provider model name
	GeneratedAt time.Time  `json:"generated_at"`           // When the analysis ran

	Original   string         `json:"original"`
	Simplified string         `json:"simplified"`
	KeyPoints  []KeyPoint     `json:"key_points"`
	Risk       RiskAssessment `json:"risk"`

	// Only filled by providers
	Definitions []string `json:"definitions,omitempty"`
	Obligations []string `json:"obligations,omitempty"`
	Parties     []string `json:"parties,omitempty"`
	Timelines   []string `json:"timelines,omitempty"`

	Estimate *Estimate `json:"estimate,omitempty"` // Token/cost estimate for provider calls
	Cached   bool      `json:"cached,omitempty"`   // Provider answer served from cache
	Warnings []string  `json:"warnings,omitempty"` // Fallbacks, parse failures, etc.
}

// SourceMeta describes the document the text was acquired from
type SourceMeta struct {
	Name        string `json:"name"`                   // Display name (file base name, URL slug, "stdin")
	Origin      string `json:"origin,omitempty"`       // Path or URL
	ContentType string `json:"content_type,omitempty"` // text/plain, text/html, ...
	Characters  int    `json:"characters"`
}

// AIAnalysis is the structured answer expected from a provider
type AIAnalysis struct {
	Simplified  string   `json:"simplified"`
	KeyPoints   []string `json:"keyPoints"`
	RiskLevel   string   `json:"riskLevel"`
	RiskReason  string   `json:"riskReason"`
	Definitions []string `json:"definitions,omitempty"`
	Obligations []string `json:"obligations,omitempty"`
	Parties     []string `json:"parties,omitempty"`
	Timelines   []string `json:"timelines,omitempty"`

	// Set when the provider did not answer with JSON
	Unstructured bool `json:"-"`
}

// Estimate is a rough token and cost estimate for a provider call
type Estimate struct {
	Tokens int     `json:"tokens"`
	Cost   float64 `json:"cost_usd"`
	Model  string  `json:"model"`
}

// ReportFromAnalysis wraps a rule-based result into a report
func ReportFromAnalysis(result *AnalysisResult, source SourceMeta) *Report {
	return &Report{
		Source:      source,
		Mode:        ModeBasic,
		GeneratedAt: time.Now().UTC(),
		Original:    result.OriginalText,
		Simplified:  result.SimplifiedText,
		KeyPoints:   result.KeyPoints,
		Risk:        result.Risk,
	}
}
