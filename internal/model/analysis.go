package model

import "strings"

// Category classifies a key point extracted from a legal sentence
type Category string

const (
	CategoryObligation  Category = "obligation"  // Something a party has to do
	CategoryRestriction Category = "restriction" // Something a party must not do
	CategoryRight       Category = "right"       // Something a party is allowed to do
	CategoryPenalty     Category = "penalty"     // Liability, damages, indemnities
	CategoryTimeline    Category = "timeline"    // Deadlines and durations
	CategoryGeneral     Category = "general"     // Fallback when no rule matched
)

// KeyPoint is a classified, simplified sentence extracted from the source document
type KeyPoint struct {
	Category Category `json:"category"`
	Text     string   `json:"text"`
}

// RiskLevel is the qualitative three-tier risk rating
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"

	// RiskUnknown is only produced for provider answers without a recognised level
	RiskUnknown RiskLevel = "Unknown"
)

// ParseRiskLevel maps a free-form level name onto a RiskLevel (case-insensitive)
func ParseRiskLevel(s string) RiskLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return RiskLow
	case "medium":
		return RiskMedium
	case "high":
		return RiskHigh
	default:
		return RiskUnknown
	}
}

// RiskAssessment is the derived risk rating of a text
type RiskAssessment struct {
	Level       RiskLevel   `json:"level"`
	Score       int         `json:"score"`
	Reasons     []string    `json:"reasons"`     // Distinct, first-triggered order
	Explanation string      `json:"explanation"` // Template keyed by level
	Matches     []RiskMatch `json:"matches,omitempty"`
}

// RiskMatch records one term or pattern that contributed to the score
type RiskMatch struct {
	Term   string `json:"term"`
	Group  string `json:"group"` // high, medium, low, currency, duration
	Weight int    `json:"weight"`
}

// AnalysisResult is the output of the rule-based pipeline.
// It is created fresh per call and owned by the caller.
type AnalysisResult struct {
	OriginalText   string         `json:"original_text"`
	SimplifiedText string         `json:"simplified_text"`
	KeyPoints      []KeyPoint     `json:"key_points"`
	Risk           RiskAssessment `json:"risk"`
}
