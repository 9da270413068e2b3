// Package risk scores legal text against weighted term lists and maps the
// score onto a three-tier risk level.
package risk

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/legalese/internal/model"
	"github.com/ppiankov/legalese/internal/simplify"
)

// Reason strings reported with an assessment
const (
	ReasonLiability   = "financial or legal liability"
	ReasonObligations = "binding obligations"
	ReasonMonetary    = "monetary commitments"
	ReasonTimeBound   = "time-bound requirements"
)

// Level thresholds
const (
	HighThreshold   = 6
	MediumThreshold = 3
)

// Match groups recorded in model.RiskMatch
const (
	GroupHigh     = "high"
	GroupMedium   = "medium"
	GroupLow      = "low"
	GroupCurrency = "currency"
	GroupDuration = "duration"
)

var (
	highRiskTerms = []string{
		"liable", "liability", "indemnify", "indemnification", "damages", "penalty",
		"terminate", "termination", "breach", "default", "forfeiture", "waive", "waiver",
	}
	mediumRiskTerms = []string{
		"shall", "must", "required", "obligated", "binding", "non-compete",
		"confidential", "exclusive", "irrevocable",
	}
	lowRiskTerms = []string{"may", "optional", "discretionary", "suggested"}

	currencyPattern = regexp.MustCompile(`\$[\d,]+|\d+` + simplify.WhitespaceClass + `*dollars?`)
	durationPattern = regexp.MustCompile(`\d+` + simplify.WhitespaceClass + `*(days?|months?|years?)`)
)

// Assessor calculates risk scores and generates explanations
type Assessor struct{}

// NewAssessor creates a new assessor
func NewAssessor() *Assessor {
	return &Assessor{}
}

// Assess scores the lower-cased text. Terms are matched as substrings, each
// distinct term counts once regardless of how often it occurs.
func (a *Assessor) Assess(text string) model.RiskAssessment {
	lower := simplify.Lower(text)

	var (
		score   int
		reasons reasonSet
		matches []model.RiskMatch
	)

	// 1. High-risk terms (+3 each)
	for _, term := range highRiskTerms {
		if strings.Contains(lower, term) {
			score += 3
			reasons.add(ReasonLiability)
			matches = append(matches, model.RiskMatch{Term: term, Group: GroupHigh, Weight: 3})
		}
	}

	// 2. Medium-risk terms (+1 each)
	for _, term := range mediumRiskTerms {
		if strings.Contains(lower, term) {
			score++
			reasons.add(ReasonObligations)
			matches = append(matches, model.RiskMatch{Term: term, Group: GroupMedium, Weight: 1})
		}
	}

	// 3. Money (+2 once)
	if m := currencyPattern.FindString(lower); m != "" {
		score += 2
		reasons.add(ReasonMonetary)
		matches = append(matches, model.RiskMatch{Term: m, Group: GroupCurrency, Weight: 2})
	}

	// 4. Durations (+1 once)
	if m := durationPattern.FindString(lower); m != "" {
		score++
		reasons.add(ReasonTimeBound)
		matches = append(matches, model.RiskMatch{Term: m, Group: GroupDuration, Weight: 1})
	}

	// 5. Permissive terms (-1 each, no floor)
	for _, term := range lowRiskTerms {
		if strings.Contains(lower, term) {
			score--
			matches = append(matches, model.RiskMatch{Term: term, Group: GroupLow, Weight: -1})
		}
	}

	level := LevelForScore(score)
	list := reasons.list()

	return model.RiskAssessment{
		Level:       level,
		Score:       score,
		Reasons:     list,
		Explanation: Explain(level, list),
		Matches:     matches,
	}
}

// LevelForScore maps a score onto a risk level
func LevelForScore(score int) model.RiskLevel {
	switch {
	case score >= HighThreshold:
		return model.RiskHigh
	case score >= MediumThreshold:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

// Explain renders the explanation template for a level
func Explain(level model.RiskLevel, reasons []string) string {
	joined := strings.Join(reasons, ", ")

	switch level {
	case model.RiskHigh:
		return fmt.Sprintf("This text contains significant %s. It imposes serious obligations or potential consequences that could have major financial or legal impact.", joined)
	case model.RiskMedium:
		return fmt.Sprintf("This text includes %s. It contains obligations or restrictions that require attention and compliance.", joined)
	}

	if len(reasons) > 0 {
		return fmt.Sprintf("This text has minimal %s. The obligations or restrictions appear to be limited in scope or severity.", joined)
	}
	return "This text appears to be informational or contains minimal binding obligations. The requirements are straightforward with limited consequences."
}

// reasonSet keeps distinct reasons in insertion order
type reasonSet struct {
	seen  map[string]bool
	order []string
}

func (r *reasonSet) add(reason string) {
	if r.seen == nil {
		r.seen = make(map[string]bool)
	}
	if r.seen[reason] {
		return
	}
	r.seen[reason] = true
	r.order = append(r.order, reason)
}

func (r *reasonSet) list() []string {
	if len(r.order) == 0 {
		return []string{}
	}
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

var defaultAssessor = NewAssessor()

// Assess scores text with the built-in term lists
func Assess(text string) model.RiskAssessment {
	return defaultAssessor.Assess(text)
}
