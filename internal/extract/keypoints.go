// Package extract splits legal text into sentences and classifies them into
// key points.
package extract

import (
	"regexp"
	"strings"

	"github.com/ppiankov/legalese/internal/model"
	"github.com/ppiankov/legalese/internal/simplify"
)

const (
	// MaxKeyPoints bounds the number of points returned by Extract
	MaxKeyPoints = 5

	// fallbackSentences is how many leading sentences become general points
	// when no rule matched anywhere in the document
	fallbackSentences = 3
)

var timelinePattern = regexp.MustCompile(`\d+` + simplify.WhitespaceClass + `*(days?|months?|years?|hours?)`)

// rule classifies a lower-cased sentence
type rule struct {
	category model.Category
	match    func(lower string) bool
}

// Rules are evaluated in order and the first match wins. Because "shall"
// precedes "shall not", a prohibition phrased with "shall not" is reported as
// an obligation.
var defaultRules = []rule{
	{model.CategoryObligation, containsAny("shall", "must", "required to", "agrees to", "obligated")},
	{model.CategoryRestriction, containsAny("shall not", "may not", "prohibited", "restricted")},
	{model.CategoryRight, func(lower string) bool {
		return strings.Contains(lower, "entitled to") || strings.Contains(lower, "right to") ||
			(strings.Contains(lower, "may") && !strings.Contains(lower, "may not"))
	}},
	{model.CategoryPenalty, containsAny("liable", "penalty", "damages", "indemnify")},
	{model.CategoryTimeline, timelinePattern.MatchString},
}

func containsAny(keywords ...string) func(string) bool {
	return func(lower string) bool {
		for _, k := range keywords {
			if strings.Contains(lower, k) {
				return true
			}
		}
		return false
	}
}

// Extractor classifies sentences into key points
type Extractor struct {
	rules []rule
}

// NewExtractor creates an extractor with the built-in rule order
func NewExtractor() *Extractor {
	return &Extractor{rules: defaultRules}
}

// Classify returns the category of the first rule matching the sentence
func (e *Extractor) Classify(sentence string) (model.Category, bool) {
	lower := simplify.Lower(sentence)
	for _, r := range e.rules {
		if r.match(lower) {
			return r.category, true
		}
	}
	return "", false
}

// Extract returns at most MaxKeyPoints key points in document order.
// If no sentence matches a rule, the first sentences are returned as general
// points instead, so the result is never empty.
func (e *Extractor) Extract(text string) []model.KeyPoint {
	sentences := Segment(text)

	var points []model.KeyPoint
	for _, sentence := range sentences {
		category, ok := e.Classify(sentence)
		if !ok {
			continue
		}
		points = append(points, newPoint(category, sentence))
	}

	if len(points) == 0 {
		for i, sentence := range sentences {
			if i >= fallbackSentences {
				break
			}
			points = append(points, newPoint(model.CategoryGeneral, sentence))
		}
	}

	if len(points) > MaxKeyPoints {
		points = points[:MaxKeyPoints]
	}
	return points
}

func newPoint(category model.Category, sentence string) model.KeyPoint {
	return model.KeyPoint{
		Category: category,
		Text:     simplify.Simplify(simplify.Trim(sentence)),
	}
}

var defaultExtractor = NewExtractor()

// KeyPoints extracts key points with the built-in rules
func KeyPoints(text string) []model.KeyPoint {
	return defaultExtractor.Extract(text)
}

// Classify classifies a single sentence with the built-in rules
func Classify(sentence string) (model.Category, bool) {
	return defaultExtractor.Classify(sentence)
}
