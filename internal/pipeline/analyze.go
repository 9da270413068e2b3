package pipeline

import (
	"errors"

	"github.com/ppiankov/legalese/internal/extract"
	"github.com/ppiankov/legalese/internal/model"
	"github.com/ppiankov/legalese/internal/risk"
	"github.com/ppiankov/legalese/internal/simplify"
)

// ErrInvalidInput is matched by every *InvalidInputError via errors.Is
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError is returned when there is no text to analyze
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

// Is reports whether target is ErrInvalidInput
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Analyze runs the rule-based analysis. Simplification, key-point extraction
// and risk assessment each work on the original text.
// Safe for concurrent use.
func Analyze(text string) (*model.AnalysisResult, error) {
	if err := validateText(text); err != nil {
		return nil, err
	}

	return &model.AnalysisResult{
		OriginalText:   text,
		SimplifiedText: simplify.Simplify(text),
		KeyPoints:      extract.KeyPoints(text),
		Risk:           risk.Assess(text),
	}, nil
}

func validateText(text string) error {
	if text == "" {
		return &InvalidInputError{Reason: "text is empty"}
	}
	if simplify.Trim(text) == "" {
		return &InvalidInputError{Reason: "text contains only whitespace"}
	}
	return nil
}
