package pipeline

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/legalese/internal/model"
)

func TestAnalyze_InvalidInput(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t", "\u00A0\u3000"} {
		result, err := Analyze(text)

		assert.Nil(t, result, "input %q", text)
		require.Error(t, err, "input %q", text)
		assert.True(t, errors.Is(err, ErrInvalidInput), "errors.Is for %q", text)

		var invalid *InvalidInputError
		require.True(t, errors.As(err, &invalid), "errors.As for %q", text)
		assert.NotEmpty(t, invalid.Reason)
	}
}

func TestAnalyze_NonCompete(t *testing.T) {
	text := "The Employee shall not compete for twelve (12) months."

	result, err := Analyze(text)
	require.NoError(t, err)

	assert.Equal(t, text, result.OriginalText)
	assert.Equal(t, "The Employee must not compete for twelve (12) months.", result.SimplifiedText)
	assert.Equal(t, []model.KeyPoint{
		{Category: model.CategoryObligation, Text: "The Employee must not compete for twelve (12) months."},
	}, result.KeyPoints)
	assert.Equal(t, 1, result.Risk.Score)
	assert.Equal(t, model.RiskLow, result.Risk.Level)
	assert.Equal(t, []string{"binding obligations"}, result.Risk.Reasons)
}

// Key points and risk work on the original text, not on the simplified one.
// "liable" is rewritten by simplification but still scores.
func TestAnalyze_ComponentsUseOriginalText(t *testing.T) {
	text := "The Contractor is liable for $5,000 if work is not delivered within 30 days."

	result, err := Analyze(text)
	require.NoError(t, err)

	assert.NotContains(t, result.SimplifiedText, "liable")
	assert.Equal(t, 6, result.Risk.Score)
	assert.Equal(t, model.RiskHigh, result.Risk.Level)
	require.Len(t, result.KeyPoints, 1)
	assert.Equal(t, model.CategoryPenalty, result.KeyPoints[0].Category)
}

func TestAnalyze_Concurrent(t *testing.T) {
	text := "The Tenant shall pay rent. The Landlord may enter. Damages apply after 10 days."
	want, err := Analyze(text)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*model.AnalysisResult, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Analyze(text)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, want, r)
	}
}
