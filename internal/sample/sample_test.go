package sample

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/legalese/internal/model"
	"github.com/ppiankov/legalese/internal/pipeline"
)

func TestGet(t *testing.T) {
	doc, err := Get(0)
	require.NoError(t, err)
	assert.Equal(t, "Employment Non-Compete", doc.Title)

	for _, index := range []int{-1, Count()} {
		_, err := Get(index)
		assert.Error(t, err, "index %d", index)
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	docs := All()
	require.Len(t, docs, Count())

	docs[0].Title = "changed"
	doc, err := Get(0)
	require.NoError(t, err)
	assert.Equal(t, "Employment Non-Compete", doc.Title)
}

func TestSamplesAnalyze(t *testing.T) {
	for _, doc := range All() {
		t.Run(doc.Title, func(t *testing.T) {
			result, err := pipeline.Analyze(doc.Text)
			require.NoError(t, err)
			assert.NotEmpty(t, result.SimplifiedText)
			assert.NotEmpty(t, result.KeyPoints)
		})
	}
}

func TestLiabilitySampleIsHighRisk(t *testing.T) {
	doc, err := Get(2)
	require.NoError(t, err)

	result, err := pipeline.Analyze(doc.Text)
	require.NoError(t, err)
	assert.Equal(t, model.RiskHigh, result.Risk.Level)
	assert.Contains(t, result.Risk.Reasons, "financial or legal liability")
}
