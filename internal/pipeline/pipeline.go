package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/legalese/internal/cache"
	"github.com/ppiankov/legalese/internal/extract"
	"github.com/ppiankov/legalese/internal/llm"
	"github.com/ppiankov/legalese/internal/model"
	"github.com/ppiankov/legalese/internal/source"
)

const (
	aiRiskReasonDefault = "AI assessment"
)

// Pipeline orchestrates loading, analysis and rendering of documents
type Pipeline struct {
	loader     *source.Loader
	simplifier *llm.Simplifier // nil or disabled in basic mode
	cache      cache.Cache     // nil when caching is disabled
	renderer   *Renderer
	logger     *zap.Logger
	config     *model.Config
}

// NewPipeline creates a new pipeline with the given configuration.
// An unknown provider is an error; an unusable cache only disables caching.
func NewPipeline(cfg *model.Config, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	simplifier, err := llm.NewSimplifier(llm.ConfigFromModel(cfg.LLM, cfg.HTTP), logger)
	if err != nil {
		return nil, fmt.Errorf("initialize LLM provider: %w", err)
	}

	var c cache.Cache
	if simplifier.IsEnabled() {
		c, err = cache.New(cfg.Cache)
		if err != nil {
			logger.Warn("cache disabled", zap.Error(err))
			c = nil
		}
	}

	return New(cfg, simplifier, c, logger), nil
}

// New assembles a pipeline from already constructed parts
func New(cfg *model.Config, simplifier *llm.Simplifier, c cache.Cache, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		loader:     source.NewLoader(cfg.HTTP),
		simplifier: simplifier,
		cache:      c,
		renderer:   NewRenderer(cfg.Output.IncludeFooter),
		logger:     logger,
		config:     cfg,
	}
}

// Mode returns the mode reports are produced in
func (p *Pipeline) Mode() model.Mode {
	if p.simplifier.IsEnabled() {
		return model.ModeAI
	}
	return model.ModeBasic
}

// ProviderName returns the active provider, or "" in basic mode
func (p *Pipeline) ProviderName() string {
	return p.simplifier.ProviderName()
}

// Check verifies the provider is reachable. Basic mode always passes.
func (p *Pipeline) Check(ctx context.Context) error {
	if !p.simplifier.IsEnabled() {
		return nil
	}
	return p.simplifier.Check(ctx)
}

// Loader returns the document loader
func (p *Pipeline) Loader() *source.Loader {
	return p.loader
}

// Renderer returns the report renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// ProcessRef loads the referenced document and processes it
func (p *Pipeline) ProcessRef(ctx context.Context, ref string) (*model.Report, error) {
	doc, err := p.loader.Load(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return p.Process(ctx, doc)
}

// Process analyzes one document. With a provider configured the text is
// delegated to it, otherwise the rule-based analysis runs locally.
func (p *Pipeline) Process(ctx context.Context, doc *source.Document) (*model.Report, error) {
	if err := validateText(doc.Text); err != nil {
		return nil, err
	}

	if !p.simplifier.IsEnabled() {
		return p.processBasic(doc)
	}

	report, err := p.processAI(ctx, doc)
	if err == nil {
		return report, nil
	}

	if !p.config.LLM.FallbackToBasic || ctx.Err() != nil {
		return nil, err
	}

	p.logger.Warn("provider analysis failed, falling back to rule-based analysis",
		zap.String("provider", p.simplifier.ProviderName()),
		zap.String("document", doc.Name),
		zap.Error(err))

	report, basicErr := p.processBasic(doc)
	if basicErr != nil {
		return nil, basicErr
	}
	report.Warnings = append(report.Warnings,
		fmt.Sprintf("%s analysis failed, showing rule-based analysis: %v", p.simplifier.ProviderName(), err))
	return report, nil
}

// Estimate returns the token and cost estimate for sending doc to the provider
func (p *Pipeline) Estimate(doc *source.Document) model.Estimate {
	return llm.EstimateCost(p.simplifier.ProviderName(), p.simplifier.ModelName(), doc.Text)
}

func (p *Pipeline) processBasic(doc *source.Document) (*model.Report, error) {
	result, err := Analyze(doc.Text)
	if err != nil {
		return nil, err
	}
	return model.ReportFromAnalysis(result, doc.Meta()), nil
}

func (p *Pipeline) processAI(ctx context.Context, doc *source.Document) (*model.Report, error) {
	key := cache.Key(p.simplifier.CacheKeyParts(doc.Text)...)

	result, cached := p.lookup(key)
	if result == nil {
		start := time.Now()

		var err error
		result, err = p.simplifier.Analyze(ctx, doc.Text)
		if err != nil {
			return nil, err
		}

		p.logger.Info("provider analysis complete",
			zap.String("provider", result.Provider),
			zap.String("model", result.Model),
			zap.Int("tokens", result.TokensUsed),
			zap.Duration("elapsed", time.Since(start)))

		if result.Structured {
			p.store(key, result)
		}
	}

	report := reportFromAI(result, doc)
	report.Cached = cached
	estimate := llm.EstimateCost(result.Provider, p.simplifier.ModelName(), doc.Text)
	report.Estimate = &estimate
	return report, nil
}

func (p *Pipeline) lookup(key string) (*llm.Result, bool) {
	if p.cache == nil {
		return nil, false
	}

	data, ok := p.cache.Get(key)
	if !ok {
		return nil, false
	}

	var result llm.Result
	if err := json.Unmarshal(data, &result); err != nil {
		p.logger.Warn("dropping unreadable cache entry", zap.String("key", key), zap.Error(err))
		_ = p.cache.Delete(key)
		return nil, false
	}

	p.logger.Debug("cache hit", zap.String("key", key))
	return &result, true
}

func (p *Pipeline) store(key string, result *llm.Result) {
	if p.cache == nil {
		return
	}

	data, err := json.Marshal(result)
	if err == nil {
		err = p.cache.Set(key, data, 0)
	}
	if err != nil {
		p.logger.Warn("failed to cache provider answer", zap.String("key", key), zap.Error(err))
	}
}

// reportFromAI maps a provider answer onto a report. Provider key points are
// classified with the same rules the local extractor uses.
func reportFromAI(result *llm.Result, doc *source.Document) *model.Report {
	a := result.Analysis

	keyPoints := make([]model.KeyPoint, 0, len(a.KeyPoints))
	for _, text := range a.KeyPoints {
		category, ok := extract.Classify(text)
		if !ok {
			category = model.CategoryGeneral
		}
		keyPoints = append(keyPoints, model.KeyPoint{Category: category, Text: text})
	}

	reason := a.RiskReason
	if reason == "" {
		reason = aiRiskReasonDefault
	}

	report := &model.Report{
		Source:      doc.Meta(),
		Mode:        model.ModeAI,
		Provider:    result.Provider,
		Model:       result.Model,
		GeneratedAt: time.Now().UTC(),
		Original:    doc.Text,
		Simplified:  a.Simplified,
		KeyPoints:   keyPoints,
		Risk: model.RiskAssessment{
			Level:       model.ParseRiskLevel(a.RiskLevel),
			Reasons:     []string{},
			Explanation: reason,
		},
		Definitions: a.Definitions,
		Obligations: a.Obligations,
		Parties:     a.Parties,
		Timelines:   a.Timelines,
	}

	if !result.Structured {
		report.Warnings = append(report.Warnings, "provider answer was not structured JSON; showing the raw response")
	}
	if report.Risk.Level == model.RiskUnknown {
		report.Warnings = append(report.Warnings, "provider did not return a recognised risk level")
	}
	return report
}

// IsInvalidInput reports whether err was caused by missing text
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
