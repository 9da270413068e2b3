package worker

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/legalese/internal/model"
)

// batchExtensions are the document types picked up when walking a directory
var batchExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".html": true,
	".htm":  true,
}

// Processor analyzes one referenced document
type Processor interface {
	ProcessRef(ctx context.Context, ref string) (*model.Report, error)
}

// AnalyzeJob represents one document analysis
type AnalyzeJob struct {
	Ref       string
	Processor Processor
	Limiter   *Limiter
	LimitKey  string // "" skips rate limiting
}

// Execute executes the analysis job
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	start := time.Now()

	if j.Limiter != nil && j.LimitKey != "" {
		if err := j.Limiter.Wait(ctx, j.LimitKey); err != nil {
			return &AnalyzeResult{Ref: j.Ref, Error: fmt.Errorf("rate limit: %w", err)}
		}
	}

	report, err := j.Processor.ProcessRef(ctx, j.Ref)
	return &AnalyzeResult{
		Ref:      j.Ref,
		Report:   report,
		Error:    err,
		Duration: time.Since(start),
	}
}

// AnalyzeResult represents the result of an analysis job
type AnalyzeResult struct {
	Ref      string
	Report   *model.Report
	Error    error
	Duration time.Duration
}

// GetError returns the error from the analysis result
func (r *AnalyzeResult) GetError() error {
	return r.Error
}

// BatchSummary counts batch outcomes
type BatchSummary struct {
	Total     int
	Succeeded int
	Failed    int
	ByLevel   map[model.RiskLevel]int
}

// Summarize counts successes, failures and risk levels
func Summarize(results []*AnalyzeResult) BatchSummary {
	summary := BatchSummary{
		Total:   len(results),
		ByLevel: make(map[model.RiskLevel]int),
	}
	for _, r := range results {
		if r.Error != nil || r.Report == nil {
			summary.Failed++
			continue
		}
		summary.Succeeded++
		summary.ByLevel[r.Report.Risk.Level]++
	}
	return summary
}

// BatchProcessor analyzes many documents concurrently
type BatchProcessor struct {
	processor   Processor
	concurrency int
	limiter     *Limiter
	provider    string
	logger      *zap.Logger
}

// NewBatchProcessor creates a new batch processor. requestsPerSecond and
// burst bound calls per provider (or per host when no provider is set);
// a non-positive rate disables limiting.
func NewBatchProcessor(processor Processor, concurrency int, requestsPerSecond float64, burst int) *BatchProcessor {
	return &BatchProcessor{
		processor:   processor,
		concurrency: concurrency,
		limiter:     NewLimiter(requestsPerSecond, burst),
		logger:      zap.NewNop(),
	}
}

// WithProvider limits all jobs under the provider's name
func (b *BatchProcessor) WithProvider(name string) *BatchProcessor {
	b.provider = name
	return b
}

// WithLogger sets the logger used for per-document progress
func (b *BatchProcessor) WithLogger(logger *zap.Logger) *BatchProcessor {
	if logger != nil {
		b.logger = logger
	}
	return b
}

func (b *BatchProcessor) limitKey(ref string) string {
	if b.provider != "" {
		return b.provider
	}
	return HostKey(ref)
}

// ProcessRefs analyzes the referenced documents concurrently. Results are
// returned in the order of refs.
func (b *BatchProcessor) ProcessRefs(ctx context.Context, refs []string) []*AnalyzeResult {
	if len(refs) == 0 {
		return []*AnalyzeResult{}
	}

	jobs := make([]Job, len(refs))
	for i, ref := range refs {
		jobs[i] = &AnalyzeJob{
			Ref:       ref,
			Processor: b.processor,
			Limiter:   b.limiter,
			LimitKey:  b.limitKey(ref),
		}
	}

	pool := NewPool(ctx, b.concurrency)
	results := pool.Run(jobs)

	out := make([]*AnalyzeResult, len(refs))
	for i, ref := range refs {
		var r *AnalyzeResult
		if i < len(results) && results[i] != nil {
			r = results[i].(*AnalyzeResult)
		} else {
			err := ctx.Err()
			if err == nil {
				err = fmt.Errorf("job not run")
			}
			r = &AnalyzeResult{Ref: ref, Error: err}
		}
		out[i] = r

		if r.Error != nil {
			b.logger.Warn("document failed", zap.String("ref", ref), zap.Error(r.Error))
		} else {
			b.logger.Debug("document analyzed",
				zap.String("ref", ref),
				zap.String("risk", string(r.Report.Risk.Level)),
				zap.Duration("elapsed", r.Duration))
		}
	}

	return out
}

// ProcessPath analyzes every document named by a directory or list file
func (b *BatchProcessor) ProcessPath(ctx context.Context, path string) ([]*AnalyzeResult, error) {
	refs, err := ReadRefs(path)
	if err != nil {
		return nil, fmt.Errorf("read refs: %w", err)
	}

	return b.ProcessRefs(ctx, refs), nil
}

// ReadRefs returns document references from a directory (recursively,
// .txt .md .html .htm in lexical order) or from a list file
func ReadRefs(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	if info.IsDir() {
		return readDirRefs(path)
	}
	return ReadRefsFromFile(path)
}

func readDirRefs(dir string) ([]string, error) {
	var refs []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if batchExtensions[strings.ToLower(filepath.Ext(path))] {
			refs = append(refs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	return refs, nil
}

// ReadRefsFromFile reads references from a file (one per line).
// Relative paths are resolved against the list file's directory.
func ReadRefsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	baseDir := filepath.Dir(filePath)

	var refs []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if HostKey(line) == "" && !filepath.IsAbs(line) {
			line = filepath.Join(baseDir, line)
		}

		if !seen[line] {
			seen[line] = true
			refs = append(refs, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return refs, nil
}
