package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/legalese/internal/model"
	"github.com/ppiankov/legalese/internal/pipeline"
	"github.com/ppiankov/legalese/internal/worker"
)

const maxSlugLength = 80

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir|file>",
	Short: "Analyze many documents in parallel",
	Long: `Batch analyzes many documents concurrently:
- From a directory (every .txt, .md, .html and .htm file, recursively)
- Or from a list file (one path or URL per line, # comments allowed)
- Provider calls are rate limited per provider
- A JSON and a Markdown report is written for each document

Example:
  legalese batch ./contracts
  legalese batch refs.txt --concurrency 8 --output-dir ./reports
  legalese batch ./contracts --llm --llm-provider ollama --llm-model llama3`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./legalese-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	addSourceFlags(batchCmd)
	addLLMFlags(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	input := args[0]

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	applyFlags(cmd, cfg)

	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency.Workers = concurrency
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	p, err := pipeline.NewPipeline(cfg, logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Legalese Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input:        %s\n", input)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "  Mode:         %s\n", p.Mode())
	if p.ProviderName() != "" {
		fmt.Fprintf(os.Stderr, "  LLM:          %s (%.1f req/s)\n", p.ProviderName(), cfg.RateLimiting.RequestsPerSecond)
	}
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers, cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize).
		WithProvider(p.ProviderName()).
		WithLogger(logger)

	fmt.Fprintf(os.Stderr, "⚙️  Analyzing documents...\n\n")
	results, err := processor.ProcessPath(ctx, input)
	if err != nil {
		return err
	}
	renderer := p.Renderer()

	for i, result := range results {
		if result.Error != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Ref, result.Error)
			continue
		}

		base := filepath.Join(outputDir, fmt.Sprintf("%03d-%s", i+1, sanitizeFilename(result.Report.Source.Name)))
		if err := renderer.RenderJSON(result.Report, base+".json"); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.Ref, err)
			continue
		}
		if err := renderer.RenderMarkdown(result.Report, base+".md"); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", result.Ref, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "✓ %s (risk: %s)\n", result.Report.Source.Name, result.Report.Risk.Level)
		for _, w := range result.Report.Warnings {
			fmt.Fprintf(os.Stderr, "    ⚠️  %s\n", w)
		}
	}

	summary := worker.Summarize(results)

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d documents\n", summary.Total)
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", summary.Succeeded)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", summary.Failed)
	fmt.Fprintf(os.Stderr, "  Risk:      %d High, %d Medium, %d Low\n",
		summary.ByLevel[model.RiskHigh], summary.ByLevel[model.RiskMedium], summary.ByLevel[model.RiskLow])
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if summary.Total > 0 && summary.Failed == summary.Total {
		return fmt.Errorf("all %d documents failed", summary.Total)
	}
	return nil
}

// sanitizeFilename turns a document name into a safe file name
func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	s = replacer.Replace(strings.TrimSpace(s))
	s = strings.Trim(s, ".-_")

	if s == "" {
		return "document"
	}

	// Limit length without splitting a multi-byte character
	if len(s) > maxSlugLength {
		runes := []rune(s)
		for len(string(runes)) > maxSlugLength {
			runes = runes[:len(runes)-1]
		}
		s = string(runes)
	}

	return s
}
