package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/legalese/internal/llm"
	"github.com/ppiankov/legalese/internal/model"
	"github.com/ppiankov/legalese/internal/pipeline"
)

const defaultLLMProvider = "openai"

var (
	outJSON     string
	outMD       string
	timeout     time.Duration
	userAgent   string
	maxBytes    int64
	noCache     bool
	noFooter    bool
	noRobots    bool
	httpProxy   string
	httpsProxy  string
	llmEnabled  bool
	llmProvider string
	llmModel    string
	estimate    bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <file|url|->",
	Short: "Explain a legal document in plain English",
	Long: `Analyze reads a legal document and produces:
- A plain-English rewrite with legal jargon replaced
- Up to five key points (obligations, restrictions, rights, penalties, timelines)
- A Low / Medium / High risk rating with the reasons behind it

The document can be a text or HTML file, an http(s) URL, or "-" for stdin.

Example:
  legalese analyze contract.txt
  legalese analyze https://example.com/terms --json report.json --md report.md
  cat clause.txt | legalese analyze -
  legalese analyze nda.txt --llm --llm-provider anthropic
  legalese analyze nda.txt --llm --estimate`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().BoolVar(&estimate, "estimate", false, "print the token/cost estimate for the provider call and exit")

	addSourceFlags(analyzeCmd)
	addLLMFlags(analyzeCmd)
}

// addSourceFlags registers the document and output flags shared by analyze and batch
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent for remote documents")
	cmd.Flags().Int64Var(&maxBytes, "max-bytes", 0, "max document bytes to read")
	cmd.Flags().BoolVar(&noRobots, "no-robots", false, "do not check robots.txt before fetching URLs")
	cmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	cmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
	cmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable the disclaimer footer in reports")
}

// addLLMFlags registers the provider flags shared by analyze, batch and serve
func addLLMFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&llmEnabled, "llm", false, "analyze with a language-model provider")
	cmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, anthropic, ollama, gemini); implies --llm")
	cmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider default when empty)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "do not reuse cached provider answers")
}

// applyFlags overrides cfg with the flags explicitly set on cmd
func applyFlags(cmd *cobra.Command, cfg *model.Config) {
	flags := cmd.Flags()
	changed := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && f.Changed
	}

	if changed("ua") {
		cfg.HTTP.UserAgent = userAgent
	}
	if changed("max-bytes") {
		cfg.HTTP.MaxBodyBytes = maxBytes
	}
	if changed("no-robots") {
		cfg.HTTP.RespectRobots = !noRobots
	}
	if changed("http-proxy") {
		cfg.HTTP.HTTPProxy = httpProxy
	}
	if changed("https-proxy") {
		cfg.HTTP.HTTPSProxy = httpsProxy
	}
	if changed("no-footer") {
		cfg.Output.IncludeFooter = !noFooter
	}
	if changed("no-cache") {
		cfg.Cache.Enabled = !noCache
	}

	if changed("llm-provider") {
		cfg.LLM.Provider = llmProvider
	} else if changed("llm") {
		if !llmEnabled {
			cfg.LLM.Provider = ""
		} else if llm.NormalizeProvider(cfg.LLM.Provider) == "" {
			cfg.LLM.Provider = defaultLLMProvider
		}
	}
	if changed("llm-model") {
		cfg.LLM.Model = llmModel
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ref := args[0]

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	applyFlags(cmd, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	p, err := pipeline.NewPipeline(cfg, logger)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s\n", ref)
		fmt.Fprintf(os.Stderr, "Mode: %s\n", p.Mode())
		if p.ProviderName() != "" {
			fmt.Fprintf(os.Stderr, "Provider: %s\n", p.ProviderName())
			fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		}
		fmt.Fprintln(os.Stderr)
	}

	doc, err := p.Loader().Load(ctx, ref)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Loaded %s (%d characters)\n", doc.Name, doc.Meta().Characters)
	}

	if estimate {
		est := p.Estimate(doc)
		fmt.Fprintf(cmd.OutOrStdout(), "Estimated tokens: %d\n", est.Tokens)
		fmt.Fprintf(cmd.OutOrStdout(), "Model:            %s\n", est.Model)
		fmt.Fprintf(cmd.OutOrStdout(), "Estimated cost:   $%.4f\n", est.Cost)
		return nil
	}

	report, err := p.Process(ctx, doc)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Extracted %d key points\n", len(report.KeyPoints))
		fmt.Fprintf(os.Stderr, "✓ Risk level: %s\n", report.Risk.Level)
		if report.Mode == model.ModeAI {
			fmt.Fprintf(os.Stderr, "✓ Analyzed with %s/%s (cached: %v)\n", report.Provider, report.Model, report.Cached)
		}
		fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderReport(report, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}
