package cli

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/legalese/internal/pipeline"
	"github.com/ppiankov/legalese/internal/sample"
	"github.com/ppiankov/legalese/internal/source"
)

const sampleTimeout = 2 * time.Minute

var (
	sampleIndex   int
	sampleAnalyze bool
)

// sampleCmd represents the sample command
var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Print an example clause",
	Long: `Sample prints one of the built-in example clauses, chosen at random
unless --index is given. With --analyze the clause is analyzed as well.

Example:
  legalese sample
  legalese sample --index 2 --analyze
  legalese sample | legalese analyze -`,
	Args: cobra.NoArgs,
	RunE: runSample,
}

func init() {
	rootCmd.AddCommand(sampleCmd)

	sampleCmd.Flags().IntVar(&sampleIndex, "index", -1, "sample index (0-based, default random)")
	sampleCmd.Flags().BoolVar(&sampleAnalyze, "analyze", false, "analyze the sample")
	addLLMFlags(sampleCmd)
}

func runSample(cmd *cobra.Command, args []string) error {
	index := sampleIndex
	if !cmd.Flags().Changed("index") {
		index = rand.Intn(sample.Count())
	}

	doc, err := sample.Get(index)
	if err != nil {
		return err
	}

	if !sampleAnalyze {
		fmt.Fprintf(os.Stderr, "# %s\n", doc.Title)
		fmt.Println(doc.Text)
		return nil
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	applyFlags(cmd, cfg)

	p, err := pipeline.NewPipeline(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), sampleTimeout)
	defer cancel()

	report, err := p.Process(ctx, source.NewTextDocument(doc.Title, doc.Text))
	if err != nil {
		return fmt.Errorf("analyze sample: %w", err)
	}

	p.Renderer().RenderSummary(os.Stdout, report)
	return nil
}
