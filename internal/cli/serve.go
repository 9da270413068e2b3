package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/legalese/internal/pipeline"
	"github.com/ppiankov/legalese/internal/server"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP analysis API",
	Long: `Serve exposes the analyzer over HTTP:
  POST /api/v1/analyze    full report
  POST /api/v1/simplify   rule-based plain-English rewrite
  POST /api/v1/risk       rule-based risk assessment
  GET  /healthz           liveness and active mode
  GET  /metrics           Prometheus metrics

Example:
  legalese serve --addr :8080
  legalese serve --llm --llm-provider anthropic`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	addLLMFlags(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	applyFlags(cmd, cfg)

	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr = serveAddr
	}

	p, err := pipeline.NewPipeline(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := p.Check(ctx); err != nil {
		logger.Warn("provider check failed; requests may fall back or fail",
			zap.String("provider", p.ProviderName()),
			zap.Error(err))
	}

	fmt.Fprintf(os.Stderr, "legalese v%s listening on %s (mode: %s)\n", version, cfg.Server.Addr, p.Mode())

	return server.New(p, cfg.Server, logger).Run(ctx)
}
