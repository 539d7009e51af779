package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/crestline-ap/invoice-exceptions/internal/introspect"
	"github.com/crestline-ap/invoice-exceptions/internal/pipeline"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the introspection server, invoice directory watcher, and report timer",
	Long: `serve is the long-running counterpart to the one-shot process
command: it starts the introspection HTTP server (regardless of
introspect.enabled in configuration, so operators can opt in at the CLI
without editing the config file), a directory watcher that routes new
invoices dropped into json_files/invoices/ through the worker pool as they
arrive, and, when report.interval is non-zero, a ticker that re-runs the
xlsx export on that interval.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(c *cobra.Command, args []string) error {
	logsDir := filepath.Join(cfg.Pipeline.RepoRoot, "system_logs")
	invoicesDir := filepath.Join(cfg.Pipeline.RepoRoot, "json_files", "invoices")

	p := buildPipeline()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watcher := pipeline.NewWatcher(p, invoicesDir, logger)
	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("starting invoice watcher: %w", err)
	}
	defer watcher.Stop()

	if cfg.Report.Interval > 0 {
		go runReportTimer(ctx, cfg.Report.Interval, cfg.Report.OutputPath)
	}

	srvCfg := introspect.Config{
		Enabled:      true,
		Host:         cfg.Introspect.Host,
		Port:         cfg.Introspect.Port,
		ReadTimeout:  cfg.Introspect.ReadTimeout,
		WriteTimeout: cfg.Introspect.WriteTimeout,
	}
	server := introspect.NewServer(srvCfg, logsDir, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		logger.Info("shutting down")
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("introspection server: %w", err)
	}
	logger.Info("serve stopped", zap.String("host", srvCfg.Host))
	return nil
}

// runReportTimer re-runs the xlsx export every interval until ctx is
// canceled, logging failures rather than bringing serve down over them.
func runReportTimer(ctx context.Context, interval time.Duration, outputPath string) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			nExceptions, nPayments, err := exportReport(outputPath)
			if err != nil {
				logger.Error("periodic report export failed", zap.Error(err))
				continue
			}
			logger.Info("periodic report export wrote workbook",
				zap.String("path", outputPath),
				zap.Int("exceptions", nExceptions),
				zap.Int("payments", nPayments))
		}
	}
}
