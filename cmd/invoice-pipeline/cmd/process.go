package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/crestline-ap/invoice-exceptions/internal/docstore"
	"github.com/crestline-ap/invoice-exceptions/internal/domain"
	"github.com/crestline-ap/invoice-exceptions/internal/duplog"
	larknotify "github.com/crestline-ap/invoice-exceptions/internal/notify/lark"
	"github.com/crestline-ap/invoice-exceptions/internal/pipeline"
	"github.com/crestline-ap/invoice-exceptions/internal/resolve"
	"github.com/crestline-ap/invoice-exceptions/internal/triage"
)

var processCmd = &cobra.Command{
	Use:   "process [filename]",
	Short: "Resolve, validate, and route invoices",
	Long: `process runs the resolve -> validate -> triage pipeline over every
invoice under json_files/invoices, or a single invoice filename if given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)
}

func buildPipeline() *pipeline.Pipeline {
	logsDir := filepath.Join(cfg.Pipeline.RepoRoot, "system_logs")

	store := docstore.New(cfg.Pipeline.RepoRoot, logger)
	resolver := resolve.New(store, logger, cfg.Pipeline.MinPOConfidence, cfg.Pipeline.MinSupplierConfidence)
	processed := duplog.New(logsDir, logger)
	notifier := larknotify.New(larknotify.Config{
		AppID:     cfg.Notify.Lark.AppID,
		AppSecret: cfg.Notify.Lark.AppSecret,
		ChatID:    cfg.Notify.Lark.ChatID,
	}, logger)
	router := triage.New(logsDir, processed, notifier, triage.Config{
		HighValueThreshold:          cfg.Triage.HighValueThreshold,
		LowConfidenceThreshold:      cfg.Triage.LowConfidenceThreshold,
		ApprovalConfidenceThreshold: cfg.Triage.ApprovalConfidenceThreshold,
	}, logger)

	return pipeline.New(store, resolver, router, processed, pipeline.Config{
		WorkerCount: cfg.Pipeline.WorkerCount,
	}, logger)
}

func runProcess(c *cobra.Command, args []string) error {
	p := buildPipeline()
	ctx := context.Background()

	var results []pipeline.Result
	if len(args) == 1 {
		filename := args[0]
		outcome, err := p.ProcessOne(ctx, filename)
		if err != nil {
			return fmt.Errorf("processing %s: %w", filename, err)
		}
		results = []pipeline.Result{{Filename: filename, Outcome: outcome}}
	} else {
		results = p.Run(ctx)
	}

	approved, rejected, pending, failed := 0, 0, 0, 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			logger.Error("failed to process invoice", zap.String("filename", r.Filename), zap.Error(r.Err))
			continue
		}
		switch r.Outcome.Disposition {
		case domain.DispositionApproved:
			approved++
		case domain.DispositionRejected:
			rejected++
		case domain.DispositionPendingApproval:
			pending++
		}
	}

	fmt.Printf("processed %d invoices: %d approved, %d rejected, %d pending approval, %d failed\n",
		len(results), approved, rejected, pending, failed)
	return nil
}
