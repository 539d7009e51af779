package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/crestline-ap/invoice-exceptions/internal/domain"
	"github.com/crestline-ap/invoice-exceptions/internal/record"
	"github.com/crestline-ap/invoice-exceptions/internal/report"
)

var reportOutput string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export exception queues and payments to a spreadsheet",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportOutput, "output", "", "output xlsx path (defaults to report.output_path)")
	rootCmd.AddCommand(reportCmd)
}

func runReport(c *cobra.Command, args []string) error {
	outputPath := reportOutput
	if outputPath == "" {
		outputPath = cfg.Report.OutputPath
	}

	nExceptions, nPayments, err := exportReport(outputPath)
	if err != nil {
		return err
	}

	fmt.Printf("wrote %s (%d exceptions, %d payment items)\n", outputPath, nExceptions, nPayments)
	return nil
}

// exportReport reads system_logs/queue_*.log and payments.log under the
// configured repo root and writes them to outputPath as an xlsx workbook.
// Shared by the report subcommand and serve's periodic export timer.
func exportReport(outputPath string) (nExceptions, nPayments int, err error) {
	logsDir := filepath.Join(cfg.Pipeline.RepoRoot, "system_logs")

	var exceptions []domain.ExceptionRecord
	for _, q := range queueOrder {
		raw, readErr := os.ReadFile(queueLogPath(logsDir, q))
		if readErr != nil {
			continue
		}
		for _, block := range record.SplitExceptionBlocks(string(raw)) {
			rec, parseErr := record.ParseException(block)
			if parseErr != nil {
				continue
			}
			exceptions = append(exceptions, rec)
		}
	}

	var payments []domain.PaymentItem
	if raw, readErr := os.ReadFile(filepath.Join(logsDir, "payments.log")); readErr == nil {
		payments = record.ParsePaymentsLog(string(raw))
	}

	w := report.New(logger)
	if err := w.Build(exceptions, payments, outputPath); err != nil {
		return 0, 0, fmt.Errorf("building report: %w", err)
	}

	return len(exceptions), len(payments), nil
}
