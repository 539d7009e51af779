package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crestline-ap/invoice-exceptions/internal/domain"
	"github.com/crestline-ap/invoice-exceptions/internal/record"
)

var queueOrder = []domain.Queue{
	domain.QueueDuplicateInvoices,
	domain.QueueMissingData,
	domain.QueueLowConfidence,
	domain.QueuePriceDiscrepancies,
	domain.QueueSupplierMismatch,
	domain.QueueBillingDiscrepancies,
	domain.QueueDateDiscrepancies,
	domain.QueueHighValueApproval,
}

var queuesQueueFlag string

var queuesCmd = &cobra.Command{
	Use:   "queues",
	Short: "Show the depth of each exception queue, or the records in one",
	RunE:  runQueues,
}

func init() {
	queuesCmd.Flags().StringVar(&queuesQueueFlag, "queue", "", "print the parsed records for this queue instead of depths")
	rootCmd.AddCommand(queuesCmd)
}

func queueLogPath(logsDir string, q domain.Queue) string {
	return filepath.Join(logsDir, fmt.Sprintf("queue_%s.log", q))
}

func runQueues(c *cobra.Command, args []string) error {
	logsDir := filepath.Join(cfg.Pipeline.RepoRoot, "system_logs")

	if queuesQueueFlag != "" {
		return printQueueRecords(logsDir, domain.Queue(queuesQueueFlag))
	}

	fmt.Println("Exception queues")
	fmt.Println("=================")
	for _, q := range queueOrder {
		raw, err := os.ReadFile(queueLogPath(logsDir, q))
		depth := 0
		if err == nil {
			depth = strings.Count(string(raw), "=== EXCEPTION_START ===")
		}
		fmt.Printf("%-25s %d\n", q, depth)
	}
	return nil
}

func printQueueRecords(logsDir string, q domain.Queue) error {
	raw, err := os.ReadFile(queueLogPath(logsDir, q))
	if err != nil {
		fmt.Printf("queue %q has no log yet\n", q)
		return nil
	}
	for _, block := range record.SplitExceptionBlocks(string(raw)) {
		rec, err := record.ParseException(block)
		if err != nil {
			continue
		}
		fmt.Printf("%s  %s  invoice=%s po=%s priority=%s  %s\n",
			rec.ExceptionID, rec.Timestamp.Format("2006-01-02T15:04:05Z"), rec.InvoiceID, rec.PONumber, rec.Priority, rec.RoutingReason)
	}
	return nil
}
