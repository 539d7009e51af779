package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var ledgerLines int

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Show the most recent exceptions-ledger entries",
	RunE:  runLedger,
}

func init() {
	ledgerCmd.Flags().IntVar(&ledgerLines, "lines", 20, "number of most recent lines to show")
	rootCmd.AddCommand(ledgerCmd)
}

func runLedger(c *cobra.Command, args []string) error {
	path := filepath.Join(cfg.Pipeline.RepoRoot, "system_logs", "exceptions_ledger.log")
	raw, err := os.ReadFile(path)
	if err != nil {
		fmt.Println("no exceptions have been logged yet")
		return nil
	}

	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	if len(lines) > ledgerLines {
		lines = lines[len(lines)-ledgerLines:]
	}
	for _, line := range lines {
		fmt.Println(line)
	}
	return nil
}
