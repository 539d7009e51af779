package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/crestline-ap/invoice-exceptions/internal/config"
	"github.com/crestline-ap/invoice-exceptions/pkg/utils"
)

var (
	cfgFile string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "invoice-pipeline",
	Short: "Accounts-payable invoice exception pipeline",
	Long: `invoice-pipeline resolves invoices against purchase orders and
contracts, validates them, detects duplicates, and routes exceptions to
review queues.`,
	PersistentPreRunE: loadConfigAndLogger,
}

func Execute() error {
	return rootCmd.Execute()
}

// Logger returns the logger built from the resolved configuration, valid
// after Execute's PersistentPreRunE has run. main calls its Sync once Execute
// returns.
func Logger() *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
}

func loadConfigAndLogger(c *cobra.Command, args []string) error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	cfg = loaded

	l, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	logger = l
	return nil
}
