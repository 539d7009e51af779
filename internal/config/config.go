package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/crestline-ap/invoice-exceptions/pkg/utils"
)

// Config holds all application configuration
type Config struct {
	Pipeline   PipelineConfig   `mapstructure:"pipeline"`
	Triage     TriageConfig     `mapstructure:"triage"`
	Report     ReportConfig     `mapstructure:"report"`
	Notify     NotifyConfig     `mapstructure:"notify"`
	Introspect IntrospectConfig `mapstructure:"introspect"`
	Logger     LoggerConfig     `mapstructure:"logger"`
}

// PipelineConfig holds the document-store root and resolver/worker-pool tuning.
type PipelineConfig struct {
	RepoRoot              string  `mapstructure:"repo_root"`
	WorkerCount           int     `mapstructure:"worker_count"`
	MinPOConfidence       float64 `mapstructure:"min_po_confidence"`
	MinSupplierConfidence float64 `mapstructure:"min_supplier_confidence"`
}

// TriageConfig holds the routing thresholds applied after validation.
type TriageConfig struct {
	HighValueThreshold          float64 `mapstructure:"high_value_threshold"`
	LowConfidenceThreshold      float64 `mapstructure:"low_confidence_threshold"`
	ApprovalConfidenceThreshold float64 `mapstructure:"approval_confidence_threshold"`
}

// ReportConfig holds the xlsx exporter's output location and, for serve,
// the interval on which it re-exports automatically. Interval == 0 disables
// the timer; serve's export stays on-demand only, matching the rest of the
// repo's optional-ambient-feature idiom (compare Notify.Lark's blank ChatID,
// Introspect.Enabled).
type ReportConfig struct {
	OutputPath string        `mapstructure:"output_path"`
	Interval   time.Duration `mapstructure:"interval"`
}

// NotifyConfig holds outbound-notification sub-configs.
type NotifyConfig struct {
	Lark LarkConfig `mapstructure:"lark"`
}

// LarkConfig holds Lark API configuration. A blank ChatID disables
// notification without a separate feature flag.
type LarkConfig struct {
	AppID     string `mapstructure:"app_id"`
	AppSecret string `mapstructure:"app_secret"`
	ChatID    string `mapstructure:"chat_id"`
}

// IntrospectConfig holds the read-only status server's bind address.
type IntrospectConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Override with environment variables
	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Pipeline defaults
	viper.SetDefault("pipeline.repo_root", ".")
	viper.SetDefault("pipeline.worker_count", 4)
	viper.SetDefault("pipeline.min_po_confidence", 0.7)
	viper.SetDefault("pipeline.min_supplier_confidence", 0.8)

	// Triage defaults
	viper.SetDefault("triage.high_value_threshold", 10000.0)
	viper.SetDefault("triage.low_confidence_threshold", 0.7)
	viper.SetDefault("triage.approval_confidence_threshold", 0.9)

	// Report defaults
	viper.SetDefault("report.output_path", "exceptions_report.xlsx")
	viper.SetDefault("report.interval", 0)

	// Introspect defaults
	viper.SetDefault("introspect.enabled", false)
	viper.SetDefault("introspect.host", "0.0.0.0")
	viper.SetDefault("introspect.port", 8090)
	viper.SetDefault("introspect.read_timeout", 30*time.Second)
	viper.SetDefault("introspect.write_timeout", 30*time.Second)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	// Sensitive credentials from environment
	viper.BindEnv("notify.lark.app_id", "LARK_APP_ID")
	viper.BindEnv("notify.lark.app_secret", "LARK_APP_SECRET")
	viper.BindEnv("notify.lark.chat_id", "LARK_CHAT_ID")
	viper.BindEnv("pipeline.repo_root", "INVOICE_PIPELINE_REPO_ROOT")
}

// Validate validates the configuration. Notify and introspect are optional
// ambient features: their own Enabled() checks gate use, so they are not
// required here.
func (c *Config) Validate() error {
	if c.Pipeline.RepoRoot == "" {
		return fmt.Errorf("pipeline.repo_root is required")
	}
	if c.Pipeline.WorkerCount <= 0 {
		return fmt.Errorf("pipeline.worker_count must be positive")
	}
	if c.Triage.HighValueThreshold <= 0 {
		return fmt.Errorf("triage.high_value_threshold must be positive")
	}
	if c.Triage.LowConfidenceThreshold < 0 || c.Triage.LowConfidenceThreshold > 1 {
		return fmt.Errorf("triage.low_confidence_threshold must be in [0,1]")
	}
	if c.Triage.ApprovalConfidenceThreshold < 0 || c.Triage.ApprovalConfidenceThreshold > 1 {
		return fmt.Errorf("triage.approval_confidence_threshold must be in [0,1]")
	}
	loggerCfg := utils.LoggerConfig{Level: c.Logger.Level, OutputPath: c.Logger.OutputPath, Format: c.Logger.Format}
	if err := loggerCfg.Validate(); err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	return nil
}
