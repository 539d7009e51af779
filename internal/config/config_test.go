package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(func() { viper.Reset() })
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	resetViper(t)
	path := writeConfig(t, `pipeline:
  repo_root: /data/ap
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/ap", cfg.Pipeline.RepoRoot)
	assert.Equal(t, 4, cfg.Pipeline.WorkerCount)
	assert.Equal(t, 10000.0, cfg.Triage.HighValueThreshold)
	assert.Equal(t, 0.7, cfg.Triage.LowConfidenceThreshold)
	assert.Equal(t, 0.9, cfg.Triage.ApprovalConfidenceThreshold)
	assert.False(t, cfg.Introspect.Enabled)
	assert.Equal(t, 8090, cfg.Introspect.Port)
	assert.Equal(t, 30*time.Second, cfg.Introspect.ReadTimeout)
	assert.Equal(t, "exceptions_report.xlsx", cfg.Report.OutputPath)
	assert.Equal(t, time.Duration(0), cfg.Report.Interval)
}

func TestLoadOverridesReportInterval(t *testing.T) {
	resetViper(t)
	path := writeConfig(t, `pipeline:
  repo_root: /data/ap
report:
  interval: 1h
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.Report.Interval)
}

func TestLoadOverridesDefaults(t *testing.T) {
	resetViper(t)
	path := writeConfig(t, `pipeline:
  repo_root: /data/ap
  worker_count: 8
triage:
  high_value_threshold: 25000
notify:
  lark:
    app_id: cli_123
    app_secret: secret
    chat_id: oc_456
introspect:
  enabled: true
  port: 9090
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Pipeline.WorkerCount)
	assert.Equal(t, 25000.0, cfg.Triage.HighValueThreshold)
	assert.Equal(t, "cli_123", cfg.Notify.Lark.AppID)
	assert.Equal(t, "oc_456", cfg.Notify.Lark.ChatID)
	assert.True(t, cfg.Introspect.Enabled)
	assert.Equal(t, 9090, cfg.Introspect.Port)
}

func TestLoadDefaultsRepoRootWhenOmitted(t *testing.T) {
	resetViper(t)
	path := writeConfig(t, `pipeline:
  worker_count: 1
`)

	cfg, err := Load(path)
	require.NoError(t, err) // defaults "." satisfy repo_root, so this only fails Validate if blanked
	assert.Equal(t, ".", cfg.Pipeline.RepoRoot)
}

func TestValidateRejectsNonPositiveWorkerCount(t *testing.T) {
	cfg := &Config{
		Pipeline: PipelineConfig{RepoRoot: ".", WorkerCount: 0},
		Triage:   TriageConfig{HighValueThreshold: 1, LowConfidenceThreshold: 0.5, ApprovalConfidenceThreshold: 0.9},
	}
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsOutOfRangeThreshold(t *testing.T) {
	cfg := &Config{
		Pipeline: PipelineConfig{RepoRoot: ".", WorkerCount: 1},
		Triage:   TriageConfig{HighValueThreshold: 1, LowConfidenceThreshold: 1.5, ApprovalConfidenceThreshold: 0.9},
	}
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownLoggerFormat(t *testing.T) {
	cfg := &Config{
		Pipeline: PipelineConfig{RepoRoot: ".", WorkerCount: 1},
		Triage:   TriageConfig{HighValueThreshold: 1, LowConfidenceThreshold: 0.5, ApprovalConfidenceThreshold: 0.9},
		Logger:   LoggerConfig{Format: "xml"},
	}
	assert.Error(t, cfg.Validate())
}
