package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		wantErr bool
	}{
		{"empty defaults to console", "", false},
		{"json", "json", false},
		{"console", "console", false},
		{"unknown format rejected", "xml", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := LoggerConfig{Format: tt.format}
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}

func TestNewLoggerRejectsUnknownFormat(t *testing.T) {
	_, err := NewLogger(LoggerConfig{Level: "info", OutputPath: "stdout", Format: "xml"})
	require.Error(t, err)
}

func TestNewLoggerStdoutJSON(t *testing.T) {
	logger, err := NewLogger(LoggerConfig{Level: "debug", OutputPath: "stdout", Format: "json"})
	require.NoError(t, err)
	require.NotNil(t, logger)
}

func TestNewLoggerTagsServiceName(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(LoggerConfig{Level: "info", OutputPath: filepath.Join(dir, "app.log"), Format: "json"})
	require.NoError(t, err)

	// A file OutputPath adds a JSON file core writing to a timestamped file
	// beside it, so the service field attached via With() can be read back.
	logger.Info("smoke test")
	matches, err := filepath.Glob(filepath.Join(dir, "app_*.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	raw, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"service":"invoice-pipeline"`)
}
