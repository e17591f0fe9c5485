package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, "info", cfg.Level)
	assert.Empty(t, cfg.File)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		expected string
	}{
		{"debug", "debug", "DEBUG"},
		{"Debug uppercase", "DEBUG", "DEBUG"},
		{"info", "info", "INFO"},
		{"warn", "warn", "WARN"},
		{"warning alias", "warning", "WARN"},
		{"error", "error", "ERROR"},
		{"unknown defaults to info", "unknown", "INFO"},
		{"empty defaults to info", "", "INFO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level := parseLevel(tt.level)
			assert.Equal(t, tt.expected, level.String())
		})
	}
}

func TestSetup_TextFormat(t *testing.T) {
	require.NoError(t, Setup(Config{Format: "text", Level: "info"}))
	assert.NotNil(t, Get())
}

func TestSetupWriter_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	SetupWriter(&buf, Config{Format: "json", Level: "debug"})

	Debug("cache hit", "key", "abc")
	assert.Contains(t, buf.String(), `"msg":"cache hit"`)
	assert.Contains(t, buf.String(), `"key":"abc"`)
}

func TestSetup_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log", "flashman.log")
	require.NoError(t, Setup(Config{Format: "text", Level: "info", File: path}))
	defer Close()

	Info("hello from test")
	Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
}

func TestGet_ReturnsDefaultBeforeSetup(t *testing.T) {
	oldLogger := logger
	logger = nil
	defer func() { logger = oldLogger }()

	assert.NotNil(t, Get())
}

func TestLogFunctions_DoNotPanic(t *testing.T) {
	SetupWriter(&bytes.Buffer{}, DefaultConfig())

	assert.NotPanics(t, func() { Debug("test message") })
	assert.NotPanics(t, func() { Info("test message") })
	assert.NotPanics(t, func() { Warn("test message") })
	assert.NotPanics(t, func() { Error("test message") })
}
