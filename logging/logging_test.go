package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in), "level %q", tt.in)
	}
}

func TestInitTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := Init(Config{Level: "debug", Format: "text", Output: &buf})
	logger.Debug("hello", "component", "claude")

	out := buf.String()
	assert.Contains(t, out, "msg=hello")
	assert.Contains(t, out, "component=claude")
}

func TestInitJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := Init(Config{Format: "json", Output: &buf})
	logger.Info("hello")

	assert.Contains(t, buf.String(), `"msg":"hello"`)
}

func TestInitLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := Init(Config{Level: "warn", Output: &buf})
	logger.Info("dropped")
	logger.Warn("kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")
}

func TestInitInstallsDefault(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Output: &buf})
	slog.Info("via default")

	assert.Contains(t, buf.String(), "via default")
}

func TestNamed(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Output: &buf})
	Named("claude").Info("ready")

	assert.Contains(t, buf.String(), "component=claude")
}
