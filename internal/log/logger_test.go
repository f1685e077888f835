package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mdocx/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf))

	l.Info("info message")
	assert.Contains(t, buf.String(), "level=info")
	assert.Contains(t, buf.String(), "info message")
	buf.Reset()

	l.Warn("warn message")
	assert.Contains(t, buf.String(), "level=warning")
	assert.Contains(t, buf.String(), "warn message")
	buf.Reset()

	l.Error("error message")
	assert.Contains(t, buf.String(), "level=error")
	buf.Reset()

	l.Infof("formatted %s", "message")
	assert.Contains(t, buf.String(), "formatted message")
}

func TestDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf))

	SetDebug(false)
	l.Debug("debug message")
	assert.Empty(t, buf.String())

	SetDebug(true)
	defer SetDebug(false)
	l.Debug("debug message")
	assert.Contains(t, buf.String(), "level=debug")
	assert.Contains(t, buf.String(), "debug message")
	buf.Reset()

	l.Debugf("formatted %s", "debug")
	assert.Contains(t, buf.String(), "formatted debug")
}

func TestStructuredLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf))

	l.With(F("file", "notes.md"), F("size", 500)).Info("file accepted")
	output := buf.String()
	assert.Contains(t, output, "file accepted")
	assert.Contains(t, output, "file=notes.md")
	assert.Contains(t, output, "size=500")
	buf.Reset()

	l.With(F("key1", "value1")).With(F("key2", 123)).Info("chained fields")
	output = buf.String()
	assert.Contains(t, output, "key1=value1")
	assert.Contains(t, output, "key2=123")
}

func TestJSONLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf), WithJSON())

	l.With(F("template", "corporate")).Info("json message")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "json message", entry["message"])
	assert.Equal(t, "corporate", entry["template"])
	assert.Contains(t, entry, "timestamp")
}

func TestErrorLogging(t *testing.T) {
	var buf bytes.Buffer
	originalLogger := logger
	Configure(WithOutput(&buf))
	defer func() { logger = originalLogger }()

	fileErr := errors.NewFileError("failed to read file", "/tmp/notes.md", errors.FileReadFailed, fmt.Errorf("EOF"))
	LogWithError(fileErr).Error("preview failed")
	output := buf.String()
	assert.Contains(t, output, "preview failed")
	assert.Contains(t, output, "error_kind=file_read_failed")
	assert.Contains(t, output, "path=/tmp/notes.md")
	buf.Reset()

	svcErr := errors.NewServiceError("pandoc not found", 500)
	LogError(svcErr, "conversion failed")
	output = buf.String()
	assert.Contains(t, output, "conversion failed")
	assert.Contains(t, output, "status_code=500")
	assert.Contains(t, output, "error_kind=service_failed")
	buf.Reset()

	cfgErr := errors.NewConfigError("invalid value", "output.collision", errors.InvalidConfig, nil)
	LogWithError(cfgErr).Warn("config rejected")
	assert.Contains(t, buf.String(), "param=output.collision")
}

func TestNilErrorHandling(t *testing.T) {
	var buf bytes.Buffer
	originalLogger := logger
	Configure(WithOutput(&buf))
	defer func() { logger = originalLogger }()

	LogWithError(nil).Error("nil error test")
	assert.Contains(t, buf.String(), "nil error test")
	assert.Contains(t, buf.String(), "error=\"<nil>\"")
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mdocx.log")
	originalLogger := logger
	Configure(WithFile(path))
	defer func() { logger = originalLogger }()

	Info("file test message")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "file test message")
}

func TestConfigure(t *testing.T) {
	originalLogger := logger
	defer func() { logger = originalLogger }()

	var buf bytes.Buffer
	Configure(WithOutput(&buf), WithJSON())
	Infof("global %s", "config test")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "global config test", entry["message"])
}

func TestInfoKeepsPercentSigns(t *testing.T) {
	var buf bytes.Buffer
	originalLogger := logger
	Configure(WithOutput(&buf))
	defer func() { logger = originalLogger }()

	Info("upload 100% done")
	assert.Contains(t, buf.String(), "upload 100% done")
	assert.NotContains(t, buf.String(), "%!")
	buf.Reset()

	Info("templates loaded", 3)
	assert.Contains(t, buf.String(), "templates loaded: 3")
}

func TestConfigureClosesPreviousLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mdocx.log")
	originalLogger := logger
	defer func() { logger = originalLogger }()

	Configure(WithFile(path))
	f, ok := logger.entry.Logger.Out.(fileOutput)
	require.True(t, ok)
	Info("before reconfigure")

	var buf bytes.Buffer
	Configure(WithOutput(&buf))
	_, err := f.Write([]byte("late write\n"))
	assert.ErrorIs(t, err, os.ErrClosed)

	Info("after reconfigure")
	assert.Contains(t, buf.String(), "after reconfigure")
	assert.NoError(t, Close(), "caller-owned writers are left alone")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "before reconfigure")
	assert.NotContains(t, string(content), "after reconfigure")
}
