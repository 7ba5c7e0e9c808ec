package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func resetLoggers() {
	Logger = zap.NewNop()
	consoleLogger = zap.NewNop()
	fileWriter.Close()
	fileWriter = nil
}

func TestInit_WritesFieldsAsJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(Options{Dir: dir, File: "test.log", Level: "debug"}))
	t.Cleanup(resetLoggers)

	LogSuccess("chart exported",
		zap.String("variant", "revenue"),
		zap.Int64("duration_ms", 12),
		zap.Float64("dpi", 64),
		zap.Bool("overwritten", true))
	LogDebug("debug line")
	Sync()

	data, err := os.ReadFile(filepath.Join(dir, "test.log"))
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "INFO chart exported")
	assert.Contains(t, content, `"variant":"revenue"`)
	assert.Contains(t, content, `"duration_ms":12`)
	assert.Contains(t, content, `"dpi":64`)
	assert.Contains(t, content, `"overwritten":true`)
	assert.Contains(t, content, "DEBUG debug line")
}

func TestInit_RejectsUnknownLevel(t *testing.T) {
	err := Init(Options{Dir: t.TempDir(), Level: "loud"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid log level"))
}

func TestGenerateRunID(t *testing.T) {
	a, b := GenerateRunID(), GenerateRunID()
	assert.Len(t, a, 16)
	assert.NotEqual(t, a, b)
	assert.Equal(t, "run_id", RunID(a).Key)
}

func TestExtractDuration(t *testing.T) {
	assert.Equal(t, int64(40), extractDuration([]zap.Field{zap.String("x", "y"), zap.Int64("duration_ms", 40)}))
	assert.Equal(t, int64(0), extractDuration([]zap.Field{zap.Int32("duration_ms", 40)}))
}

func TestInit_AgainClosesPreviousFile(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	t.Cleanup(resetLoggers)

	require.NoError(t, Init(Options{Dir: first, File: "a.log"}))
	previous := fileWriter
	require.NotNil(t, previous)

	require.NoError(t, Init(Options{Dir: second, File: "b.log"}))
	assert.NotSame(t, previous, fileWriter)

	_, err := previous.file.Write([]byte("late line\n"))
	require.ErrorIs(t, err, os.ErrClosed)

	LogInfo("after re-init")
	Sync()
	data, err := os.ReadFile(filepath.Join(second, "b.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "after re-init")
}
