package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestBuildWritesJSONAtLevel(t *testing.T) {
	var sink, console bytes.Buffer
	z, err := build(zapcore.AddSync(&sink), &console, "warn")
	require.NoError(t, err)

	z.Info("dropped")
	z.Warn("kept", zap.String("domain", "example.com"))
	require.NoError(t, z.Sync())

	lines := bytes.Split(bytes.TrimSpace(sink.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &rec))
	assert.Equal(t, "warn", rec["level"])
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, "example.com", rec["domain"])
	assert.Contains(t, console.String(), "kept")
}

func TestBuildRejectsUnknownLevel(t *testing.T) {
	_, err := build(zapcore.AddSync(&bytes.Buffer{}), nil, "loud")
	assert.Error(t, err)
}

func TestNewCreatesDailyFile(t *testing.T) {
	prev := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(prev) })

	root := t.TempDir()
	z, err := New(root, "info", false)
	require.NoError(t, err)
	_ = z.Sync()

	name := time.Now().Format("2006-01-02") + ".log"
	_, err = os.Stat(filepath.Join(root, "logs", name))
	assert.NoError(t, err)
	assert.Same(t, z, zap.L())
}
