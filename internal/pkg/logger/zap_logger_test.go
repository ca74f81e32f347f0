package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLogsNewestFirst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	lines := []string{
		`{"level":"INFO","timestamp":"2026-10-15T10:00:00Z","message":"first","module":"A"}`,
		`not json`,
		`{"level":"ERROR","timestamp":"2026-10-15T10:00:01Z","message":"second","module":"B"}`,
		`{"level":"INFO","timestamp":"2026-10-15T10:00:02Z","message":"third","module":"A"}`,
	}
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	l := &ZapLogger{filePath: path}

	all, err := l.GetLogs("", 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Message)
	assert.NotEmpty(t, all[0].Id)

	errs, err := l.GetLogs("ERROR", 10, 0)
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "second", errs[0].Message)

	page, err := l.GetLogs("", 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "second", page[0].Message)

	past, err := l.GetLogs("", 10, 5)
	require.NoError(t, err)
	assert.Empty(t, past)
}

func TestGetLogsWithoutFile(t *testing.T) {
	entries, err := NewNopLogger().GetLogs("", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)

	missing := &ZapLogger{filePath: filepath.Join(t.TempDir(), "nope.log")}
	entries, err = missing.GetLogs("", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestZapLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l := NewZapLogger(path, true)
	l.Info("TEST", "hello", map[string]interface{}{"k": "v"})
	l.Debug("TEST", "not persisted", nil)
	_ = l.Sync()

	entries, err := l.GetLogs("INFO", 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "hello", entries[0].Message)
	assert.Equal(t, "TEST", entries[0].Module)
}
