package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-assistant-be/internal/pkg/logger"
)

type captureLogger struct {
	logger.ILogger
	debug []string
}

func (c *captureLogger) Debug(_, message string, _ map[string]interface{}) {
	c.debug = append(c.debug, message)
}

func TestLogWriterFormats(t *testing.T) {
	c := &captureLogger{ILogger: logger.NewNopLogger()}
	logWriter{log: c}.Printf("slow query %dms: %s", 1200, "SELECT 1")

	require.Len(t, c.debug, 1)
	assert.Equal(t, "slow query 1200ms: SELECT 1", c.debug[0])
}

func TestEmptyDSN(t *testing.T) {
	_, err := NewGormDBFromDSN("", logger.NewNopLogger(), false)
	assert.Error(t, err)
}
