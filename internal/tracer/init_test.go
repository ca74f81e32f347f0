package tracer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"trip-assistant-be/internal/pkg/logger"
)

func TestInitTracerDisabled(t *testing.T) {
	shutdown := InitTracer("", logger.NewNopLogger())
	assert.NoError(t, shutdown(context.Background()))
}
