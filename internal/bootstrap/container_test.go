package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-assistant-be/internal/dto"
	"trip-assistant-be/internal/pkg/logger"
	"trip-assistant-be/pkg/llm/llmtest"
)

func TestContainerWiresFileBackend(t *testing.T) {
	cfg := testConfig(t)
	c, err := NewContainer(cfg, Options{
		Logger:       logger.NewNopLogger(),
		LLM:          &llmtest.Fake{Reply: "Hello traveler"},
		SkipTelegram: true,
	})
	require.NoError(t, err)
	t.Cleanup(c.Close)

	assert.NotNil(t, c.WebhookController)
	assert.NotNil(t, c.AdminController)

	reply := c.Assistant.HandleMessage(context.Background(), "hi", dto.UserInfo{ID: "7"})
	assert.NotEmpty(t, reply)

	doc, err := c.TripCache.Read(context.Background(), "7")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Len(t, doc.Queries, 1)
}

func TestContainerRejectsUnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.Backend = "floppy"
	_, err := NewContainer(cfg, Options{Logger: logger.NewNopLogger(), LLM: &llmtest.Fake{}, SkipTelegram: true})
	assert.Error(t, err)
}

func TestContainerRedisBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.Backend = "redis"
	cfg.Cache.RedisURL = "redis://127.0.0.1:1"
	c, err := NewContainer(cfg, Options{Logger: logger.NewNopLogger(), LLM: &llmtest.Fake{}, SkipTelegram: true})
	require.NoError(t, err)
	c.Close()
}
