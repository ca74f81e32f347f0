package server

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-assistant-be/internal/bootstrap"
	"trip-assistant-be/internal/config"
	"trip-assistant-be/internal/pkg/logger"
	"trip-assistant-be/pkg/llm/llmtest"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.FromEnv()
	cfg.Cache.Backend = "file"
	cfg.Cache.Dir = t.TempDir()
	cfg.App.NatsURL = ""
	cfg.App.JWTSecret = "secret"
	cfg.Providers.ChainFile = ""

	c, err := bootstrap.NewContainer(cfg, bootstrap.Options{
		Logger:       logger.NewNopLogger(),
		LLM:          &llmtest.Fake{Reply: "ok"},
		SkipTelegram: true,
	})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return New(cfg, c)
}

func TestRoutes(t *testing.T) {
	app := newTestServer(t).GetApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), "go_goroutines"))

	resp, err = app.Test(httptest.NewRequest("DELETE", "/api/admin/cache", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestUnknownRouteIsJSON(t *testing.T) {
	app := newTestServer(t).GetApp()
	resp, err := app.Test(httptest.NewRequest("GET", "/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
}
