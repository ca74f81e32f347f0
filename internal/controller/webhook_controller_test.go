package controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-assistant-be/internal/constant"
	"trip-assistant-be/internal/dto"
	"trip-assistant-be/internal/pkg/logger"
	"trip-assistant-be/internal/pkg/serverutils"
	"trip-assistant-be/pkg/progress"
)

type fakeAssistant struct {
	mu       sync.Mutex
	messages []string
	users    []dto.UserInfo
	calls    []string
}

func (f *fakeAssistant) HandleMessage(_ context.Context, text string, user dto.UserInfo) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, text)
	f.users = append(f.users, user)
	return "reply to " + text
}

func (f *fakeAssistant) HandleSummaryRequest(_ context.Context, userID string) string {
	return "summary for " + userID
}

func (f *fakeAssistant) HandleCallRequest(_ context.Context, userID, phone string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, phone)
	return "calling " + phone
}

func (f *fakeAssistant) RegisterProgressCallback(progress.Callback) error { return nil }
func (f *fakeAssistant) Close()                                          {}

type sentMessage struct {
	chatID int64
	text   string
}

type fakeBot struct {
	mu         sync.Mutex
	sent       []sentMessage
	actions    []string
	webhookURL string
	setErr     error
}

func (f *fakeBot) SendMessage(_ context.Context, chatID int64, text string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	return int64(len(f.sent)), nil
}

func (f *fakeBot) SendChatAction(_ context.Context, _ int64, action string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, action)
	return nil
}

func (f *fakeBot) SetWebhook(_ context.Context, baseURL string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.webhookURL = baseURL
	return nil
}

func (f *fakeBot) WebhookInfo(context.Context) (map[string]any, error) {
	return map[string]any{"url": f.webhookURL + "/webhook", "pending_update_count": float64(0)}, nil
}

func newWebhookApp(publicURL string) (*fiber.App, IWebhookController, *fakeAssistant, *fakeBot) {
	svc := &fakeAssistant{}
	bot := &fakeBot{}
	ctrl := NewWebhookController(svc, bot, publicURL, logger.NewNopLogger())
	app := fiber.New()
	ctrl.RegisterRoutes(app)
	return app, ctrl, svc, bot
}

func postUpdate(t *testing.T, app *fiber.App, body string) int {
	t.Helper()
	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func update(text string) string {
	return updateIn(555, text)
}

// updateIn is a message from user 555 sent in chat chatID
func updateIn(chatID int64, text string) string {
	raw, _ := json.Marshal(map[string]any{
		"update_id": 1,
		"message": map[string]any{
			"message_id": 10,
			"chat":       map[string]any{"id": chatID},
			"from":       map[string]any{"id": 555, "first_name": "Ada"},
			"text":       text,
		},
	})
	return string(raw)
}

func TestHealth(t *testing.T) {
	app, _, _, _ := newWebhookApp("")
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Trip Assistant Bot is running!", string(body))
}

func TestWebhookRoutesCommands(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantReply string
	}{
		{"start", "/start", constant.WelcomeMessage},
		{"summary", "/summary", "summary for 555"},
		{"summary with bot name", "/summary@TripBot", "summary for 555"},
		{"call", "/call +14155550100", "calling +14155550100"},
		{"plain text", "flights to Paris", "reply to flights to Paris"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, ctrl, _, bot := newWebhookApp("")
			assert.Equal(t, fiber.StatusOK, postUpdate(t, app, update(tt.text)))
			ctrl.Wait()

			require.Len(t, bot.sent, 1)
			assert.Equal(t, int64(555), bot.sent[0].chatID)
			assert.Equal(t, tt.wantReply, bot.sent[0].text)
		})
	}
}

func TestWebhookPassesUserInfo(t *testing.T) {
	app, ctrl, svc, bot := newWebhookApp("")
	postUpdate(t, app, update("hello"))
	ctrl.Wait()

	require.Len(t, svc.users, 1)
	assert.Equal(t, dto.UserInfo{ID: "555", ChatID: "555", FirstName: "Ada"}, svc.users[0])
	assert.Equal(t, []string{"typing"}, bot.actions)
}

func TestWebhookGroupChatKeysBySender(t *testing.T) {
	app, ctrl, svc, bot := newWebhookApp("")
	postUpdate(t, app, updateIn(-1001, "hotels in Lisbon"))
	postUpdate(t, app, updateIn(-1001, "/summary"))
	ctrl.Wait()

	require.Len(t, svc.users, 1)
	assert.Equal(t, "555", svc.users[0].ID)
	assert.Equal(t, "-1001", svc.users[0].ChatID)

	require.Len(t, bot.sent, 2)
	texts := []string{bot.sent[0].text, bot.sent[1].text}
	assert.ElementsMatch(t, []string{"reply to hotels in Lisbon", "summary for 555"}, texts)
	for _, m := range bot.sent {
		assert.Equal(t, int64(-1001), m.chatID)
	}
}

func TestWebhookIgnoresBadUpdates(t *testing.T) {
	bodies := []string{
		`not json`,
		`{"update_id": 3}`,
		`{"update_id": 4, "message": {"chat": {"id": 1}, "from": {"id": 1}, "text": "   "}}`,
		`{"update_id": 5, "message": {"chat": {"id": 1}, "text": "no sender"}}`,
	}
	app, ctrl, svc, bot := newWebhookApp("")
	for _, body := range bodies {
		assert.Equal(t, fiber.StatusOK, postUpdate(t, app, body), body)
	}
	ctrl.Wait()
	assert.Empty(t, svc.messages)
	assert.Empty(t, bot.sent)
}

func TestSetupWebhook(t *testing.T) {
	t.Run("explicit url", func(t *testing.T) {
		app, _, _, bot := newWebhookApp("")
		resp, err := app.Test(httptest.NewRequest("GET", "/setup_webhook?url=https://bot.example.com/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var out serverutils.BaseResponse[dto.SetupWebhookResponse]
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.True(t, out.Success)
		assert.Equal(t, "https://bot.example.com/webhook", out.Data.WebhookURL)
		assert.Equal(t, "https://bot.example.com/", bot.webhookURL)
	})

	t.Run("public url default", func(t *testing.T) {
		app, _, _, bot := newWebhookApp("https://public.example.com")
		resp, err := app.Test(httptest.NewRequest("GET", "/setup_webhook", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "https://public.example.com", bot.webhookURL)
	})

	t.Run("missing url", func(t *testing.T) {
		app, _, _, _ := newWebhookApp("")
		resp, err := app.Test(httptest.NewRequest("GET", "/setup_webhook", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("telegram error", func(t *testing.T) {
		app, _, _, bot := newWebhookApp("")
		bot.setErr = errors.New("bad token")
		resp, err := app.Test(httptest.NewRequest("GET", "/setup_webhook?url=https://x.example.com", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	})
}

func TestCheckWebhook(t *testing.T) {
	app, _, _, bot := newWebhookApp("")
	bot.webhookURL = "https://bot.example.com"

	resp, err := app.Test(httptest.NewRequest("GET", "/check_webhook", nil))
	require.NoError(t, err)

	var out serverutils.BaseResponse[map[string]any]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "https://bot.example.com/webhook", out.Data["url"])
}

func TestSplitCommand(t *testing.T) {
	c, a := splitCommand("/CALL   +1415 ")
	assert.Equal(t, "/call", c)
	assert.Equal(t, "+1415", a)

	c, a = splitCommand("hello /call")
	assert.Empty(t, c)
	assert.Equal(t, "hello /call", a)
}
