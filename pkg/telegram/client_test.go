package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBotAPI struct {
	mu        sync.Mutex
	calls     []string
	bodies    []map[string]any
	failEdit  bool
	nextMsgID int64
}

func (f *fakeBotAPI) server(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		assert.True(t, strings.HasPrefix(r.URL.Path, "/botTOKEN/"), r.URL.Path)
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)

		f.mu.Lock()
		f.calls = append(f.calls, method)
		f.bodies = append(f.bodies, body)
		f.nextMsgID++
		id := f.nextMsgID
		failEdit := f.failEdit
		f.mu.Unlock()

		switch {
		case method == "editMessageText" && failEdit:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"ok":false,"description":"Bad Request: message is not modified"}`))
		case method == "getWebhookInfo":
			_, _ = w.Write([]byte(`{"ok":true,"result":{"url":"https://bot.example/webhook","pending_update_count":0}}`))
		case method == "sendMessage":
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "result": map[string]any{"message_id": id}})
		default:
			_, _ = w.Write([]byte(`{"ok":true,"result":true}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSendMessage(t *testing.T) {
	f := &fakeBotAPI{}
	c := NewClient(nil, f.server(t).URL, "TOKEN")

	id, err := c.SendMessage(context.Background(), 42, "hello")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, []string{"sendMessage"}, f.calls)
	assert.Equal(t, float64(42), f.bodies[0]["chat_id"])
	assert.Equal(t, "hello", f.bodies[0]["text"])
}

func TestSendOrEditFallsBackToSend(t *testing.T) {
	f := &fakeBotAPI{failEdit: true}
	c := NewClient(nil, f.server(t).URL, "TOKEN")

	id, err := c.SendOrEdit(context.Background(), 42, 7, "same text")
	require.NoError(t, err)
	assert.Equal(t, []string{"editMessageText", "sendMessage"}, f.calls)
	assert.Equal(t, int64(2), id)
}

func TestSendOrEditEdits(t *testing.T) {
	f := &fakeBotAPI{}
	c := NewClient(nil, f.server(t).URL, "TOKEN")

	id, err := c.SendOrEdit(context.Background(), 42, 7, "updated")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.Equal(t, []string{"editMessageText"}, f.calls)
}

func TestAPIErrorIsWrapped(t *testing.T) {
	f := &fakeBotAPI{failEdit: true}
	c := NewClient(nil, f.server(t).URL, "TOKEN")

	err := c.EditMessage(context.Background(), 1, 2, "x")
	assert.ErrorIs(t, err, ErrAPI)
	assert.Contains(t, err.Error(), "message is not modified")
}

func TestWebhook(t *testing.T) {
	f := &fakeBotAPI{}
	c := NewClient(nil, f.server(t).URL, "TOKEN")

	require.NoError(t, c.SetWebhook(context.Background(), "https://bot.example/"))
	assert.Equal(t, "https://bot.example/webhook", f.bodies[0]["url"])
	assert.Equal(t, []any{"message"}, f.bodies[0]["allowed_updates"])

	info, err := c.WebhookInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://bot.example/webhook", info["url"])
}

func TestLongMessagesAreChunked(t *testing.T) {
	f := &fakeBotAPI{}
	c := NewClient(nil, f.server(t).URL, "TOKEN")

	text := strings.Repeat("line of text\n", 700)
	_, err := c.SendMessage(context.Background(), 1, text)
	require.NoError(t, err)
	require.Len(t, f.calls, 3)
	for _, b := range f.bodies {
		assert.LessOrEqual(t, len([]rune(b["text"].(string))), maxMessageLen)
	}
}

func TestChunksPreferNewlines(t *testing.T) {
	got := chunks("aaaa\nbbbb\ncc", 7)
	assert.Equal(t, []string{"aaaa\n", "bbbb\ncc"}, got)
	assert.Equal(t, []string{"short"}, chunks("short", 7))
}
