package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.telegram.org"
	maxMessageLen  = 4000
)

// ErrAPI is returned when the Bot API answers ok=false or a non-2xx status
var ErrAPI = errors.New("telegram api error")

type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

type Message struct {
	MessageID int64  `json:"message_id"`
	Chat      *Chat  `json:"chat,omitempty"`
	From      *User  `json:"from,omitempty"`
	Text      string `json:"text,omitempty"`
}

type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type,omitempty"`
}

type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot,omitempty"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
}

// Client talks to the Telegram Bot API over plain HTTP
type Client struct {
	http    *http.Client
	baseURL string
	token   string
}

func NewClient(httpClient *http.Client, baseURL, token string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{http: httpClient, baseURL: strings.TrimRight(baseURL, "/"), token: token}
}

func (c *Client) call(ctx context.Context, method string, body any, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	raw, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	var r apiResponse
	_ = json.Unmarshal(raw, &r)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !r.OK {
		desc := r.Description
		if desc == "" {
			desc = strings.TrimSpace(string(raw))
		}
		return fmt.Errorf("%w: %s http %d: %s", ErrAPI, method, resp.StatusCode, desc)
	}
	if out != nil && len(r.Result) > 0 {
		return json.Unmarshal(r.Result, out)
	}
	return nil
}

// SendMessage posts text to chatID in chunks and returns the last message id
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) (int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		text = "(empty)"
	}
	var last int64
	for _, chunk := range chunks(text, maxMessageLen) {
		var m Message
		err := c.call(ctx, "sendMessage", map[string]any{
			"chat_id":                  chatID,
			"text":                     chunk,
			"disable_web_page_preview": true,
		}, &m)
		if err != nil {
			return last, err
		}
		last = m.MessageID
	}
	return last, nil
}

func (c *Client) EditMessage(ctx context.Context, chatID, messageID int64, text string) error {
	return c.call(ctx, "editMessageText", map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
		"text":       text,
	}, nil)
}

// SendOrEdit edits messageID when set and sends a new message when editing
// fails or there is nothing to edit.
func (c *Client) SendOrEdit(ctx context.Context, chatID, messageID int64, text string) (int64, error) {
	if messageID != 0 {
		if err := c.EditMessage(ctx, chatID, messageID, text); err == nil {
			return messageID, nil
		}
	}
	return c.SendMessage(ctx, chatID, text)
}

func (c *Client) DeleteMessage(ctx context.Context, chatID, messageID int64) error {
	return c.call(ctx, "deleteMessage", map[string]any{"chat_id": chatID, "message_id": messageID}, nil)
}

func (c *Client) SendChatAction(ctx context.Context, chatID int64, action string) error {
	return c.call(ctx, "sendChatAction", map[string]any{"chat_id": chatID, "action": action}, nil)
}

// SetWebhook points the bot at baseURL + "/webhook"
func (c *Client) SetWebhook(ctx context.Context, baseURL string) error {
	return c.call(ctx, "setWebhook", map[string]any{
		"url":             strings.TrimRight(baseURL, "/") + "/webhook",
		"allowed_updates": []string{"message"},
	}, nil)
}

func (c *Client) WebhookInfo(ctx context.Context) (map[string]any, error) {
	info := map[string]any{}
	if err := c.call(ctx, "getWebhookInfo", map[string]any{}, &info); err != nil {
		return nil, err
	}
	return info, nil
}

// chunks splits on rune boundaries, preferring the last newline in range
func chunks(text string, max int) []string {
	var out []string
	runes := []rune(text)
	for len(runes) > max {
		cut := max
		for i := max - 1; i > max/2; i-- {
			if runes[i] == '\n' {
				cut = i + 1
				break
			}
		}
		out = append(out, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		out = append(out, string(runes))
	}
	return out
}
