package dto

// UserInfo identifies the sender of a chat message. ChatID is where the
// message came from; it differs from ID in group chats.
type UserInfo struct {
	ID        string `json:"id" validate:"required"`
	ChatID    string `json:"chat_id,omitempty"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}

// DisplayName is what the assistant calls the user
func (u UserInfo) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	if u.Username != "" {
		return u.Username
	}
	return "Traveler"
}

type WebhookUser struct {
	ID        int64  `json:"id" validate:"required"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}

type WebhookChat struct {
	ID int64 `json:"id" validate:"required"`
}

type WebhookMessage struct {
	MessageID int64        `json:"message_id"`
	Chat      WebhookChat  `json:"chat" validate:"required"`
	From      *WebhookUser `json:"from" validate:"required"`
	Text      string       `json:"text"`
}

// WebhookUpdate is the subset of a Telegram update the bot handles
type WebhookUpdate struct {
	UpdateID int64           `json:"update_id"`
	Message  *WebhookMessage `json:"message"`
}

type SetupWebhookResponse struct {
	WebhookURL string `json:"webhook_url"`
}

type ClearCacheResponse struct {
	UserID string `json:"user_id,omitempty"`
	All    bool   `json:"all,omitempty"`
}

type SummaryResponse struct {
	UserID  string `json:"user_id"`
	Summary string `json:"summary"`
}
