package telegram

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"trip-assistant-be/internal/pkg/logger"
	"trip-assistant-be/pkg/progress"
)

// Messenger is the part of Client the notifier needs
type Messenger interface {
	SendOrEdit(ctx context.Context, chatID, messageID int64, text string) (int64, error)
	DeleteMessage(ctx context.Context, chatID, messageID int64) error
}

// Notifier renders progress updates as one status message per chat
type Notifier struct {
	api    Messenger
	log    logger.ILogger
	mu     sync.Mutex
	status map[int64]int64
}

func NewNotifier(api Messenger, log logger.ILogger) *Notifier {
	return &Notifier{api: api, log: log, status: map[int64]int64{}}
}

// Handle applies u; it satisfies progress.Callback
func (n *Notifier) Handle(ctx context.Context, u progress.Update) error {
	target := u.ChatID
	if target == "" {
		target = u.UserID
	}
	chatID, err := strconv.ParseInt(target, 10, 64)
	if err != nil {
		return fmt.Errorf("chat id %q: %w", target, err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	current := n.status[chatID]

	if u.Text == "" {
		if current == 0 {
			return nil
		}
		delete(n.status, chatID)
		return n.api.DeleteMessage(ctx, chatID, current)
	}

	if !u.Replace {
		current = 0
	}
	id, err := n.api.SendOrEdit(ctx, chatID, current, u.Text)
	if err != nil {
		return err
	}
	n.status[chatID] = id
	return nil
}
