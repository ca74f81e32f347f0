package progress

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"trip-assistant-be/internal/pkg/logger"
)

const Topic = "assistant.progress"

// Update is a status line shown to the user while a request is processed.
// Replace asks the transport to overwrite the previous status message; an
// empty Text with Replace clears it. ChatID, when set, is where the status
// is shown; otherwise it goes to the user.
type Update struct {
	UserID  string `json:"user_id"`
	ChatID  string `json:"chat_id,omitempty"`
	Text    string `json:"text"`
	Replace bool   `json:"replace"`
}

// Callback receives updates in publish order for one subscriber
type Callback func(ctx context.Context, u Update) error

// Bus fans progress updates out to the registered callbacks
type Bus struct {
	pubSub *gochannel.GoChannel
	log    logger.ILogger
}

// NewBus blocks each Publish until every subscriber has handled the update,
// so one user's status lines never overtake each other.
func NewBus(log logger.ILogger) *Bus {
	return &Bus{
		pubSub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer:            64,
			BlockPublishUntilSubscriberAck: true,
		}, watermill.NopLogger{}),
		log: log,
	}
}

// Publish returns once the subscribers acked u. Callbacks must not publish.
func (b *Bus) Publish(u Update) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode progress update: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), raw)
	msg.Metadata.Set("user_id", u.UserID)
	return b.pubSub.Publish(Topic, msg)
}

// Subscribe runs fn for every update until ctx is done. A failing callback
// is logged and the update acked anyway.
func (b *Bus) Subscribe(ctx context.Context, fn Callback) error {
	messages, err := b.pubSub.Subscribe(ctx, Topic)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", Topic, err)
	}
	go func() {
		for msg := range messages {
			b.deliver(ctx, msg, fn)
		}
	}()
	return nil
}

func (b *Bus) deliver(ctx context.Context, msg *message.Message, fn Callback) {
	defer msg.Ack()
	var u Update
	if err := json.Unmarshal(msg.Payload, &u); err != nil {
		b.log.Error("PROGRESS", "Dropping malformed update", map[string]interface{}{"error": err.Error()})
		return
	}
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("PROGRESS", "Progress callback panicked", map[string]interface{}{"user_id": u.UserID, "panic": fmt.Sprint(r)})
		}
	}()
	if err := fn(ctx, u); err != nil {
		b.log.Warn("PROGRESS", "Progress callback failed", map[string]interface{}{"user_id": u.UserID, "error": err.Error()})
	}
}

func (b *Bus) Close() error {
	return b.pubSub.Close()
}
