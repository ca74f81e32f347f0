package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "interaction.recorded").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

const TypeInteractionRecorded = "interaction.recorded"

// StepPayload mirrors one tool step of an answered message
type StepPayload struct {
	ToolName   string `json:"tool_name"`
	ToolInput  string `json:"tool_input"`
	ToolOutput string `json:"tool_output"`
	Status     string `json:"status,omitempty"`
}

// InteractionPayload is published after every answered message
type InteractionPayload struct {
	UserID   string        `json:"user_id"`
	Query    string        `json:"query"`
	Response string        `json:"response"`
	Steps    []StepPayload `json:"steps"`
}

func NewInteractionRecorded(p InteractionPayload, at time.Time) (BaseEvent, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return BaseEvent{}, err
	}
	data := map[string]interface{}{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return BaseEvent{}, err
	}
	return BaseEvent{Type: TypeInteractionRecorded, Data: data, OccurredAt: at}, nil
}

// DecodeInteraction reads the payload of an interaction.recorded event
func DecodeInteraction(e Event) (InteractionPayload, error) {
	var p InteractionPayload
	if e.EventType() != TypeInteractionRecorded {
		return p, fmt.Errorf("unexpected event type %q", e.EventType())
	}
	raw, err := json.Marshal(e.Payload())
	if err != nil {
		return p, err
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("decode interaction: %w", err)
	}
	if p.UserID == "" {
		return p, fmt.Errorf("decode interaction: missing user_id")
	}
	return p, nil
}
