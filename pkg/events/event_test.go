package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInteractionRecorded(t *testing.T) {
	at := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)
	p := InteractionPayload{
		UserID:   "42",
		Query:    "flights from sf to fresno",
		Response: "United has a 07:15 departure.",
		Steps:    []StepPayload{{ToolName: "apify_flight/flight-finder", ToolInput: "from: sf", ToolOutput: "[]", Status: "ok"}},
	}

	e, err := NewInteractionRecorded(p, at)
	require.NoError(t, err)
	assert.Equal(t, TypeInteractionRecorded, e.EventType())
	assert.Equal(t, "42", e.Payload()["user_id"])
	assert.Equal(t, at, e.Timestamp())

	got, err := DecodeInteraction(e)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestDecodeInteractionRejects(t *testing.T) {
	_, err := DecodeInteraction(BaseEvent{Type: "other"})
	assert.Error(t, err)

	_, err = DecodeInteraction(BaseEvent{Type: TypeInteractionRecorded, Data: map[string]interface{}{"query": "x"}})
	assert.ErrorContains(t, err, "missing user_id")

	_, err = DecodeInteraction(BaseEvent{Type: TypeInteractionRecorded, Data: map[string]interface{}{"user_id": "1", "steps": "nope"}})
	assert.Error(t, err)
}
