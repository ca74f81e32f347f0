package nats

import (
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-assistant-be/pkg/events"
)

func TestEncodeDecode(t *testing.T) {
	at := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)
	e, err := events.NewInteractionRecorded(events.InteractionPayload{UserID: "42", Query: "q"}, at)
	require.NoError(t, err)

	msg, err := encode(e)
	require.NoError(t, err)
	assert.Equal(t, "trips.interaction.recorded", msg.Subject)
	assert.Equal(t, events.TypeInteractionRecorded, msg.Header.Get(headerType))

	got, err := decode(msg.Subject, msg.Header, msg.Data)
	require.NoError(t, err)
	assert.Equal(t, events.TypeInteractionRecorded, got.EventType())
	assert.True(t, at.Equal(got.Timestamp()))

	p, err := events.DecodeInteraction(got)
	require.NoError(t, err)
	assert.Equal(t, "42", p.UserID)
}

func TestDecodeWithoutHeaders(t *testing.T) {
	got, err := decode("trips.interaction.recorded", nats.Header{}, []byte(`{"user_id":"1"}`))
	require.NoError(t, err)
	assert.Equal(t, "interaction.recorded", got.EventType())

	_, err = decode("trips.x", nats.Header{}, []byte(`not json`))
	assert.Error(t, err)
}
