package tripcache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-assistant-be/internal/pkg/logger"
	"trip-assistant-be/pkg/travel"
)

var refNow = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

const flightOutput = `[
  {"airline":"United Airlines","departureAirport":"SFO","arrivalAirport":"FAT","departureCity":"San Francisco","arrivalCity":"Fresno","departureDate":"2026-10-22T07:15:00","arrivalDate":"2026-10-22T08:20:00","duration":"1h 05m","price":"$129"},
  {"airline":"Alaska Airlines","departureAirport":"SFO","arrivalAirport":"FAT","departureCity":"San Francisco","arrivalCity":"Fresno","departureDate":"2026-10-22T18:05:00","duration":"1h 08m","price":142}
]`

const poiOutput = `[
  {"name":"Eiffel Tower","type":"attraction","location":"Paris, France","rating":"4.5"},
  {"name":"Le Jules Verne","type":"restaurant","location":"Paris, France","rating":4.6}
]`

func newFileManager(t *testing.T) (*Manager, *FileStore) {
	t.Helper()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return NewManager(store, logger.NewNopLogger()).WithClock(func() time.Time { return refNow }), store
}

func TestAppendInteractionIsIdempotentForDetails(t *testing.T) {
	m, _ := newFileManager(t)
	ctx := context.Background()
	in := Interaction{
		Response: "Here are flights",
		Steps: []any{
			ToolStep{ToolName: "apify_flight/flight-finder", ToolInput: "from: sf, to: fresno", ToolOutput: flightOutput},
			ToolStep{ToolName: "apify_poi/tripadvisor", ToolInput: "Paris", ToolOutput: poiOutput},
		},
	}

	_, err := m.AppendInteraction(ctx, "42", "flights from sf to fresno", in)
	require.NoError(t, err)
	c, err := m.AppendInteraction(ctx, "42", "flights from sf to fresno", in)
	require.NoError(t, err)

	d := c.TripDetails
	assert.Len(t, d.Flights, 2)
	assert.Len(t, d.Activities, 2)
	assert.Equal(t, []string{"San Francisco", "Fresno", "Paris, France"}, d.Destinations)
	assert.Len(t, c.Queries, 2)
	assert.NotEqual(t, c.Queries[0].ID, c.Queries[1].ID)

	assert.Equal(t, "142", d.Flights[1].Price)
	assert.Equal(t, "4.6", d.Activities[1].Rating)

	read, err := m.Read(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, c.TripDetails, read.TripDetails)
	assert.Len(t, read.Queries, 2)
}

func TestLegacyStepShapes(t *testing.T) {
	m, _ := newFileManager(t)
	in := Interaction{Steps: []any{
		[]any{"apify_flight", "from: sf, to: fresno", flightOutput},
		map[string]any{"tool": "apify_poi", "input": "Paris", "output": poiOutput},
		map[string]any{"tool_name": "apify_google_maps/google-maps-directions", "tool_input": "directions from sf to yosemite",
			"tool_output": map[string]any{"origin": "San Francisco", "destination": "Yosemite", "distance": "190 mi", "duration": "4 h"}},
		42,
		[]any{"too", "short"},
		map[string]any{"no_name": true},
	}}

	c, err := m.AppendInteraction(context.Background(), "7", "plan", in)
	require.NoError(t, err)
	assert.Len(t, c.TripDetails.Flights, 2)
	assert.Len(t, c.TripDetails.Activities, 2)
	assert.Equal(t, []string{"Directions San Francisco → Yosemite: 190 mi, 4 h"}, c.TripDetails.Notes)
	require.Len(t, c.Queries, 1)
	assert.Len(t, c.Queries[0].ToolCalls, 3)
}

func TestExtractorFailureStillRecordsQuery(t *testing.T) {
	m, _ := newFileManager(t)
	in := Interaction{Response: "sorry", Steps: []any{
		ToolStep{ToolName: "apify_flight/flight-finder", ToolOutput: "Error: actor failed"},
		ToolStep{ToolName: "vapi_reservation", ToolInput: "{broken", ToolOutput: ""},
		ToolStep{ToolName: "apify_poi/tripadvisor", ToolOutput: poiOutput},
	}}

	c, err := m.AppendInteraction(context.Background(), "9", "anything", in)
	require.NoError(t, err)
	assert.Empty(t, c.TripDetails.Flights)
	assert.Empty(t, c.TripDetails.Reservations)
	assert.Len(t, c.TripDetails.Activities, 2)
	require.Len(t, c.Queries, 1)
	assert.Equal(t, "sorry", c.Queries[0].Response)
}

func TestSyntheticFlightPayload(t *testing.T) {
	m, _ := newFileManager(t)
	payload := `{"source":"synthetic","kind":"curated","notice":"sample","results":` + flightOutput + `}`
	c, err := m.AppendInteraction(context.Background(), "1", "flights", Interaction{Steps: []any{
		ToolStep{ToolName: "synthetic/flight", ToolOutput: payload},
	}})
	require.NoError(t, err)
	require.Len(t, c.TripDetails.Flights, 2)
	assert.Equal(t, "United Airlines", c.TripDetails.Flights[0].Airline)
}

func TestSearchHeuristics(t *testing.T) {
	m, _ := newFileManager(t)
	c, err := m.AppendInteraction(context.Background(), "1", "What's the weather like in Lisbon in May?", Interaction{Steps: []any{
		ToolStep{ToolName: "perplexity_search", ToolOutput: "1. Lisbon weather\n   Mild and sunny"},
	}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Lisbon"}, c.TripDetails.Destinations)
	assert.Equal(t, "May", c.TripDetails.Dates["travel_month"])
}

func TestReservationExtraction(t *testing.T) {
	m, _ := newFileManager(t)
	input := `{"service_type":"hotel","service_name":"The Ahwahnee","phone_number":"+12092521234","user_name":"Sam","reservation_details":{"date":"2026-11-01","duration":"2 nights","num_people":2}}`
	output := "Call completed with The Ahwahnee.\n\nReference #: HTL-A1B2C3\n"

	c, err := m.AppendInteraction(context.Background(), "5", "book the ahwahnee", Interaction{Steps: []any{
		ToolStep{ToolName: "vapi_reservation", ToolInput: input, ToolOutput: output, Status: "ok"},
		ToolStep{ToolName: "vapi_reservation", ToolInput: input, ToolOutput: "failed", Status: "provider_error"},
	}})
	require.NoError(t, err)
	require.Len(t, c.TripDetails.Reservations, 1)
	r := c.TripDetails.Reservations[0]
	assert.Equal(t, "The Ahwahnee", r.ServiceName)
	assert.Equal(t, 2, r.NumPeople)
	assert.Equal(t, "Reference #: HTL-A1B2C3", r.Confirmation)

	require.Len(t, c.TripDetails.Accommodations, 1)
	assert.Equal(t, "2 nights", c.TripDetails.Accommodations[0].Duration)
}

func TestCorruptDocumentIsTreatedAsAbsent(t *testing.T) {
	m, store := newFileManager(t)
	require.NoError(t, os.WriteFile(store.path("3"), []byte("{not json"), 0o644))

	c, err := m.Read(context.Background(), "3")
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = store.Load(context.Background(), "3")
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.ErrorIs(t, err, travel.ErrPersistence)

	c, err = m.AppendInteraction(context.Background(), "3", "hello", Interaction{})
	require.NoError(t, err)
	assert.Len(t, c.Queries, 1)
}

type unreadableStore struct {
	*FileStore
	loadErr error
}

func (s *unreadableStore) Load(context.Context, string) (*TripCache, error) {
	return nil, s.loadErr
}

func TestUnreadableDocumentStillRecordsQuery(t *testing.T) {
	files, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	store := &unreadableStore{FileStore: files, loadErr: fmt.Errorf("read 42: %w: permission denied", travel.ErrPersistence)}
	m := NewManager(store, logger.NewNopLogger()).WithClock(func() time.Time { return refNow })

	c, err := m.AppendInteraction(context.Background(), "42", "flights to Fresno", Interaction{Response: "ok"})
	require.NoError(t, err)
	require.Len(t, c.Queries, 1)

	saved, err := files.Load(context.Background(), "42")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "flights to Fresno", saved.Queries[0].Query)
}

func TestCancelledLoadIsNotRecovered(t *testing.T) {
	files, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	store := &unreadableStore{FileStore: files, loadErr: context.Canceled}
	m := NewManager(store, logger.NewNopLogger())

	_, err = m.AppendInteraction(context.Background(), "42", "q", Interaction{})
	assert.ErrorIs(t, err, context.Canceled)

	saved, err := files.Load(context.Background(), "42")
	require.NoError(t, err)
	assert.Nil(t, saved)
}

func TestReadMissing(t *testing.T) {
	m, _ := newFileManager(t)
	c, err := m.Read(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestConcurrentAppendsForOneUser(t *testing.T) {
	m, _ := newFileManager(t)
	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := m.AppendInteraction(context.Background(), "busy", fmt.Sprintf("q%d", i), Interaction{})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	c, err := m.Read(context.Background(), "busy")
	require.NoError(t, err)
	assert.Len(t, c.Queries, n)
}

func TestClear(t *testing.T) {
	m, store := newFileManager(t)
	ctx := context.Background()
	for _, id := range []string{"1", "2", "3"} {
		_, err := m.AppendInteraction(ctx, id, "hi", Interaction{})
		require.NoError(t, err)
	}

	require.NoError(t, m.Clear(ctx, "1"))
	c, err := m.Read(ctx, "1")
	require.NoError(t, err)
	assert.Nil(t, c)
	require.NoError(t, m.Clear(ctx, "1"))

	require.NoError(t, m.ClearAll(ctx))
	files, err := filepath.Glob(filepath.Join(store.dir, "*"))
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFileStorePathIsSanitized(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(store.dir, "user_______etc.json"), store.path("../../etc"))
}
