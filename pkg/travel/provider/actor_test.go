package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-assistant-be/internal/pkg/logger"
)

// fakeActorAPI serves the run/poll/dataset endpoints. The run reports
// RUNNING for pendingPolls polls, then finalStatus.
type fakeActorAPI struct {
	pendingPolls int32
	finalStatus  string
	items        string

	polls   atomic.Int32
	started atomic.Int32
	input   atomic.Value
}

func (f *fakeActorAPI) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/acts/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		var in map[string]any
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.input.Store(in)
		f.started.Add(1)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"run1","status":"READY","defaultDatasetId":"ds1"}}`))
	})
	mux.HandleFunc("/v2/actor-runs/run1", func(w http.ResponseWriter, r *http.Request) {
		status := "RUNNING"
		if f.polls.Add(1) > f.pendingPolls {
			status = f.finalStatus
		}
		_, _ = w.Write([]byte(`{"data":{"id":"run1","status":"` + status + `","defaultDatasetId":"ds1"}}`))
	})
	mux.HandleFunc("/v2/datasets/ds1/items", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(f.items))
	})
	return mux
}

func newTestActorClient(url string) *ActorClient {
	c := NewActorClient(url, "tok", logger.NewNopLogger())
	c.PollInterval = 5 * time.Millisecond
	return c
}

func TestActorAdapterSuccess(t *testing.T) {
	api := &fakeActorAPI{pendingPolls: 2, finalStatus: RunSucceeded, items: `[{"airline":"United","price":"$129"},{"airline":"Alaska","price":"$149"}]`}
	srv := httptest.NewServer(api.handler(t))
	defer srv.Close()

	a := NewFlightFinder(newTestActorClient(srv.URL))
	require.True(t, a.IsAvailable())

	r := a.Execute(context.Background(), Params{Origin: "san francisco", Destination: "fresno", OriginCode: "SFO", DestinationCode: "FAT", Date: "2026-10-22"})
	require.Equal(t, StatusOK, r.Status, r.Reason)
	assert.Contains(t, r.Payload, "United")
	assert.Equal(t, "apify_flight/flight-finder", r.ProviderID)
	assert.Equal(t, int32(3), api.polls.Load())

	in := api.input.Load().(map[string]any)
	assert.Equal(t, "SFO", in["fromLocation"])
	assert.Equal(t, "FAT", in["toLocation"])
}

func TestActorAdapterFailures(t *testing.T) {
	t.Run("failed run", func(t *testing.T) {
		api := &fakeActorAPI{finalStatus: RunFailed}
		srv := httptest.NewServer(api.handler(t))
		defer srv.Close()

		r := NewTripadvisor(newTestActorClient(srv.URL)).Execute(context.Background(), Params{Destination: "Paris"})
		assert.Equal(t, StatusProviderError, r.Status)
		assert.Empty(t, r.Payload)
		assert.Contains(t, r.Reason, "FAILED")
	})

	t.Run("actor timed out", func(t *testing.T) {
		api := &fakeActorAPI{finalStatus: RunTimedOut}
		srv := httptest.NewServer(api.handler(t))
		defer srv.Close()

		r := NewTripadvisor(newTestActorClient(srv.URL)).Execute(context.Background(), Params{Destination: "Paris"})
		assert.Equal(t, StatusTimeout, r.Status)
	})

	t.Run("budget exhausted", func(t *testing.T) {
		api := &fakeActorAPI{pendingPolls: 1 << 20, finalStatus: RunSucceeded}
		srv := httptest.NewServer(api.handler(t))
		defer srv.Close()

		a := NewMapsDirections(newTestActorClient(srv.URL)).WithTimeout(50 * time.Millisecond)
		r := a.Execute(context.Background(), Params{Origin: "San Francisco", Destination: "Yosemite"})
		assert.Equal(t, StatusTimeout, r.Status)
	})

	t.Run("empty dataset", func(t *testing.T) {
		api := &fakeActorAPI{finalStatus: RunSucceeded, items: `[]`}
		srv := httptest.NewServer(api.handler(t))
		defer srv.Close()

		r := NewTripadvisor(newTestActorClient(srv.URL)).Execute(context.Background(), Params{Destination: "Paris"})
		assert.Equal(t, StatusNoData, r.Status)
	})

	t.Run("missing route never calls the actor", func(t *testing.T) {
		api := &fakeActorAPI{finalStatus: RunSucceeded, items: `[{}]`}
		srv := httptest.NewServer(api.handler(t))
		defer srv.Close()

		r := NewSkyscannerScraper(newTestActorClient(srv.URL)).Execute(context.Background(), Params{Query: "cheap flights"})
		assert.Equal(t, StatusValidationError, r.Status)
		assert.Equal(t, int32(0), api.started.Load())
	})

	t.Run("http error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad token", http.StatusUnauthorized)
		}))
		defer srv.Close()

		r := NewTripadvisor(newTestActorClient(srv.URL)).Execute(context.Background(), Params{Destination: "Paris"})
		assert.Equal(t, StatusProviderError, r.Status)
		assert.Contains(t, r.Reason, "401")
	})
}

func TestActorAdapterUnavailableWithoutToken(t *testing.T) {
	c := NewActorClient("", "", logger.NewNopLogger())
	assert.False(t, NewFlightFinder(c).IsAvailable())
	assert.Equal(t, DefaultActorBaseURL, c.BaseURL)
}
