package tripcache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-assistant-be/internal/pkg/logger"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	c, err := store.Load(ctx, "42")
	require.NoError(t, err)
	assert.Nil(t, c)

	doc := New("42", refNow)
	doc.TripDetails.Destinations = append(doc.TripDetails.Destinations, "Fresno")
	require.NoError(t, store.Save(ctx, doc))
	assert.True(t, mr.Exists("tripcache:user:42"))

	got, err := store.Load(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, []string{"Fresno"}, got.TripDetails.Destinations)
	assert.True(t, refNow.Equal(got.LastUpdated))
}

func TestRedisStoreCorrupt(t *testing.T) {
	store, mr := newRedisStore(t)
	require.NoError(t, mr.Set("tripcache:user:1", "{oops"))

	_, err := store.Load(context.Background(), "1")
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestRedisStoreDeleteAllKeepsOtherKeys(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()
	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, store.Save(ctx, New(id, refNow)))
	}
	require.NoError(t, mr.Set("session:1", "keep"))

	require.NoError(t, store.Delete(ctx, "1"))
	assert.False(t, mr.Exists("tripcache:user:1"))

	require.NoError(t, store.DeleteAll(ctx))
	assert.False(t, mr.Exists("tripcache:user:2"))
	assert.False(t, mr.Exists("tripcache:user:3"))
	assert.True(t, mr.Exists("session:1"))
}

func TestManagerOverRedis(t *testing.T) {
	store, _ := newRedisStore(t)
	m := NewManager(store, logger.NewNopLogger()).WithClock(func() time.Time { return refNow })
	ctx := context.Background()

	in := Interaction{Steps: []any{ToolStep{ToolName: "apify_flight/flight-finder", ToolOutput: flightOutput}}}
	_, err := m.AppendInteraction(ctx, "u", "q", in)
	require.NoError(t, err)
	c, err := m.AppendInteraction(ctx, "u", "q", in)
	require.NoError(t, err)
	assert.Len(t, c.TripDetails.Flights, 2)
	assert.Len(t, c.Queries, 2)
}
