package tripcache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"trip-assistant-be/internal/pkg/logger"
)

// Manager records interactions into per-user TripCache documents. Writes for
// one user are serialized; different users never contend.
type Manager struct {
	store  Store
	logger logger.ILogger
	now    func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewManager(store Store, log logger.ILogger) *Manager {
	return &Manager{
		store:  store,
		logger: log,
		now:    time.Now,
		locks:  make(map[string]*sync.Mutex),
	}
}

// WithClock replaces the time source
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

func (m *Manager) userLock(userID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[userID] = l
	}
	return l
}

// AppendInteraction merges the facts found in the interaction's tool steps
// and appends one query entry. A failing extractor, an unrecognized step or
// an unreadable stored document never prevents the query entry from being
// written.
func (m *Manager) AppendInteraction(ctx context.Context, userID, query string, in Interaction) (*TripCache, error) {
	l := m.userLock(userID)
	l.Lock()
	defer l.Unlock()

	now := m.now()
	cache, err := m.store.Load(ctx, userID)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("load trip cache for %s: %w", userID, err)
		}
		// any other load failure starts the user over with an empty document
		m.logger.Warn("TRIPCACHE", "Discarding unreadable trip cache", map[string]interface{}{"user_id": userID, "error": err.Error()})
		cache = nil
	}
	if cache == nil {
		cache = New(userID, now)
	}
	cache.normalize()

	calls := make([]ToolCall, 0, len(in.Steps))
	for i, raw := range in.Steps {
		step, ok := normalizeStep(raw)
		if !ok {
			m.logger.Warn("TRIPCACHE", "Skipping unrecognized tool step", map[string]interface{}{
				"user_id": userID,
				"index":   i,
				"type":    fmt.Sprintf("%T", raw),
			})
			continue
		}
		calls = append(calls, ToolCall{Tool: step.ToolName, Input: step.ToolInput, Output: step.ToolOutput, Status: step.Status})
		m.apply(cache, query, step, now)
	}

	cache.Queries = append(cache.Queries, QueryRecord{
		ID:        uuid.NewString(),
		Timestamp: now,
		Query:     query,
		Response:  in.Response,
		ToolCalls: calls,
	})
	cache.LastUpdated = now

	if err := m.store.Save(ctx, cache); err != nil {
		return nil, fmt.Errorf("save trip cache for %s: %w", cache.UserID, err)
	}
	m.logger.Debug("TRIPCACHE", "Updated trip cache", map[string]interface{}{"user_id": userID, "queries": len(cache.Queries)})
	return cache, nil
}

// apply runs the extractor for one step, isolating its failures
func (m *Manager) apply(cache *TripCache, query string, step ToolStep, now time.Time) {
	name, fn := extractorFor(step.ToolName)
	if fn == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			m.logger.Error("TRIPCACHE", "Extractor panicked", map[string]interface{}{"extractor": name, "tool": step.ToolName, "error": fmt.Sprint(rec)})
		}
	}()
	if err := fn(cache, query, step, now); err != nil {
		m.logger.Warn("TRIPCACHE", "Extractor failed", map[string]interface{}{"extractor": name, "tool": step.ToolName, "error": err.Error()})
	}
}

// Read returns the user's document, or nil when there is none or it cannot
// be decoded
func (m *Manager) Read(ctx context.Context, userID string) (*TripCache, error) {
	cache, err := m.store.Load(ctx, userID)
	if err != nil {
		if isCorrupt(err) {
			m.logger.Warn("TRIPCACHE", "Treating unreadable trip cache as absent", map[string]interface{}{"user_id": userID, "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	if cache != nil {
		cache.normalize()
	}
	return cache, nil
}

// Clear removes one user's document
func (m *Manager) Clear(ctx context.Context, userID string) error {
	l := m.userLock(userID)
	l.Lock()
	defer l.Unlock()
	if err := m.store.Delete(ctx, userID); err != nil {
		return fmt.Errorf("clear trip cache for %s: %w", userID, err)
	}
	m.logger.Info("TRIPCACHE", "Cleared trip cache", map[string]interface{}{"user_id": userID})
	return nil
}

// ClearAll removes every document
func (m *Manager) ClearAll(ctx context.Context) error {
	if err := m.store.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear all trip caches: %w", err)
	}
	m.logger.Info("TRIPCACHE", "Cleared all trip caches", nil)
	return nil
}
