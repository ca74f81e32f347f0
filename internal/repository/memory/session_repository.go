package memory

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"trip-assistant-be/pkg/llm"
)

const (
	DefaultHistoryRetained = 20
	DefaultHistorySent     = 6
	DefaultSessionTTL      = time.Hour
)

// Session is the in-memory conversation state of one user
type Session struct {
	UserID      string            `json:"user_id"`
	ChatHistory []llm.Message     `json:"chat_history"`
	TripInfo    map[string]string `json:"trip_info"`
	LastSeen    time.Time         `json:"last_seen"`

	retain int
}

// Append adds a message and drops the oldest beyond the retention limit
func (s *Session) Append(role, content string) {
	s.ChatHistory = append(s.ChatHistory, llm.Message{Role: role, Content: content})
	if s.retain > 0 && len(s.ChatHistory) > s.retain {
		s.ChatHistory = append([]llm.Message(nil), s.ChatHistory[len(s.ChatHistory)-s.retain:]...)
	}
}

// Recent returns a copy of the last n messages
func (s *Session) Recent(n int) []llm.Message {
	h := s.ChatHistory
	if n > 0 && len(h) > n {
		h = h[len(h)-n:]
	}
	return append([]llm.Message(nil), h...)
}

// ISessionRepository is the session store the assistant depends on
type ISessionRepository interface {
	GetOrCreate(userID string) *Session
	Get(userID string) (*Session, bool)
	Save(session *Session)
	Delete(userID string)
}

type SessionOption func(*SessionRepository)

// WithRetention sets how many history messages a session keeps
func WithRetention(n int) SessionOption {
	return func(r *SessionRepository) { r.retain = n }
}

type SessionRepository struct {
	cache  *cache.Cache
	retain int
	mu     sync.Mutex
}

// NewSessionRepository evicts sessions idle for ttl; purges run every ttl/6
func NewSessionRepository(ttl time.Duration, opts ...SessionOption) *SessionRepository {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	r := &SessionRepository{
		cache:  cache.New(ttl, ttl/6),
		retain: DefaultHistoryRetained,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *SessionRepository) GetOrCreate(userID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.get(userID); ok {
		return s
	}
	s := &Session{UserID: userID, ChatHistory: []llm.Message{}, TripInfo: map[string]string{}, retain: r.retain}
	r.cache.Set(userID, s, cache.DefaultExpiration)
	return s
}

func (r *SessionRepository) Get(userID string) (*Session, bool) {
	return r.get(userID)
}

func (r *SessionRepository) get(userID string) (*Session, bool) {
	if x, found := r.cache.Get(userID); found {
		return x.(*Session), true
	}
	return nil, false
}

// Save stores the session and restarts its TTL
func (r *SessionRepository) Save(session *Session) {
	session.retain = r.retain
	session.LastSeen = time.Now()
	r.cache.Set(session.UserID, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Delete(userID string) {
	r.cache.Delete(userID)
}
