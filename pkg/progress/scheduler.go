package progress

import (
	"sync"
	"time"
)

// Scheduler runs at most one delayed task per key. Scheduling again for the
// same key cancels the pending task.
type Scheduler struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
	seq    map[string]uint64
}

func NewScheduler() *Scheduler {
	return &Scheduler{timers: map[string]*time.Timer{}, seq: map[string]uint64{}}
}

func (s *Scheduler) Schedule(key string, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[key]; ok {
		t.Stop()
	}
	s.seq[key]++
	id := s.seq[key]
	s.timers[key] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		current := s.seq[key] == id
		if current {
			delete(s.timers, key)
		}
		s.mu.Unlock()
		if current {
			fn()
		}
	})
}

// Cancel stops the pending task for key and reports whether one was pending
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.timers[key]
	if !ok {
		return false
	}
	t.Stop()
	delete(s.timers, key)
	s.seq[key]++
	return true
}

// Pending reports how many tasks are waiting to run
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels every pending task
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, t := range s.timers {
		t.Stop()
		s.seq[key]++
	}
	s.timers = map[string]*time.Timer{}
}
