package services

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"alfredoptarigan/ai-interviewer/internal/models"
)

// SessionStore is the in-process table of running interviews. Sessions idle
// for longer than the TTL are evicted by a background sweeper.
type SessionStore interface {
	Put(session *models.InterviewSession)
	// Acquire locks the session for exclusive use. The caller must call
	// release when done; ok is false for unknown or evicted ids.
	Acquire(id string) (session *models.InterviewSession, release func(), ok bool)
	Delete(id string)
	Len() int
	Sweep() int
	Start(ctx context.Context)
	Stop()
}

type sessionEntry struct {
	mu           sync.Mutex
	session      *models.InterviewSession
	lastActivity atomic.Int64
	evicted      atomic.Bool
}

func (e *sessionEntry) touch(now time.Time) {
	e.lastActivity.Store(now.UnixNano())
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry

	ttl           time.Duration
	sweepInterval time.Duration
	now           func() time.Time

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

func NewSessionStore(ttl, sweepInterval time.Duration, now func() time.Time) SessionStore {
	if now == nil {
		now = time.Now
	}
	return &sessionStore{
		sessions:      make(map[string]*sessionEntry),
		ttl:           ttl,
		sweepInterval: sweepInterval,
		now:           now,
		stopChan:      make(chan struct{}),
	}
}

// Put implements SessionStore.
func (s *sessionStore) Put(session *models.InterviewSession) {
	entry := &sessionEntry{session: session}
	entry.touch(s.now())

	s.mu.Lock()
	s.sessions[session.ID] = entry
	s.mu.Unlock()
}

// Acquire implements SessionStore.
func (s *sessionStore) Acquire(id string) (*models.InterviewSession, func(), bool) {
	s.mu.Lock()
	entry, ok := s.sessions[id]
	if ok {
		entry.touch(s.now())
	}
	s.mu.Unlock()
	if !ok {
		return nil, nil, false
	}

	entry.mu.Lock()
	if entry.evicted.Load() {
		entry.mu.Unlock()
		return nil, nil, false
	}

	release := func() {
		entry.touch(s.now())
		entry.mu.Unlock()
	}
	return entry.session, release, true
}

// Delete implements SessionStore.
func (s *sessionStore) Delete(id string) {
	s.mu.Lock()
	if entry, ok := s.sessions[id]; ok {
		entry.evicted.Store(true)
		delete(s.sessions, id)
	}
	s.mu.Unlock()
}

// Len implements SessionStore.
func (s *sessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep implements SessionStore. It returns the number of evicted sessions.
func (s *sessionStore) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl).UnixNano()

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, entry := range s.sessions {
		if entry.lastActivity.Load() < cutoff {
			entry.evicted.Store(true)
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Start implements SessionStore.
func (s *sessionStore) Start(ctx context.Context) {
	if s.sweepInterval <= 0 || s.ttl <= 0 {
		log.Println("⚠️  Session sweeper disabled")
		return
	}

	s.wg.Add(1)
	go s.sweepLoop(ctx)

	log.Printf("✅ Session sweeper started (ttl %s, every %s)\n", s.ttl, s.sweepInterval)
}

// Stop implements SessionStore.
func (s *sessionStore) Stop() {
	s.stopOnce.Do(func() {
		log.Println("🛑 Stopping session sweeper...")
		close(s.stopChan)
		s.wg.Wait()
		log.Println("✅ Session sweeper stopped")
	})
}

func (s *sessionStore) sweepLoop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				log.Printf("🧹 Evicted %d idle interview sessions (%d active)\n", n, s.Len())
			}
		}
	}
}
