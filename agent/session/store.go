// Package session implements the Session Store component (C4): a
// process-local, in-memory store of per-session rolling Turn windows and
// metadata, with per-session locking, TTL eviction, and an LRU soft cap.
// It follows the same "Store interface + swappable backend" idiom used
// for persistence elsewhere in this codebase, but the concrete
// implementation here is in-process only — there is no distributed
// session store.
package session

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/LightnXd/Zus-Chatbot-Backend/agent/domain"
)

// Config tunes the window length, TTL, and soft cap. A Window of 0 (or
// less) keeps no turns, so sessions are stateless; zero TTL and SoftCap fall
// back to T=60 minutes and cap=10000.
type Config struct {
	Window  int
	TTL     time.Duration
	SoftCap int
}

func (c Config) withDefaults() Config {
	if c.Window < 0 {
		c.Window = 0
	}
	if c.TTL <= 0 {
		c.TTL = 60 * time.Minute
	}
	if c.SoftCap <= 0 {
		c.SoftCap = 10000
	}
	return c
}

type entry struct {
	mu      sync.Mutex
	session domain.Session
	lruElem *list.Element
}

// Store is the concrete, process-local domain.SessionStore implementation.
type Store struct {
	cfg Config

	mapMu   sync.RWMutex
	entries map[string]*entry
	lru     *list.List // front = most recently used, back = least recently used
}

var _ domain.SessionStore = (*Store)(nil)

func New(cfg Config) *Store {
	return &Store{
		cfg:     cfg.withDefaults(),
		entries: make(map[string]*entry),
		lru:     list.New(),
	}
}

// GetOrCreate returns the session for sessionID, creating it on first
// reference.
func (s *Store) GetOrCreate(ctx context.Context, sessionID string) (*domain.Session, error) {
	now := time.Now()

	s.mapMu.Lock()
	e, ok := s.entries[sessionID]
	if !ok {
		e = &entry{session: domain.Session{
			ID:           sessionID,
			Metadata:     make(map[string]string, 4),
			CreatedAt:    now,
			LastActivity: now,
		}}
		e.lruElem = s.lru.PushFront(sessionID)
		s.entries[sessionID] = e
		s.evictOverCapLocked()
	} else {
		s.lru.MoveToFront(e.lruElem)
	}
	s.mapMu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.LastActivity = now
	snapshot := cloneSession(e.session)
	return &snapshot, nil
}

// AppendTurn appends a Turn to the session, trimming from the head until
// the window length W is respected.
func (s *Store) AppendTurn(ctx context.Context, sessionID string, turn domain.Turn) error {
	e, err := s.lookup(sessionID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.session.Turns = append(e.session.Turns, turn)
	if over := len(e.session.Turns) - s.cfg.Window; over > 0 {
		e.session.Turns = e.session.Turns[over:]
	}
	e.session.LastActivity = time.Now()

	s.touchLRU(sessionID, e)
	return nil
}

// Snapshot returns a read-only copy of the session state.
func (s *Store) Snapshot(ctx context.Context, sessionID string) (domain.Session, error) {
	e, err := s.lookup(sessionID)
	if err != nil {
		return domain.Session{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneSession(e.session), nil
}

// UpdateMetadata overwrites a single metadata key atomically.
func (s *Store) UpdateMetadata(ctx context.Context, sessionID, key, value string) error {
	e, err := s.lookup(sessionID)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session.Metadata == nil {
		e.session.Metadata = make(map[string]string, 4)
	}
	e.session.Metadata[key] = value
	return nil
}

// EvictExpired drops sessions idle for longer than the configured TTL,
// relative to now. Returns the number of sessions evicted.
func (s *Store) EvictExpired(now time.Time) int {
	s.mapMu.Lock()
	defer s.mapMu.Unlock()

	evicted := 0
	for id, e := range s.entries {
		e.mu.Lock()
		idle := now.Sub(e.session.LastActivity)
		e.mu.Unlock()
		if idle > s.cfg.TTL {
			s.lru.Remove(e.lruElem)
			delete(s.entries, id)
			evicted++
		}
	}
	return evicted
}

// Len returns the current number of tracked sessions.
func (s *Store) Len() int {
	s.mapMu.RLock()
	defer s.mapMu.RUnlock()
	return len(s.entries)
}

func (s *Store) lookup(sessionID string) (*entry, error) {
	s.mapMu.RLock()
	e, ok := s.entries[sessionID]
	s.mapMu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return e, nil
}

func (s *Store) touchLRU(sessionID string, e *entry) {
	s.mapMu.Lock()
	defer s.mapMu.Unlock()
	if e.lruElem != nil {
		s.lru.MoveToFront(e.lruElem)
	}
}

// evictOverCapLocked drops the least-recently-used session when the store
// exceeds the soft cap. Caller must hold mapMu.
func (s *Store) evictOverCapLocked() {
	for len(s.entries) > s.cfg.SoftCap {
		back := s.lru.Back()
		if back == nil {
			return
		}
		id := back.Value.(string)
		s.lru.Remove(back)
		delete(s.entries, id)
	}
}

func cloneSession(src domain.Session) domain.Session {
	out := domain.Session{
		ID:           src.ID,
		CreatedAt:    src.CreatedAt,
		LastActivity: src.LastActivity,
	}
	if src.Turns != nil {
		out.Turns = append([]domain.Turn(nil), src.Turns...)
	}
	if src.Metadata != nil {
		out.Metadata = make(map[string]string, len(src.Metadata))
		for k, v := range src.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

// StartEvictionLoop runs EvictExpired on an interval until ctx is
// cancelled. The session store itself never schedules this — the caller
// (the service wiring in main) owns the background ticker rather than a
// goroutine hidden inside a constructor.
func StartEvictionLoop(ctx context.Context, store *Store, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			store.EvictExpired(t)
		}
	}
}
