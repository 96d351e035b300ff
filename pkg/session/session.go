// Package session manages live pattern editing sessions.
//
// Every client of the HTTP API edits its own [pattern.Pattern]. A [Manager]
// maps session IDs to patterns and drops sessions that have been idle for
// longer than its TTL. Edits on one session are serialized by [Session.Do],
// so a request always runs its edit to completion before the next one
// starts, while different sessions proceed in parallel.
//
// # Usage
//
//	m := session.NewManager(func() *pattern.Pattern { return pattern.New() }, session.DefaultTTL)
//	go m.Run(ctx, time.Minute)
//
//	sess, err := m.GetOrCreate(id)
//	err = sess.Do(func(p *pattern.Pattern) error {
//	    _, err := p.AppendStitches(ctx, stitch.Chain, 10)
//	    return err
//	})
//
// [FileStore] saves the edit history of a pattern to disk so the terminal
// editor can resume it later.
package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/deiva0304/BUDS-Crochet/pkg/errors"
	"github.com/deiva0304/BUDS-Crochet/pkg/pattern"
)

const (
	// DefaultTTL is how long an idle session is kept.
	DefaultTTL = 2 * time.Hour

	// DefaultID is the session used by clients that do not name one.
	DefaultID = "default"

	// DefaultMaxSessions bounds the live sessions of a manager.
	DefaultMaxSessions = 1000
)

// Session is one editing session and its pattern.
type Session struct {
	id      string
	created time.Time
	now     func() time.Time

	// lastUsed is kept outside mu so expiry checks never wait on an edit.
	lastUsed atomic.Int64

	mu      sync.Mutex // serializes edits
	pattern *pattern.Pattern
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// CreatedAt returns when the session was started.
func (s *Session) CreatedAt() time.Time { return s.created }

// Do runs fn with exclusive access to the session's pattern.
func (s *Session) Do(fn func(p *pattern.Pattern) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return fn(s.pattern)
}

// LastUsed returns when the session was last edited.
func (s *Session) LastUsed() time.Time { return time.Unix(0, s.lastUsed.Load()) }

func (s *Session) touch() { s.lastUsed.Store(s.now().UnixNano()) }

// Manager owns the live sessions.
type Manager struct {
	newPattern func() *pattern.Pattern
	ttl        time.Duration
	max        int
	now        func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithMaxSessions caps the number of live sessions. Values below 1 keep
// [DefaultMaxSessions].
func WithMaxSessions(n int) ManagerOption {
	return func(m *Manager) {
		if n > 0 {
			m.max = n
		}
	}
}

// NewManager creates a manager whose sessions start with a pattern from
// newPattern. A ttl of zero or less uses [DefaultTTL].
func NewManager(newPattern func() *pattern.Pattern, ttl time.Duration, opts ...ManagerOption) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Manager{
		newPattern: newPattern,
		ttl:        ttl,
		max:        DefaultMaxSessions,
		now:        time.Now,
		sessions:   make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create starts a session with a fresh random ID. It fails with
// SESSION_LIMIT when the manager is full.
func (m *Manager) Create() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.create(uuid.NewString())
}

// Get returns a live session or fails with SESSION_NOT_FOUND. Sessions idle
// for longer than the TTL are treated as gone.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || m.expired(s) {
		delete(m.sessions, id)
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id)
	}
	return s, nil
}

// GetOrCreate returns the session with the given ID, starting it if needed.
// Starting a session fails with SESSION_LIMIT when the manager is full.
func (m *Manager) GetOrCreate(id string) (*Session, error) {
	if err := errors.ValidateSessionID(id); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok && !m.expired(s) {
		return s, nil
	}
	delete(m.sessions, id)
	return m.create(id)
}

// Delete ends a session. Deleting an unknown session is not an error.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len returns the number of sessions, expired ones included until the next
// cleanup.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Cleanup removes expired sessions and returns how many were removed.
func (m *Manager) Cleanup() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sweep()
}

func (m *Manager) sweep() int {
	n := 0
	for id, s := range m.sessions {
		if m.expired(s) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Run calls Cleanup every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.Cleanup()
		}
	}
}

// create must be called with mu held. Expired sessions are swept before a
// full manager turns the request away.
func (m *Manager) create(id string) (*Session, error) {
	if len(m.sessions) >= m.max {
		m.sweep()
		if len(m.sessions) >= m.max {
			return nil, errors.New(errors.ErrCodeSessionLimit, "too many active sessions (limit %d)", m.max)
		}
	}
	s := &Session{
		id:      id,
		created: m.now(),
		now:     m.now,
		pattern: m.newPattern(),
	}
	s.touch()
	m.sessions[id] = s
	return s, nil
}

func (m *Manager) expired(s *Session) bool {
	return m.now().Sub(s.LastUsed()) > m.ttl
}
