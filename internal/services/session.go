package services

import (
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	applog "shopdemo/internal/log"
)

// Session is everything one browser session owns. Handlers get it from
// the SessionManager instead of reaching for globals.
type Session struct {
	ID     string
	Cart   *CartStore
	Auth   *AuthStore
	Orders *OrderHandoff

	processing atomic.Bool
	lastSeen   atomic.Int64 // unix nanos of the last Open
}

// SessionStore is the persisted side of sessions that the manager reaps.
type SessionStore interface {
	DeleteSession(sid string) error
	IdleSessions(before time.Time) ([]string, error)
}

type SessionManager struct {
	storage StorageFunc
	catalog *CatalogService
	auth    *Authenticator

	// Store, when set, has its data removed for sessions that end or
	// expire. Without it only the live sessions are dropped.
	Store SessionStore

	mu       sync.Mutex
	sessions map[string]*Session
	group    singleflight.Group
}

func NewSessionManager(storage StorageFunc, catalog *CatalogService, auth *Authenticator) *SessionManager {
	return &SessionManager{
		storage:  storage,
		catalog:  catalog,
		auth:     auth,
		sessions: map[string]*Session{},
	}
}

func (m *SessionManager) lookup(sid string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sid]
	return s, ok
}

// Open returns the live session for sid, hydrating it from storage the
// first time. Concurrent opens of one sid share a single hydration.
func (m *SessionManager) Open(sid string) *Session {
	s, ok := m.lookup(sid)
	if !ok {
		v, _, _ := m.group.Do(sid, func() (any, error) {
			if s, ok := m.lookup(sid); ok {
				return s, nil
			}
			st := m.storage(sid)
			s := &Session{
				ID:     sid,
				Cart:   NewCartStore(st, m.catalog),
				Auth:   NewAuthStore(st, m.auth),
				Orders: NewOrderHandoff(),
			}
			m.mu.Lock()
			m.sessions[sid] = s
			m.mu.Unlock()
			return s, nil
		})
		s = v.(*Session)
	}
	s.lastSeen.Store(time.Now().UnixNano())
	return s
}

// Close drops the live session. Its storage is kept, so a later Open
// hydrates the same cart and user again.
func (m *SessionManager) Close(sid string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sid)
}

// End drops the live session and its stored data.
func (m *SessionManager) End(sid string) {
	m.Close(sid)
	m.discard(sid)
}

func (m *SessionManager) discard(sid string) {
	if m.Store == nil {
		return
	}
	if err := m.Store.DeleteSession(sid); err != nil {
		applog.Warn("session.delete.fail", err, map[string]any{"sid": sid})
	}
}

// Sweep ends every session not opened since before, skipping any with a
// checkout in flight, and removes stored sessions idle since then that are
// not live. It returns how many sessions were ended.
func (m *SessionManager) Sweep(before time.Time) int {
	cut := before.UnixNano()
	ended := map[string]struct{}{}

	m.mu.Lock()
	for sid, s := range m.sessions {
		if s.lastSeen.Load() < cut && !s.processing.Load() {
			delete(m.sessions, sid)
			ended[sid] = struct{}{}
		}
	}
	m.mu.Unlock()

	if m.Store != nil {
		stale, err := m.Store.IdleSessions(before)
		if err != nil {
			applog.Warn("session.sweep.fail", err, nil)
		}
		for _, sid := range stale {
			if _, live := m.lookup(sid); !live {
				ended[sid] = struct{}{}
			}
		}
	}
	for sid := range ended {
		m.discard(sid)
	}
	return len(ended)
}

func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
