package repos

import (
	"sort"
	"sync"
	"time"
)

// MemoryStorage keeps session key/value data in process memory. Data is lost
// on restart.
type MemoryStorage struct {
	mu    sync.Mutex
	items map[string]map[string]string
	seen  map[string]time.Time
	now   func() time.Time
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		items: map[string]map[string]string{},
		seen:  map[string]time.Time{},
		now:   time.Now,
	}
}

func (m *MemoryStorage) For(sid string) *MemorySession {
	return &MemorySession{m: m, sid: sid}
}

// DeleteSession drops every key of sid.
func (m *MemoryStorage) DeleteSession(sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, sid)
	delete(m.seen, sid)
	return nil
}

// IdleSessions lists sessions last written before the given time.
func (m *MemoryStorage) IdleSessions(before time.Time) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for sid, at := range m.seen {
		if at.Before(before) {
			ids = append(ids, sid)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

type MemorySession struct {
	m   *MemoryStorage
	sid string
}

func (s *MemorySession) GetItem(key string) (string, bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	v, ok := s.m.items[s.sid][key]
	return v, ok, nil
}

func (s *MemorySession) SetItem(key, value string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	kv := s.m.items[s.sid]
	if kv == nil {
		kv = map[string]string{}
		s.m.items[s.sid] = kv
	}
	kv[key] = value
	s.m.seen[s.sid] = s.m.now()
	return nil
}

func (s *MemorySession) RemoveItem(key string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	delete(s.m.items[s.sid], key)
	return nil
}
