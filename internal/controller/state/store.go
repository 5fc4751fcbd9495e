package state

import (
	"strconv"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// Store хранилище сессий. Реализации безопасны для конкурентного использования
// и не отдают наружу свои внутренние карты.
type Store interface {
	Get(telegramID int64) (Session, bool)
	Put(telegramID int64, session Session)
	Clear(telegramID int64)
}

// MemoryStore хранит сессии в памяти процесса без ограничения времени жизни
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]Session)}
}

func (s *MemoryStore) Get(telegramID int64) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[telegramID]
	if !ok {
		return Session{}, false
	}
	return session.Clone(), true
}

func (s *MemoryStore) Put(telegramID int64, session Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session.IsEmpty() {
		delete(s.sessions, telegramID)
		return
	}
	s.sessions[telegramID] = session.Clone()
}

func (s *MemoryStore) Clear(telegramID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, telegramID)
}

// CacheStore хранит сессии в go-cache; брошенный диалог исчезает через ttl
type CacheStore struct {
	cache *cache.Cache
	ttl   time.Duration
}

func NewCacheStore(ttl time.Duration) *CacheStore {
	return &CacheStore{
		cache: cache.New(ttl, ttl/2),
		ttl:   ttl,
	}
}

func cacheKey(telegramID int64) string {
	return strconv.FormatInt(telegramID, 10)
}

func (s *CacheStore) Get(telegramID int64) (Session, bool) {
	v, ok := s.cache.Get(cacheKey(telegramID))
	if !ok {
		return Session{}, false
	}
	session, ok := v.(Session)
	if !ok {
		return Session{}, false
	}
	return session.Clone(), true
}

func (s *CacheStore) Put(telegramID int64, session Session) {
	if session.IsEmpty() {
		s.cache.Delete(cacheKey(telegramID))
		return
	}
	s.cache.Set(cacheKey(telegramID), session.Clone(), s.ttl)
}

func (s *CacheStore) Clear(telegramID int64) {
	s.cache.Delete(cacheKey(telegramID))
}
