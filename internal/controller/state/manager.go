package state

import (
	"sync"
)

// Manager управляет состояниями пользователей поверх Store
type Manager struct {
	mu    sync.Mutex // сериализует чтение-изменение-запись сессии
	store Store
}

// NewManager создаёт новый менеджер состояний
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

func (sm *Manager) update(telegramID int64, fn func(*Session)) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, _ := sm.store.Get(telegramID)
	if session.Data == nil {
		session.Data = make(map[string]interface{})
	}
	fn(&session)
	sm.store.Put(telegramID, session)
}

// Session возвращает копию сессии пользователя
func (sm *Manager) Session(telegramID int64) Session {
	session, _ := sm.store.Get(telegramID)
	return session
}

// GetState получает текущее состояние пользователя
func (sm *Manager) GetState(telegramID int64) UserState {
	return sm.Session(telegramID).State
}

// SetState устанавливает состояние пользователя
func (sm *Manager) SetState(telegramID int64, state UserState) {
	sm.update(telegramID, func(s *Session) {
		s.State = state
	})
}

// GetData получает временные данные пользователя
func (sm *Manager) GetData(telegramID int64, key string) (interface{}, bool) {
	session := sm.Session(telegramID)
	value, ok := session.Data[key]
	return value, ok
}

// SetData устанавливает временные данные пользователя
func (sm *Manager) SetData(telegramID int64, key string, value interface{}) {
	sm.update(telegramID, func(s *Session) {
		s.Data[key] = value
	})
}

// DeleteData удаляет ключ из временных данных
func (sm *Manager) DeleteData(telegramID int64, key string) {
	sm.update(telegramID, func(s *Session) {
		delete(s.Data, key)
	})
}

// Advance записывает значение и переводит диалог в следующее состояние одним шагом
func (sm *Manager) Advance(telegramID int64, key string, value interface{}, next UserState) {
	sm.update(telegramID, func(s *Session) {
		s.Data[key] = value
		s.State = next
	})
}

// ClearState очищает состояние, данные и режим администратора
func (sm *Manager) ClearState(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.store.Clear(telegramID)
}

// ResetAdmin очищает диалог, сохраняя режим администратора
func (sm *Manager) ResetAdmin(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.store.Put(telegramID, Session{AdminMode: true})
}

// IsAdminMode проверяет флаг режима администратора
func (sm *Manager) IsAdminMode(telegramID int64) bool {
	return sm.Session(telegramID).AdminMode
}

// SetAdminMode включает или выключает режим администратора, не трогая диалог
func (sm *Manager) SetAdminMode(telegramID int64, enabled bool) {
	sm.update(telegramID, func(s *Session) {
		s.AdminMode = enabled
	})
}

// String возвращает строковое значение из данных диалога
func (sm *Manager) String(telegramID int64, key string) string {
	v, _ := sm.GetData(telegramID, key)
	s, _ := v.(string)
	return s
}

// Int64 возвращает числовое значение из данных диалога
func (sm *Manager) Int64(telegramID int64, key string) int64 {
	v, _ := sm.GetData(telegramID, key)
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	}
	return 0
}

// Bool возвращает флаг из данных диалога
func (sm *Manager) Bool(telegramID int64, key string) bool {
	v, _ := sm.GetData(telegramID, key)
	b, _ := v.(bool)
	return b
}
