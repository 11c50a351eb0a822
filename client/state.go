package client

import "sync"

// AppState is the explicit application-state object owned by one browsing
// session: the table binding, the cart and the event socket. It is created at
// session start and torn down when the session ends.
type AppState struct {
	mu          sync.RWMutex
	tableNumber int // 0 means unbound
	sessionKey  string

	Cart   *Cart
	Socket *Socket
}

func NewAppState() *AppState {
	return &AppState{
		Cart: NewCart(),
	}
}

func (s *AppState) SetTable(number int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tableNumber = number
}

// Table returns the bound table number, 0 when unbound.
func (s *AppState) Table() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tableNumber
}

func (s *AppState) ClearTable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tableNumber = 0
}

func (s *AppState) SetSessionKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionKey = key
}

func (s *AppState) SessionKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionKey
}
