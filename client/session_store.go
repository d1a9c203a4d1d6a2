package client

import "sync"

// sessionTokenKey is the storage key the session token lives under.
const sessionTokenKey = "session_token"

// SessionStore holds the session token without interpreting it. The server
// is the only party that decides whether the token is still good, the store
// just keeps whatever it was handed until told otherwise.
type SessionStore struct {
	mu      sync.Mutex
	storage Storage
}

func NewSessionStore(storage Storage) *SessionStore {
	return &SessionStore{storage: storage}
}

// Get returns the stored token and whether one exists.
func (s *SessionStore) Get() (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storage.ReadString(sessionTokenKey)
}

// Set replaces any previously stored token.
func (s *SessionStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storage.WriteString(sessionTokenKey, token)
}

// Clear drops the token. Clearing an empty store is a no-op.
func (s *SessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storage.RemoveKey(sessionTokenKey)
}
