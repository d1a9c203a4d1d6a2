package client

import (
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

// State is the client side authentication state.
type State string

const (
	StateAnonymous     State = "anonymous"
	StateAuthenticated State = "authenticated"
)

// SessionGate derives the client's authentication state from the presence of
// a stored token. Presence is a hint, not proof: only the server verifies
// tokens, the gate just decides which requests carry a bearer header.
type SessionGate struct {
	mu      sync.Mutex
	store   *SessionStore
	state   State
	subject string
}

// NewSessionGate reads the store once so a token written by an earlier run
// starts the process in the authenticated state.
func NewSessionGate(store *SessionStore) (*SessionGate, error) {
	g := &SessionGate{store: store, state: StateAnonymous}
	if err := g.Refresh(); err != nil {
		return nil, err
	}
	return g, nil
}

// Refresh re-reads the store and recomputes the state from what is actually
// persisted, not from what this process remembers doing.
func (g *SessionGate) Refresh() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	token, ok, err := g.store.Get()
	if err != nil {
		return err
	}

	if !ok || token == "" {
		g.state = StateAnonymous
		g.subject = ""
		return nil
	}

	g.state = StateAuthenticated
	g.subject = subjectFromToken(token)
	return nil
}

// OnAuthenticated persists the fresh token and flips the gate.
func (g *SessionGate) OnAuthenticated(token string) error {
	if err := g.store.Set(token); err != nil {
		return err
	}
	return g.Refresh()
}

// OnRejected is invoked when the server refuses a previously accepted
// token. The stale token is dropped so the next run starts anonymous.
func (g *SessionGate) OnRejected() error {
	if err := g.store.Clear(); err != nil {
		return err
	}
	return g.Refresh()
}

// Logout clears the stored token. There is nothing to tell the server,
// tokens are stateless and simply age out.
func (g *SessionGate) Logout() error {
	return g.OnRejected()
}

func (g *SessionGate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Subject returns the display name carried by the stored token, empty when
// anonymous.
func (g *SessionGate) Subject() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.subject
}

// subjectFromToken pulls the sub claim for display only. The signature is
// deliberately not checked here, nothing security relevant hangs off it.
func subjectFromToken(raw string) string {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return ""
	}
	subject, err := claims.GetSubject()
	if err != nil {
		return ""
	}
	return subject
}
