// Package session holds the explicit authentication state of one user.
package session

import (
	"sync"

	"moneyguard/internal/models"
)

// Session carries the bearer token and the signed-in user. It replaces any
// process-wide token: every Operation receives the Session it acts for.
type Session struct {
	mu         sync.RWMutex
	token      string
	user       *models.User
	generation uint64
	onLogout   []func()
}

// New returns an unauthenticated session.
func New() *Session {
	return &Session{}
}

// Token returns the bearer token, or "" when there is none.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the signed-in user, or nil.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsAuthenticated reports whether the session holds a token.
func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

// Generation increases on every Authenticate. Callers use it to fire
// one-off work (the initial List) once per sign-in.
func (s *Session) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Authenticate stores the token and user of a successful sign-in or sign-up.
func (s *Session) Authenticate(token string, user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = &user
	s.generation++
}

// SetUser replaces the cached user, e.g. after a balance refresh.
func (s *Session) SetUser(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
}

// Expire drops the token and user after the server rejected the token.
// Logout listeners are not run.
func (s *Session) Expire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
}

// Logout clears the session and runs the logout listeners in registration order.
func (s *Session) Logout() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	listeners := append([]func(){}, s.onLogout...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// OnLogout registers fn to run after every Logout.
func (s *Session) OnLogout(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onLogout = append(s.onLogout, fn)
}
