// Package session holds the authenticated-caller state for one storefront
// session. It is an explicit object handed to whatever needs authenticated
// calls; nothing in this module reads auth state from globals.
package session

import (
	"strings"
	"sync"

	"github.com/kmoo25z/ameriduka/pkg/enums"
)

// User is the identity attached to the current session.
type User struct {
	ID            string
	Email         string
	Name          string
	Phone         string
	Role          enums.UserRole
	LoyaltyPoints int
}

// Session carries the bearer token and, once known, the user behind it.
// The zero value is an anonymous session.
type Session struct {
	mu    sync.RWMutex
	token string
	user  *User
}

func New() *Session {
	return &Session{}
}

// Resume installs a previously issued token without knowing the user yet;
// the identity can be backfilled from /auth/me via SetUser.
func (s *Session) Resume(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = strings.TrimSpace(token)
	s.user = nil
}

// Begin starts an authenticated session from a login or registration result.
func (s *Session) Begin(token string, user User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = strings.TrimSpace(token)
	s.user = &user
}

// End drops the token and identity, returning to anonymous.
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a bearer token is present. Expiry is the
// server's call; a stale token simply fails with UNAUTHORIZED on use.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// User returns the session identity when it has been established.
func (s *Session) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// SetUser backfills the identity for a resumed token.
func (s *Session) SetUser(user User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return
	}
	s.user = &user
}
