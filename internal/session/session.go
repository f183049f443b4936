// Package session holds the in-memory auth state of a running app instance.
// The token is never persisted; a restart means logging in again, and the
// background worker can only obtain it through the credential relay.
package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session stores the current user's access token and display name.
// Safe for concurrent use.
type Session struct {
	mu       sync.RWMutex
	token    string
	userName string

	// now is a test seam for expiry checks.
	now func() time.Time
}

func New() *Session {
	return &Session{now: time.Now}
}

// SetToken stores the credential obtained from a successful login.
func (s *Session) SetToken(token, userName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.userName = userName
}

// Clear wipes the session (logout).
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.userName = ""
}

// UserName returns the logged-in user's display name, or "".
func (s *Session) UserName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userName
}

// Token returns the current access token. It reports false when no one is
// logged in or the token's exp claim has already passed; replaying queued
// submissions with a stale credential would only burn a sync run on 401s.
func (s *Session) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.token == "" {
		return "", false
	}
	if expired(s.token, s.now()) {
		return "", false
	}
	return s.token, true
}

// LoggedIn reports whether a usable credential is present.
func (s *Session) LoggedIn() bool {
	_, ok := s.Token()
	return ok
}

// expired inspects the token's exp claim without verifying the signature;
// verification is the server's job, the client only avoids sending a token
// it knows is stale. Unparseable tokens and tokens without exp are assumed
// live and left for the server to judge.
func expired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
