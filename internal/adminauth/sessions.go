package adminauth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sessions tracks issued admin tokens in memory. Tokens do not survive a
// restart, like a browser session flag.
type Sessions struct {
	mu     sync.Mutex
	tokens map[string]time.Time
	ttl    time.Duration
	now    func() time.Time
}

func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{
		tokens: make(map[string]time.Time),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue creates a token valid for the session TTL.
func (s *Sessions) Issue() (token string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked()

	token = uuid.NewString()
	expiresAt = s.now().Add(s.ttl)
	s.tokens[token] = expiresAt
	return token, expiresAt
}

// Valid reports whether token was issued and has not expired or been revoked.
func (s *Sessions) Valid(token string) bool {
	if token == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.tokens[token]
	if !ok {
		return false
	}
	if !s.now().Before(exp) {
		delete(s.tokens, token)
		return false
	}
	return true
}

func (s *Sessions) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// RevokeAll ends every session, e.g. after a password change.
func (s *Sessions) RevokeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = make(map[string]time.Time)
}

func (s *Sessions) pruneLocked() {
	now := s.now()
	for t, exp := range s.tokens {
		if !now.Before(exp) {
			delete(s.tokens, t)
		}
	}
}
