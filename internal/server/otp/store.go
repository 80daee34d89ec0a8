// Package otp keeps short-lived one-time codes in memory. Codes are keyed by
// purpose and email, expire after a TTL and are consumed on first successful
// verification.
package otp

import (
	"sync"
	"time"

	"dropwatch/internal/common"
)

// Purposes a code can be issued for. Codes issued for one purpose never
// verify for another.
const (
	PurposeLogin = "login"
	PurposeReset = "reset"
)

type entry struct {
	code      string
	expiresAt time.Time
}

type Store struct {
	mu       sync.Mutex
	codes    map[string]entry
	validity time.Duration
	now      func() time.Time
}

func NewStore(validity time.Duration) *Store {
	return &Store{
		codes:    make(map[string]entry),
		validity: validity,
		now:      time.Now,
	}
}

func key(purpose, email string) string {
	return purpose + ":" + email
}

// Issue records code for the given purpose and email, replacing any earlier
// code for the same pair.
func (s *Store) Issue(purpose, email, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[key(purpose, email)] = entry{code: code, expiresAt: s.now().Add(s.validity)}
}

// Verify checks candidate against the stored code. A successful verification
// consumes the code; a mismatch leaves it in place so the user may retry
// until it expires.
func (s *Store) Verify(purpose, email, candidate string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(purpose, email)
	e, ok := s.codes[k]
	if !ok {
		return common.ErrCodeNotIssued
	}
	if s.now().After(e.expiresAt) {
		delete(s.codes, k)
		return common.ErrCodeExpired
	}
	if e.code != candidate {
		return common.ErrCodeMismatch
	}

	delete(s.codes, k)
	return nil
}
