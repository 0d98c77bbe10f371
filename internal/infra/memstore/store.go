// Package memstore is the single-instance stand-in for redisstore, used when
// no Redis address is configured and in tests.
package memstore

import (
	"context"
	"sync"
	"time"

	"tour-checkout/internal/domain/checkout"
	"tour-checkout/internal/infra"
	"tour-checkout/internal/pkg/clock"

	"github.com/google/uuid"
)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

func (e entry[T]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

type Store struct {
	mu       sync.Mutex
	clock    clock.Clock
	slots    map[string]entry[[]byte]
	attempts map[string]entry[checkout.Attempt]
	locks    map[string]entry[string]
}

func New(clk clock.Clock) *Store {
	return &Store{
		clock:    clk,
		slots:    make(map[string]entry[[]byte]),
		attempts: make(map[string]entry[checkout.Attempt]),
		locks:    make(map[string]entry[string]),
	}
}

func (s *Store) Put(_ context.Context, sessionID string, data []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[sessionID] = entry[[]byte]{value: append([]byte(nil), data...), expiresAt: s.deadline(ttl)}
	return nil
}

func (s *Store) Take(_ context.Context, sessionID string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.slots[sessionID]
	delete(s.slots, sessionID)
	if !ok || e.expired(s.clock.Now()) {
		return nil, false, nil
	}
	return e.value, true, nil
}

func (s *Store) GetAttempt(_ context.Context, sessionID string) (*checkout.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.attempts[sessionID]
	if !ok || e.expired(s.clock.Now()) {
		delete(s.attempts, sessionID)
		return nil, infra.NewError(infra.KindNotFound, "attempt not found", nil)
	}
	a := e.value
	return &a, nil
}

func (s *Store) SaveAttempt(_ context.Context, a *checkout.Attempt, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[a.SessionID] = entry[checkout.Attempt]{value: *a, expiresAt: s.deadline(ttl)}
	return nil
}

func (s *Store) DeleteAttempt(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attempts, sessionID)
	return nil
}

func (s *Store) Acquire(_ context.Context, sessionID string, ttl time.Duration) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.locks[sessionID]; ok && !e.expired(s.clock.Now()) {
		return "", false, nil
	}
	token := uuid.NewString()
	s.locks[sessionID] = entry[string]{value: token, expiresAt: s.deadline(ttl)}
	return token, true, nil
}

func (s *Store) Release(_ context.Context, sessionID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.locks[sessionID]; ok && e.value == token {
		delete(s.locks, sessionID)
	}
	return nil
}

func (s *Store) deadline(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return s.clock.Now().Add(ttl)
}
