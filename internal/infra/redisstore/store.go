package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"tour-checkout/internal/domain/checkout"
	"tour-checkout/internal/infra"
	"tour-checkout/internal/pkg/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Store keeps all per-session checkout state in Redis: the pending-payment
// slot, the orchestrator attempt and the submission lock.
type Store struct {
	client redis.UniversalClient
}

func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
}

func New(client redis.UniversalClient) *Store {
	return &Store{client: client}
}

// releaseScript deletes the lock only while it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Put overwrites the session's single slot.
func (s *Store) Put(ctx context.Context, sessionID string, data []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, slotKey(sessionID), data, ttl).Err(); err != nil {
		return infra.WrapRepoErr("failed to write pending slot", err, infra.KindUnavailable)
	}
	return nil
}

// Take reads and deletes the slot in one command.
func (s *Store) Take(ctx context.Context, sessionID string) ([]byte, bool, error) {
	data, err := s.client.GetDel(ctx, slotKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, infra.WrapRepoErr("failed to take pending slot", err, infra.KindUnavailable)
	}
	return data, true, nil
}

func (s *Store) GetAttempt(ctx context.Context, sessionID string) (*checkout.Attempt, error) {
	data, err := s.client.Get(ctx, attemptKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, infra.NewError(infra.KindNotFound, "attempt not found", nil)
		}
		return nil, infra.WrapRepoErr("failed to read attempt", err, infra.KindUnavailable)
	}

	var a checkout.Attempt
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, infra.WrapRepoErr("failed to decode attempt", err, infra.KindDBFailure)
	}
	return &a, nil
}

func (s *Store) SaveAttempt(ctx context.Context, a *checkout.Attempt, ttl time.Duration) error {
	data, err := json.Marshal(a)
	if err != nil {
		return infra.WrapRepoErr("failed to encode attempt", err, infra.KindDBFailure)
	}
	if err := s.client.Set(ctx, attemptKey(a.SessionID), data, ttl).Err(); err != nil {
		return infra.WrapRepoErr("failed to save attempt", err, infra.KindUnavailable)
	}
	return nil
}

func (s *Store) DeleteAttempt(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, attemptKey(sessionID)).Err(); err != nil {
		return infra.WrapRepoErr("failed to delete attempt", err, infra.KindUnavailable)
	}
	return nil
}

func (s *Store) Acquire(ctx context.Context, sessionID string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := s.client.SetNX(ctx, lockKey(sessionID), token, ttl).Result()
	if err != nil {
		return "", false, infra.WrapRepoErr("failed to acquire submission lock", err, infra.KindUnavailable)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

func (s *Store) Release(ctx context.Context, sessionID, token string) error {
	if err := releaseScript.Run(ctx, s.client, []string{lockKey(sessionID)}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return infra.WrapRepoErr("failed to release submission lock", err, infra.KindUnavailable)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}

func slotKey(sessionID string) string {
	return "checkout:pending:" + sessionID
}

func attemptKey(sessionID string) string {
	return "checkout:attempt:" + sessionID
}

func lockKey(sessionID string) string {
	return "checkout:lock:" + sessionID
}
