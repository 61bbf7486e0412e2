package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"

	appErrors "github.com/samir-akhundov/expense-tracker/apperrors"
	"github.com/samir-akhundov/expense-tracker/internal/contextutil"
	"github.com/samir-akhundov/expense-tracker/logging"
)

const (
	tokenKeyPrefix   = "session:"
	accountKeyPrefix = "account_sessions:"
)

// RedisStore keeps one TTL-bound key per token plus a per-account set of
// live tokens so a whole account can be logged out at once.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func newToken() (string, error) {
	tokenByte := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, tokenByte); err != nil {
		return "", fmt.Errorf("failed to generate new session token: %w", err)
	}
	return hex.EncodeToString(tokenByte), nil
}

func (s *RedisStore) Create(ctx context.Context, accountID string) (string, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	token, err := newToken()
	if err != nil {
		return "", err
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, tokenKeyPrefix+token, accountID, s.ttl)
	pipe.SAdd(ctx, accountKeyPrefix+accountID, token)
	pipe.Expire(ctx, accountKeyPrefix+accountID, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to save session in RedisStore.Create() | Error: %v", traceID, err)
		return "", appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to create session, try again later.",
		}
	}
	return token, nil
}

func (s *RedisStore) Resolve(ctx context.Context, token string) (string, bool, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	accountID, err := s.rdb.Get(ctx, tokenKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to resolve session in RedisStore.Resolve() | Error: %v", traceID, err)
		return "", false, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to check session, try again later.",
		}
	}
	return accountID, true, nil
}

func (s *RedisStore) Destroy(ctx context.Context, token string) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	accountID, err := s.rdb.Get(ctx, tokenKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		// already gone, destroy is idempotent
		return nil
	}
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to look up session in RedisStore.Destroy() | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to destroy session, try again later.",
		}
	}

	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, tokenKeyPrefix+token)
	pipe.SRem(ctx, accountKeyPrefix+accountID, token)
	if _, err := pipe.Exec(ctx); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to destroy session in RedisStore.Destroy() | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to destroy session, try again later.",
		}
	}
	return nil
}

func (s *RedisStore) DestroyAccount(ctx context.Context, accountID string) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	tokens, err := s.rdb.SMembers(ctx, accountKeyPrefix+accountID).Result()
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to list account sessions in RedisStore.DestroyAccount() | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to destroy account sessions, try again later.",
		}
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		keys = append(keys, tokenKeyPrefix+token)
	}
	keys = append(keys, accountKeyPrefix+accountID)

	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to delete account sessions in RedisStore.DestroyAccount() | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to destroy account sessions, try again later.",
		}
	}
	return nil
}
