package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/redis/go-redis/v9"
)

// RedisRepository keeps each session under "session:<id>" with a TTL matching
// its expiry, plus a "user_sessions:<username>" set used to end all sessions
// of an account.
type RedisRepository struct {
	client redis.UniversalClient
}

func NewRedisRepository(client redis.UniversalClient) *RedisRepository {
	return &RedisRepository{client: client}
}

type redisSession struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CSRFToken string    `json:"csrf_token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func sessionKey(id string) string    { return "session:" + id }
func userKey(username string) string { return "user_sessions:" + username }

func (r *RedisRepository) Create(ctx context.Context, s *models.Session) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session already expired")
	}

	data, err := json.Marshal(redisSession{
		ID:        s.ID,
		Username:  s.Username,
		CSRFToken: s.CSRFToken,
		ExpiresAt: s.ExpiresAt,
		CreatedAt: s.CreatedAt,
	})
	if err != nil {
		return err
	}

	// every session has the same validity, so the newest one decides
	// how long the index set must live
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(s.ID), data, ttl)
		pipe.SAdd(ctx, userKey(s.Username), s.ID)
		pipe.Expire(ctx, userKey(s.Username), ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (r *RedisRepository) Find(ctx context.Context, id string) (*models.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("redis error: %w", err)
	}

	var rs redisSession
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("corrupt session %s: %w", id, err)
	}
	return &models.Session{
		ID:        rs.ID,
		Username:  rs.Username,
		CSRFToken: rs.CSRFToken,
		ExpiresAt: rs.ExpiresAt,
		CreatedAt: rs.CreatedAt,
	}, nil
}

func (r *RedisRepository) Delete(ctx context.Context, id string) error {
	s, err := r.Find(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, sessionKey(id))
		pipe.SRem(ctx, userKey(s.Username), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (r *RedisRepository) DeleteByUsername(ctx context.Context, username string) error {
	ids, err := r.client.SMembers(ctx, userKey(username)).Result()
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKey(id))
	}
	keys = append(keys, userKey(username))

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}
