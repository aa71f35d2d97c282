package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type SessionRepository interface {
	CreateSession(ctx context.Context, s Session, ttl time.Duration) error
	GetSession(ctx context.Context, id string) (Session, error)
	RecordFailure(ctx context.Context, id string) (int, error)
	Succeed(ctx context.Context, id string) (int, error)
}

// optimistic transaction retries before giving up on a contended key.
const maxTxRetries = 5

type redisRepository struct {
	rdb *redis.Client
}

func NewRedisRepository(rdb *redis.Client) SessionRepository {
	return &redisRepository{rdb: rdb}
}

func (r *redisRepository) CreateSession(ctx context.Context, s Session, ttl time.Duration) error {
	key := sessionKey(s.ID)
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, "variant", int(s.Variant))
		pipe.Expire(ctx, key, ttl)
		pipe.Del(ctx, attemptsKey(s.ID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (r *redisRepository) GetSession(ctx context.Context, id string) (Session, error) {
	key := sessionKey(id)
	pipe := r.rdb.Pipeline()
	variant := pipe.HGet(ctx, key, "variant")
	ttl := pipe.PTTL(ctx, key)
	attempts := pipe.Get(ctx, attemptsKey(id))
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return Session{}, fmt.Errorf("fetch session: %w", err)
	}

	v, err := variant.Int()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("session variant: %w", err)
	}

	s := Session{ID: id, Variant: Variant(v)}
	if n, err := attempts.Int(); err == nil {
		s.Attempts = n
	}
	if d := ttl.Val(); d > 0 {
		s.ExpiresAt = time.Now().Add(d).UTC()
	}
	return s, nil
}

// RecordFailure increments the attempts counter (TTL-aligned with the
// session) and deletes the session once MaxAttempts is reached. It returns
// the attempt count after the increment.
func (r *redisRepository) RecordFailure(ctx context.Context, id string) (int, error) {
	key := sessionKey(id)
	att := attemptsKey(id)

	var count int
	txf := func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if exists == 0 {
			return ErrSessionNotFound
		}

		ttl, err := tx.PTTL(ctx, key).Result()
		if err != nil {
			return err
		}
		var cnt *redis.IntCmd

		// INCR attempts and align TTL
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			cnt = pipe.Incr(ctx, att)
			if ttl > 0 {
				pipe.PExpire(ctx, att, ttl)
			}
			return nil
		})
		if err != nil {
			return err
		}

		count = int(cnt.Val())
		if count >= MaxAttempts {
			count = MaxAttempts
			// lock out: drop session and counter
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Del(ctx, key, att)
				return nil
			})
			return err
		}
		return nil
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.rdb.Watch(ctx, txf, key, att)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			if errors.Is(err, ErrSessionNotFound) {
				return 0, err
			}
			return 0, fmt.Errorf("record failure: %w", err)
		}
		return count, nil
	}
	return 0, fmt.Errorf("record failure: %w", redis.TxFailedErr)
}

// Succeed deletes a session that accepted the right password. It fails
// with ErrSessionNotFound when the session expired or was locked after the
// caller read it. It returns the attempts spent before the match.
func (r *redisRepository) Succeed(ctx context.Context, id string) (int, error) {
	key := sessionKey(id)
	att := attemptsKey(id)

	var attempts int
	txf := func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if exists == 0 {
			return ErrSessionNotFound
		}

		attempts, err = tx.Get(ctx, att).Int()
		if errors.Is(err, redis.Nil) {
			attempts = 0
		} else if err != nil {
			return err
		}
		if attempts >= MaxAttempts {
			return ErrSessionNotFound
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key, att)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.rdb.Watch(ctx, txf, key, att)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			if errors.Is(err, ErrSessionNotFound) {
				return 0, err
			}
			return 0, fmt.Errorf("complete session: %w", err)
		}
		return attempts, nil
	}
	return 0, fmt.Errorf("complete session: %w", redis.TxFailedErr)
}

func sessionKey(id string) string  { return "passcheck:session:" + id }
func attemptsKey(id string) string { return "passcheck:attempts:" + id }
