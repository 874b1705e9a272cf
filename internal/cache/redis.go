package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "budgetwiser:"

var errStaleGeneration = errors.New("cache generation changed")

// Redis keeps one hash per user so a user's summaries expire and are
// invalidated together.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis wraps an already connected client.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// ParseRedisURL accepts either a redis:// URL or a bare host:port.
func ParseRedisURL(url string) *redis.Options {
	if !strings.Contains(url, "://") {
		url = "redis://" + url
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		// Fallback to simple connection
		return &redis.Options{Addr: strings.TrimPrefix(url, "redis://")}
	}
	return opt
}

// ConnectRedis dials url and pings it, retrying per b.
func ConnectRedis(ctx context.Context, url string, b backoff.BackOff) (*redis.Client, error) {
	client := redis.NewClient(ParseRedisURL(url))

	attempt := 0
	ping := func() error {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			slog.Debug("Redis ping failed", "attempt", attempt, "error", err)
			return err
		}
		return nil
	}

	if err := backoff.Retry(ping, backoff.WithContext(b, ctx)); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis after %d attempts: %w", attempt, err)
	}
	return client, nil
}

// DefaultBackOff is the retry policy used at startup.
func DefaultBackOff(maxRetries uint64) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxElapsedTime = 30 * time.Second
	return backoff.WithMaxRetries(b, maxRetries)
}

func summaryKey(userID string) string {
	return keyPrefix + "summary:" + userID
}

func generationKey(userID string) string {
	return keyPrefix + "generation:" + userID
}

func revokedKey(tokenID string) string {
	return keyPrefix + "revoked:" + tokenID
}

func (r *Redis) Get(ctx context.Context, userID, key string) ([]byte, bool) {
	value, err := r.client.HGet(ctx, summaryKey(userID), key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("Cache read failed", "user_id", userID, "error", err)
		}
		return nil, false
	}
	return value, true
}

// Generation reads the user's generation counter. A missing counter is 0.
func (r *Redis) Generation(ctx context.Context, userID string) uint64 {
	gen, err := r.client.Get(ctx, generationKey(userID)).Uint64()
	if err != nil && !errors.Is(err, redis.Nil) {
		slog.Warn("Cache generation read failed", "user_id", userID, "error", err)
	}
	return gen
}

// Set writes the entry in a transaction guarded by WATCH on the generation
// key, so a concurrent Invalidate aborts it.
func (r *Redis) Set(ctx context.Context, userID, key string, gen uint64, value []byte) {
	genKey := generationKey(userID)
	hash := summaryKey(userID)

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Uint64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, hash, key, value)
			pipe.Expire(ctx, hash, r.ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
		slog.Debug("Cache write skipped after invalidation", "user_id", userID, "key", key)
	default:
		slog.Warn("Cache write failed", "user_id", userID, "error", err)
	}
}

func (r *Redis) Invalidate(ctx context.Context, userID string) {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(userID))
		pipe.Del(ctx, summaryKey(userID))
		return nil
	})
	if err != nil {
		slog.Warn("Cache invalidation failed", "user_id", userID, "error", err)
	}
}

// Revoke stores tokenID until the token would have expired.
func (r *Redis) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedKey(tokenID), 1, ttl).Err()
}

func (r *Redis) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKey(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
