package recent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// maxTxRetries bounds optimistic-lock retries when writers collide
const maxTxRetries = 3

// RedisStore keeps recent terms as a JSON array under a single key
type RedisStore struct {
	client *redis.Client
	key    string
	limit  int
}

// NewRedisStore creates a store on an existing client
func NewRedisStore(client *redis.Client, key string, limit int) *RedisStore {
	if key == "" {
		key = DefaultKey
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &RedisStore{client: client, key: key, limit: limit}
}

// Add records a term and returns the updated list. The read-modify-write
// runs under WATCH so concurrent writers do not lose terms.
func (s *RedisStore) Add(ctx context.Context, term string) ([]string, error) {
	var updated []string

	txf := func(tx *redis.Tx) error {
		current, err := s.read(ctx, tx)
		if err != nil {
			return err
		}

		updated = Push(current, term, s.limit)
		data, err := json.Marshal(updated)
		if err != nil {
			return fmt.Errorf("failed to marshal recent searches: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.key, data, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, txf, s.key)
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return nil, fmt.Errorf("failed to record recent search: %w", err)
		}
		slog.Debug("recent searches write conflict, retrying", "key", s.key, "attempt", i+1)
	}

	return nil, fmt.Errorf("failed to record recent search: too many write conflicts")
}

// List returns the recorded terms, newest first
func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	return s.read(ctx, s.client)
}

// Clear deletes the key
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to clear recent searches: %w", err)
	}
	return nil
}

// HealthCheck verifies Redis connectivity
func (s *RedisStore) HealthCheck(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// getter is satisfied by both *redis.Client and *redis.Tx
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// read decodes the stored array. A missing key or a corrupt value both read
// as an empty list.
func (s *RedisStore) read(ctx context.Context, c getter) ([]string, error) {
	raw, err := c.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read recent searches: %w", err)
	}

	var terms []string
	if err := json.Unmarshal(raw, &terms); err != nil {
		slog.Warn("discarding malformed recent searches", "key", s.key, "error", err)
		return []string{}, nil
	}
	if terms == nil {
		terms = []string{}
	}
	return terms, nil
}
