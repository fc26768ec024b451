package correlation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Entries outlive the QR's five-minute payment window with some slack, then
// expire on their own if neither callback ever fires.
const entryTTL = 10 * time.Minute

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, ttl: entryTTL}
}

func (s *RedisStore) Put(ctx context.Context, providerRef string, entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal correlation entry: %w", err)
	}
	if err := s.client.Set(ctx, storeKey(providerRef), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, providerRef string) (*Entry, error) {
	data, err := s.client.Get(ctx, storeKey(providerRef)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("unmarshal correlation entry: %w", err)
	}
	return &entry, nil
}

func (s *RedisStore) Delete(ctx context.Context, providerRef string) error {
	if err := s.client.Del(ctx, storeKey(providerRef)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func storeKey(providerRef string) string {
	return fmt.Sprintf("nets:txn:%s", providerRef)
}
