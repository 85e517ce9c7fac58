// Package redisstore implements pages.SettingsStore over Redis. Options are
// stored as JSON strings under a "pages:" keyspace, without expiry: unlike a
// cache, registrar bookkeeping must survive until it is deleted.
//
// Only the settings side lives here. Content records need relational storage;
// pair this store with gormstore.ContentStore or memstore.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	pages "github.com/damoang/angple-pages"
	"github.com/redis/go-redis/v9"
)

// 키 접두사
const keyPrefix = "pages:"

// NewClient Redis 클라이언트 생성
func NewClient(host string, port int, password string, db int, poolSize int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
		PoolSize: poolSize,
	})

	// 연결 테스트
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// SettingsStore implements pages.SettingsStore over Redis strings.
type SettingsStore struct {
	client *redis.Client
}

// NewSettingsStore creates a settings store on an established client.
func NewSettingsStore(client *redis.Client) *SettingsStore {
	return &SettingsStore{client: client}
}

func (s *SettingsStore) key(name string) string {
	return keyPrefix + name
}

// Get decodes the named option into dest. Returns pages.ErrNotFound when the
// name has never been stored.
func (s *SettingsStore) Get(ctx context.Context, name string, dest any) error {
	data, err := s.client.Get(ctx, s.key(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("%w: option %q", pages.ErrNotFound, name)
		}
		return err
	}
	return json.Unmarshal(data, dest)
}

// Set stores a value under name, replacing any prior value.
func (s *SettingsStore) Set(ctx context.Context, name string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(name), data, 0).Err()
}

// Delete removes the named option. Deleting an absent name is not an error.
func (s *SettingsStore) Delete(ctx context.Context, name string) error {
	return s.client.Del(ctx, s.key(name)).Err()
}
