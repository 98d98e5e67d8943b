package bookmarks

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"citymap_discord_bot/internal/catalog"
)

const defaultRedisPrefix = "citymap:bookmarks:"

// RedisStore ユーザーごとのSETに都市名を保存する
// SADD が原子的なので同一ユーザーの並行追加でも重複しない
type RedisStore struct {
	client  *redis.Client
	catalog catalog.Catalog
	prefix  string
}

func NewRedisStore(client *redis.Client, cat catalog.Catalog, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, catalog: cat, prefix: prefix}
}

func (s *RedisStore) key(user string) string {
	return s.prefix + user
}

func (s *RedisStore) Add(ctx context.Context, user, cityName string) (AddResult, error) {
	_, ok, err := s.catalog.Lookup(ctx, cityName)
	if err != nil {
		return NoResult, err
	}
	if !ok {
		return CityNotFound, nil
	}

	n, err := s.client.SAdd(ctx, s.key(user), cityName).Result()
	if err != nil {
		return NoResult, fmt.Errorf("redis sadd: %w", err)
	}
	if n == 0 {
		return AlreadyBookmarked, nil
	}
	return Added, nil
}

// List SETに順序はないため名前順で返す
func (s *RedisStore) List(ctx context.Context, user string) ([]string, error) {
	names, err := s.client.SMembers(ctx, s.key(user)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis smembers: %w", err)
	}
	return joinCatalog(ctx, s.catalog, sortedCopy(names))
}
