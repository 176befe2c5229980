package permissions

import (
	"context"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisConfig configures Redis access for the permission lookup.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// RedisStore resolves allowed-room sets from Redis. A badge provisioning
// system publishes one set per user under <prefix>:<user_id>.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		cfg.Addr = "127.0.0.1:6379"
	}
	if strings.TrimSpace(cfg.KeyPrefix) == "" {
		cfg.KeyPrefix = "badgesentry:allowed"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis permission store: %w", err)
	}

	return &RedisStore{client: client, prefix: strings.TrimSpace(cfg.KeyPrefix)}, nil
}

// AllowedRooms fetches the user's allowed room set. A missing key is an
// empty set, not an error.
func (s *RedisStore) AllowedRooms(userID string) (map[string]struct{}, error) {
	ctx := context.Background()
	rooms, err := s.client.SMembers(ctx, s.prefix+":"+userID).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("fetch allowed rooms for %s: %w", userID, err)
	}
	return roomSet(rooms), nil
}

// Close closes the Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
