package tokenstorage

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Storage is a Redis implementation of tokenstorage.Storage.
// Keys are namespaced with prefix so several journals can share one database.
type Storage struct {
	client *redis.Client
	prefix string
}

func NewStorage(client *redis.Client, prefix string) *Storage {
	return &Storage{client: client, prefix: prefix}
}

// NewClient builds a client the way the rest of the service does.
func NewClient(addr string, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func (s *Storage) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, errors.Wrap(err, "redis get token")
	}
	return v, true, nil
}

func (s *Storage) Set(ctx context.Context, key, value string) error {
	return errors.Wrap(s.client.Set(ctx, s.prefix+key, value, 0).Err(), "redis set token")
}

func (s *Storage) Remove(ctx context.Context, key string) error {
	return errors.Wrap(s.client.Del(ctx, s.prefix+key).Err(), "redis del token")
}
