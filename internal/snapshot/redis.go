package snapshot

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisStore guarda el snapshot bajo <prefix>:<Name>
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	var b strings.Builder
	b.Grow(len(prefix) + 1 + len(Name))
	if prefix != "" {
		b.WriteString(prefix)
		b.WriteString(":")
	}
	b.WriteString(Name)
	return &RedisStore{client: client, key: b.String()}
}

func (r *RedisStore) Load(ctx context.Context) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return data, err
}

func (r *RedisStore) Save(ctx context.Context, data []byte) error {
	return r.client.Set(ctx, r.key, data, 0).Err()
}
