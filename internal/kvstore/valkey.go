package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// valkeyPrefix namespaces entries in a shared Valkey database.
const valkeyPrefix = "pagesmith:kv:"

// ValkeyStore keeps entries as plain Valkey strings without expiry.
type ValkeyStore struct {
	client *redis.Client
	prefix string
}

// NewValkeyStore wraps a connected client. The client is closed by Close.
func NewValkeyStore(client *redis.Client) *ValkeyStore {
	return &ValkeyStore{client: client, prefix: valkeyPrefix}
}

func (v *ValkeyStore) Get(ctx context.Context, key string) (string, error) {
	val, err := v.client.Get(ctx, v.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return val, nil
}

func (v *ValkeyStore) Set(ctx context.Context, key, value string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := v.client.Set(ctx, v.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (v *ValkeyStore) Delete(ctx context.Context, key string) error {
	if err := v.client.Del(ctx, v.prefix+key).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (v *ValkeyStore) Close() error {
	return v.client.Close()
}
