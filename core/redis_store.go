// Package core provides the foundation of the canteen client: the error
// taxonomy, configuration, durable storage abstraction, session store,
// and route guard. Higher-level packages (api, discovery, ordering,
// merchant) build on these pieces and never touch storage directly.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Defaults for the Redis storage backend.
const (
	redisNamespace   = "canteen:client"
	redisDialTimeout = 5 * time.Second
)

// RedisStore is a Redis-backed implementation of the Storage interface.
// It exists for deployments where the session has to outlive the process
// (shared kiosk hosts, supervised restarts). All keys are namespaced
// under "canteen:client:" to keep a shared Redis tidy.
type RedisStore struct {
	client    *redis.Client
	namespace string
	logger    Logger
}

// RedisStoreOptions configures the Redis store.
type RedisStoreOptions struct {
	RedisURL  string
	Namespace string // defaults to "canteen:client"
	Logger    Logger // optional
}

// NewRedisStore creates a Redis-backed store and verifies connectivity
// with a ping.
func NewRedisStore(opts RedisStoreOptions) (*RedisStore, error) {
	if opts.Logger == nil {
		opts.Logger = &NoOpLogger{}
	}
	if opts.Namespace == "" {
		opts.Namespace = redisNamespace
	}
	if opts.RedisURL == "" {
		return nil, fmt.Errorf("redis URL is required: %w", ErrMissingConfiguration)
	}

	redisOpt, err := redis.ParseURL(opts.RedisURL)
	if err != nil {
		opts.Logger.Error("Failed to parse Redis URL", map[string]interface{}{
			"error":     err.Error(),
			"redis_url": opts.RedisURL,
		})
		return nil, fmt.Errorf("invalid Redis URL: %w", ErrInvalidConfiguration)
	}

	client := redis.NewClient(redisOpt)

	ctx, cancel := context.WithTimeout(context.Background(), redisDialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	opts.Logger.Debug("Redis store connected", map[string]interface{}{
		"namespace": opts.Namespace,
	})

	return &RedisStore{
		client:    client,
		namespace: opts.Namespace,
		logger:    opts.Logger,
	}, nil
}

func (r *RedisStore) key(key string) string {
	return r.namespace + ":" + key
}

// Get retrieves a value. A missing key yields an empty string and no error.
func (r *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get %q: %w", key, err)
	}
	return val, nil
}

// Set stores a value with optional TTL (zero means no expiry).
func (r *RedisStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Delete removes a value. Deleting an absent key is not an error.
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis delete %q: %w", key, err)
	}
	return nil
}

// Exists checks if a key exists.
func (r *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists %q: %w", key, err)
	}
	return n > 0, nil
}

// Close releases the underlying Redis connection.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

// NewStorage builds the Storage backend selected by the configuration.
func NewStorage(cfg StorageConfig, logger Logger) (Storage, error) {
	switch cfg.Provider {
	case "redis":
		return NewRedisStore(RedisStoreOptions{
			RedisURL: cfg.RedisURL,
			Logger:   logger,
		})
	case "", "inmemory":
		store := NewMemoryStore()
		store.SetLogger(logger)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage provider %q: %w", cfg.Provider, ErrInvalidConfiguration)
	}
}
