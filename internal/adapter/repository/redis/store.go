// Package redis provides a Redis-backed KeyValueStore.
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// DefaultNamespace prefixes every key written by the store.
const DefaultNamespace = "campuscars:"

type Store struct {
	client    *goredis.Client
	namespace string
}

type Options struct {
	Addr      string
	Password  string
	DB        int
	Namespace string
}

func NewStore(ctx context.Context, opts Options) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}
	return NewStoreFromClient(client, opts.Namespace), nil
}

func NewStoreFromClient(client *goredis.Client, namespace string) *Store {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Store{client: client, namespace: namespace}
}

func (s *Store) Load(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.namespace+key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *Store) Save(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, s.namespace+key, value, 0).Err()
}

func (s *Store) Remove(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.namespace+key).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}
