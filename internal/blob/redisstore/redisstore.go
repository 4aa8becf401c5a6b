// Package redisstore keeps blobs as plain Redis string values.
package redisstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

type Store struct {
	client redis.UniversalClient
	prefix string
}

// New wraps client. Keys are written as prefix+key.
func New(client redis.UniversalClient, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, s.prefix+key, value, 0).Err()
}
