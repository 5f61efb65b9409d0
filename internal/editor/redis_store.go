package editor

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// RedisDraftStore persists drafts as JSON under "draft:<id>" with a TTL, so
// an open form survives a service restart.
type RedisDraftStore struct {
	client *redis.Client
	prefix string
}

// NewRedisDraftStore creates a Redis-backed draft store. Prefix may be empty.
func NewRedisDraftStore(client *redis.Client, prefix string) *RedisDraftStore {
	if prefix == "" {
		prefix = "draft:"
	}
	return &RedisDraftStore{client: client, prefix: prefix}
}

func (s *RedisDraftStore) key(id string) string { return s.prefix + id }

func (s *RedisDraftStore) Put(ctx context.Context, d *Draft) error {
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(d.ID), b, DraftTTL).Err()
}

func (s *RedisDraftStore) Get(ctx context.Context, id string) (*Draft, error) {
	b, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrDraftNotFound
		}
		return nil, err
	}
	var d Draft
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *RedisDraftStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}
