package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/formguard/pkg/validation"
)

// StateStore keeps option sets as JSON strings, one key per container.
type StateStore struct {
	db     redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ validation.StateStore = (*StateStore)(nil)

// NewStateStore creates a store using the key prefix and TTL of cfg.
func NewStateStore(client redis.UniversalClient, cfg Config) *StateStore {
	return &StateStore{db: client, prefix: cfg.KeyPrefix, ttl: cfg.StateTTL}
}

// Load implements validation.StateStore. A stored set's TTL is refreshed on read.
func (s *StateStore) Load(ctx context.Context, id string) (*validation.OptionSet, error) {
	raw, err := s.db.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, validation.ErrOptionsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %q: %w", id, err)
	}

	var set validation.OptionSet
	if err := json.Unmarshal(raw, &set); err != nil {
		return nil, errors.Join(ErrCorruptState, err)
	}
	if s.ttl > 0 {
		_ = s.db.Expire(ctx, s.key(id), s.ttl).Err()
	}
	return &set, nil
}

// Save implements validation.StateStore.
func (s *StateStore) Save(ctx context.Context, id string, set *validation.OptionSet) error {
	raw, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("encode option set: %w", err)
	}
	if err := s.db.Set(ctx, s.key(id), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", id, err)
	}
	return nil
}

// Delete implements validation.StateStore.
func (s *StateStore) Delete(ctx context.Context, id string) error {
	if err := s.db.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", id, err)
	}
	return nil
}

func (s *StateStore) key(id string) string {
	return s.prefix + id
}
