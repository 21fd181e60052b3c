package shortcut

import (
	"context"
	"errors"
	"fmt"

	"github.com/fortuna/gridiron/internal/cache"
	"github.com/fortuna/gridiron/internal/statlog"
	"github.com/redis/go-redis/v9"
)

// ConfigStore persists per-user single-key bindings in Redis. The combo
// table is compiled in and never stored. Clients fetch their map once
// at session start and again on settings change.
type ConfigStore struct {
	cache *cache.RedisCache
}

// NewConfigStore creates a config store over an existing Redis
// connection
func NewConfigStore(c *cache.RedisCache) *ConfigStore {
	return &ConfigStore{cache: c}
}

func userKey(userID string) string {
	return fmt.Sprintf("shortcuts:user:%s", userID)
}

// Load returns the user's single-key map, falling back to the defaults
// when the user has never saved one
func (s *ConfigStore) Load(ctx context.Context, userID string) (map[string]statlog.StatType, error) {
	var keys map[string]statlog.StatType
	err := s.cache.GetJSON(ctx, userKey(userID), &keys)
	if errors.Is(err, redis.Nil) {
		return DefaultKeyMap(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading shortcuts for %s: %w", userID, err)
	}
	return keys, nil
}

// Save validates and stores the user's single-key map
func (s *ConfigStore) Save(ctx context.Context, userID string, keys map[string]statlog.StatType) error {
	if err := ValidateKeyMap(keys); err != nil {
		return err
	}
	if err := s.cache.SetJSON(ctx, userKey(userID), keys, 0); err != nil {
		return fmt.Errorf("saving shortcuts for %s: %w", userID, err)
	}
	return nil
}
