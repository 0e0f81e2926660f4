package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/omega-events/omega-backend/internal/domain"
)

// ErrMiss is returned when no cached role exists for the user.
var ErrMiss = errors.New("role cache miss")

// RoleCache stores resolved profile roles in Redis so admin authorization
// does not hit Postgres on every request.
type RoleCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRoleCache creates a role cache with the given TTL.
func NewRoleCache(client *redis.Client, ttl time.Duration) *RoleCache {
	return &RoleCache{client: client, ttl: ttl}
}

func roleKey(userID string) string {
	return "omega:role:" + userID
}

// Get returns the cached role for the user, or ErrMiss.
func (c *RoleCache) Get(ctx context.Context, userID string) (domain.Role, error) {
	val, err := c.client.Get(ctx, roleKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	if err != nil {
		return "", fmt.Errorf("get cached role: %w", err)
	}
	return domain.Role(val), nil
}

// Set caches the role for the user.
func (c *RoleCache) Set(ctx context.Context, userID string, role domain.Role) error {
	if err := c.client.Set(ctx, roleKey(userID), string(role), c.ttl).Err(); err != nil {
		return fmt.Errorf("cache role: %w", err)
	}
	return nil
}

// Invalidate drops the cached role, used after a role update.
func (c *RoleCache) Invalidate(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, roleKey(userID)).Err(); err != nil {
		return fmt.Errorf("invalidate cached role: %w", err)
	}
	return nil
}
