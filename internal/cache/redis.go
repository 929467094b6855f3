// Package cache wraps the Redis client with the operations the services
// need: the JWT blacklist and the login-attempt limiter.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"aura-server/internal/config"
)

// RedisCache wraps a Redis client with application-level operations.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(cfg *config.Config) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// Close closes the underlying connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// ==================== JWT blacklist ====================
// Tokens are blacklisted on logout. Keys hold the token's SHA256 hash and
// expire together with the token itself.

// BlacklistToken marks a token hash as revoked until the token's own expiry.
func (c *RedisCache) BlacklistToken(ctx context.Context, tokenHash string, expireAt time.Time) error {
	ttl := time.Until(expireAt)
	if ttl <= 0 {
		return nil // already expired, nothing to revoke
	}
	return c.client.Set(ctx, "blacklist:"+tokenHash, 1, ttl).Err()
}

// IsTokenBlacklisted reports whether a token hash has been revoked.
func (c *RedisCache) IsTokenBlacklisted(ctx context.Context, tokenHash string) bool {
	exists, err := c.client.Exists(ctx, "blacklist:"+tokenHash).Result()
	if err != nil {
		// On Redis failure, treat the token as valid rather than locking
		// every user out.
		return false
	}
	return exists > 0
}

// ==================== login attempt limiter ====================
// Failed logins are counted per email with a 15 minute window. After 5
// failures the account is locked until the window expires.

const (
	loginAttemptLimit  = 5
	loginAttemptWindow = 15 * time.Minute
)

func loginAttemptKey(email string) string {
	return "login_attempts:" + email
}

// LoginAttempts returns the current failed-attempt count for an email.
func (c *RedisCache) LoginAttempts(ctx context.Context, email string) (int, error) {
	count, err := c.client.Get(ctx, loginAttemptKey(email)).Int()
	if err == redis.Nil {
		return 0, nil
	}
	return count, err
}

// RecordLoginFailure increments the failed-attempt counter and refreshes the
// lockout window.
func (c *RedisCache) RecordLoginFailure(ctx context.Context, email string) error {
	pipe := c.client.Pipeline()
	pipe.Incr(ctx, loginAttemptKey(email))
	pipe.Expire(ctx, loginAttemptKey(email), loginAttemptWindow)
	_, err := pipe.Exec(ctx)
	return err
}

// ClearLoginAttempts resets the counter after a successful login.
func (c *RedisCache) ClearLoginAttempts(ctx context.Context, email string) error {
	return c.client.Del(ctx, loginAttemptKey(email)).Err()
}

// LoginAttemptLimit returns the configured maximum number of failures.
func (c *RedisCache) LoginAttemptLimit() int {
	return loginAttemptLimit
}
