package redisclient

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

type Client struct {
	rdb *redis.Client
}

// Session is the per-token state held in Redis. Only the role name is
// stored; permissions are re-read from the database on every gated action.
type Session struct {
	UserID   int64
	Username string
	RoleName string
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// CreateSession stores a new session and returns its opaque token.
func (c *Client) CreateSession(ctx context.Context, session Session, ttl time.Duration) (string, error) {
	token := uuid.New().String()
	key := sessionKey(token)

	pipe := c.rdb.Pipeline()
	pipe.HSet(ctx, key, "user_id", session.UserID)
	pipe.HSet(ctx, key, "username", session.Username)
	pipe.HSet(ctx, key, "role_name", session.RoleName)
	pipe.Expire(ctx, key, ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

// GetSession retrieves the session for a token and slides its expiry.
// Returns (nil, nil) when the token is unknown or expired.
func (c *Client) GetSession(ctx context.Context, token string, ttl time.Duration) (*Session, error) {
	key := sessionKey(token)

	result, err := c.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, nil
	}

	userID, err := strconv.ParseInt(result["user_id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt session %s: %w", token, err)
	}

	if err := c.rdb.Expire(ctx, key, ttl).Err(); err != nil {
		return nil, err
	}

	return &Session{
		UserID:   userID,
		Username: result["username"],
		RoleName: result["role_name"],
	}, nil
}

// DeleteSession drops a session token (logout).
func (c *Client) DeleteSession(ctx context.Context, token string) error {
	return c.rdb.Del(ctx, sessionKey(token)).Err()
}

// AcquireLock acquires a maintenance lock, used to keep concurrent
// consolidation runs from interleaving their rewrites.
func (c *Client) AcquireLock(ctx context.Context, lockKey string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, fmt.Sprintf("lock:%s", lockKey), "1", ttl).Result()
}

// ReleaseLock releases a maintenance lock
func (c *Client) ReleaseLock(ctx context.Context, lockKey string) error {
	return c.rdb.Del(ctx, fmt.Sprintf("lock:%s", lockKey)).Err()
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}
