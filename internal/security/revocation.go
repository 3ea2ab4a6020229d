package security

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"leasehub-backend/internal/logger"
)

// TokenRevoker remembers refresh token ids that were logged out or rotated.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type redisRevoker struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

func NewRedisRevoker(client *redis.Client) TokenRevoker {
	return &redisRevoker{client: client, prefix: "leasehub:revoked:", now: time.Now}
}

func (r *redisRevoker) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.now()).Truncate(time.Second)
	if ttl <= 0 {
		// already expired, nothing to remember
		return nil
	}
	logger.ExternalServiceCall("redis", "SET", "jti", jti, "ttl", ttl)
	err := r.client.Set(ctx, r.prefix+jti, "1", ttl).Err()
	logger.ExternalServiceResult("redis", "SET", err, "jti", jti)
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (r *redisRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, r.prefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}

// memoryRevoker serves single-instance deployments without redis.
type memoryRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryRevoker() TokenRevoker {
	return &memoryRevoker{revoked: make(map[string]time.Time), now: time.Now}
}

func (m *memoryRevoker) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for id, exp := range m.revoked {
		if !exp.After(now) {
			delete(m.revoked, id)
		}
	}
	if expiresAt.After(now) {
		m.revoked[jti] = expiresAt
	}
	return nil
}

func (m *memoryRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.revoked[jti]
	return ok && exp.After(m.now()), nil
}
