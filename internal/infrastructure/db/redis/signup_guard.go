package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const guardTTL = 30 * time.Second

// SignupGuard provides a best-effort creation lease for the legacy phone
// flow, backed by Redis. Key format: legacy_signup:<phone>
//
// The unique indexes on the identity store remain the real uniqueness
// guarantee; the guard only shrinks the window in which two concurrent
// auto-registrations for the same phone both reach the insert.
type SignupGuard struct {
	client *redis.Client
}

// NewSignupGuard creates a SignupGuard wrapping the given Redis client.
func NewSignupGuard(client *redis.Client) *SignupGuard {
	return &SignupGuard{client: client}
}

// Acquire takes the lease for phone. Returns false when another request
// already holds it. The lease expires after guardTTL regardless.
func (g *SignupGuard) Acquire(ctx context.Context, phone string) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.key(phone), "1", guardTTL).Result()
	if err != nil {
		return false, fmt.Errorf("signup guard acquire: %w", err)
	}
	return ok, nil
}

// Release drops the lease early once the creation attempt finished.
func (g *SignupGuard) Release(ctx context.Context, phone string) error {
	return g.client.Del(ctx, g.key(phone)).Err()
}

func (g *SignupGuard) key(phone string) string {
	return fmt.Sprintf("legacy_signup:%s", phone)
}
