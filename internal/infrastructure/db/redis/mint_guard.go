package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const guardTTL = time.Hour

// MintGuard provides an idempotency lock on mint submissions backed by Redis.
// Key format: mint:<metadata_uri>. A key held by a prior submission makes
// Acquire return false until the key expires or is released after a failure.
type MintGuard struct {
	client *redis.Client
}

// NewMintGuard creates a MintGuard wrapping the given Redis client.
func NewMintGuard(client *redis.Client) *MintGuard {
	return &MintGuard{client: client}
}

// Acquire atomically claims the key for this metadata URI. Returns false when
// a submission for the same URI already holds it.
func (g *MintGuard) Acquire(ctx context.Context, metadataURI string) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.key(metadataURI), "1", guardTTL).Result()
	if err != nil {
		return false, fmt.Errorf("mint guard acquire: %w", err)
	}
	return ok, nil
}

// Release frees the key so a failed submission can be retried.
func (g *MintGuard) Release(ctx context.Context, metadataURI string) error {
	if err := g.client.Del(ctx, g.key(metadataURI)).Err(); err != nil {
		return fmt.Errorf("mint guard release: %w", err)
	}
	return nil
}

func (g *MintGuard) key(metadataURI string) string {
	return "mint:" + metadataURI
}
