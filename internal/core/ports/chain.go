package ports

import (
	"context"

	"github.com/rimba/nft-store/internal/core/domain"
)

// Minter submits a signed mint transaction and blocks until the provider
// returns a receipt.
type Minter interface {
	Mint(ctx context.Context, req domain.MintRequest) (*domain.MintReceipt, error)
}

// MintGuard is an idempotency check on mint submissions, keyed by metadata
// URI. Acquire returns false when a submission for the same URI is already
// in flight or recently completed; Release frees the key after a failed
// submission so the caller may retry.
type MintGuard interface {
	Acquire(ctx context.Context, metadataURI string) (bool, error)
	Release(ctx context.Context, metadataURI string) error
}
