package ports

import (
	"context"
	"encoding/json"

	"github.com/rimba/nft-store/internal/core/domain"
)

// NFTRepository defines the persistence surface for asset records.
type NFTRepository interface {
	Create(ctx context.Context, asset *domain.NFTAsset) (*domain.NFTAsset, error)
	FindByID(ctx context.Context, id string) (*domain.NFTAsset, error)
	List(ctx context.Context) ([]domain.NFTAsset, error)
	// Update overwrites only the provided fields of upd.
	Update(ctx context.Context, id string, upd AssetUpdate) (*domain.NFTAsset, error)
	// MarkMinted flips minted=true and records the transaction hash on the
	// asset whose metadata URL equals metadataURI. A miss is not an error:
	// the update is best-effort and idempotent.
	MarkMinted(ctx context.Context, metadataURI, txHash string) error
}

// AssetUpdate holds the mutable asset fields; nil pointers are left untouched.
type AssetUpdate struct {
	Name        *string
	Description *string
	BidPrice    *float64
	Attributes  json.RawMessage
}
