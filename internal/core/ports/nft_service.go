package ports

import (
	"context"
	"encoding/json"

	"github.com/rimba/nft-store/internal/core/domain"
)

// CreateAssetInput carries everything needed to persist a new asset: the raw
// image bytes plus the metadata fields supplied alongside the upload.
type CreateAssetInput struct {
	OwnerID     string
	Name        string
	Description string
	Attributes  json.RawMessage
	BidPrice    float64
	ImageName   string
	Image       []byte
}

// MintInput is the payload for a mint submission.
type MintInput struct {
	ToAddress   string
	MetadataURI string
}

type NFTService interface {
	CreateAsset(ctx context.Context, input CreateAssetInput) (*domain.NFTAsset, error)
	ListAssets(ctx context.Context) ([]domain.NFTAsset, error)
	UpdateAsset(ctx context.Context, id string, upd AssetUpdate) (*domain.NFTAsset, error)
	// Mint submits the on-chain mint and, on success, best-effort marks the
	// matching asset record as minted.
	Mint(ctx context.Context, input MintInput) (*domain.MintReceipt, error)
}
