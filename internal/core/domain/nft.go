package domain

import (
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrAssetNotFound = errors.New("nft asset not found")
	ErrMissingImage  = errors.New("image is required")
	ErrInvalidAsset  = errors.New("invalid asset input")
)

// NFTAsset is the persisted record for an uploaded asset. Minted transitions
// false→true exactly once, after the on-chain mint has been broadcast; the
// record itself is never deleted.
type NFTAsset struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"owner_id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	ImageURL    string          `json:"image_url"`
	MetadataURL string          `json:"metadata_url"`
	Attributes  json.RawMessage `json:"attributes,omitempty"`
	BidPrice    float64         `json:"bid_price"`
	Minted      bool            `json:"minted"`
	MintTxHash  string          `json:"mint_tx_hash,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
