package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/rimba/nft-store/internal/core/domain"
	"github.com/rimba/nft-store/internal/core/ports"
)

// NFTService implements asset upload, listing, edits and the mint flow.
type NFTService struct {
	repo   ports.NFTRepository
	files  ports.FileStore
	minter ports.Minter
	guard  ports.MintGuard
	logger zerolog.Logger
}

func NewNFTService(repo ports.NFTRepository, files ports.FileStore, minter ports.Minter, guard ports.MintGuard, logger zerolog.Logger) *NFTService {
	return &NFTService{repo: repo, files: files, minter: minter, guard: guard, logger: logger}
}

// CreateAsset stores the uploaded image, writes the metadata document next to
// it, and persists the asset record with minted=false. Validation happens
// before anything touches disk: a rejected upload leaves no partial state.
func (s *NFTService) CreateAsset(ctx context.Context, input ports.CreateAssetInput) (*domain.NFTAsset, error) {
	if len(input.Image) == 0 {
		return nil, domain.ErrMissingImage
	}
	if input.Name == "" || input.BidPrice < 0 {
		return nil, domain.ErrInvalidAsset
	}

	imageURL, err := s.files.SaveImage(input.ImageName, input.Image)
	if err != nil {
		return nil, err
	}

	metadataURL, err := s.files.SaveMetadata(ports.AssetMetadata{
		Name:        input.Name,
		Description: input.Description,
		Image:       imageURL,
		Attributes:  input.Attributes,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	asset := &domain.NFTAsset{
		OwnerID:     input.OwnerID,
		Name:        input.Name,
		Description: input.Description,
		ImageURL:    imageURL,
		MetadataURL: metadataURL,
		Attributes:  input.Attributes,
		BidPrice:    input.BidPrice,
		Minted:      false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, asset)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("asset_id", created.ID).Str("owner_id", created.OwnerID).Msg("nft asset created")
	return created, nil
}

// ListAssets returns every asset record; listings are not owner-scoped.
func (s *NFTService) ListAssets(ctx context.Context) ([]domain.NFTAsset, error) {
	return s.repo.List(ctx)
}

func (s *NFTService) UpdateAsset(ctx context.Context, id string, upd ports.AssetUpdate) (*domain.NFTAsset, error) {
	return s.repo.Update(ctx, id, upd)
}

// Mint submits the on-chain mint and marks the matching asset record. The
// record update is best-effort: a broadcast that succeeds but misses its
// record leaves the asset unminted in the store while the token exists
// on-chain, and the receipt is still returned to the caller.
func (s *NFTService) Mint(ctx context.Context, input ports.MintInput) (*domain.MintReceipt, error) {
	if s.guard != nil {
		ok, err := s.guard.Acquire(ctx, input.MetadataURI)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrDuplicateMint
		}
	}

	receipt, err := s.minter.Mint(ctx, domain.MintRequest{
		Recipient:   input.ToAddress,
		MetadataURI: input.MetadataURI,
	})
	if err != nil {
		if s.guard != nil {
			if relErr := s.guard.Release(ctx, input.MetadataURI); relErr != nil {
				s.logger.Warn().Err(relErr).Str("metadata_uri", input.MetadataURI).Msg("failed to release mint guard")
			}
		}
		return nil, err
	}

	if err := s.repo.MarkMinted(ctx, input.MetadataURI, receipt.TxHash); err != nil {
		s.logger.Warn().Err(err).
			Str("metadata_uri", input.MetadataURI).
			Str("tx_hash", receipt.TxHash).
			Msg("mint broadcast succeeded but asset record was not updated")
	}

	s.logger.Info().
		Str("tx_hash", receipt.TxHash).
		Str("recipient", input.ToAddress).
		Uint64("gas_used", receipt.GasUsed).
		Msg("nft minted")

	return receipt, nil
}
