package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rimba/nft-store/internal/core/domain"
	"github.com/rimba/nft-store/internal/core/ports"
)

type stubNFTRepo struct {
	assets     map[string]*domain.NFTAsset
	nextID     int
	markCalls  []string
	markHashes []string
}

func newStubNFTRepo() *stubNFTRepo {
	return &stubNFTRepo{assets: make(map[string]*domain.NFTAsset)}
}

func (r *stubNFTRepo) Create(_ context.Context, asset *domain.NFTAsset) (*domain.NFTAsset, error) {
	copy := *asset
	r.nextID++
	copy.ID = "nft-" + string(rune('0'+r.nextID))
	stored := copy
	r.assets[copy.ID] = &stored
	return &copy, nil
}

func (r *stubNFTRepo) FindByID(_ context.Context, id string) (*domain.NFTAsset, error) {
	if a, ok := r.assets[id]; ok {
		copy := *a
		return &copy, nil
	}
	return nil, domain.ErrAssetNotFound
}

func (r *stubNFTRepo) List(_ context.Context) ([]domain.NFTAsset, error) {
	var out []domain.NFTAsset
	for _, a := range r.assets {
		out = append(out, *a)
	}
	return out, nil
}

func (r *stubNFTRepo) Update(_ context.Context, id string, upd ports.AssetUpdate) (*domain.NFTAsset, error) {
	a, ok := r.assets[id]
	if !ok {
		return nil, domain.ErrAssetNotFound
	}
	if upd.Name != nil {
		a.Name = *upd.Name
	}
	if upd.Description != nil {
		a.Description = *upd.Description
	}
	if upd.BidPrice != nil {
		a.BidPrice = *upd.BidPrice
	}
	if upd.Attributes != nil {
		a.Attributes = upd.Attributes
	}
	copy := *a
	return &copy, nil
}

func (r *stubNFTRepo) MarkMinted(_ context.Context, metadataURI, txHash string) error {
	r.markCalls = append(r.markCalls, metadataURI)
	r.markHashes = append(r.markHashes, txHash)
	for _, a := range r.assets {
		if a.MetadataURL == metadataURI {
			a.Minted = true
			a.MintTxHash = txHash
		}
	}
	return nil
}

type stubFileStore struct {
	images   []string
	metas    []ports.AssetMetadata
	imageURL string
	metaURL  string
}

func (s *stubFileStore) SaveImage(origName string, _ []byte) (string, error) {
	s.images = append(s.images, origName)
	return s.imageURL, nil
}

func (s *stubFileStore) SaveMetadata(meta ports.AssetMetadata) (string, error) {
	s.metas = append(s.metas, meta)
	return s.metaURL, nil
}

type stubMinter struct {
	calls   []domain.MintRequest
	receipt *domain.MintReceipt
	err     error
}

func (m *stubMinter) Mint(_ context.Context, req domain.MintRequest) (*domain.MintReceipt, error) {
	m.calls = append(m.calls, req)
	if m.err != nil {
		return nil, m.err
	}
	return m.receipt, nil
}

type stubGuard struct {
	held     map[string]bool
	acquires []string
	releases []string
}

func newStubGuard() *stubGuard {
	return &stubGuard{held: make(map[string]bool)}
}

func (g *stubGuard) Acquire(_ context.Context, uri string) (bool, error) {
	g.acquires = append(g.acquires, uri)
	if g.held[uri] {
		return false, nil
	}
	g.held[uri] = true
	return true, nil
}

func (g *stubGuard) Release(_ context.Context, uri string) error {
	g.releases = append(g.releases, uri)
	delete(g.held, uri)
	return nil
}

func newNFTServiceForTest(repo *stubNFTRepo, files *stubFileStore, minter *stubMinter, guard *stubGuard) *NFTService {
	return NewNFTService(repo, files, minter, guard, zerolog.Nop())
}

func TestNFTService_CreateAsset(t *testing.T) {
	repo := newStubNFTRepo()
	files := &stubFileStore{imageURL: "http://host/uploads/img.png", metaURL: "http://host/metadata/meta.json"}
	svc := newNFTServiceForTest(repo, files, &stubMinter{}, newStubGuard())

	asset, err := svc.CreateAsset(context.Background(), ports.CreateAssetInput{
		OwnerID:   "user-1",
		Name:      "Sunset",
		BidPrice:  2.5,
		ImageName: "sunset.png",
		Image:     []byte{0x89, 0x50},
	})
	if err != nil {
		t.Fatalf("CreateAsset returned error: %v", err)
	}
	if asset.Minted {
		t.Fatalf("new asset must start unminted")
	}
	if asset.ImageURL != files.imageURL || asset.MetadataURL != files.metaURL {
		t.Fatalf("unexpected references: %q %q", asset.ImageURL, asset.MetadataURL)
	}
	if len(files.metas) != 1 || files.metas[0].Image != files.imageURL {
		t.Fatalf("metadata document should reference the stored image")
	}
	if asset.OwnerID != "user-1" {
		t.Fatalf("unexpected owner: %q", asset.OwnerID)
	}
}

func TestNFTService_CreateAsset_MissingImage(t *testing.T) {
	repo := newStubNFTRepo()
	files := &stubFileStore{}
	svc := newNFTServiceForTest(repo, files, &stubMinter{}, newStubGuard())

	_, err := svc.CreateAsset(context.Background(), ports.CreateAssetInput{
		OwnerID: "user-1",
		Name:    "Sunset",
	})
	if !errors.Is(err, domain.ErrMissingImage) {
		t.Fatalf("expected ErrMissingImage, got %v", err)
	}
	if len(files.images) != 0 || len(files.metas) != 0 {
		t.Fatalf("rejected upload must not touch the file store")
	}
	if len(repo.assets) != 0 {
		t.Fatalf("rejected upload must not persist a record")
	}
}

func TestNFTService_CreateAsset_InvalidInput(t *testing.T) {
	repo := newStubNFTRepo()
	files := &stubFileStore{}
	svc := newNFTServiceForTest(repo, files, &stubMinter{}, newStubGuard())

	_, err := svc.CreateAsset(context.Background(), ports.CreateAssetInput{
		OwnerID:   "user-1",
		BidPrice:  1,
		ImageName: "x.png",
		Image:     []byte{1},
	})
	if !errors.Is(err, domain.ErrInvalidAsset) {
		t.Fatalf("expected ErrInvalidAsset for missing name, got %v", err)
	}
	if len(files.images) != 0 {
		t.Fatalf("invalid upload must not touch the file store")
	}
}

func TestNFTService_UpdateAsset_PartialFields(t *testing.T) {
	repo := newStubNFTRepo()
	svc := newNFTServiceForTest(repo, &stubFileStore{}, &stubMinter{}, newStubGuard())

	created, _ := repo.Create(context.Background(), &domain.NFTAsset{Name: "Sunset", Description: "dusk", BidPrice: 1})

	newPrice := 9.99
	updated, err := svc.UpdateAsset(context.Background(), created.ID, ports.AssetUpdate{BidPrice: &newPrice})
	if err != nil {
		t.Fatalf("UpdateAsset returned error: %v", err)
	}
	if updated.BidPrice != 9.99 {
		t.Fatalf("expected bid price updated, got %v", updated.BidPrice)
	}
	if updated.Name != "Sunset" || updated.Description != "dusk" {
		t.Fatalf("untouched fields must survive: %+v", updated)
	}
}

func TestNFTService_UpdateAsset_NotFound(t *testing.T) {
	svc := newNFTServiceForTest(newStubNFTRepo(), &stubFileStore{}, &stubMinter{}, newStubGuard())

	if _, err := svc.UpdateAsset(context.Background(), "missing", ports.AssetUpdate{}); !errors.Is(err, domain.ErrAssetNotFound) {
		t.Fatalf("expected ErrAssetNotFound, got %v", err)
	}
}

func TestNFTService_Mint(t *testing.T) {
	repo := newStubNFTRepo()
	minter := &stubMinter{receipt: &domain.MintReceipt{TxHash: "0xabc", Status: 1, GasUsed: 21000}}
	guard := newStubGuard()
	svc := newNFTServiceForTest(repo, &stubFileStore{}, minter, guard)

	created, _ := repo.Create(context.Background(), &domain.NFTAsset{
		Name:        "Sunset",
		MetadataURL: "http://host/metadata/meta.json",
	})

	receipt, err := svc.Mint(context.Background(), ports.MintInput{
		ToAddress:   "0x48320dcDDf05474BDEF8bDA9Cb848a1333d94a98",
		MetadataURI: "http://host/metadata/meta.json",
	})
	if err != nil {
		t.Fatalf("Mint returned error: %v", err)
	}
	if receipt.TxHash != "0xabc" {
		t.Fatalf("unexpected receipt: %+v", receipt)
	}
	if len(minter.calls) != 1 || minter.calls[0].MetadataURI != "http://host/metadata/meta.json" {
		t.Fatalf("unexpected minter calls: %+v", minter.calls)
	}

	stored, _ := repo.FindByID(context.Background(), created.ID)
	if !stored.Minted || stored.MintTxHash != "0xabc" {
		t.Fatalf("asset should be marked minted with the tx hash: %+v", stored)
	}
}

// A second mint of the same metadata URI is rejected before the chain client
// is invoked, so the signing account's nonce is never raced over duplicates.
func TestNFTService_Mint_Duplicate(t *testing.T) {
	minter := &stubMinter{receipt: &domain.MintReceipt{TxHash: "0xabc"}}
	guard := newStubGuard()
	svc := newNFTServiceForTest(newStubNFTRepo(), &stubFileStore{}, minter, guard)

	input := ports.MintInput{ToAddress: "0x48320dcDDf05474BDEF8bDA9Cb848a1333d94a98", MetadataURI: "uri-1"}
	if _, err := svc.Mint(context.Background(), input); err != nil {
		t.Fatalf("first mint failed: %v", err)
	}
	if _, err := svc.Mint(context.Background(), input); !errors.Is(err, domain.ErrDuplicateMint) {
		t.Fatalf("expected ErrDuplicateMint, got %v", err)
	}
	if len(minter.calls) != 1 {
		t.Fatalf("duplicate must not reach the minter, got %d calls", len(minter.calls))
	}
}

func TestNFTService_Mint_FailureReleasesGuard(t *testing.T) {
	repo := newStubNFTRepo()
	minter := &stubMinter{err: &domain.ChainError{Step: "broadcast", Err: errors.New("nonce too low")}}
	guard := newStubGuard()
	svc := newNFTServiceForTest(repo, &stubFileStore{}, minter, guard)

	input := ports.MintInput{ToAddress: "0x48320dcDDf05474BDEF8bDA9Cb848a1333d94a98", MetadataURI: "uri-1"}
	if _, err := svc.Mint(context.Background(), input); err == nil {
		t.Fatalf("expected mint failure")
	}
	if len(guard.releases) != 1 {
		t.Fatalf("failed mint must release the guard")
	}
	if len(repo.markCalls) != 0 {
		t.Fatalf("failed mint must not mark the asset")
	}

	// Guard released: a retry goes through.
	minter.err = nil
	minter.receipt = &domain.MintReceipt{TxHash: "0xdef"}
	if _, err := svc.Mint(context.Background(), input); err != nil {
		t.Fatalf("retry after failure should succeed: %v", err)
	}
}

// The record update after broadcast is best-effort: a mint whose metadata URI
// matches no stored asset still returns the receipt.
func TestNFTService_Mint_UnmatchedMetadataIsSilent(t *testing.T) {
	repo := newStubNFTRepo()
	minter := &stubMinter{receipt: &domain.MintReceipt{TxHash: "0xabc"}}
	svc := newNFTServiceForTest(repo, &stubFileStore{}, minter, newStubGuard())

	receipt, err := svc.Mint(context.Background(), ports.MintInput{
		ToAddress:   "0x48320dcDDf05474BDEF8bDA9Cb848a1333d94a98",
		MetadataURI: "http://host/metadata/unknown.json",
	})
	if err != nil {
		t.Fatalf("Mint returned error: %v", err)
	}
	if receipt == nil || receipt.TxHash != "0xabc" {
		t.Fatalf("expected receipt despite unmatched record")
	}
	if len(repo.markCalls) != 1 {
		t.Fatalf("mark should still be attempted once")
	}
}
