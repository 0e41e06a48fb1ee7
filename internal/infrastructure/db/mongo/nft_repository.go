package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rimba/nft-store/internal/core/domain"
	"github.com/rimba/nft-store/internal/core/ports"
)

const collectionNFTs = "nfts"

type NFTRepository struct {
	coll *mongo.Collection
}

func NewNFTRepository(db *mongo.Database) *NFTRepository {
	return &NFTRepository{coll: db.Collection(collectionNFTs)}
}

type nftDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID     string             `bson:"owner_id"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	ImageURL    string             `bson:"image_url"`
	MetadataURL string             `bson:"metadata_url"`
	Attributes  []byte             `bson:"attributes,omitempty"`
	BidPrice    float64            `bson:"bid_price"`
	Minted      bool               `bson:"minted"`
	MintTxHash  string             `bson:"mint_tx_hash,omitempty"`
	CreatedAt   int64              `bson:"created_at"`
	UpdatedAt   int64              `bson:"updated_at"`
}

func (d *nftDoc) toDomain() *domain.NFTAsset {
	return &domain.NFTAsset{
		ID:          d.ID.Hex(),
		OwnerID:     d.OwnerID,
		Name:        d.Name,
		Description: d.Description,
		ImageURL:    d.ImageURL,
		MetadataURL: d.MetadataURL,
		Attributes:  d.Attributes,
		BidPrice:    d.BidPrice,
		Minted:      d.Minted,
		MintTxHash:  d.MintTxHash,
		CreatedAt:   unixToTime(d.CreatedAt),
		UpdatedAt:   unixToTime(d.UpdatedAt),
	}
}

func (r *NFTRepository) Create(ctx context.Context, asset *domain.NFTAsset) (*domain.NFTAsset, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := nftDoc{
		OwnerID:     asset.OwnerID,
		Name:        asset.Name,
		Description: asset.Description,
		ImageURL:    asset.ImageURL,
		MetadataURL: asset.MetadataURL,
		Attributes:  asset.Attributes,
		BidPrice:    asset.BidPrice,
		Minted:      asset.Minted,
		CreatedAt:   asset.CreatedAt.Unix(),
		UpdatedAt:   asset.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert nft: %w", err)
	}

	created := *asset
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *NFTRepository) FindByID(ctx context.Context, id string) (*domain.NFTAsset, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAssetNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc nftDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAssetNotFound
		}
		return nil, fmt.Errorf("find nft: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *NFTRepository) List(ctx context.Context) ([]domain.NFTAsset, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list nfts: %w", err)
	}
	defer cur.Close(ctx)

	var assets []domain.NFTAsset
	for cur.Next(ctx) {
		var doc nftDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode nft: %w", err)
		}
		assets = append(assets, *doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list nfts: %w", err)
	}
	return assets, nil
}

func (r *NFTRepository) Update(ctx context.Context, id string, upd ports.AssetUpdate) (*domain.NFTAsset, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAssetNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC().Unix()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.BidPrice != nil {
		set["bid_price"] = *upd.BidPrice
	}
	if upd.Attributes != nil {
		set["attributes"] = []byte(upd.Attributes)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc nftDoc
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAssetNotFound
		}
		return nil, fmt.Errorf("update nft: %w", err)
	}
	return doc.toDomain(), nil
}

// MarkMinted flips minted=true on the asset whose metadata URL matches.
// A miss is silent: the update is best-effort and re-running it on an
// already-minted asset changes nothing.
func (r *NFTRepository) MarkMinted(ctx context.Context, metadataURI, txHash string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"minted": true, "updated_at": time.Now().UTC().Unix()}
	if txHash != "" {
		set["mint_tx_hash"] = txHash
	}

	_, err := r.coll.UpdateOne(ctx,
		bson.M{"metadata_url": metadataURI},
		bson.M{"$set": set},
	)
	if err != nil {
		return fmt.Errorf("mark minted: %w", err)
	}
	return nil
}
