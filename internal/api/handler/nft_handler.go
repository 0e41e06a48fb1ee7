package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rimba/nft-store/internal/api/metrics"
	"github.com/rimba/nft-store/internal/core/domain"
	"github.com/rimba/nft-store/internal/core/ports"
)

// NFTHandler handles asset upload, listing, edits and mint submissions.
type NFTHandler struct {
	nftService ports.NFTService
}

func NewNFTHandler(nftService ports.NFTService) *NFTHandler {
	return &NFTHandler{nftService: nftService}
}

type updateNFTRequest struct {
	Name        *string         `json:"name,omitempty"`
	Description *string         `json:"description,omitempty"`
	BidPrice    *float64        `json:"bid_price,omitempty"`
	Attributes  json.RawMessage `json:"attributes,omitempty"`
}

type mintRequest struct {
	ToAddress   string `json:"toAddress" validate:"required"`
	MetadataURI string `json:"metadataURI" validate:"required"`
}

type nftResponse struct {
	Message string           `json:"message"`
	NFT     *domain.NFTAsset `json:"nft"`
}

type mintResponse struct {
	Message string              `json:"message"`
	Receipt *domain.MintReceipt `json:"receipt"`
}

// Create handles POST /api/nfts: stores the uploaded image, generates the
// metadata document and persists the asset record.
//
// @Summary      Upload a new NFT asset and generate metadata
// @Tags         nfts
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        name         formData  string  true   "Asset name"
// @Param        description  formData  string  false  "Asset description"
// @Param        bid_price    formData  number  false  "Bid price"
// @Param        attributes   formData  string  false  "Attributes (JSON array)"
// @Param        image        formData  file    true   "Image file"
// @Success      201  {object}  nftResponse
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/nfts [post]
func (h *NFTHandler) Create(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "image is required"})
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unreadable image"})
	}
	defer src.Close()

	image, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unreadable image"})
	}

	bidPrice := 0.0
	if raw := c.FormValue("bid_price"); raw != "" {
		bidPrice, err = strconv.ParseFloat(raw, 64)
		if err != nil || bidPrice < 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bid_price must be a non-negative number"})
		}
	}

	var attrs json.RawMessage
	if raw := c.FormValue("attributes"); raw != "" {
		if !json.Valid([]byte(raw)) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "attributes must be valid JSON"})
		}
		attrs = json.RawMessage(raw)
	}

	asset, err := h.nftService.CreateAsset(c.Request().Context(), ports.CreateAssetInput{
		OwnerID:     userID,
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Attributes:  attrs,
		BidPrice:    bidPrice,
		ImageName:   file.Filename,
		Image:       image,
	})
	if err != nil {
		return err
	}

	metrics.AssetsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, nftResponse{Message: "nft asset added successfully", NFT: asset})
}

// List handles GET /api/nfts. Listings are not owner-scoped: every
// authenticated caller sees all assets and their minting status.
//
// @Summary      List all NFT assets
// @Tags         nfts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.NFTAsset
// @Failure      401  {object}  map[string]string
// @Router       /api/nfts [get]
func (h *NFTHandler) List(c echo.Context) error {
	assets, err := h.nftService.ListAssets(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, assets)
}

// Update handles PUT /api/nfts/:id. Only the provided fields are overwritten.
//
// @Summary      Edit an uploaded NFT asset
// @Tags         nfts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "NFT ID"
// @Param        body  body      updateNFTRequest  true  "Fields to update"
// @Success      200   {object}  nftResponse
// @Failure      404   {object}  map[string]string
// @Router       /api/nfts/{id} [put]
func (h *NFTHandler) Update(c echo.Context) error {
	var req updateNFTRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if req.BidPrice != nil && *req.BidPrice < 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bid_price must be a non-negative number"})
	}

	asset, err := h.nftService.UpdateAsset(c.Request().Context(), c.Param("id"), ports.AssetUpdate{
		Name:        req.Name,
		Description: req.Description,
		BidPrice:    req.BidPrice,
		Attributes:  req.Attributes,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, nftResponse{Message: "nft asset updated successfully", NFT: asset})
}

// Mint handles POST /api/nfts/mint: submits the on-chain mint for a
// previously uploaded asset's metadata URI and returns the raw receipt.
//
// @Summary      Mint an NFT to an address
// @Tags         nfts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      mintRequest  true  "Recipient address and metadata URI"
// @Success      201   {object}  mintResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/nfts/mint [post]
func (h *NFTHandler) Mint(c echo.Context) error {
	var req mintRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	receipt, err := h.nftService.Mint(c.Request().Context(), ports.MintInput{
		ToAddress:   req.ToAddress,
		MetadataURI: req.MetadataURI,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, mintResponse{Message: "nft minted successfully", Receipt: receipt})
}
