package ports

import "encoding/json"

// AssetMetadata is the document written alongside each uploaded image and
// later referenced by its URL when minting.
type AssetMetadata struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Image       string          `json:"image"`
	Attributes  json.RawMessage `json:"attributes,omitempty"`
}

// FileStore persists uploaded images and generated metadata documents and
// returns publicly servable URLs for both.
type FileStore interface {
	// SaveImage writes the image under a unique name derived from origName
	// and returns its public URL.
	SaveImage(origName string, data []byte) (string, error)
	// SaveMetadata writes the metadata document as JSON and returns its
	// public URL.
	SaveMetadata(meta AssetMetadata) (string, error)
}
