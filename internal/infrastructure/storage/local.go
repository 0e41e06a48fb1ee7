// Package storage persists uploaded images and generated metadata documents
// on the local filesystem. Files get unique names so concurrent uploads never
// collide, and both directories are served statically by the HTTP layer.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/rimba/nft-store/internal/core/ports"
)

const (
	uploadsPrefix  = "uploads"
	metadataPrefix = "metadata"
)

// Config captures the directories files are written to and the base URL they
// are served from.
type Config struct {
	UploadDir     string
	MetadataDir   string
	PublicBaseURL string
}

type LocalStore struct {
	uploadDir   string
	metadataDir string
	baseURL     string
}

// NewLocalStore creates both directories if missing and returns the store.
func NewLocalStore(cfg Config) (*LocalStore, error) {
	for _, dir := range []string{cfg.UploadDir, cfg.MetadataDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create dir %s: %w", dir, err)
		}
	}
	return &LocalStore{
		uploadDir:   cfg.UploadDir,
		metadataDir: cfg.MetadataDir,
		baseURL:     strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// SaveImage writes the image under a unique name, keeping the original
// extension, and returns its public URL.
func (s *LocalStore) SaveImage(origName string, data []byte) (string, error) {
	name := "image-" + uuid.NewString() + filepath.Ext(origName)
	if err := os.WriteFile(filepath.Join(s.uploadDir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return s.publicURL(uploadsPrefix, name), nil
}

// SaveMetadata writes the metadata document as indented JSON and returns its
// public URL.
func (s *LocalStore) SaveMetadata(meta ports.AssetMetadata) (string, error) {
	body, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}

	name := "metadata-" + uuid.NewString() + ".json"
	if err := os.WriteFile(filepath.Join(s.metadataDir, name), body, 0o644); err != nil {
		return "", fmt.Errorf("write metadata: %w", err)
	}
	return s.publicURL(metadataPrefix, name), nil
}

func (s *LocalStore) publicURL(prefix, name string) string {
	return s.baseURL + "/" + path.Join(prefix, name)
}
