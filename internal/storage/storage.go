package storage

import (
	"fmt"
	"io"

	"github.com/ringshq/rings/internal/config"
)

// Storage defines the interface for post image storage. The relational
// model stores only the resulting path; bytes live behind this interface.
type Storage interface {
	// Save stores a file at the given path
	Save(path string, file io.Reader) error

	// Delete removes a file at the given path
	Delete(path string) error

	// URL returns the public URL for accessing the file
	URL(path string) string
}

// New selects a storage driver from config: local disk for development and
// single-node deployments, S3-compatible object storage otherwise.
func New(cfg *config.Config) (Storage, error) {
	switch cfg.StorageDriver {
	case "local":
		return NewLocalStorage(cfg.UploadPath)
	case "s3":
		return NewS3Storage(S3Config{
			Region:        cfg.S3Region,
			Bucket:        cfg.S3Bucket,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			Endpoint:      cfg.S3Endpoint,
			PresignExpiry: cfg.S3PresignExpiry,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
