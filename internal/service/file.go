package service

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/ringshq/rings/internal/storage"
	"github.com/ringshq/rings/internal/validation"
)

type FileService struct {
	storage storage.Storage
}

func NewFileService(storage storage.Storage) *FileService {
	return &FileService{storage: storage}
}

// SaveImage validates and stores a post image, returning the URL the post
// will carry. Filenames are generated, never taken from the upload.
func (s *FileService) SaveImage(header *multipart.FileHeader) (string, error) {
	if err := validation.ValidateImage(header, validation.PostImageConstraints); err != nil {
		return "", err
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer func() { _ = file.Close() }()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	path := "images/" + uuid.New().String() + ext

	err = s.storage.Save(path, file)
	if err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}

	return s.storage.URL(path), nil
}
