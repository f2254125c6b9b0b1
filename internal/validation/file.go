package validation

import (
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ringshq/rings/internal/apperr"
)

// ImageConstraints defines the upload rules for post images.
type ImageConstraints struct {
	AllowedMimeTypes  map[string]bool
	AllowedExtensions map[string]bool
	MaxSize           int64
}

var PostImageConstraints = ImageConstraints{
	AllowedMimeTypes: map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/gif":  true,
	},
	AllowedExtensions: map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
	},
	MaxSize: 10 << 20, // 10 MiB
}

// ValidateImage checks a post image upload. The declared content type, the
// file extension, and the sniffed content must all be on the allow-list; a
// spoofed extension or header alone is rejected.
func ValidateImage(header *multipart.FileHeader, constraints ImageConstraints) *apperr.Error {
	if header.Size > constraints.MaxSize {
		return apperr.Validation("Image file is too large. Maximum size is 10MB.", "image")
	}

	declared, _, err := mime.ParseMediaType(header.Header.Get("Content-Type"))
	if err != nil || !constraints.AllowedMimeTypes[declared] {
		return apperr.Validation("Unsupported image format. Please use JPEG, PNG, or GIF.", "image")
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !constraints.AllowedExtensions[ext] {
		return apperr.Validation("Unsupported image format. Please use JPEG, PNG, or GIF.", "image")
	}

	file, err := header.Open()
	if err != nil {
		return apperr.Validation("Unable to read uploaded image.", "image")
	}
	defer func() { _ = file.Close() }()

	// Sniff magic numbers: a forged Content-Type header cannot pass this.
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return apperr.Validation("Unable to read uploaded image.", "image")
	}

	detected := http.DetectContentType(buffer[:n])
	if !constraints.AllowedMimeTypes[detected] {
		return apperr.Validation("Unsupported image format. Please use JPEG, PNG, or GIF.", "image")
	}

	return nil
}
