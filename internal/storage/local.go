package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage writes files under a root directory on disk. Files are served
// by the application itself under /uploads/.
type LocalStorage struct {
	root string
}

func NewLocalStorage(root string) (*LocalStorage, error) {
	err := os.MkdirAll(root, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStorage{root: root}, nil
}

// Root returns the directory files are written to, for static serving.
func (s *LocalStorage) Root() string {
	return s.root
}

func (s *LocalStorage) Save(path string, file io.Reader) error {
	full := filepath.Join(s.root, filepath.FromSlash(path))

	err := os.MkdirAll(filepath.Dir(full), 0755)
	if err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	out, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = out.Close() }()

	_, err = io.Copy(out, file)
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

func (s *LocalStorage) Delete(path string) error {
	return os.Remove(filepath.Join(s.root, filepath.FromSlash(path)))
}

func (s *LocalStorage) URL(path string) string {
	return "/uploads/" + strings.TrimPrefix(path, "/")
}
