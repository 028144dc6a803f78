package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrUnsupportedType is returned for files outside the image allow-list.
var ErrUnsupportedType = errors.New("unsupported file type: only JPEG, PNG, GIF and WEBP are allowed")

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Store persists image bytes and returns a public URL for them.
type Store interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)

	// Remove deletes an image previously returned by Save.
	Remove(ctx context.Context, url string) error
}

// DiskStore writes images into a directory served under /uploads.
type DiskStore struct {
	dir     string
	baseURL string
}

// NewDiskStore creates the upload directory if needed.
func NewDiskStore(dir, publicURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create upload directory: %w", err)
	}
	return &DiskStore{
		dir:     dir,
		baseURL: strings.TrimRight(publicURL, "/") + "/uploads/",
	}, nil
}

// Dir is the directory files are written to.
func (s *DiskStore) Dir() string {
	return s.dir
}

// Save stores r under a fresh name that keeps the original extension.
func (s *DiskStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return "", ErrUnsupportedType
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("unable to save file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("unable to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("unable to write file: %w", err)
	}

	return s.baseURL + name, nil
}

// Remove deletes the file behind url. URLs this store did not issue are
// rejected; a file that is already gone is not an error.
func (s *DiskStore) Remove(ctx context.Context, url string) error {
	name, ok := strings.CutPrefix(url, s.baseURL)
	if !ok || name == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("not an uploaded image: %q", url)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("unable to remove file: %w", err)
	}
	return nil
}
