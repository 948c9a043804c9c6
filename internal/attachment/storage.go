package attachment

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NormalizeRelativePath cleans a stored relative path and rejects
// anything that would escape the storage root: absolute paths, drive
// prefixes and ".." traversal. The returned path always uses forward
// slashes.
func NormalizeRelativePath(p string) (string, error) {
	if p == "" {
		return "", fmt.Errorf("empty path")
	}
	p = strings.ReplaceAll(p, "\\", "/")
	if strings.Contains(p, ":") {
		return "", fmt.Errorf("invalid path %q", p)
	}
	cleaned := filepath.ToSlash(filepath.Clean(p))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("path %q escapes storage root", p)
	}
	return cleaned, nil
}

// GenerateFileName builds the stored name: upload time in unix
// milliseconds, a UUID and the original extension (lowercased).
func GenerateFileName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)
}

// Storage persists attachment payloads. The service depends on this
// interface so tests can swap the disk for an in-memory fake.
type Storage interface {
	Save(relativePath string, src io.Reader) (int64, error)
	Open(relativePath string) (io.ReadCloser, error)
	Remove(relativePath string) error
}

// DiskStorage writes files under a single root directory, one
// subdirectory per direction.
type DiskStorage struct {
	root string
}

func NewDiskStorage(root string) (*DiskStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &DiskStorage{root: root}, nil
}

func (s *DiskStorage) Save(relativePath string, src io.Reader) (int64, error) {
	rel, err := NormalizeRelativePath(relativePath)
	if err != nil {
		return 0, err
	}
	full := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return 0, fmt.Errorf("create upload directory: %w", err)
	}
	dst, err := os.Create(full)
	if err != nil {
		return 0, fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, src)
	if err != nil {
		os.Remove(full)
		return 0, fmt.Errorf("write file: %w", err)
	}
	return written, nil
}

func (s *DiskStorage) Open(relativePath string) (io.ReadCloser, error) {
	rel, err := NormalizeRelativePath(relativePath)
	if err != nil {
		return nil, err
	}
	return os.Open(filepath.Join(s.root, filepath.FromSlash(rel)))
}

func (s *DiskStorage) Remove(relativePath string) error {
	rel, err := NormalizeRelativePath(relativePath)
	if err != nil {
		return err
	}
	return os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
}
