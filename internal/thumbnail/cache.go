package thumbnail

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Cache persists derivatives on disk as <documentID>.jpg.
// It is an optimization only; a miss is never an error.
type Cache struct {
	dir string
}

// NewCache creates the cache directory if needed.
func NewCache(dir string) (*Cache, error) {
	if dir == "" {
		return nil, errors.New("thumbnail cache dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create thumbnail dir: %w", err)
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) path(documentID string) (string, error) {
	if documentID == "" || strings.ContainsAny(documentID, `/\`) || strings.HasPrefix(documentID, ".") {
		return "", fmt.Errorf("invalid document id %q", documentID)
	}
	return filepath.Join(c.dir, documentID+".jpg"), nil
}

// Load returns the cached derivative and whether it was present.
func (c *Cache) Load(documentID string) ([]byte, bool, error) {
	p, err := c.path(documentID)
	if err != nil {
		return nil, false, err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read thumbnail: %w", err)
	}
	return b, true, nil
}

// Store writes data atomically, replacing any earlier derivative.
func (c *Cache) Store(documentID string, data []byte) error {
	p, err := c.path(documentID)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(c.dir, ".thumb-*")
	if err != nil {
		return fmt.Errorf("create thumbnail: %w", err)
	}
	_, err = tmp.Write(data)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), p)
	}
	if err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write thumbnail: %w", err)
	}
	return nil
}

// Remove deletes the cached derivative. A missing entry is not an error.
func (c *Cache) Remove(documentID string) error {
	p, err := c.path(documentID)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove thumbnail: %w", err)
	}
	return nil
}
