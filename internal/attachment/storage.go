package attachment

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Storage persists raw attachment bytes. References are opaque to the rest of
// the system; only the storage implementation knows how to resolve them.
type Storage interface {
	Store(ctx context.Context, ref string, r io.Reader) error
	Delete(ctx context.Context, ref string) error
}

type diskStorage struct {
	dir string
}

func NewDiskStorage(dir string) (Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &diskStorage{dir: dir}, nil
}

func (s *diskStorage) Store(_ context.Context, ref string, r io.Reader) error {
	path := filepath.Join(s.dir, filepath.Base(ref))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create attachment file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return fmt.Errorf("write attachment file: %w", err)
	}

	return nil
}

func (s *diskStorage) Delete(_ context.Context, ref string) error {
	path := filepath.Join(s.dir, filepath.Base(ref))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove attachment file: %w", err)
	}
	return nil
}
