package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/vango-dev/fibre/internal/errors"
)

// Store writes snapshot objects.
type Store interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
}

// DirStore stores snapshots on the local filesystem.
type DirStore struct {
	dir string
}

// NewDirStore creates a DirStore rooted at dir, creating it if needed.
func NewDirStore(dir string) (*DirStore, error) {
	if dir == "" {
		return nil, errors.New(errors.CodeSnapshotConfig).WithDetail("directory is empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.New(errors.CodeSnapshotWrite).Wrap(err)
	}
	return &DirStore{dir: dir}, nil
}

// Dir returns the root directory.
func (s *DirStore) Dir() string {
	return s.dir
}

// Put writes body to key under the root directory.
// Keys must be relative and stay inside the root.
func (s *DirStore) Put(ctx context.Context, key string, body []byte, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.New(errors.CodeSnapshotWrite).WithDetail(key).Wrap(err)
	}

	// Write through a temp file in the target directory, then rename.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return errors.New(errors.CodeSnapshotWrite).WithDetail(key).Wrap(err)
	}
	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.New(errors.CodeSnapshotWrite).WithDetail(key).Wrap(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.New(errors.CodeSnapshotWrite).WithDetail(key).Wrap(err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return errors.New(errors.CodeSnapshotWrite).WithDetail(key).Wrap(err)
	}
	return nil
}

func (s *DirStore) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if key == "" || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", errors.New(errors.CodeSnapshotConfig).WithDetailf("invalid key %q", key)
	}
	return filepath.Join(s.dir, clean), nil
}
