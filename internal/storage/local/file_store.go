// Package local implements storage.Files on top of an afero filesystem.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/JakeFAU/sitestamp/internal/storage"
)

// Config captures the parameters for the local file store.
type Config struct {
	// Root is the site directory relative paths are resolved against.
	Root string `mapstructure:"root" yaml:"root"`
}

// Store reads and rewrites files under a site root.
type Store struct {
	fs   afero.Fs
	root string
}

// New creates a file store rooted at cfg.Root. A nil fs means the host filesystem.
func New(fsys afero.Fs, cfg Config) (*Store, error) {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if strings.TrimSpace(cfg.Root) == "" {
		return nil, fmt.Errorf("root directory is required")
	}
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", cfg.Root, err)
	}

	info, err := fsys.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path %s is not a directory", root)
	}

	return &Store{
		fs:   fsys,
		root: root,
	}, nil
}

// Root returns the absolute site root.
func (s *Store) Root() string {
	return s.root
}

// Resolve turns a site-relative path into an absolute one. Absolute paths are cleaned
// and returned as-is.
func (s *Store) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(s.root, path)
}

// Read returns the full contents of path. The handle is closed on every return path.
func (s *Store) Read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context canceled: %w", err)
	}
	path = s.Resolve(path)

	f, err := s.fs.Open(path)
	if err != nil {
		return nil, translate(path, err)
	}
	defer f.Close() //nolint:errcheck // read-only handle

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// Replace truncates path and writes data through the existing file, so symlinks and
// hard links keep pointing at the rewritten contents and the permissions are left
// untouched. The target must already exist.
func (s *Store) Replace(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context canceled: %w", err)
	}
	path = s.Resolve(path)

	info, err := s.fs.Stat(path)
	if err != nil {
		return translate(path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}

	f, err := s.fs.OpenFile(path, os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return translate(path, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func translate(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) || os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, path)
	}
	return fmt.Errorf("open %s: %w", path, err)
}
