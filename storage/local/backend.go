// Package local implements the storage backend over the real filesystem.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/andy123456789088/VFS/data"
	"github.com/andy123456789088/VFS/storage"
)

type LocalBackend struct {
	root string
}

// NewLocalBackend creates a backend rooted at the given directory.
// All paths handed to the backend are interpreted relative to it.
func NewLocalBackend(root string) (*LocalBackend, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	return &LocalBackend{root: abs}, nil
}

// Name returns the identifier name defined for this backend.
func (*LocalBackend) Name() string {
	return "local"
}

func (lb *LocalBackend) Open(ctx context.Context) error {
	info, err := os.Stat(lb.root)
	if err != nil {
		return fmt.Errorf("%w: %s", data.ErrNotExist, lb.root)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", data.ErrInvalid, lb.root)
	}

	return nil
}

func (lb *LocalBackend) Close(ctx context.Context) error {
	return nil
}

func (lb *LocalBackend) resolve(path string) string {
	return filepath.Join(lb.root, filepath.FromSlash(path))
}

func (lb *LocalBackend) OpenRead(ctx context.Context, path string) (io.ReadSeekCloser, error) {
	f, err := os.Open(lb.resolve(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", data.ErrNotExist, path)
		}
		return nil, err
	}

	return f, nil
}

func (lb *LocalBackend) WriteAll(ctx context.Context, path string, payload []byte) error {
	target := lb.resolve(path)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	return os.WriteFile(target, payload, 0o644)
}

func (lb *LocalBackend) List(ctx context.Context, path string) ([]storage.EntryInfo, error) {
	entries, err := os.ReadDir(lb.resolve(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", data.ErrNotExist, path)
		}
		return nil, err
	}

	infos := make([]storage.EntryInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}

		infos = append(infos, storage.EntryInfo{
			Name:    entry.Name(),
			Size:    info.Size(),
			IsDir:   entry.IsDir(),
			ModTime: info.ModTime(),
		})
	}

	return infos, nil
}

func (lb *LocalBackend) MakeDir(ctx context.Context, path string) error {
	return os.MkdirAll(lb.resolve(path), 0o755)
}

func (lb *LocalBackend) Stat(ctx context.Context, path string) (*storage.EntryInfo, error) {
	info, err := os.Stat(lb.resolve(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", data.ErrNotExist, path)
		}
		return nil, err
	}

	return &storage.EntryInfo{
		Name:    info.Name(),
		Size:    info.Size(),
		IsDir:   info.IsDir(),
		ModTime: info.ModTime(),
	}, nil
}

func (lb *LocalBackend) Remove(ctx context.Context, path string) error {
	return os.Remove(lb.resolve(path))
}
