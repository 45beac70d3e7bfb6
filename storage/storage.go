// Package storage defines the physical backend contract the archive core
// delegates to: reading and writing raw bytes at real locations and
// enumerating real directories. The core never touches bytes-on-disk
// itself; lifecycle operations go through a Backend, pure tree queries
// never do.
package storage

import (
	"context"
	"io"
	"time"
)

// EntryInfo describes one entry of a listed directory.
type EntryInfo struct {
	Name    string
	Size    int64
	IsDir   bool
	ModTime time.Time
}

// Backend reads and writes raw bytes at physical locations. Paths are
// backend-native keys: filesystem paths for the local backend, object
// keys for S3, KV keys for Consul, row keys for Postgres.
type Backend interface {
	// Name returns the identifier defined for this backend.
	Name() string

	// Open is part of the lifecycle behaviour and gets called before the
	// backend is used for the first time.
	Open(ctx context.Context) error

	// Close releases any resources held by the backend.
	Close(ctx context.Context) error

	// OpenRead opens the entry at path for random-access reading.
	// Returns data.ErrNotExist (wrapped) when the entry is absent.
	OpenRead(ctx context.Context, path string) (io.ReadSeekCloser, error)

	// WriteAll replaces the entry at path with payload, creating it when
	// absent. Parent directories are created as needed.
	WriteAll(ctx context.Context, path string, payload []byte) error

	// List enumerates the immediate entries of the directory at path.
	List(ctx context.Context, path string) ([]EntryInfo, error)

	// MakeDir creates the directory at path, including missing parents.
	// Backends whose directories are virtual treat this as a no-op.
	MakeDir(ctx context.Context, path string) error

	// Stat describes the entry at path.
	Stat(ctx context.Context, path string) (*EntryInfo, error)

	// Remove deletes the entry at path.
	Remove(ctx context.Context, path string) error
}

// File addresses a single physical file on a backend.
type File struct {
	Backend Backend
	Path    string
}

// ReadAll fetches the complete content of the file.
func (f File) ReadAll(ctx context.Context) ([]byte, error) {
	r, err := f.Backend.OpenRead(ctx, f.Path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}

// Write replaces the file content with payload.
func (f File) Write(ctx context.Context, payload []byte) error {
	return f.Backend.WriteAll(ctx, f.Path, payload)
}

// Directory addresses a physical directory on a backend.
type Directory struct {
	Backend Backend
	Path    string
}

// List enumerates the directory's immediate entries.
func (d Directory) List(ctx context.Context) ([]EntryInfo, error) {
	return d.Backend.List(ctx, d.Path)
}

// Join addresses the named entry inside this directory.
func (d Directory) Join(name string) string {
	if d.Path == "" {
		return name
	}

	return d.Path + "/" + name
}

// Sub addresses the named subdirectory.
func (d Directory) Sub(name string) Directory {
	return Directory{Backend: d.Backend, Path: d.Join(name)}
}

// File addresses the named file inside this directory.
func (d Directory) File(name string) File {
	return File{Backend: d.Backend, Path: d.Join(name)}
}
