// Package memory implements an in-memory storage backend, used for tests
// and ephemeral archives that never touch a disk.
package memory

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/andy123456789088/VFS/data"
	"github.com/andy123456789088/VFS/storage"
	"github.com/tidwall/btree"
)

type entry struct {
	payload []byte
	isDir   bool
	modTime time.Time
}

// MemoryBackend keeps every entry in RAM. The B-tree key index keeps
// listings ordered without re-sorting on every List call.
type MemoryBackend struct {
	mu   sync.RWMutex
	keys *btree.Map[string, *entry]
}

func NewMemoryBackend() *MemoryBackend {
	mb := &MemoryBackend{
		keys: btree.NewMap[string, *entry](0),
	}
	mb.keys.Set("", &entry{isDir: true, modTime: time.Now()})

	return mb
}

// Name returns the identifier name defined for this backend.
func (*MemoryBackend) Name() string {
	return "memory"
}

func (mb *MemoryBackend) Open(ctx context.Context) error {
	return nil
}

func (mb *MemoryBackend) Close(ctx context.Context) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	mb.keys.Clear()
	return nil
}

func (mb *MemoryBackend) OpenRead(ctx context.Context, path string) (io.ReadSeekCloser, error) {
	mb.mu.RLock()
	defer mb.mu.RUnlock()

	e, exists := mb.keys.Get(clean(path))
	if !exists {
		return nil, fmt.Errorf("%w: %s", data.ErrNotExist, path)
	}

	if e.isDir {
		return nil, fmt.Errorf("%w: %s is a directory", data.ErrInvalid, path)
	}

	return storage.NewByteSeeker(e.payload), nil
}

func (mb *MemoryBackend) WriteAll(ctx context.Context, path string, payload []byte) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	path = clean(path)
	mb.ensureParentsLocked(path)

	buffer := make([]byte, len(payload))
	copy(buffer, payload)

	mb.keys.Set(path, &entry{payload: buffer, modTime: time.Now()})
	return nil
}

func (mb *MemoryBackend) List(ctx context.Context, path string) ([]storage.EntryInfo, error) {
	mb.mu.RLock()
	defer mb.mu.RUnlock()

	path = clean(path)
	dir, exists := mb.keys.Get(path)
	if !exists {
		return nil, fmt.Errorf("%w: %s", data.ErrNotExist, path)
	}

	if !dir.isDir {
		return nil, fmt.Errorf("%w: %s is not a directory", data.ErrInvalid, path)
	}

	prefix := path
	if prefix != "" {
		prefix += "/"
	}

	var infos []storage.EntryInfo
	mb.keys.Ascend(prefix, func(key string, e *entry) bool {
		if !strings.HasPrefix(key, prefix) {
			return false
		}

		rest := key[len(prefix):]
		if rest == "" || strings.Contains(rest, "/") {
			return true
		}

		infos = append(infos, storage.EntryInfo{
			Name:    rest,
			Size:    int64(len(e.payload)),
			IsDir:   e.isDir,
			ModTime: e.modTime,
		})
		return true
	})

	return infos, nil
}

func (mb *MemoryBackend) MakeDir(ctx context.Context, path string) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	path = clean(path)
	mb.ensureParentsLocked(path)
	if _, exists := mb.keys.Get(path); !exists {
		mb.keys.Set(path, &entry{isDir: true, modTime: time.Now()})
	}

	return nil
}

func (mb *MemoryBackend) Stat(ctx context.Context, path string) (*storage.EntryInfo, error) {
	mb.mu.RLock()
	defer mb.mu.RUnlock()

	path = clean(path)
	e, exists := mb.keys.Get(path)
	if !exists {
		return nil, fmt.Errorf("%w: %s", data.ErrNotExist, path)
	}

	name := path
	if i := strings.LastIndex(path, "/"); i >= 0 {
		name = path[i+1:]
	}

	return &storage.EntryInfo{
		Name:    name,
		Size:    int64(len(e.payload)),
		IsDir:   e.isDir,
		ModTime: e.modTime,
	}, nil
}

func (mb *MemoryBackend) Remove(ctx context.Context, path string) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	path = clean(path)
	if _, exists := mb.keys.Get(path); !exists {
		return fmt.Errorf("%w: %s", data.ErrNotExist, path)
	}

	mb.keys.Delete(path)
	return nil
}

// ensureParentsLocked creates the missing directory chain above path.
func (mb *MemoryBackend) ensureParentsLocked(path string) {
	segments := strings.Split(path, "/")
	current := ""
	for _, segment := range segments[:len(segments)-1] {
		if current == "" {
			current = segment
		} else {
			current = current + "/" + segment
		}

		if _, exists := mb.keys.Get(current); !exists {
			mb.keys.Set(current, &entry{isDir: true, modTime: time.Now()})
		}
	}
}

func clean(path string) string {
	return strings.Trim(path, "/")
}
