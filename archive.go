package vfs

import (
	"context"
	"fmt"

	"github.com/andy123456789088/VFS/data"
	"github.com/andy123456789088/VFS/log"
	"github.com/andy123456789088/VFS/storage"
)

// Base is the shared tree engine embedded by every concrete archive
// backend. It owns the virtual tree, the per-archive index allocator and
// the mutation worker, and implements every Archive operation except the
// format-specific Read and Save.
type Base struct {
	root  *data.Directory
	alloc *data.IndexAllocator
	opts  *Options
	log   *log.Logger
	work  *worker

	store ContentStore
	self  Archive

	populated bool
}

// NewBase creates the tree engine for a fresh, unpopulated archive.
// The embedding backend must call Bind before use.
func NewBase(opts ...Option) (*Base, error) {
	options := newDefaultOptions()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	alloc := data.NewIndexAllocator()

	return &Base{
		root:  data.NewTreeWith(alloc),
		alloc: alloc,
		opts:  options,
		log:   options.Logger,
		work:  newWorker(),
	}, nil
}

// Bind wires the embedding backend into the engine: self is the outer
// archive (the target of automatic saves), store moves content in and
// out of the encoding.
func (b *Base) Bind(self Archive, store ContentStore) {
	b.self = self
	b.store = store
}

// Root returns the tree's root directory.
func (b *Base) Root() *data.Directory {
	return b.root
}

// Handle returns nil: a base archive delegates to nothing. Layered
// implementations override this.
func (b *Base) Handle() Archive {
	return nil
}

// Allocator returns the index allocator owned by this archive's tree.
func (b *Base) Allocator() *data.IndexAllocator {
	return b.alloc
}

// Logger returns the archive's logger.
func (b *Base) Logger() *log.Logger {
	return b.log
}

// Options returns the archive's configuration.
func (b *Base) Options() *Options {
	return b.opts
}

// Populated reports whether the tree has been filled by Create or Read.
func (b *Base) Populated() bool {
	return b.populated
}

// AdoptTree replaces the engine's tree with one a backend rebuilt from
// serialized metadata, marking the archive populated.
func (b *Base) AdoptTree(root *data.Directory) {
	b.root = root
	b.populated = true
}

// RunExclusive runs fn on the archive's mutation worker, serialized with
// every other mutating operation, and waits for it. Reports false when
// the archive is closed.
func (b *Base) RunExclusive(fn func()) bool {
	return b.work.submit(fn)
}

// Close stops the mutation worker. Operations after Close fail with
// ErrClosed.
func (b *Base) Close(ctx context.Context) error {
	b.work.close()
	return nil
}

// afterChange triggers the automatic save configured by SaveAfterChange.
// Called on the caller goroutine after the mutation job has completed,
// so Save can take its own turn on the worker.
func (b *Base) afterChange(ctx context.Context) {
	if !b.opts.SaveAfterChange || b.self == nil {
		return
	}

	if saved := b.self.Save(ctx); !saved.OK() && saved.Err() != nil {
		b.log.Error("automatic save failed: %v", saved.Err())
	}
}

// Create populates the tree by recursively ingesting a physical
// directory through its storage backend.
func (b *Base) Create(ctx context.Context, source storage.Directory) data.Result[bool] {
	var res data.Result[bool]
	ok := b.work.submit(func() {
		res = b.create(ctx, source)
	})
	if !ok {
		return data.Fail[bool](data.ErrClosed)
	}

	return res
}

// CreateFromEntries populates the tree from an explicit set of physical
// files and directories, all attached directly under the root.
func (b *Base) CreateFromEntries(ctx context.Context, files []storage.File, dirs []storage.Directory) data.Result[bool] {
	var res data.Result[bool]
	ok := b.work.submit(func() {
		res = b.createFromEntries(ctx, files, dirs)
	})
	if !ok {
		return data.Fail[bool](data.ErrClosed)
	}

	return res
}

func (b *Base) create(ctx context.Context, source storage.Directory) data.Result[bool] {
	if b.populated {
		return data.Fail[bool](data.ErrAlreadyPopulated)
	}

	if err := b.ingestDirectory(ctx, source, b.root); err != nil {
		return data.Fail[bool](err)
	}

	b.populated = true
	b.log.Info("created archive tree from %s:%s", source.Backend.Name(), source.Path)

	return data.Ok(true)
}

func (b *Base) createFromEntries(ctx context.Context, files []storage.File, dirs []storage.Directory) data.Result[bool] {
	if b.populated {
		return data.Fail[bool](data.ErrAlreadyPopulated)
	}

	for _, dir := range dirs {
		name := lastSegment(dir.Path)
		node, err := b.root.NewSubdirectory(name)
		if err != nil {
			return data.Fail[bool](err)
		}

		if err := b.ingestDirectory(ctx, dir, node); err != nil {
			return data.Fail[bool](err)
		}
	}

	for _, file := range files {
		if err := b.ingestFile(ctx, file, b.root, lastSegment(file.Path)); err != nil {
			return data.Fail[bool](err)
		}
	}

	b.populated = true

	return data.Ok(true)
}

func (b *Base) ingestDirectory(ctx context.Context, source storage.Directory, node *data.Directory) error {
	entries, err := source.List(ctx)
	if err != nil {
		return fmt.Errorf("listing %s: %w", source.Path, err)
	}

	for _, entry := range entries {
		if entry.IsDir {
			sub, err := node.NewSubdirectory(entry.Name)
			if err != nil {
				return err
			}

			if err := b.ingestDirectory(ctx, source.Sub(entry.Name), sub); err != nil {
				return err
			}
			continue
		}

		if err := b.ingestFile(ctx, source.File(entry.Name), node, entry.Name); err != nil {
			return err
		}
	}

	return nil
}

func (b *Base) ingestFile(ctx context.Context, source storage.File, node *data.Directory, name string) error {
	payload, err := source.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("reading %s: %w", source.Path, err)
	}

	ref, err := b.store.Put(ctx, payload)
	if err != nil {
		return err
	}

	if _, err := node.NewFile(name, int64(len(payload)), ref); err != nil {
		return err
	}

	b.log.Debug("ingested %s (%s)", data.JoinPath(node.FullPath(), name), humanBytes(len(payload)))

	return nil
}

func lastSegment(path string) string {
	segments := data.Segments(path)
	if len(segments) == 0 {
		return path
	}

	return segments[len(segments)-1]
}
