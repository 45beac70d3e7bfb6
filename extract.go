package vfs

import (
	"context"
	"fmt"

	"github.com/andy123456789088/VFS/data"
	"github.com/andy123456789088/VFS/storage"
)

// Extract materializes the whole tree at a physical destination. It
// fails outright when the destination itself cannot be created;
// failures on independent entries do not stop the remaining entries, and
// the joined error reports everything that went wrong.
func (b *Base) Extract(ctx context.Context, target storage.Directory) data.Result[bool] {
	return b.ExtractDirectory(ctx, target, "")
}

// ExtractDirectory materializes the subtree addressed by path. The empty
// path extracts from the root.
func (b *Base) ExtractDirectory(ctx context.Context, target storage.Directory, path string) data.Result[bool] {
	var res data.Result[bool]
	ok := b.work.submit(func() {
		res = b.extractDirectory(ctx, target, path)
	})
	if !ok {
		return data.Fail[bool](data.ErrClosed)
	}

	return res
}

// ExtractFiles materializes the addressed files only, each at its full
// path beneath the target.
func (b *Base) ExtractFiles(ctx context.Context, target storage.Directory, paths ...string) data.Result[bool] {
	var res data.Result[bool]
	ok := b.work.submit(func() {
		res = b.extractFiles(ctx, target, paths)
	})
	if !ok {
		return data.Fail[bool](data.ErrClosed)
	}

	return res
}

func (b *Base) extractDirectory(ctx context.Context, target storage.Directory, path string) data.Result[bool] {
	if !b.populated {
		return data.Fail[bool](data.ErrNotPopulated)
	}

	dir, ok := resolveDirectory(b.root, path)
	if !ok {
		return data.NotFound[bool]()
	}

	if err := target.Backend.MakeDir(ctx, target.Path); err != nil {
		return data.Fail[bool](fmt.Errorf("creating destination %s: %w", target.Path, err))
	}

	var failures data.Errors
	b.extractInto(ctx, target, dir, &failures)

	if err := failures.Join(); err != nil {
		return data.Fail[bool](err)
	}

	b.log.Info("extracted %q to %s:%s", dir.FullPath(), target.Backend.Name(), target.Path)

	return data.Ok(true)
}

func (b *Base) extractInto(ctx context.Context, target storage.Directory, dir *data.Directory, failures *data.Errors) {
	for _, f := range dir.Files() {
		if err := b.extractFile(ctx, target.File(f.Name()), f); err != nil {
			failures.Add(fmt.Errorf("extracting %s: %w", f.FullPath(), err))
		}
	}

	for _, sub := range dir.Directories() {
		subTarget := target.Sub(sub.Name())
		if err := target.Backend.MakeDir(ctx, subTarget.Path); err != nil {
			failures.Add(fmt.Errorf("creating %s: %w", subTarget.Path, err))
			continue
		}

		b.extractInto(ctx, subTarget, sub, failures)
	}
}

func (b *Base) extractFiles(ctx context.Context, target storage.Directory, paths []string) data.Result[bool] {
	if !b.populated {
		return data.Fail[bool](data.ErrNotPopulated)
	}

	if err := target.Backend.MakeDir(ctx, target.Path); err != nil {
		return data.Fail[bool](fmt.Errorf("creating destination %s: %w", target.Path, err))
	}

	var failures data.Errors
	for _, path := range paths {
		f, ok := resolveFile(b.root, path)
		if !ok {
			failures.Add(fmt.Errorf("%w: %s", data.ErrNotExist, path))
			continue
		}

		dest := target
		segments := data.Segments(path)
		for _, segment := range segments[:len(segments)-1] {
			dest = dest.Sub(segment)
			if err := target.Backend.MakeDir(ctx, dest.Path); err != nil {
				failures.Add(fmt.Errorf("creating %s: %w", dest.Path, err))
				continue
			}
		}

		if err := b.extractFile(ctx, dest.File(f.Name()), f); err != nil {
			failures.Add(fmt.Errorf("extracting %s: %w", path, err))
		}
	}

	if err := failures.Join(); err != nil {
		return data.Fail[bool](err)
	}

	return data.Ok(true)
}

func (b *Base) extractFile(ctx context.Context, dest storage.File, f *data.File) error {
	payload, err := b.store.Get(ctx, f.Ref(), f.Size())
	if err != nil {
		return err
	}

	return dest.Write(ctx, payload)
}
