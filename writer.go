package vfs

import (
	"context"
	"fmt"
	"io"

	"github.com/andy123456789088/VFS/data"
)

// WriteAllBytes inserts or replaces a file's content at path. The owning
// directory must already exist; intermediate segments are never
// auto-created. Collisions without override fail with ErrExist and leave
// the existing entry untouched; override replaces in place, keeping the
// file's position within its directory.
func (b *Base) WriteAllBytes(ctx context.Context, path string, content []byte, override bool) data.Result[bool] {
	if int64(len(content)) > MaxContentSize {
		return data.Fail[bool](fmt.Errorf("%w: %d bytes", data.ErrTooLarge, len(content)))
	}

	var res data.Result[bool]
	ok := b.work.submit(func() {
		res = b.write(ctx, path, content, override)
	})
	if !ok {
		return data.Fail[bool](data.ErrClosed)
	}

	if res.OK() {
		b.afterChange(ctx)
	}

	return res
}

// WriteAllText is WriteAllBytes for string content.
func (b *Base) WriteAllText(ctx context.Context, path string, text string, override bool) data.Result[bool] {
	return b.WriteAllBytes(ctx, path, []byte(text), override)
}

// WriteStream is WriteAllBytes sourced from a reader. The reader is
// drained before the mutation is scheduled.
func (b *Base) WriteStream(ctx context.Context, path string, r io.Reader, override bool) data.Result[bool] {
	content, err := io.ReadAll(io.LimitReader(r, MaxContentSize+1))
	if err != nil {
		return data.Fail[bool](err)
	}

	return b.WriteAllBytes(ctx, path, content, override)
}

func (b *Base) write(ctx context.Context, path string, content []byte, override bool) data.Result[bool] {
	segments := data.Segments(path)
	if len(segments) == 0 {
		return data.Fail[bool](data.ErrInvalidPath)
	}

	dir, ok := walkDirectories(b.root, segments[:len(segments)-1])
	if !ok {
		return data.NotFound[bool]()
	}

	name := segments[len(segments)-1]
	existing, exists := dir.File(name)
	if exists && !override {
		return data.Fail[bool](fmt.Errorf("%w: %s", data.ErrExist, path))
	}

	ref, err := b.store.Put(ctx, content)
	if err != nil {
		return data.Fail[bool](err)
	}

	if exists {
		old := existing.Ref()
		existing.SetContent(int64(len(content)), ref)
		if err := b.store.Discard(ctx, old); err != nil {
			b.log.Warn("discarding replaced content: %v", err)
		}
	} else {
		if _, err := dir.NewFile(name, int64(len(content)), ref); err != nil {
			return data.Fail[bool](err)
		}
	}

	b.populated = true
	b.log.Debug("wrote %s (%s)", path, humanBytes(len(content)))

	return data.Ok(true)
}
