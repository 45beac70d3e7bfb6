package vfs

import (
	"context"
	"strings"

	"github.com/andy123456789088/VFS/data"
)

// Exists reports whether a file is present at path, resolved from start
// (nil means the root). It never mutates and fails closed: any missing
// intermediate segment yields false.
func (b *Base) Exists(path string, start *data.Directory) bool {
	if start == nil {
		start = b.root
	}

	_, ok := resolveFile(start, path)
	return ok
}

// Remove detaches the file addressed by path from its owning directory.
// The owning directory is resolved exactly like a lookup; a missing
// intermediate directory or final file is a plain not-found result with
// no error payload. The operation is offloaded to the archive's worker
// and awaited, running atomically with respect to the tree.
func (b *Base) Remove(ctx context.Context, path string, start *data.Directory) data.Result[bool] {
	if start == nil {
		start = b.root
	}

	var res data.Result[bool]
	ok := b.work.submit(func() {
		res = b.remove(ctx, path, start)
	})
	if !ok {
		return data.Fail[bool](data.ErrClosed)
	}

	if res.OK() {
		b.afterChange(ctx)
	}

	return res
}

func (b *Base) remove(ctx context.Context, path string, start *data.Directory) data.Result[bool] {
	segments := data.Segments(path)
	if len(segments) == 0 {
		return data.NotFound[bool]()
	}

	// Single-segment removal matches the bare file name against start's
	// immediate children; multi-segment removal matches the reconstructed
	// full path, mirroring lookup.
	if len(segments) == 1 {
		f, ok := start.File(segments[0])
		if !ok {
			return data.NotFound[bool]()
		}

		return b.detach(ctx, start, f)
	}

	last := segments[len(segments)-1]
	dir, ok := walkDirectories(start, segments[:len(segments)-1])
	if !ok {
		return data.NotFound[bool]()
	}

	full := data.JoinPath(dir.FullPath(), last)
	for _, f := range dir.Files() {
		if f.FullPath() == full {
			return b.detach(ctx, dir, f)
		}
	}

	return data.NotFound[bool]()
}

func (b *Base) detach(ctx context.Context, dir *data.Directory, f *data.File) data.Result[bool] {
	ref := f.Ref()
	if !dir.DetachFile(f) {
		return data.NotFound[bool]()
	}

	if err := b.store.Discard(ctx, ref); err != nil {
		b.log.Warn("discarding content for removed file: %v", err)
	}

	b.log.Debug("removed %s from %q", f.Name(), dir.FullPath())

	return data.Ok(true)
}

// Search matches query case-insensitively as a substring of node names
// under start (nil means the root). Non-recursive mode scans only
// start's immediate files; directory names are never matched there.
// Recursive mode visits descendant directories depth-first pre-order
// (the directory's own name, then its files, then its subdirectories)
// and finishes with a separate pass over start's own files. Results keep
// discovery order. The operation is synchronous and read-only.
func (b *Base) Search(query string, start *data.Directory, recurse bool) data.SearchResult {
	if start == nil {
		start = b.root
	}

	needle := strings.ToLower(query)
	match := func(name string) bool {
		return strings.Contains(strings.ToLower(name), needle)
	}

	var result data.SearchResult

	if !recurse {
		for _, f := range start.Files() {
			if match(f.Name()) {
				result.Files = append(result.Files, f)
			}
		}

		return result
	}

	var visit func(dir *data.Directory)
	visit = func(dir *data.Directory) {
		if match(dir.Name()) {
			result.Directories = append(result.Directories, dir)
		}

		for _, f := range dir.Files() {
			if match(f.Name()) {
				result.Files = append(result.Files, f)
			}
		}

		for _, sub := range dir.Directories() {
			visit(sub)
		}
	}

	for _, sub := range start.Directories() {
		visit(sub)
	}

	for _, f := range start.Files() {
		if match(f.Name()) {
			result.Files = append(result.Files, f)
		}
	}

	return result
}

// MakeDirectory creates the directory chain addressed by path beneath
// the root, creating missing intermediate directories.
func (b *Base) MakeDirectory(ctx context.Context, path string) data.Result[bool] {
	var res data.Result[bool]
	ok := b.work.submit(func() {
		res = b.makeDirectory(path)
	})
	if !ok {
		return data.Fail[bool](data.ErrClosed)
	}

	if res.OK() {
		b.afterChange(ctx)
	}

	return res
}

func (b *Base) makeDirectory(path string) data.Result[bool] {
	segments := data.Segments(path)
	if len(segments) == 0 {
		return data.Fail[bool](data.ErrInvalidPath)
	}

	current := b.root
	for _, segment := range segments {
		sub, err := current.EnsureSubdirectory(segment)
		if err != nil {
			return data.Fail[bool](err)
		}

		current = sub
	}

	return data.Ok(true)
}

// RemoveDirectory detaches the addressed directory and the subtree it
// owns, mirroring file removal. The root itself cannot be removed.
func (b *Base) RemoveDirectory(ctx context.Context, path string) data.Result[bool] {
	var res data.Result[bool]
	ok := b.work.submit(func() {
		res = b.removeDirectory(path)
	})
	if !ok {
		return data.Fail[bool](data.ErrClosed)
	}

	if res.OK() {
		b.afterChange(ctx)
	}

	return res
}

func (b *Base) removeDirectory(path string) data.Result[bool] {
	dir, ok := resolveDirectory(b.root, path)
	if !ok {
		return data.NotFound[bool]()
	}

	if dir.IsRoot() {
		return data.Fail[bool](data.ErrInvalid)
	}

	if !dir.Parent().DetachSubdirectory(dir) {
		return data.NotFound[bool]()
	}

	b.log.Debug("removed directory %q", path)

	return data.Ok(true)
}
