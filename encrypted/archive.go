// Package encrypted layers transparent encryption over any archive
// implementation. It contributes no tree logic of its own: the Archive
// type forwards every lifecycle call to an inner archive, and the
// Backend type encrypts the physical bytes beneath whatever encoding
// that inner archive uses. Composing the two encrypts an archive without
// duplicating the tree engine.
package encrypted

import (
	"context"
	"io"

	vfs "github.com/andy123456789088/VFS"
	"github.com/andy123456789088/VFS/data"
	"github.com/andy123456789088/VFS/storage"
)

// Archive is a pass-through decorator: an outer archive owning an inner
// one behind the same contract. Handle exposes the inner instance.
type Archive struct {
	inner vfs.Archive
}

// New wraps an existing archive. The wrapper owns the inner instance;
// callers interact with the outer one only.
func New(inner vfs.Archive) *Archive {
	return &Archive{inner: inner}
}

// Handle returns the inner archive this instance delegates to.
func (a *Archive) Handle() vfs.Archive {
	return a.inner
}

func (a *Archive) Create(ctx context.Context, source storage.Directory) data.Result[bool] {
	return a.inner.Create(ctx, source)
}

func (a *Archive) CreateFromEntries(ctx context.Context, files []storage.File, dirs []storage.Directory) data.Result[bool] {
	return a.inner.CreateFromEntries(ctx, files, dirs)
}

func (a *Archive) Read(ctx context.Context, archive storage.File) data.Result[bool] {
	return a.inner.Read(ctx, archive)
}

func (a *Archive) Save(ctx context.Context) data.Result[bool] {
	return a.inner.Save(ctx)
}

func (a *Archive) Extract(ctx context.Context, target storage.Directory) data.Result[bool] {
	return a.inner.Extract(ctx, target)
}

func (a *Archive) ExtractFiles(ctx context.Context, target storage.Directory, paths ...string) data.Result[bool] {
	return a.inner.ExtractFiles(ctx, target, paths...)
}

func (a *Archive) ExtractDirectory(ctx context.Context, target storage.Directory, path string) data.Result[bool] {
	return a.inner.ExtractDirectory(ctx, target, path)
}

func (a *Archive) WriteAllBytes(ctx context.Context, path string, content []byte, override bool) data.Result[bool] {
	return a.inner.WriteAllBytes(ctx, path, content, override)
}

func (a *Archive) WriteAllText(ctx context.Context, path string, text string, override bool) data.Result[bool] {
	return a.inner.WriteAllText(ctx, path, text, override)
}

func (a *Archive) WriteStream(ctx context.Context, path string, r io.Reader, override bool) data.Result[bool] {
	return a.inner.WriteStream(ctx, path, r, override)
}

func (a *Archive) ReadAllBytes(ctx context.Context, path string) data.Result[[]byte] {
	return a.inner.ReadAllBytes(ctx, path)
}

func (a *Archive) ReadAllText(ctx context.Context, path string) data.Result[string] {
	return a.inner.ReadAllText(ctx, path)
}

func (a *Archive) MakeDirectory(ctx context.Context, path string) data.Result[bool] {
	return a.inner.MakeDirectory(ctx, path)
}

func (a *Archive) RemoveDirectory(ctx context.Context, path string) data.Result[bool] {
	return a.inner.RemoveDirectory(ctx, path)
}

func (a *Archive) Exists(path string, start *data.Directory) bool {
	return a.inner.Exists(path, start)
}

func (a *Archive) Remove(ctx context.Context, path string, start *data.Directory) data.Result[bool] {
	return a.inner.Remove(ctx, path, start)
}

func (a *Archive) Search(query string, start *data.Directory, recurse bool) data.SearchResult {
	return a.inner.Search(query, start, recurse)
}

func (a *Archive) Root() *data.Directory {
	return a.inner.Root()
}

func (a *Archive) Close(ctx context.Context) error {
	return a.inner.Close(ctx)
}
