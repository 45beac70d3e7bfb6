package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/andy123456789088/VFS/data"
)

// ReadOnly wraps a backend and rejects every mutating call with
// ErrReadOnly. Useful for handing an archive a source tree that must
// not be touched.
type ReadOnly struct {
	next Backend
}

func NewReadOnly(next Backend) *ReadOnly {
	return &ReadOnly{next: next}
}

// Name returns the identifier name defined for this backend.
func (ro *ReadOnly) Name() string {
	return "readonly+" + ro.next.Name()
}

func (ro *ReadOnly) Open(ctx context.Context) error {
	return ro.next.Open(ctx)
}

func (ro *ReadOnly) Close(ctx context.Context) error {
	return ro.next.Close(ctx)
}

func (ro *ReadOnly) OpenRead(ctx context.Context, path string) (io.ReadSeekCloser, error) {
	return ro.next.OpenRead(ctx, path)
}

func (ro *ReadOnly) WriteAll(ctx context.Context, path string, payload []byte) error {
	return fmt.Errorf("%w: %s", data.ErrReadOnly, path)
}

func (ro *ReadOnly) List(ctx context.Context, path string) ([]EntryInfo, error) {
	return ro.next.List(ctx, path)
}

func (ro *ReadOnly) MakeDir(ctx context.Context, path string) error {
	return fmt.Errorf("%w: %s", data.ErrReadOnly, path)
}

func (ro *ReadOnly) Stat(ctx context.Context, path string) (*EntryInfo, error) {
	return ro.next.Stat(ctx, path)
}

func (ro *ReadOnly) Remove(ctx context.Context, path string) error {
	return fmt.Errorf("%w: %s", data.ErrReadOnly, path)
}
