package vfs

import (
	"context"
	"fmt"

	"github.com/andy123456789088/VFS/data"
)

// ReadAllBytes resolves path from the root and fetches the file's
// content from the backend. Contents beyond MaxContentSize (1 GiB) fail
// with ErrTooLarge; that ceiling is part of the contract at this
// boundary.
func (b *Base) ReadAllBytes(ctx context.Context, path string) data.Result[[]byte] {
	f, ok := resolveFile(b.root, path)
	if !ok {
		return data.NotFound[[]byte]()
	}

	if f.Size() > MaxContentSize {
		return data.Fail[[]byte](fmt.Errorf("%w: %d bytes", data.ErrTooLarge, f.Size()))
	}

	payload, err := b.store.Get(ctx, f.Ref(), f.Size())
	if err != nil {
		return data.Fail[[]byte](err)
	}

	return data.Ok(payload)
}

// ReadAllText is ReadAllBytes decoded as a string.
func (b *Base) ReadAllText(ctx context.Context, path string) data.Result[string] {
	res := b.ReadAllBytes(ctx, path)
	if !res.OK() {
		if res.Err() != nil {
			return data.Fail[string](res.Err())
		}

		return data.NotFound[string]()
	}

	return data.Ok(string(res.Value()))
}
