package encrypted

import (
	"bytes"
	"context"
	"io"

	"filippo.io/age"
	"github.com/andy123456789088/VFS/storage"
)

// Backend decorates a storage backend with age encryption: every entry
// written through it is an age ciphertext, every entry read through it
// is decrypted transparently. Listings and stats pass through, so
// reported sizes are ciphertext sizes.
//
// age streams are not seekable, so reads decrypt the whole entry into
// memory before serving it. Archive files stay well under the 1 GiB
// content ceiling, which keeps that acceptable.
type Backend struct {
	next       storage.Backend
	recipients []age.Recipient
	identities []age.Identity
}

// NewBackend wraps next. Writes encrypt to recipients; reads decrypt
// with identities.
func NewBackend(next storage.Backend, recipients []age.Recipient, identities []age.Identity) *Backend {
	return &Backend{
		next:       next,
		recipients: recipients,
		identities: identities,
	}
}

// Name returns the identifier name defined for this backend.
func (eb *Backend) Name() string {
	return "encrypted+" + eb.next.Name()
}

func (eb *Backend) Open(ctx context.Context) error {
	return eb.next.Open(ctx)
}

func (eb *Backend) Close(ctx context.Context) error {
	return eb.next.Close(ctx)
}

func (eb *Backend) OpenRead(ctx context.Context, path string) (io.ReadSeekCloser, error) {
	r, err := eb.next.OpenRead(ctx, path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	plain, err := age.Decrypt(r, eb.identities...)
	if err != nil {
		return nil, err
	}

	payload, err := io.ReadAll(plain)
	if err != nil {
		return nil, err
	}

	return storage.NewByteSeeker(payload), nil
}

func (eb *Backend) WriteAll(ctx context.Context, path string, payload []byte) error {
	var cipher bytes.Buffer
	w, err := age.Encrypt(&cipher, eb.recipients...)
	if err != nil {
		return err
	}

	if _, err := w.Write(payload); err != nil {
		return err
	}

	if err := w.Close(); err != nil {
		return err
	}

	return eb.next.WriteAll(ctx, path, cipher.Bytes())
}

func (eb *Backend) List(ctx context.Context, path string) ([]storage.EntryInfo, error) {
	return eb.next.List(ctx, path)
}

func (eb *Backend) MakeDir(ctx context.Context, path string) error {
	return eb.next.MakeDir(ctx, path)
}

func (eb *Backend) Stat(ctx context.Context, path string) (*storage.EntryInfo, error) {
	return eb.next.Stat(ctx, path)
}

func (eb *Backend) Remove(ctx context.Context, path string) error {
	return eb.next.Remove(ctx, path)
}
