package encrypted_test

import (
	"bytes"
	"testing"

	"filippo.io/age"
	"github.com/andy123456789088/VFS/container"
	"github.com/andy123456789088/VFS/encrypted"
	"github.com/andy123456789088/VFS/storage"
	"github.com/andy123456789088/VFS/storage/memory"
)

func newIdentity(tst *testing.T) *age.X25519Identity {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		tst.Fatalf("Failed to generate identity: %v", err)
	}

	return identity
}

// TestEncrypted_RoundTrip saves an archive through an encrypting
// backend and reads it back through a second decrypting one.
func TestEncrypted_RoundTrip(t *testing.T) {
	ctx := t.Context()
	identity := newIdentity(t)

	plain := memory.NewMemoryBackend()
	backend := encrypted.NewBackend(plain,
		[]age.Recipient{identity.Recipient()},
		[]age.Identity{identity})

	if err := backend.WriteAll(ctx, "source/secret.txt", []byte("top secret payload")); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	inner, err := container.New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	arc := encrypted.New(inner)
	if arc.Handle() != inner {
		t.Fatal("Handle must expose the wrapped archive")
	}

	source := storage.Directory{Backend: backend, Path: "source"}
	if res := arc.Create(ctx, source); !res.OK() {
		t.Fatalf("Create failed: %v", res.Err())
	}

	file := storage.File{Backend: backend, Path: "archive.varc"}
	inner.SetLocation(file)
	if res := arc.Save(ctx); !res.OK() {
		t.Fatalf("Save failed: %v", res.Err())
	}

	if err := arc.Close(ctx); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// The bytes at rest must be ciphertext: no archive magic, no
	// recognizable payload.
	raw, err := storage.File{Backend: plain, Path: "archive.varc"}.ReadAll(ctx)
	if err != nil {
		t.Fatalf("raw read failed: %v", err)
	}

	if bytes.Contains(raw, []byte("VARC")) {
		t.Fatal("archive header leaked into stored ciphertext")
	}

	if bytes.Contains(raw, []byte("top secret payload")) {
		t.Fatal("plaintext leaked into stored ciphertext")
	}

	reopened, err := container.Open(ctx, file)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer reopened.Close(ctx)

	outer := encrypted.New(reopened)
	if got := outer.ReadAllText(ctx, "secret.txt"); got.Value() != "top secret payload" {
		t.Fatalf("content mismatch after round trip: %q, err=%v", got.Value(), got.Err())
	}
}

func TestEncrypted_WrongIdentity(t *testing.T) {
	ctx := t.Context()
	writer := newIdentity(t)
	reader := newIdentity(t)

	plain := memory.NewMemoryBackend()
	sealing := encrypted.NewBackend(plain,
		[]age.Recipient{writer.Recipient()},
		[]age.Identity{writer})

	if err := sealing.WriteAll(ctx, "note.txt", []byte("for your eyes only")); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	opening := encrypted.NewBackend(plain, nil, []age.Identity{reader})
	if _, err := opening.OpenRead(ctx, "note.txt"); err == nil {
		t.Fatal("decryption with the wrong identity must fail")
	}
}

func TestEncrypted_NamePassThrough(t *testing.T) {
	identity := newIdentity(t)

	backend := encrypted.NewBackend(memory.NewMemoryBackend(),
		[]age.Recipient{identity.Recipient()},
		[]age.Identity{identity})

	if got := backend.Name(); got != "encrypted+memory" {
		t.Fatalf("Name() = %q", got)
	}
}
