package container_test

import (
	"errors"
	"testing"

	vfs "github.com/andy123456789088/VFS"
	"github.com/andy123456789088/VFS/container"
	"github.com/andy123456789088/VFS/data"
	"github.com/andy123456789088/VFS/storage"
	"github.com/andy123456789088/VFS/storage/local"
	"github.com/andy123456789088/VFS/storage/memory"
)

type backendFactory func(tst *testing.T) storage.Backend

func getBackendFactories() map[string]backendFactory {
	return map[string]backendFactory{
		"memory": func(tst *testing.T) storage.Backend {
			return memory.NewMemoryBackend()
		},
		"local": func(tst *testing.T) storage.Backend {
			backend, err := local.NewLocalBackend(tst.TempDir())
			if err != nil {
				tst.Fatalf("Failed to create local backend: %v", err)
			}

			return backend
		},
	}
}

func seedSource(tst *testing.T, backend storage.Backend) storage.Directory {
	ctx := tst.Context()

	entries := map[string]string{
		"source/readme.md":         "# demo archive",
		"source/docs/intro.md":     "intro",
		"source/docs/api/index.md": "api index",
		"source/bin/tool":          "\x00\x01\x02",
	}
	for path, content := range entries {
		if err := backend.WriteAll(ctx, path, []byte(content)); err != nil {
			tst.Fatalf("Failed to seed %s: %v", path, err)
		}
	}

	if err := backend.MakeDir(ctx, "source/empty"); err != nil {
		tst.Fatalf("Failed to seed empty directory: %v", err)
	}

	return storage.Directory{Backend: backend, Path: "source"}
}

// TestContainer_RoundTrip creates an archive from a seeded source tree,
// saves it, reopens it lazily, and checks queries and content reads
// across all storage backends.
func TestContainer_RoundTrip(t *testing.T) {
	for name, factory := range getBackendFactories() {
		t.Run(name, func(tst *testing.T) {
			ctx := tst.Context()
			backend := factory(tst)
			source := seedSource(tst, backend)
			file := storage.File{Backend: backend, Path: "archive.varc"}

			arc, err := container.New()
			if err != nil {
				tst.Fatalf("New failed: %v", err)
			}

			if res := arc.Create(ctx, source); !res.OK() {
				tst.Fatalf("Create failed: %v", res.Err())
			}

			arc.SetLocation(file)
			if res := arc.Save(ctx); !res.OK() {
				tst.Fatalf("Save failed: %v", res.Err())
			}

			if err := arc.Verify(ctx); err != nil {
				tst.Fatalf("Verify failed: %v", err)
			}

			if err := arc.Close(ctx); err != nil {
				tst.Fatalf("Close failed: %v", err)
			}

			// Reopen: header and TOC only, content on demand.
			reopened, err := container.Open(ctx, file)
			if err != nil {
				tst.Fatalf("Open failed: %v", err)
			}
			defer reopened.Close(ctx)

			for _, path := range []string{"readme.md", "docs/intro.md", "docs/api/index.md", "bin/tool"} {
				if !reopened.Exists(path, nil) {
					tst.Fatalf("Exists(%q) = false after reopen", path)
				}
			}

			if _, ok := reopened.Root().Subdirectory("empty"); !ok {
				tst.Fatal("empty directory lost in round trip")
			}

			got := reopened.ReadAllText(ctx, "docs/api/index.md")
			if !got.OK() || got.Value() != "api index" {
				tst.Fatalf("ReadAllText = %q, ok=%v err=%v", got.Value(), got.OK(), got.Err())
			}

			found := reopened.Search("md", nil, true)
			if len(found.Files) != 3 {
				tst.Fatalf("Search returned %d files, want 3", len(found.Files))
			}
		})
	}
}

func TestContainer_Extract(t *testing.T) {
	for name, factory := range getBackendFactories() {
		t.Run(name, func(tst *testing.T) {
			ctx := tst.Context()
			backend := factory(tst)
			source := seedSource(tst, backend)
			file := storage.File{Backend: backend, Path: "archive.varc"}

			arc, err := container.New()
			if err != nil {
				tst.Fatalf("New failed: %v", err)
			}
			defer arc.Close(ctx)

			if res := arc.Create(ctx, source); !res.OK() {
				tst.Fatalf("Create failed: %v", res.Err())
			}

			arc.SetLocation(file)
			if res := arc.Save(ctx); !res.OK() {
				tst.Fatalf("Save failed: %v", res.Err())
			}

			target := storage.Directory{Backend: backend, Path: "out"}
			if res := arc.Extract(ctx, target); !res.OK() {
				tst.Fatalf("Extract failed: %v", res.Err())
			}

			payload, err := target.File("docs/intro.md").ReadAll(ctx)
			if err != nil || string(payload) != "intro" {
				tst.Fatalf("extracted content = %q, err=%v", payload, err)
			}

			// Subset extraction keeps full paths beneath the target.
			subset := storage.Directory{Backend: backend, Path: "subset"}
			if res := arc.ExtractFiles(ctx, subset, "bin/tool"); !res.OK() {
				tst.Fatalf("ExtractFiles failed: %v", res.Err())
			}

			if _, err := backend.Stat(ctx, "subset/bin/tool"); err != nil {
				tst.Fatalf("subset extraction missing file: %v", err)
			}
		})
	}
}

func TestContainer_CreateOnce(t *testing.T) {
	ctx := t.Context()
	backend := memory.NewMemoryBackend()
	source := seedSource(t, backend)

	arc, err := container.New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer arc.Close(ctx)

	if res := arc.Create(ctx, source); !res.OK() {
		t.Fatalf("Create failed: %v", res.Err())
	}

	res := arc.Create(ctx, source)
	if res.OK() || !errors.Is(res.Err(), vfs.ErrAlreadyPopulated) {
		t.Fatalf("second Create = ok=%v err=%v, want ErrAlreadyPopulated", res.OK(), res.Err())
	}
}

func TestContainer_SaveWithoutLocation(t *testing.T) {
	ctx := t.Context()

	arc, err := container.New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer arc.Close(ctx)

	res := arc.Save(ctx)
	if res.OK() || !errors.Is(res.Err(), vfs.ErrNoLocation) {
		t.Fatalf("Save without location = ok=%v err=%v, want ErrNoLocation", res.OK(), res.Err())
	}
}

func TestContainer_SaveAfterChange(t *testing.T) {
	ctx := t.Context()
	backend := memory.NewMemoryBackend()
	source := seedSource(t, backend)
	file := storage.File{Backend: backend, Path: "archive.varc"}

	arc, err := container.New(vfs.WithSaveAfterChange(true))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if res := arc.Create(ctx, source); !res.OK() {
		t.Fatalf("Create failed: %v", res.Err())
	}

	arc.SetLocation(file)
	if res := arc.Save(ctx); !res.OK() {
		t.Fatalf("Save failed: %v", res.Err())
	}

	// The removal must persist without an explicit Save call.
	if res := arc.Remove(ctx, "readme.md", nil); !res.OK() {
		t.Fatalf("Remove failed: %v", res.Err())
	}

	if err := arc.Close(ctx); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := container.Open(ctx, file)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer reopened.Close(ctx)

	if reopened.Exists("readme.md", nil) {
		t.Fatal("removal was not persisted by automatic save")
	}

	if !reopened.Exists("docs/intro.md", nil) {
		t.Fatal("unrelated file lost by automatic save")
	}
}

func TestContainer_MutateAndResave(t *testing.T) {
	ctx := t.Context()
	backend := memory.NewMemoryBackend()
	source := seedSource(t, backend)
	file := storage.File{Backend: backend, Path: "archive.varc"}

	arc, err := container.New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if res := arc.Create(ctx, source); !res.OK() {
		t.Fatalf("Create failed: %v", res.Err())
	}

	arc.SetLocation(file)
	if res := arc.Save(ctx); !res.OK() {
		t.Fatalf("Save failed: %v", res.Err())
	}

	// Mix persisted and pending content in one image.
	if res := arc.WriteAllText(ctx, "docs/changelog.md", "v2", false); !res.OK() {
		t.Fatalf("write failed: %v", res.Err())
	}

	if res := arc.WriteAllText(ctx, "readme.md", "# updated", true); !res.OK() {
		t.Fatalf("override write failed: %v", res.Err())
	}

	if res := arc.Save(ctx); !res.OK() {
		t.Fatalf("resave failed: %v", res.Err())
	}
	arc.Close(ctx)

	reopened, err := container.Open(ctx, file)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer reopened.Close(ctx)

	if got := reopened.ReadAllText(ctx, "readme.md"); got.Value() != "# updated" {
		t.Fatalf("override lost across save: %q", got.Value())
	}

	if got := reopened.ReadAllText(ctx, "docs/changelog.md"); got.Value() != "v2" {
		t.Fatalf("new file lost across save: %q", got.Value())
	}

	if got := reopened.ReadAllText(ctx, "docs/intro.md"); got.Value() != "intro" {
		t.Fatalf("carried-over block corrupted: %q", got.Value())
	}
}

func TestContainer_ReadGarbage(t *testing.T) {
	ctx := t.Context()
	backend := memory.NewMemoryBackend()

	if err := backend.WriteAll(ctx, "bogus.varc", []byte("not an archive at all")); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	_, err := container.Open(ctx, storage.File{Backend: backend, Path: "bogus.varc"})
	if !errors.Is(err, data.ErrCorrupt) {
		t.Fatalf("Open(garbage) = %v, want ErrCorrupt", err)
	}
}

func TestContainer_ReadTwice(t *testing.T) {
	ctx := t.Context()
	backend := memory.NewMemoryBackend()
	source := seedSource(t, backend)
	file := storage.File{Backend: backend, Path: "archive.varc"}

	arc, _ := container.New()
	arc.Create(ctx, source)
	arc.SetLocation(file)
	arc.Save(ctx)
	arc.Close(ctx)

	reopened, err := container.Open(ctx, file)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer reopened.Close(ctx)

	res := reopened.Read(ctx, file)
	if res.OK() || !errors.Is(res.Err(), vfs.ErrAlreadyPopulated) {
		t.Fatalf("second Read = ok=%v err=%v, want ErrAlreadyPopulated", res.OK(), res.Err())
	}
}
