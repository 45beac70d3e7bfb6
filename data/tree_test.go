package data_test

import (
	"errors"
	"testing"

	"github.com/andy123456789088/VFS/data"
)

// TestTree_UniqueChildNames verifies that duplicate names are rejected
// independently for files and subdirectories.
func TestTree_UniqueChildNames(t *testing.T) {
	root := data.NewTree()

	if _, err := root.NewSubdirectory("docs"); err != nil {
		t.Fatalf("NewSubdirectory failed: %v", err)
	}

	if _, err := root.NewSubdirectory("docs"); !errors.Is(err, data.ErrExist) {
		t.Fatalf("expected ErrExist for duplicate directory, got %v", err)
	}

	// A file may share its name with a directory; the sequences are
	// checked independently.
	if _, err := root.NewFile("docs", 0, data.ContentRef{}); err != nil {
		t.Fatalf("file named like a directory should be allowed: %v", err)
	}

	if _, err := root.NewFile("docs", 0, data.ContentRef{}); !errors.Is(err, data.ErrExist) {
		t.Fatalf("expected ErrExist for duplicate file, got %v", err)
	}
}

// TestTree_FullPath verifies path reconstruction by ancestor walking.
func TestTree_FullPath(t *testing.T) {
	root := data.NewTree()
	if got := root.FullPath(); got != "" {
		t.Fatalf("root full path = %q, want empty", got)
	}

	docs, _ := root.NewSubdirectory("docs")
	nested, _ := docs.NewSubdirectory("api")
	f, _ := nested.NewFile("index.md", 0, data.ContentRef{})

	if got := docs.FullPath(); got != "docs" {
		t.Fatalf("docs full path = %q", got)
	}

	if got := nested.FullPath(); got != "docs/api" {
		t.Fatalf("nested full path = %q", got)
	}

	if got := f.FullPath(); got != "docs/api/index.md" {
		t.Fatalf("file full path = %q", got)
	}
}

// TestTree_IndexesUnique verifies that directory indexes are unique and
// monotonically assigned within a tree.
func TestTree_IndexesUnique(t *testing.T) {
	root := data.NewTree()

	seen := map[int64]bool{root.Index(): true}
	last := root.Index()
	for _, name := range []string{"a", "b", "c"} {
		sub, err := root.NewSubdirectory(name)
		if err != nil {
			t.Fatalf("NewSubdirectory(%q) failed: %v", name, err)
		}

		if seen[sub.Index()] {
			t.Fatalf("index %d assigned twice", sub.Index())
		}

		if sub.Index() <= last {
			t.Fatalf("index %d not monotonic after %d", sub.Index(), last)
		}

		seen[sub.Index()] = true
		last = sub.Index()
	}
}

// TestTree_DetachFile verifies that removal detaches the file from
// exactly its owning directory.
func TestTree_DetachFile(t *testing.T) {
	root := data.NewTree()
	a, _ := root.NewFile("a.txt", 0, data.ContentRef{})
	b, _ := root.NewFile("b.txt", 0, data.ContentRef{})

	if !root.DetachFile(a) {
		t.Fatal("DetachFile returned false for attached file")
	}

	if a.Parent() != nil {
		t.Fatal("detached file still has a parent")
	}

	if root.DetachFile(a) {
		t.Fatal("DetachFile succeeded twice for the same file")
	}

	files := root.Files()
	if len(files) != 1 || files[0] != b {
		t.Fatalf("unexpected file sequence after detach: %v", files)
	}
}

func TestSegments(t *testing.T) {
	cases := map[string][]string{
		"":              nil,
		"/":             nil,
		"a.txt":         {"a.txt"},
		"/a.txt":        {"a.txt"},
		"sub/a.txt":     {"sub", "a.txt"},
		"/sub/a/b.txt":  {"sub", "a", "b.txt"},
		"sub/deep/file": {"sub", "deep", "file"},
	}

	for path, want := range cases {
		got := data.Segments(path)
		if len(got) != len(want) {
			t.Fatalf("Segments(%q) = %v, want %v", path, got, want)
		}

		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("Segments(%q) = %v, want %v", path, got, want)
			}
		}
	}
}

func TestResult(t *testing.T) {
	ok := data.Ok(42)
	if !ok.OK() || ok.Value() != 42 || ok.Err() != nil {
		t.Fatalf("unexpected Ok result: %+v", ok)
	}

	nf := data.NotFound[int]()
	if nf.OK() || nf.Err() != nil {
		t.Fatal("NotFound must be unsuccessful with an empty error payload")
	}

	failed := data.Fail[int](data.ErrCorrupt)
	if failed.OK() || !errors.Is(failed.Err(), data.ErrCorrupt) {
		t.Fatalf("unexpected Fail result: %+v", failed)
	}
}
