package vfs

import (
	"context"
	"io"

	"github.com/andy123456789088/VFS/data"
	"github.com/andy123456789088/VFS/storage"
)

// Archive is the lifecycle contract every concrete archive backend
// implements. An archive holds a virtual tree of directories and files
// persisted as one physical file; the tree engine (resolution, queries,
// mutation) is shared across backends, the encoding is not.
//
// Concurrency contract: the tree has single-writer, cooperative-reader
// semantics. Mutating operations are serialized through one background
// worker per archive and run as uninterruptible units; read-only queries
// may run concurrently with each other but not with an in-flight
// mutation. There is no internal fine-grained locking and no
// cancellation once an operation has started.
type Archive interface {
	// Create populates the tree by ingesting a physical directory.
	// Callable exactly once per fresh instance; fails when the tree is
	// already populated or the source is unreadable.
	Create(ctx context.Context, source storage.Directory) data.Result[bool]

	// CreateFromEntries populates the tree from an explicit set of
	// physical files and directories. Same once-only contract as Create.
	CreateFromEntries(ctx context.Context, files []storage.File, dirs []storage.Directory) data.Result[bool]

	// Read loads the archive's structural metadata from the physical
	// file without materializing file contents, so large archives open
	// cheaply. Content is fetched on demand by the read family.
	Read(ctx context.Context, archive storage.File) data.Result[bool]

	// Save persists the in-memory tree and any pending content writes
	// back to the physical file. With the SaveAfterChange option enabled
	// every successful mutation triggers Save automatically; otherwise
	// the caller invokes it explicitly.
	Save(ctx context.Context) data.Result[bool]

	// Extract materializes the whole tree at a physical destination.
	// Fails when the destination cannot be created. Extraction MAY
	// partially apply across independent entries; the returned error
	// reports that at least one failure occurred.
	Extract(ctx context.Context, target storage.Directory) data.Result[bool]

	// ExtractFiles materializes the addressed files only.
	ExtractFiles(ctx context.Context, target storage.Directory, paths ...string) data.Result[bool]

	// ExtractDirectory materializes the subtree addressed by path.
	// The empty path extracts from the root.
	ExtractDirectory(ctx context.Context, target storage.Directory, path string) data.Result[bool]

	// WriteAllBytes inserts or replaces a file's content at path.
	// A name collision with override=false fails and leaves the existing
	// entry untouched; override=true replaces in place, preserving the
	// file's position within its directory.
	WriteAllBytes(ctx context.Context, path string, content []byte, override bool) data.Result[bool]

	// WriteAllText is WriteAllBytes for string content.
	WriteAllText(ctx context.Context, path string, text string, override bool) data.Result[bool]

	// WriteStream is WriteAllBytes sourced from a reader.
	WriteStream(ctx context.Context, path string, r io.Reader, override bool) data.Result[bool]

	// ReadAllBytes resolves path and fetches the file's content from the
	// backend. Contents are capped at MaxContentSize (1 GiB); larger
	// entries fail with ErrTooLarge.
	ReadAllBytes(ctx context.Context, path string) data.Result[[]byte]

	// ReadAllText is ReadAllBytes decoded as a string.
	ReadAllText(ctx context.Context, path string) data.Result[string]

	// MakeDirectory creates the directory chain addressed by path,
	// creating missing intermediate directories.
	MakeDirectory(ctx context.Context, path string) data.Result[bool]

	// RemoveDirectory detaches the addressed directory and the subtree
	// it owns, mirroring file removal.
	RemoveDirectory(ctx context.Context, path string) data.Result[bool]

	// Exists reports whether a file is present at path, resolved from
	// start (nil means the root). Never mutates; fails closed when an
	// intermediate segment is missing.
	Exists(path string, start *data.Directory) bool

	// Remove detaches the file addressed by path from its owning
	// directory. A missing intermediate directory or final file is a
	// plain not-found outcome, not an error.
	Remove(ctx context.Context, path string, start *data.Directory) data.Result[bool]

	// Search matches query case-insensitively as a substring of names
	// under start (nil means the root). Non-recursive mode scans only
	// start's immediate files; recursive mode walks the subtree
	// depth-first. Read-only and synchronous.
	Search(query string, start *data.Directory, recurse bool) data.SearchResult

	// Root returns the tree's root directory.
	Root() *data.Directory

	// Handle returns the inner archive this instance delegates to, or
	// nil for a base implementation. Layered archives (e.g. encrypting
	// wrappers) forward lifecycle calls to their handle.
	Handle() Archive

	// Close stops the archive's worker and releases backend resources.
	Close(ctx context.Context) error
}

// ContentStore is the hook a backend provides to the shared tree engine
// for moving file content in and out of the physical encoding. Put
// buffers content for the next Save; Get fetches by reference; Discard
// releases content whose file left the tree.
type ContentStore interface {
	Put(ctx context.Context, content []byte) (data.ContentRef, error)
	Get(ctx context.Context, ref data.ContentRef, size int64) ([]byte, error)
	Discard(ctx context.Context, ref data.ContentRef) error
}
