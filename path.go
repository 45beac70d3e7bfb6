package vfs

import (
	"github.com/andy123456789088/VFS/data"
)

// resolveFile walks path from start and returns the addressed file.
// Every segment but the last must name an existing subdirectory,
// case-sensitively; resolution fails immediately on the first missing
// segment with no partial match and no auto-create.
//
// A single-segment path is the explicit fast path: it compares bare
// names against start's immediate files. Multi-segment paths compare the
// reconstructed full path against the file's own full-path identity.
func resolveFile(start *data.Directory, path string) (*data.File, bool) {
	segments := data.Segments(path)
	switch len(segments) {
	case 0:
		return nil, false
	case 1:
		return start.File(segments[0])
	}

	last := segments[len(segments)-1]
	dir, ok := walkDirectories(start, segments[:len(segments)-1])
	if !ok {
		return nil, false
	}

	full := data.JoinPath(dir.FullPath(), last)
	for _, f := range dir.Files() {
		if f.FullPath() == full {
			return f, true
		}
	}

	return nil, false
}

// resolveDirectory walks path from start treating every segment as a
// directory name. The empty path resolves to start itself.
func resolveDirectory(start *data.Directory, path string) (*data.Directory, bool) {
	segments := data.Segments(path)
	if len(segments) == 0 {
		return start, true
	}

	return walkDirectories(start, segments)
}

func walkDirectories(start *data.Directory, segments []string) (*data.Directory, bool) {
	current := start
	for _, segment := range segments {
		sub, ok := current.Subdirectory(segment)
		if !ok {
			return nil, false
		}

		current = sub
	}

	return current, true
}
