package data

// File is a leaf node in the virtual tree. The owning directory holds the
// file; the back-reference here is relation only, never ownership.
type File struct {
	name   string
	parent *Directory
	size   int64
	ref    ContentRef
}

// Name returns the file name within its owning directory.
func (f *File) Name() string {
	return f.name
}

// Parent returns the owning directory, or nil once the file is detached.
func (f *File) Parent() *Directory {
	return f.parent
}

// Size returns the uncompressed content size in bytes.
func (f *File) Size() int64 {
	return f.size
}

// Ref returns the opaque content reference the backend uses to locate
// this file's bytes. The core never interprets it.
func (f *File) Ref() ContentRef {
	return f.ref
}

// SetContent replaces the file's content reference and size in place,
// preserving the file's position within its owning directory.
func (f *File) SetContent(size int64, ref ContentRef) {
	f.size = size
	f.ref = ref
}

// FullPath reconstructs the path from the root to this file by walking
// the owning directory chain.
func (f *File) FullPath() string {
	if f.parent == nil {
		return f.name
	}

	parent := f.parent.FullPath()
	if parent == "" {
		return f.name
	}

	return parent + Separator + f.name
}
