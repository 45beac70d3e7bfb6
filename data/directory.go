package data

import (
	"fmt"
)

// Directory is a node in the virtual tree. It exclusively owns its child
// files and subdirectories; the tree is a single-owner hierarchy with no
// cycles. Child names are unique per parent, checked independently for
// files and subdirectories.
type Directory struct {
	name   string
	index  int64
	parent *Directory
	alloc  *IndexAllocator

	files []*File
	dirs  []*Directory
}

// NewTree creates a root directory with a fresh index allocator.
// The root carries the empty name and has no parent.
func NewTree() *Directory {
	return NewTreeWith(NewIndexAllocator())
}

// NewTreeWith creates a root directory using the given allocator.
// Sharing an allocator across trees is allowed; indexes stay unique
// across everything the allocator has seen.
func NewTreeWith(alloc *IndexAllocator) *Directory {
	return &Directory{
		name:  "",
		index: alloc.Next(),
		alloc: alloc,
	}
}

// Name returns the directory name. The root returns "".
func (d *Directory) Name() string {
	return d.name
}

// Index returns the unique index assigned at creation.
func (d *Directory) Index() int64 {
	return d.index
}

// Parent returns the owning directory, or nil for the root.
func (d *Directory) Parent() *Directory {
	return d.parent
}

// IsRoot reports whether this directory has no parent.
func (d *Directory) IsRoot() bool {
	return d.parent == nil
}

// FullPath reconstructs the path from the root to this directory by
// walking ancestors. The root formats as "" and paths never carry a
// leading separator.
func (d *Directory) FullPath() string {
	if d.parent == nil {
		return d.name
	}

	parent := d.parent.FullPath()
	if parent == "" {
		return d.name
	}

	return parent + Separator + d.name
}

// Files returns the child files in insertion order.
// The returned slice is the directory's own; callers must not modify it.
func (d *Directory) Files() []*File {
	return d.files
}

// Directories returns the child directories in insertion order.
// The returned slice is the directory's own; callers must not modify it.
func (d *Directory) Directories() []*Directory {
	return d.dirs
}

// Subdirectory looks up an immediate child directory by exact name.
func (d *Directory) Subdirectory(name string) (*Directory, bool) {
	for _, sub := range d.dirs {
		if sub.name == name {
			return sub, true
		}
	}

	return nil, false
}

// File looks up an immediate child file by exact name.
func (d *Directory) File(name string) (*File, bool) {
	for _, f := range d.files {
		if f.name == name {
			return f, true
		}
	}

	return nil, false
}

// NewSubdirectory creates and attaches a child directory.
// Returns ErrExist when a subdirectory with the same name is present.
func (d *Directory) NewSubdirectory(name string) (*Directory, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty directory name", ErrInvalidPath)
	}

	if _, exists := d.Subdirectory(name); exists {
		return nil, fmt.Errorf("%w: directory %q", ErrExist, name)
	}

	sub := &Directory{
		name:   name,
		index:  d.alloc.Next(),
		parent: d,
		alloc:  d.alloc,
	}
	d.dirs = append(d.dirs, sub)

	return sub, nil
}

// EnsureSubdirectory returns the named child directory, creating it when
// absent. Used while rebuilding a tree from serialized metadata.
func (d *Directory) EnsureSubdirectory(name string) (*Directory, error) {
	if sub, exists := d.Subdirectory(name); exists {
		return sub, nil
	}

	return d.NewSubdirectory(name)
}

// NewFile creates and attaches a child file.
// Returns ErrExist when a file with the same name is present.
func (d *Directory) NewFile(name string, size int64, ref ContentRef) (*File, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty file name", ErrInvalidPath)
	}

	if _, exists := d.File(name); exists {
		return nil, fmt.Errorf("%w: file %q", ErrExist, name)
	}

	f := &File{
		name:   name,
		parent: d,
		size:   size,
		ref:    ref,
	}
	d.files = append(d.files, f)

	return f, nil
}

// DetachFile removes the file from this directory's file sequence.
// Reports whether the file was attached here.
func (d *Directory) DetachFile(f *File) bool {
	for i, candidate := range d.files {
		if candidate == f {
			d.files = append(d.files[:i], d.files[i+1:]...)
			f.parent = nil
			return true
		}
	}

	return false
}

// DetachSubdirectory removes the subdirectory (and with it the subtree it
// owns) from this directory. Reports whether the directory was attached here.
func (d *Directory) DetachSubdirectory(sub *Directory) bool {
	for i, candidate := range d.dirs {
		if candidate == sub {
			d.dirs = append(d.dirs[:i], d.dirs[i+1:]...)
			sub.parent = nil
			return true
		}
	}

	return false
}
