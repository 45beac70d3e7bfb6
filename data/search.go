package data

// SearchResult carries the directories and files matched by a tree
// search, each in traversal-discovery order.
type SearchResult struct {
	Directories []*Directory
	Files       []*File
}

// Empty reports whether the search matched nothing.
func (r SearchResult) Empty() bool {
	return len(r.Directories) == 0 && len(r.Files) == 0
}
