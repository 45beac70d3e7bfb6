package data

import "strings"

// Separator is the single reserved separator between path segments.
// Paths are always relative; a single leading separator is stripped
// during formatting.
const Separator = "/"

// FormatPath strips one leading separator from path. The empty path
// formats to the empty string; that is a valid formatting outcome, not
// an error.
func FormatPath(path string) string {
	return strings.TrimPrefix(path, Separator)
}

// Segments splits a formatted path into its components.
// The empty path yields no segments.
func Segments(path string) []string {
	path = FormatPath(path)
	if path == "" {
		return nil
	}

	return strings.Split(path, Separator)
}

// JoinPath appends name to parent with the separator, treating the empty
// parent (the root) as no prefix.
func JoinPath(parent, name string) string {
	if parent == "" {
		return name
	}

	return parent + Separator + name
}
