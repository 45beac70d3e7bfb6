package data

import "github.com/google/uuid"

// ContentRef locates a file's bytes inside whatever the backend persists.
// The core stores and passes it through opaquely: encodings may use the
// ID (buffered or keyed content), the extent fields, or both.
type ContentRef struct {
	ID     string
	Offset int64
	Length int64
}

// NewContentID returns a fresh identifier for buffered content.
func NewContentID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// NewArchiveID returns a fresh identifier for an archive instance.
func NewArchiveID() string {
	return uuid.Must(uuid.NewV7()).String()
}
