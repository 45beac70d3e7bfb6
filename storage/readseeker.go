package storage

import (
	"bytes"
	"io"
)

type byteSeeker struct {
	*bytes.Reader
}

func (byteSeeker) Close() error {
	return nil
}

// NewByteSeeker wraps an in-memory payload as an io.ReadSeekCloser.
// Backends without native random-access reads fetch the whole entry and
// serve it through this wrapper.
func NewByteSeeker(payload []byte) io.ReadSeekCloser {
	return byteSeeker{bytes.NewReader(payload)}
}
