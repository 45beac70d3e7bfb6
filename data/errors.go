package data

import (
	"errors"
	"sync"
)

// Standard archive errors that backend implementations should use.
var (
	// Path resolution errors
	ErrInvalidPath = errors.New("vfs: invalid path detected")

	// Tree errors
	ErrNotExist = errors.New("vfs: file does not exist")
	ErrExist    = errors.New("vfs: file already exists")

	// Lifecycle errors
	ErrAlreadyPopulated = errors.New("vfs: archive tree already populated")
	ErrNotPopulated     = errors.New("vfs: archive tree not populated")
	ErrNoLocation       = errors.New("vfs: archive has no physical location")

	// Backend errors
	ErrCorrupt  = errors.New("vfs: archive data corrupt")
	ErrTooLarge = errors.New("vfs: content exceeds maximum size")
	ErrReadOnly = errors.New("vfs: read-only backend")

	// I/O errors
	ErrClosed  = errors.New("vfs: archive already closed")
	ErrInvalid = errors.New("vfs: invalid argument")
)

// Errors collects independent failures, e.g. across the files of a
// partially applied extraction.
type Errors struct {
	mu     sync.Mutex
	errors []error
}

func (e *Errors) Add(err error) {
	if err == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.errors = append(e.errors, err)
}

func (e *Errors) Join() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.errors) == 0 {
		return nil
	}

	return errors.Join(e.errors...)
}
