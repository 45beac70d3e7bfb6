package vfs

import "github.com/andy123456789088/VFS/data"

// Re-exported sentinels so callers holding only the root package can
// classify results with errors.Is.
var (
	ErrNotExist         = data.ErrNotExist
	ErrExist            = data.ErrExist
	ErrInvalidPath      = data.ErrInvalidPath
	ErrAlreadyPopulated = data.ErrAlreadyPopulated
	ErrNotPopulated     = data.ErrNotPopulated
	ErrNoLocation       = data.ErrNoLocation
	ErrCorrupt          = data.ErrCorrupt
	ErrTooLarge         = data.ErrTooLarge
	ErrReadOnly         = data.ErrReadOnly
	ErrClosed           = data.ErrClosed
	ErrInvalid          = data.ErrInvalid
)
