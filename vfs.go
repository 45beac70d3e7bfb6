// Package vfs implements a single-file virtual archive: a hierarchical
// tree of virtual directories and files persisted as one physical file.
// The package holds the shared tree engine (node model, path resolution,
// queries and mutations) and the Archive lifecycle contract; concrete
// encodings live in the container and sqlar packages, physical locations
// in storage, and transparent layering in encrypted.
package vfs

import "github.com/dustin/go-humanize"

// MaxContentSize is the single-file content ceiling the read family
// enforces. Attempts beyond it are a backend error surfaced through the
// result payload; callers may rely on the limit.
const MaxContentSize = 1 << 30 // 1 GiB

func humanBytes(n int) string {
	return humanize.IBytes(uint64(n))
}
