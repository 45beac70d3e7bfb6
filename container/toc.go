package container

import (
	"fmt"

	"github.com/andy123456789088/VFS/data"
	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"
)

// The table of contents describes the tree shape and the content
// extents. Directories are listed so empty ones survive round-trips;
// both sequences are in depth-first pre-order, which Read replays to
// reproduce the exact child ordering.
type tocDirectory struct {
	Path string `cbor:"1,keyasint"`
}

type tocFile struct {
	Path   string `cbor:"1,keyasint"`
	Size   int64  `cbor:"2,keyasint"`
	Offset int64  `cbor:"3,keyasint"`
	Length int64  `cbor:"4,keyasint"`
}

type tableOfContents struct {
	Directories []tocDirectory `cbor:"1,keyasint"`
	Files       []tocFile      `cbor:"2,keyasint"`
}

// buildTOC snapshots the tree; refOf supplies the extent each file will
// occupy in the image being composed.
func buildTOC(root *data.Directory, refOf func(*data.File) data.ContentRef) *tableOfContents {
	toc := &tableOfContents{}

	var walk func(dir *data.Directory)
	walk = func(dir *data.Directory) {
		if !dir.IsRoot() {
			toc.Directories = append(toc.Directories, tocDirectory{Path: dir.FullPath()})
		}

		for _, f := range dir.Files() {
			ref := refOf(f)
			toc.Files = append(toc.Files, tocFile{
				Path:   f.FullPath(),
				Size:   f.Size(),
				Offset: ref.Offset,
				Length: ref.Length,
			})
		}

		for _, sub := range dir.Directories() {
			walk(sub)
		}
	}
	walk(root)

	return toc
}

func encodeTOC(toc *tableOfContents, enc *zstd.Encoder) ([]byte, [sumSize]byte, error) {
	plain, err := cbor.Marshal(toc)
	if err != nil {
		return nil, [sumSize]byte{}, err
	}

	compressed := enc.EncodeAll(plain, nil)
	return compressed, blake3.Sum256(compressed), nil
}

func decodeTOC(compressed []byte, sum [sumSize]byte, dec *zstd.Decoder) (*tableOfContents, error) {
	if blake3.Sum256(compressed) != sum {
		return nil, fmt.Errorf("%w: table of contents checksum mismatch", data.ErrCorrupt)
	}

	plain, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", data.ErrCorrupt, err)
	}

	toc := &tableOfContents{}
	if err := cbor.Unmarshal(plain, toc); err != nil {
		return nil, fmt.Errorf("%w: %v", data.ErrCorrupt, err)
	}

	return toc, nil
}
