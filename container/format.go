package container

import (
	"encoding/binary"
	"fmt"

	"github.com/andy123456789088/VFS/data"
	"github.com/google/uuid"
)

// Physical layout of a container archive:
//
//	[header][content block]...[content block][toc block]
//
// The header is fixed-size at offset 0 and points at the TOC block. Each
// content block is self-contained: a BLAKE3-256 sum of the compressed
// payload followed by the zstd frame. The TOC block is a zstd-compressed
// CBOR document describing the tree and the content extents, checksummed
// from the header.
const (
	magic      = "VARC"
	version    = uint16(1)
	headerSize = 72
	sumSize    = 32
)

type header struct {
	id        uuid.UUID
	flags     uint16
	tocOffset uint64
	tocLength uint64
	tocSum    [sumSize]byte
}

func (h *header) encode() []byte {
	buffer := make([]byte, headerSize)
	copy(buffer[0:4], magic)
	binary.BigEndian.PutUint16(buffer[4:6], version)
	binary.BigEndian.PutUint16(buffer[6:8], h.flags)
	copy(buffer[8:24], h.id[:])
	binary.BigEndian.PutUint64(buffer[24:32], h.tocOffset)
	binary.BigEndian.PutUint64(buffer[32:40], h.tocLength)
	copy(buffer[40:72], h.tocSum[:])

	return buffer
}

func decodeHeader(buffer []byte) (*header, error) {
	if len(buffer) < headerSize {
		return nil, fmt.Errorf("%w: truncated header", data.ErrCorrupt)
	}

	if string(buffer[0:4]) != magic {
		return nil, fmt.Errorf("%w: bad magic", data.ErrCorrupt)
	}

	if v := binary.BigEndian.Uint16(buffer[4:6]); v != version {
		return nil, fmt.Errorf("%w: unsupported version %d", data.ErrCorrupt, v)
	}

	h := &header{
		flags:     binary.BigEndian.Uint16(buffer[6:8]),
		tocOffset: binary.BigEndian.Uint64(buffer[24:32]),
		tocLength: binary.BigEndian.Uint64(buffer[32:40]),
	}
	copy(h.id[:], buffer[8:24])
	copy(h.tocSum[:], buffer[40:72])

	return h, nil
}
