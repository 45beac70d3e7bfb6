// Package container implements the single-file archive encoding: one
// physical file holding a fixed header, zstd-compressed content blocks
// with BLAKE3 checksums, and a CBOR table of contents. Reading decodes
// the header and TOC only; file content stays on the backend until a
// read-family operation asks for it.
package container

import (
	"bytes"
	"context"
	"fmt"
	"io"

	vfs "github.com/andy123456789088/VFS"
	"github.com/andy123456789088/VFS/data"
	"github.com/andy123456789088/VFS/storage"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/tidwall/btree"
	"github.com/zeebo/blake3"
)

// Container is the concrete single-file archive backend.
type Container struct {
	*vfs.Base

	id   uuid.UUID
	file *storage.File

	// pending buffers content written since the last save, keyed by
	// content ID. extents maps full paths to the persisted block layout
	// of the last read or save, kept ordered for verification sweeps.
	pending map[string][]byte
	extents *btree.Map[string, data.ContentRef]

	enc *zstd.Encoder
	dec *zstd.Decoder
}

// New creates a fresh, unpopulated container archive. Call SetLocation
// (or Read) before Save so the archive has a physical home.
func New(opts ...vfs.Option) (*Container, error) {
	base, err := vfs.NewBase(opts...)
	if err != nil {
		return nil, err
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Base:    base,
		id:      uuid.Must(uuid.NewV7()),
		pending: make(map[string][]byte),
		extents: btree.NewMap[string, data.ContentRef](0),
		enc:     enc,
		dec:     dec,
	}
	c.Bind(c, c)

	return c, nil
}

// Open creates a container and reads the archive at file.
func Open(ctx context.Context, file storage.File, opts ...vfs.Option) (*Container, error) {
	c, err := New(opts...)
	if err != nil {
		return nil, err
	}

	if res := c.Read(ctx, file); !res.OK() {
		c.Close(ctx)
		if res.Err() != nil {
			return nil, res.Err()
		}

		return nil, data.ErrNotExist
	}

	return c, nil
}

// ID returns the archive's persistent identifier.
func (c *Container) ID() string {
	return c.id.String()
}

// SetLocation points the archive at its physical file without reading
// it. Save writes there.
func (c *Container) SetLocation(file storage.File) {
	c.file = &file
}

// Read loads the archive's structural metadata from the physical file:
// header and table of contents only, no content blocks. Fails on an
// already-populated tree.
func (c *Container) Read(ctx context.Context, archive storage.File) data.Result[bool] {
	var res data.Result[bool]
	ok := c.RunExclusive(func() {
		res = c.read(ctx, archive)
	})
	if !ok {
		return data.Fail[bool](data.ErrClosed)
	}

	return res
}

func (c *Container) read(ctx context.Context, archive storage.File) data.Result[bool] {
	if c.Populated() {
		return data.Fail[bool](data.ErrAlreadyPopulated)
	}

	r, err := archive.Backend.OpenRead(ctx, archive.Path)
	if err != nil {
		return data.Fail[bool](err)
	}
	defer r.Close()

	buffer := make([]byte, headerSize)
	if _, err := io.ReadFull(r, buffer); err != nil {
		return data.Fail[bool](fmt.Errorf("%w: %v", data.ErrCorrupt, err))
	}

	h, err := decodeHeader(buffer)
	if err != nil {
		return data.Fail[bool](err)
	}

	if _, err := r.Seek(int64(h.tocOffset), io.SeekStart); err != nil {
		return data.Fail[bool](fmt.Errorf("%w: %v", data.ErrCorrupt, err))
	}

	compressed := make([]byte, h.tocLength)
	if _, err := io.ReadFull(r, compressed); err != nil {
		return data.Fail[bool](fmt.Errorf("%w: %v", data.ErrCorrupt, err))
	}

	toc, err := decodeTOC(compressed, h.tocSum, c.dec)
	if err != nil {
		return data.Fail[bool](err)
	}

	root, err := c.rebuildTree(toc)
	if err != nil {
		return data.Fail[bool](err)
	}

	c.id = h.id
	c.file = &archive
	c.AdoptTree(root)
	c.Logger().Info("read archive %s: %d directories, %d files",
		c.id, len(toc.Directories), len(toc.Files))

	return data.Ok(true)
}

func (c *Container) rebuildTree(toc *tableOfContents) (*data.Directory, error) {
	root := data.NewTreeWith(c.Allocator())
	c.extents.Clear()

	for _, dir := range toc.Directories {
		current := root
		for _, segment := range data.Segments(dir.Path) {
			sub, err := current.EnsureSubdirectory(segment)
			if err != nil {
				return nil, err
			}

			current = sub
		}
	}

	for _, f := range toc.Files {
		segments := data.Segments(f.Path)
		if len(segments) == 0 {
			return nil, fmt.Errorf("%w: empty file path in table of contents", data.ErrCorrupt)
		}

		current := root
		for _, segment := range segments[:len(segments)-1] {
			sub, err := current.EnsureSubdirectory(segment)
			if err != nil {
				return nil, err
			}

			current = sub
		}

		ref := data.ContentRef{Offset: f.Offset, Length: f.Length}
		if _, err := current.NewFile(segments[len(segments)-1], f.Size, ref); err != nil {
			return nil, err
		}

		c.extents.Set(f.Path, ref)
	}

	return root, nil
}

// Save persists the in-memory tree and pending content writes as one
// physical file: unchanged blocks are carried over from the previous
// image, pending buffers are compressed in, and a fresh TOC is appended.
func (c *Container) Save(ctx context.Context) data.Result[bool] {
	var res data.Result[bool]
	ok := c.RunExclusive(func() {
		res = c.save(ctx)
	})
	if !ok {
		return data.Fail[bool](data.ErrClosed)
	}

	return res
}

func (c *Container) save(ctx context.Context) data.Result[bool] {
	if c.file == nil {
		return data.Fail[bool](data.ErrNoLocation)
	}

	var image bytes.Buffer
	image.Write(make([]byte, headerSize))

	// Walk files in TOC order, append their blocks and rewrite the refs
	// to the new extents.
	placements := make(map[*data.File]data.ContentRef)

	var walkErr error
	var walk func(dir *data.Directory)
	walk = func(dir *data.Directory) {
		for _, f := range dir.Files() {
			if walkErr != nil {
				return
			}

			payload, err := c.Get(ctx, f.Ref(), f.Size())
			if err != nil {
				walkErr = fmt.Errorf("loading %s: %w", f.FullPath(), err)
				return
			}

			block := c.encodeBlock(payload)
			placements[f] = data.ContentRef{
				Offset: int64(image.Len()),
				Length: int64(len(block)),
			}
			image.Write(block)
		}

		for _, sub := range dir.Directories() {
			walk(sub)
		}
	}
	walk(c.Root())

	if walkErr != nil {
		return data.Fail[bool](walkErr)
	}

	toc := buildTOC(c.Root(), func(f *data.File) data.ContentRef {
		return placements[f]
	})

	compressed, sum, err := encodeTOC(toc, c.enc)
	if err != nil {
		return data.Fail[bool](err)
	}

	h := &header{
		id:        c.id,
		tocOffset: uint64(image.Len()),
		tocLength: uint64(len(compressed)),
		tocSum:    sum,
	}
	image.Write(compressed)
	copy(image.Bytes()[:headerSize], h.encode())

	if err := c.file.Write(ctx, image.Bytes()); err != nil {
		return data.Fail[bool](err)
	}

	// The image is durable; only now may the in-memory refs switch from
	// pending buffers and old extents to the new layout.
	c.extents.Clear()
	for f, ref := range placements {
		f.SetContent(f.Size(), ref)
		c.extents.Set(f.FullPath(), ref)
	}
	clear(c.pending)

	c.Logger().Info("saved archive %s (%d bytes) to %s:%s",
		c.id, image.Len(), c.file.Backend.Name(), c.file.Path)

	return data.Ok(true)
}

// encodeBlock frames payload as a self-contained content block:
// BLAKE3-256 of the compressed bytes, then the zstd frame.
func (c *Container) encodeBlock(payload []byte) []byte {
	compressed := c.enc.EncodeAll(payload, nil)
	sum := blake3.Sum256(compressed)

	block := make([]byte, 0, sumSize+len(compressed))
	block = append(block, sum[:]...)
	block = append(block, compressed...)

	return block
}

// Verify sweeps every persisted content block in path order and checks
// its checksum against the stored sum.
func (c *Container) Verify(ctx context.Context) error {
	if c.file == nil {
		return data.ErrNoLocation
	}

	r, err := c.file.Backend.OpenRead(ctx, c.file.Path)
	if err != nil {
		return err
	}
	defer r.Close()

	var verifyErr error
	c.extents.Scan(func(path string, ref data.ContentRef) bool {
		if _, err := c.readBlock(r, ref); err != nil {
			verifyErr = fmt.Errorf("verifying %s: %w", path, err)
			return false
		}

		return true
	})

	return verifyErr
}

// Close stops the worker and releases the compression codecs.
func (c *Container) Close(ctx context.Context) error {
	if err := c.Base.Close(ctx); err != nil {
		return err
	}

	c.enc.Close()
	c.dec.Close()

	return nil
}

// Put buffers content for the next save. Implements vfs.ContentStore.
func (c *Container) Put(ctx context.Context, content []byte) (data.ContentRef, error) {
	buffer := make([]byte, len(content))
	copy(buffer, content)

	ref := data.ContentRef{ID: data.NewContentID()}
	c.pending[ref.ID] = buffer

	return ref, nil
}

// Get fetches content by reference: pending buffers directly, persisted
// extents from the physical file with decompression and checksum
// verification. Implements vfs.ContentStore.
func (c *Container) Get(ctx context.Context, ref data.ContentRef, size int64) ([]byte, error) {
	if ref.ID != "" {
		if buffer, exists := c.pending[ref.ID]; exists {
			return buffer, nil
		}

		return nil, fmt.Errorf("%w: unknown content %s", data.ErrNotExist, ref.ID)
	}

	if c.file == nil {
		return nil, data.ErrNoLocation
	}

	r, err := c.file.Backend.OpenRead(ctx, c.file.Path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return c.readBlock(r, ref)
}

func (c *Container) readBlock(r io.ReadSeeker, ref data.ContentRef) ([]byte, error) {
	if ref.Length < sumSize {
		return nil, fmt.Errorf("%w: content block too short", data.ErrCorrupt)
	}

	if _, err := r.Seek(ref.Offset, io.SeekStart); err != nil {
		return nil, err
	}

	block := make([]byte, ref.Length)
	if _, err := io.ReadFull(r, block); err != nil {
		return nil, fmt.Errorf("%w: %v", data.ErrCorrupt, err)
	}

	var sum [sumSize]byte
	copy(sum[:], block[:sumSize])
	compressed := block[sumSize:]

	if blake3.Sum256(compressed) != sum {
		return nil, fmt.Errorf("%w: content checksum mismatch", data.ErrCorrupt)
	}

	return c.dec.DecodeAll(compressed, nil)
}

// Discard drops a pending buffer; persisted blocks are reclaimed by the
// next save rewriting the image. Implements vfs.ContentStore.
func (c *Container) Discard(ctx context.Context, ref data.ContentRef) error {
	if ref.ID != "" {
		delete(c.pending, ref.ID)
	}

	return nil
}
