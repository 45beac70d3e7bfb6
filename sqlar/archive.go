// Package sqlar implements the archive contract over a single SQLite
// database file. The same tree engine drives it as drives the binary
// container; only the persistence differs, which is the point: the
// encoding is swappable beneath the lifecycle contract.
//
// SQLite needs a real filesystem path, so sqlar archives bypass the
// storage backends and open their database directly (":memory:" works
// for throwaway archives and tests).
package sqlar

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	vfs "github.com/andy123456789088/VFS"
	"github.com/andy123456789088/VFS/data"
	"github.com/andy123456789088/VFS/storage"
	"github.com/tidwall/btree"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Archive persists the virtual tree in three layers: an in-memory
// B-tree for path → content-ID lookups, a node table for the tree
// shape, and a content table for file bytes.
type Archive struct {
	*vfs.Base

	db *sql.DB
	id string

	keys    *btree.Map[string, string]
	pending map[string][]byte
}

// New opens (or creates) the archive database at dbPath.
func New(dbPath string, opts ...vfs.Option) (*Archive, error) {
	base, err := vfs.NewBase(opts...)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, err
	}

	a := &Archive{
		Base:    base,
		db:      db,
		id:      data.NewArchiveID(),
		keys:    btree.NewMap[string, string](0),
		pending: make(map[string][]byte),
	}
	if err := a.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	a.Bind(a, a)

	return a, nil
}

func (a *Archive) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sqlar_meta (
		id TEXT PRIMARY KEY,
		version INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS sqlar_node (
		path TEXT PRIMARY KEY,
		is_dir INTEGER NOT NULL,
		size INTEGER NOT NULL DEFAULT 0,
		content_id TEXT
	);
	CREATE TABLE IF NOT EXISTS sqlar_content (
		id TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sqlar_node_path ON sqlar_node(path);
	`

	_, err := a.db.Exec(schema)
	return err
}

// ID returns the archive's persistent identifier.
func (a *Archive) ID() string {
	return a.id
}

// Read loads the tree shape from the node table without touching the
// content table. Fails on an already-populated tree. The database was
// fixed at New, so the location argument is ignored.
func (a *Archive) Read(ctx context.Context, archive storage.File) data.Result[bool] {
	var res data.Result[bool]
	ok := a.RunExclusive(func() {
		res = a.read(ctx)
	})
	if !ok {
		return data.Fail[bool](data.ErrClosed)
	}

	return res
}

func (a *Archive) read(ctx context.Context) data.Result[bool] {
	if a.Populated() {
		return data.Fail[bool](data.ErrAlreadyPopulated)
	}

	row := a.db.QueryRowContext(ctx, `SELECT id FROM sqlar_meta LIMIT 1`)
	if err := row.Scan(&a.id); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return data.Fail[bool](err)
		}

		return data.Fail[bool](fmt.Errorf("%w: archive database is empty", data.ErrNotExist))
	}

	rows, err := a.db.QueryContext(ctx,
		`SELECT path, is_dir, size, content_id FROM sqlar_node ORDER BY rowid`)
	if err != nil {
		return data.Fail[bool](err)
	}
	defer rows.Close()

	root := data.NewTreeWith(a.Allocator())
	a.keys.Clear()

	for rows.Next() {
		var path string
		var isDir bool
		var size int64
		var contentID sql.NullString

		if err := rows.Scan(&path, &isDir, &size, &contentID); err != nil {
			return data.Fail[bool](err)
		}

		segments := data.Segments(path)
		if len(segments) == 0 {
			continue
		}

		current := root
		for _, segment := range segments[:len(segments)-1] {
			sub, err := current.EnsureSubdirectory(segment)
			if err != nil {
				return data.Fail[bool](err)
			}

			current = sub
		}

		name := segments[len(segments)-1]
		if isDir {
			if _, err := current.EnsureSubdirectory(name); err != nil {
				return data.Fail[bool](err)
			}
			continue
		}

		ref := data.ContentRef{ID: contentID.String, Length: size}
		if _, err := current.NewFile(name, size, ref); err != nil {
			return data.Fail[bool](err)
		}

		a.keys.Set(path, contentID.String)
	}

	if err := rows.Err(); err != nil {
		return data.Fail[bool](err)
	}

	a.AdoptTree(root)
	a.Logger().Info("read archive %s: %d nodes", a.id, a.keys.Len())

	return data.Ok(true)
}

// Save rewrites the node table from the in-memory tree and flushes
// pending content, all in one transaction.
func (a *Archive) Save(ctx context.Context) data.Result[bool] {
	var res data.Result[bool]
	ok := a.RunExclusive(func() {
		res = a.save(ctx)
	})
	if !ok {
		return data.Fail[bool](data.ErrClosed)
	}

	return res
}

func (a *Archive) save(ctx context.Context) data.Result[bool] {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return data.Fail[bool](err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sqlar_node`); err != nil {
		return data.Fail[bool](err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sqlar_meta (id, version) VALUES (?, 1)
		 ON CONFLICT (id) DO NOTHING`, a.id); err != nil {
		return data.Fail[bool](err)
	}

	a.keys.Clear()

	var walkErr error
	var walk func(dir *data.Directory)
	walk = func(dir *data.Directory) {
		if walkErr != nil {
			return
		}

		if !dir.IsRoot() {
			_, walkErr = tx.ExecContext(ctx,
				`INSERT INTO sqlar_node (path, is_dir) VALUES (?, 1)`, dir.FullPath())
			if walkErr != nil {
				return
			}
		}

		for _, f := range dir.Files() {
			ref := f.Ref()
			if payload, exists := a.pending[ref.ID]; exists {
				_, walkErr = tx.ExecContext(ctx,
					`INSERT INTO sqlar_content (id, payload) VALUES (?, ?)
					 ON CONFLICT (id) DO UPDATE SET payload = excluded.payload`,
					ref.ID, payload)
				if walkErr != nil {
					return
				}
			}

			_, walkErr = tx.ExecContext(ctx,
				`INSERT INTO sqlar_node (path, is_dir, size, content_id) VALUES (?, 0, ?, ?)`,
				f.FullPath(), f.Size(), ref.ID)
			if walkErr != nil {
				return
			}

			a.keys.Set(f.FullPath(), ref.ID)
		}

		for _, sub := range dir.Directories() {
			walk(sub)
		}
	}
	walk(a.Root())

	if walkErr != nil {
		return data.Fail[bool](walkErr)
	}

	// Content rows no node references anymore are dead weight.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM sqlar_content
		 WHERE id NOT IN (SELECT content_id FROM sqlar_node WHERE content_id IS NOT NULL)`); err != nil {
		return data.Fail[bool](err)
	}

	if err := tx.Commit(); err != nil {
		return data.Fail[bool](err)
	}

	clear(a.pending)
	a.Logger().Info("saved archive %s: %d nodes", a.id, a.keys.Len())

	return data.Ok(true)
}

// Close stops the worker and closes the database.
func (a *Archive) Close(ctx context.Context) error {
	if err := a.Base.Close(ctx); err != nil {
		return err
	}

	return a.db.Close()
}

// Put buffers content for the next save. Implements vfs.ContentStore.
func (a *Archive) Put(ctx context.Context, content []byte) (data.ContentRef, error) {
	buffer := make([]byte, len(content))
	copy(buffer, content)

	ref := data.ContentRef{ID: data.NewContentID(), Length: int64(len(content))}
	a.pending[ref.ID] = buffer

	return ref, nil
}

// Get fetches content by reference: pending buffers first, then the
// content table. Implements vfs.ContentStore.
func (a *Archive) Get(ctx context.Context, ref data.ContentRef, size int64) ([]byte, error) {
	if buffer, exists := a.pending[ref.ID]; exists {
		return buffer, nil
	}

	var payload []byte
	row := a.db.QueryRowContext(ctx, `SELECT payload FROM sqlar_content WHERE id = ?`, ref.ID)
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: unknown content %s", data.ErrNotExist, ref.ID)
		}

		return nil, err
	}

	return payload, nil
}

// Discard drops a pending buffer; persisted rows are garbage-collected
// by the next save. Implements vfs.ContentStore.
func (a *Archive) Discard(ctx context.Context, ref data.ContentRef) error {
	delete(a.pending, ref.ID)
	return nil
}
