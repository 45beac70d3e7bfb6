// Package consul implements the storage backend over the Consul KV store.
// Files are keys, directories are virtual prefixes, matching how the KV
// store itself models hierarchy.
package consul

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/andy123456789088/VFS/data"
	"github.com/andy123456789088/VFS/storage"
	"github.com/hashicorp/consul/api"
)

type ConsulBackend struct {
	kv     *api.KV
	prefix string
}

// NewConsulBackend creates a backend storing entries below the given KV
// prefix. Config may be nil for api.DefaultConfig.
func NewConsulBackend(config *api.Config, prefix string) (*ConsulBackend, error) {
	if config == nil {
		config = api.DefaultConfig()
	}

	client, err := api.NewClient(config)
	if err != nil {
		return nil, err
	}

	return &ConsulBackend{
		kv:     client.KV(),
		prefix: strings.Trim(prefix, "/"),
	}, nil
}

// Name returns the identifier name defined for this backend.
func (*ConsulBackend) Name() string {
	return "consul"
}

func (cb *ConsulBackend) Open(ctx context.Context) error {
	// A cheap list verifies connectivity and ACL access.
	_, _, err := cb.kv.Keys(cb.buildKey(""), "/", nil)
	return err
}

func (cb *ConsulBackend) Close(ctx context.Context) error {
	return nil
}

func (cb *ConsulBackend) buildKey(path string) string {
	path = strings.Trim(path, "/")
	if cb.prefix == "" {
		return path
	}

	if path == "" {
		return cb.prefix
	}

	return cb.prefix + "/" + path
}

func (cb *ConsulBackend) OpenRead(ctx context.Context, path string) (io.ReadSeekCloser, error) {
	pair, _, err := cb.kv.Get(cb.buildKey(path), nil)
	if err != nil {
		return nil, err
	}

	if pair == nil {
		return nil, fmt.Errorf("%w: %s", data.ErrNotExist, path)
	}

	return storage.NewByteSeeker(pair.Value), nil
}

func (cb *ConsulBackend) WriteAll(ctx context.Context, path string, payload []byte) error {
	pair := &api.KVPair{
		Key:   cb.buildKey(path),
		Value: payload,
	}

	_, err := cb.kv.Put(pair, nil)
	return err
}

func (cb *ConsulBackend) List(ctx context.Context, path string) ([]storage.EntryInfo, error) {
	prefix := cb.buildKey(path)
	if prefix != "" {
		prefix += "/"
	}

	keys, _, err := cb.kv.Keys(prefix, "/", nil)
	if err != nil {
		return nil, err
	}

	infos := make([]storage.EntryInfo, 0, len(keys))
	for _, key := range keys {
		rest := strings.TrimPrefix(key, prefix)
		if rest == "" {
			continue
		}

		if strings.HasSuffix(rest, "/") {
			infos = append(infos, storage.EntryInfo{
				Name:  strings.TrimSuffix(rest, "/"),
				IsDir: true,
			})
			continue
		}

		pair, _, err := cb.kv.Get(key, nil)
		if err != nil {
			return nil, err
		}

		size := int64(0)
		if pair != nil {
			size = int64(len(pair.Value))
		}

		infos = append(infos, storage.EntryInfo{Name: rest, Size: size})
	}

	return infos, nil
}

func (cb *ConsulBackend) MakeDir(ctx context.Context, path string) error {
	// Directories are virtual prefixes; nothing to create.
	return nil
}

func (cb *ConsulBackend) Stat(ctx context.Context, path string) (*storage.EntryInfo, error) {
	key := cb.buildKey(path)
	pair, _, err := cb.kv.Get(key, nil)
	if err != nil {
		return nil, err
	}

	if pair != nil {
		return &storage.EntryInfo{
			Name: baseName(key),
			Size: int64(len(pair.Value)),
		}, nil
	}

	keys, _, err := cb.kv.Keys(key+"/", "/", nil)
	if err != nil {
		return nil, err
	}

	if len(keys) > 0 {
		return &storage.EntryInfo{Name: baseName(key), IsDir: true}, nil
	}

	return nil, fmt.Errorf("%w: %s", data.ErrNotExist, path)
}

func (cb *ConsulBackend) Remove(ctx context.Context, path string) error {
	_, err := cb.kv.Delete(cb.buildKey(path), nil)
	return err
}

func baseName(key string) string {
	if i := strings.LastIndex(key, "/"); i >= 0 {
		return key[i+1:]
	}

	return key
}
