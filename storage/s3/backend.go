// Package s3 implements the storage backend over an S3-compatible object
// store using the MinIO client. Directories are virtual: they exist as
// key prefixes only.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/andy123456789088/VFS/data"
	"github.com/andy123456789088/VFS/storage"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type S3Backend struct {
	client     *minio.Client
	bucketName string
}

func NewS3Backend(endpoint, bucketName, accessKey, secretKey string, useSsl bool) (*S3Backend, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSsl,
	})
	if err != nil {
		return nil, err
	}

	return &S3Backend{
		client:     client,
		bucketName: bucketName,
	}, nil
}

// Name returns the identifier name defined for this backend.
func (*S3Backend) Name() string {
	return "s3"
}

func (sb *S3Backend) Open(ctx context.Context) error {
	exists, err := sb.client.BucketExists(ctx, sb.bucketName)
	if err != nil {
		return err
	}

	if !exists {
		return fmt.Errorf("%w: bucket %s", data.ErrNotExist, sb.bucketName)
	}

	return nil
}

func (sb *S3Backend) Close(ctx context.Context) error {
	return nil
}

func (sb *S3Backend) OpenRead(ctx context.Context, path string) (io.ReadSeekCloser, error) {
	obj, err := sb.client.GetObject(ctx, sb.bucketName, clean(path), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}

	// GetObject is lazy; surface missing keys now instead of at first read.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if isNoSuchKey(err) {
			return nil, fmt.Errorf("%w: %s", data.ErrNotExist, path)
		}
		return nil, err
	}

	return obj, nil
}

func (sb *S3Backend) WriteAll(ctx context.Context, path string, payload []byte) error {
	_, err := sb.client.PutObject(ctx, sb.bucketName, clean(path),
		bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{})

	return err
}

func (sb *S3Backend) List(ctx context.Context, path string) ([]storage.EntryInfo, error) {
	prefix := clean(path)
	if prefix != "" {
		prefix += "/"
	}

	var infos []storage.EntryInfo
	opts := minio.ListObjectsOptions{Prefix: prefix, Recursive: false}
	for obj := range sb.client.ListObjects(ctx, sb.bucketName, opts) {
		if obj.Err != nil {
			return nil, obj.Err
		}

		key := strings.TrimPrefix(obj.Key, prefix)
		if key == "" {
			continue
		}

		if strings.HasSuffix(key, "/") {
			infos = append(infos, storage.EntryInfo{
				Name:  strings.TrimSuffix(key, "/"),
				IsDir: true,
			})
			continue
		}

		infos = append(infos, storage.EntryInfo{
			Name:    key,
			Size:    obj.Size,
			ModTime: obj.LastModified,
		})
	}

	return infos, nil
}

func (sb *S3Backend) MakeDir(ctx context.Context, path string) error {
	// Directories are virtual prefixes; nothing to create.
	return nil
}

func (sb *S3Backend) Stat(ctx context.Context, path string) (*storage.EntryInfo, error) {
	key := clean(path)
	info, err := sb.client.StatObject(ctx, sb.bucketName, key, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			// The key may still exist as a virtual directory prefix.
			children, listErr := sb.List(ctx, key)
			if listErr == nil && len(children) > 0 {
				return &storage.EntryInfo{Name: baseName(key), IsDir: true}, nil
			}
			return nil, fmt.Errorf("%w: %s", data.ErrNotExist, path)
		}
		return nil, err
	}

	return &storage.EntryInfo{
		Name:    baseName(key),
		Size:    info.Size,
		ModTime: info.LastModified,
	}, nil
}

func (sb *S3Backend) Remove(ctx context.Context, path string) error {
	return sb.client.RemoveObject(ctx, sb.bucketName, clean(path), minio.RemoveObjectOptions{})
}

func isNoSuchKey(err error) bool {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		return resp.Code == "NoSuchKey"
	}

	return false
}

func baseName(key string) string {
	if i := strings.LastIndex(key, "/"); i >= 0 {
		return key[i+1:]
	}

	return key
}

func clean(path string) string {
	return strings.Trim(path, "/")
}
