// Package storage lưu file upload (avatar) trên đĩa cục bộ hoặc MinIO/S3.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
)

// Storage là backend lưu object
type Storage interface {
	// Put ghi object và trả về URL công khai để lưu vào DB
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Name() string
}

// Options chọn backend theo STORAGE_BACKEND
type Options struct {
	Backend        string
	UploadDir      string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

// New tạo backend theo cấu hình
func New(ctx context.Context, opts Options) (Storage, error) {
	switch strings.ToLower(opts.Backend) {
	case "", "local":
		return NewLocal(opts.UploadDir, "/uploads")
	case "minio":
		return NewMinio(ctx, opts.MinioEndpoint, opts.MinioAccessKey, opts.MinioSecretKey, opts.MinioBucket, opts.MinioUseSSL)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}

// cleanKey chuẩn hoá key, chặn path traversal ("../")
func cleanKey(key string) (string, error) {
	cleaned := strings.TrimPrefix(path.Clean("/"+key), "/")
	if cleaned == "" || cleaned == "." {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return cleaned, nil
}
