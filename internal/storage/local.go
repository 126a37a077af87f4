package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Local ghi file vào thư mục UPLOAD_DIR, phục vụ qua static route baseURL
type Local struct {
	root    string
	baseURL string
}

// NewLocal tạo thư mục gốc nếu chưa có
func NewLocal(root, baseURL string) (*Local, error) {
	if root == "" {
		root = "uploads"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{root: root, baseURL: baseURL}, nil
}

// Root trả về thư mục gốc (dùng cho static route)
func (l *Local) Root() string { return l.root }

func (l *Local) Name() string { return "local" }

func (l *Local) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	dst := filepath.Join(l.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create dir: %w", err)
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close file: %w", err)
	}
	return l.baseURL + "/" + key, nil
}

func (l *Local) Delete(_ context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(l.root, filepath.FromSlash(key))); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

func (l *Local) Ping(context.Context) error {
	_, err := os.Stat(l.root)
	return err
}
