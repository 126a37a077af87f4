package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_PutAndDelete(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocal(root, "/uploads")
	require.NoError(t, err)
	ctx := context.Background()

	url, err := store.Put(ctx, "avatars/abc-me.png", strings.NewReader("png-bytes"), 9, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/avatars/abc-me.png", url)

	data, err := os.ReadFile(filepath.Join(root, "avatars", "abc-me.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, store.Delete(ctx, "avatars/abc-me.png"))
	_, err = os.Stat(filepath.Join(root, "avatars", "abc-me.png"))
	assert.True(t, os.IsNotExist(err))

	// xoá file không tồn tại không lỗi
	require.NoError(t, store.Delete(ctx, "avatars/abc-me.png"))
}

func TestLocal_KeyCannotEscapeRoot(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocal(filepath.Join(root, "up"), "/uploads")
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "../../etc/passwd", strings.NewReader("x"), 1, "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/etc/passwd", url)
	_, err = os.Stat(filepath.Join(root, "up", "etc", "passwd"))
	assert.NoError(t, err)
}

func TestCleanKey_Empty(t *testing.T) {
	_, err := cleanKey("")
	assert.Error(t, err)
	_, err = cleanKey("/")
	assert.Error(t, err)
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New(context.Background(), Options{Backend: "ftp"})
	assert.Error(t, err)
}

func TestNew_DefaultsToLocal(t *testing.T) {
	s, err := New(context.Background(), Options{UploadDir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, "local", s.Name())
	assert.NoError(t, s.Ping(context.Background()))
}
