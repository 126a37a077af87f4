// Package testhelper khởi động MongoDB dùng chung cho integration test.
package testhelper

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mostafa12599/GreenFuture-Innovation/internal/database"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/global"
)

var (
	once      sync.Once
	sharedURI string
	initErr   error
)

// SetupTestStore trả về Store trỏ tới một database riêng cho test (tên ngẫu nhiên).
// Container mongo:7 được khởi động một lần cho cả tiến trình test.
// Đặt MONGODB_TEST_URI để dùng MongoDB có sẵn thay cho container.
// Test bị skip khi chạy với -short hoặc không có Docker.
func SetupTestStore(t *testing.T) *database.Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping MongoDB integration test in -short mode")
	}

	once.Do(func() {
		if uri := os.Getenv("MONGODB_TEST_URI"); uri != "" {
			sharedURI = uri
			return
		}
		sharedURI, initErr = startContainer()
	})
	if initErr != nil {
		t.Skipf("testhelper: MongoDB unavailable: %v", initErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	dbName := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	store, err := database.Open(ctx, sharedURI, dbName)
	if err != nil {
		t.Fatalf("testhelper: open store: %v", err)
	}
	if err := database.EnsureCollections(ctx, store.Database(), global.MongoDB_ColNames.All()); err != nil {
		t.Fatalf("testhelper: ensure collections: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = store.Database().Drop(ctx)
		_ = store.Close(ctx)
	})
	return store
}

func startContainer() (uri string, err error) {
	// testcontainers panic khi không tìm thấy Docker ở một số môi trường
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("start container: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor: wait.ForLog("Waiting for connections").
			WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "27017")
	if err != nil {
		return "", fmt.Errorf("get mapped port: %w", err)
	}
	return fmt.Sprintf("mongodb://%s:%s", host, port.Port()), nil
}
