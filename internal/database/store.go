package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mostafa12599/GreenFuture-Innovation/internal/logger"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/registry"
)

// Store là handle tới database, được tạo một lần trong main và truyền vào các service.
// Không có biến global giữ kết nối.
type Store struct {
	client      *mongo.Client
	db          *mongo.Database
	collections *registry.Registry[*mongo.Collection]
}

// NewStore bọc một client đã kết nối
func NewStore(client *mongo.Client, dbName string) *Store {
	return &Store{
		client:      client,
		db:          client.Database(dbName),
		collections: registry.NewRegistry[*mongo.Collection](),
	}
}

// Open kết nối tới MongoDB và trả về Store
func Open(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := Connect(ctx, uri)
	if err != nil {
		return nil, err
	}
	return NewStore(client, dbName), nil
}

// Client trả về mongo client gốc
func (s *Store) Client() *mongo.Client {
	return s.client
}

// Database trả về database đang dùng
func (s *Store) Database() *mongo.Database {
	return s.db
}

// Collection trả về collection theo tên, đăng ký vào registry ở lần đầu dùng
func (s *Store) Collection(name string) *mongo.Collection {
	coll, _ := s.collections.GetOrCreate(name, func() (*mongo.Collection, error) {
		return s.db.Collection(name), nil
	})
	return coll
}

// RegisteredCollections liệt kê các collection đã được dùng qua Store
func (s *Store) RegisteredCollections() []string {
	return s.collections.Names()
}

// Ping kiểm tra kết nối, dùng cho health check
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.client.Ping(ctx, nil)
}

// Close ngắt kết nối. Gọi khi nhận tín hiệu tắt server.
func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		logger.GetAppLogger().WithError(err).Error("Failed to disconnect MongoDB client")
		return fmt.Errorf("disconnect mongo: %w", err)
	}
	logger.GetAppLogger().Info("Successfully disconnected from MongoDB")
	return nil
}
