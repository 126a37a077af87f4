// Package events phát sự kiện khi dữ liệu thay đổi qua BaseServiceMongoImpl.
// Các phản ứng phụ (gửi email thông báo, audit log) đăng ký qua Bus.OnDataChanged.
package events

import (
	"context"
	"sync"

	"github.com/mostafa12599/GreenFuture-Innovation/internal/logger"
)

// OpInsert, OpUpdate, OpDelete là các loại thao tác CRUD.
const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

// DataChangeEvent mô tả sự kiện thay đổi dữ liệu.
// Document là bản ghi sau khi thay đổi (nil nếu delete).
type DataChangeEvent struct {
	CollectionName string
	Operation      string
	Document       interface{}
}

// DataChangeHandler xử lý sự kiện thay đổi dữ liệu.
type DataChangeHandler func(ctx context.Context, e DataChangeEvent)

type subscription struct {
	collection string
	handler    DataChangeHandler
}

// Bus giữ danh sách handler. Một Bus được tạo trong main và truyền vào các service.
type Bus struct {
	mu       sync.RWMutex
	subs     []subscription
	inflight sync.WaitGroup
}

// NewBus tạo bus rỗng
func NewBus() *Bus {
	return &Bus{}
}

// OnDataChanged đăng ký handler cho một collection; collection rỗng nghĩa là mọi collection.
func (b *Bus) OnDataChanged(collection string, h DataChangeHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, subscription{collection: collection, handler: h})
}

// EmitDataChanged phát sự kiện. Mỗi handler chạy trong goroutine riêng với context
// đã tách khỏi request, panic được recover. Bus nil thì không làm gì.
func (b *Bus) EmitDataChanged(ctx context.Context, e DataChangeEvent) {
	if b == nil {
		return
	}
	b.mu.RLock()
	var matched []DataChangeHandler
	for _, s := range b.subs {
		if s.collection == "" || s.collection == e.CollectionName {
			matched = append(matched, s.handler)
		}
	}
	b.mu.RUnlock()

	detached := context.WithoutCancel(ctx)
	for _, h := range matched {
		b.inflight.Add(1)
		go func(fn DataChangeHandler) {
			defer b.inflight.Done()
			defer func() {
				if r := recover(); r != nil {
					logger.WithCollection(e.CollectionName).WithField("panic", r).Error("Data change handler panicked")
				}
			}()
			fn(detached, e)
		}(h)
	}
}

// Wait chờ các handler đang chạy kết thúc. Dùng khi tắt server và trong test.
func (b *Bus) Wait() {
	b.inflight.Wait()
}
