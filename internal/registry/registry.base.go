// Package registry cung cấp registry generic, an toàn khi truy cập đồng thời.
// Store dùng nó để giữ các collection MongoDB đã đăng ký theo tên.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mostafa12599/GreenFuture-Innovation/internal/common"
)

// Registry là một map có khoá string được bảo vệ bởi RWMutex.
//
// Example:
//
//	r := NewRegistry[*mongo.Collection]()
//	_, _ = r.Register("ideas", db.Collection("ideas"))
//	coll, ok := r.Get("ideas")
type Registry[T any] struct {
	items map[string]T
	mu    sync.RWMutex
}

// NewRegistry tạo registry rỗng
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{items: make(map[string]T)}
}

// Register đăng ký item. Nếu name đã tồn tại thì ghi đè và trả về isNew=false.
func (r *Registry[T]) Register(name string, item T) (isNew bool, err error) {
	if name == "" {
		return false, fmt.Errorf("registry: name cannot be empty: %w", common.ErrInvalidInput)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.items[name]
	r.items[name] = item
	return !exists, nil
}

// Get lấy item theo tên
func (r *Registry[T]) Get(name string) (item T, exists bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, exists = r.items[name]
	return item, exists
}

// GetOrCreate lấy item theo tên, nếu chưa có thì tạo qua creator.
// creator được gọi khi đang giữ lock nên không được gọi ngược vào registry.
func (r *Registry[T]) GetOrCreate(name string, creator func() (T, error)) (item T, err error) {
	if name == "" {
		return item, fmt.Errorf("registry: name cannot be empty: %w", common.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.items[name]; ok {
		return existing, nil
	}
	created, err := creator()
	if err != nil {
		return item, fmt.Errorf("registry: create %q: %w", name, err)
	}
	r.items[name] = created
	return created, nil
}

// Names trả về danh sách tên đã đăng ký, đã sắp xếp
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
