package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore là backend trong tiến trình, dùng khi không có Redis (dev, test).
// Dữ liệu mất khi restart và không chia sẻ giữa các instance.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore tạo MemoryStore rỗng
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryStore) set(key, value string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{value: value, expiresAt: s.now().Add(normalizeTTL(ttl))}
}

// get trả về giá trị còn hạn; entry hết hạn bị xoá luôn. Caller phải giữ mu.
func (s *MemoryStore) get(key string) (string, bool) {
	e, ok := s.entries[key]
	if !ok {
		return "", false
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return "", false
	}
	return e.value, true
}

func (s *MemoryStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	s.set(revokedPrefix+jti, "1", ttl)
	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.get(revokedPrefix + jti)
	return ok, nil
}

func (s *MemoryStore) SaveResetToken(_ context.Context, tokenHash, userID string, ttl time.Duration) error {
	s.set(resetPrefix+tokenHash, userID, ttl)
	return nil
}

func (s *MemoryStore) ConsumeResetToken(_ context.Context, tokenHash string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.get(resetPrefix + tokenHash)
	if !ok {
		return "", ErrTokenNotFound
	}
	delete(s.entries, resetPrefix+tokenHash)
	return v, nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
