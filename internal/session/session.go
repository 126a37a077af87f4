// Package session lưu trạng thái phiên ngắn hạn: danh sách access token đã thu hồi (jti)
// và token đặt lại mật khẩu. Backend Redis dùng cho production, backend bộ nhớ dùng khi chưa cấu hình REDIS_URL.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrTokenNotFound trả về khi reset token không tồn tại, đã hết hạn hoặc đã dùng
var ErrTokenNotFound = errors.New("session: token not found or expired")

// Store là giao diện chung của các backend
type Store interface {
	// Revoke đánh dấu jti đã bị thu hồi cho tới khi hết ttl
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// SaveResetToken lưu hash của reset token gắn với userID
	SaveResetToken(ctx context.Context, tokenHash, userID string, ttl time.Duration) error
	// ConsumeResetToken đọc và xoá token trong một thao tác; lần gọi thứ hai trả về ErrTokenNotFound
	ConsumeResetToken(ctx context.Context, tokenHash string) (string, error)

	Ping(ctx context.Context) error
	Close() error
}

const (
	revokedPrefix = "auth:revoked:"
	resetPrefix   = "auth:reset:"
)

// normalizeTTL tránh ttl <= 0 (Redis coi 0 là không hết hạn)
func normalizeTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return time.Hour
	}
	return ttl
}
