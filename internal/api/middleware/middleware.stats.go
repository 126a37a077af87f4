package middleware

import (
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v3"
)

// slowRequest ngưỡng tính một request là chậm
const slowRequest = time.Second

// StatsSnapshot số liệu request tích luỹ từ lần Drain trước
type StatsSnapshot struct {
	Calls          int64
	Errors         int64 // status >= 500
	Slow           int64
	TotalLatencyMs int64
}

// AvgLatencyMs trung bình thời gian xử lý; 0 khi chưa có request
func (s StatsSnapshot) AvgLatencyMs() float64 {
	if s.Calls == 0 {
		return 0
	}
	return float64(s.TotalLatencyMs) / float64(s.Calls)
}

// ErrorRate phần trăm request lỗi 5xx; 0 khi chưa có request
func (s StatsSnapshot) ErrorRate() float64 {
	if s.Calls == 0 {
		return 0
	}
	return float64(s.Errors) * 100 / float64(s.Calls)
}

// RequestStats đếm request bằng atomic, không khoá
type RequestStats struct {
	calls   atomic.Int64
	errors  atomic.Int64
	slow    atomic.Int64
	latency atomic.Int64
}

// NewRequestStats tạo bộ đếm rỗng
func NewRequestStats() *RequestStats {
	return &RequestStats{}
}

// Observe ghi nhận một request đã xử lý xong
func (s *RequestStats) Observe(status int, elapsed time.Duration) {
	s.calls.Add(1)
	s.latency.Add(elapsed.Milliseconds())
	if status >= fiber.StatusInternalServerError {
		s.errors.Add(1)
	}
	if elapsed >= slowRequest {
		s.slow.Add(1)
	}
}

// Drain trả về số liệu hiện tại và đặt lại bộ đếm
func (s *RequestStats) Drain() StatsSnapshot {
	return StatsSnapshot{
		Calls:          s.calls.Swap(0),
		Errors:         s.errors.Swap(0),
		Slow:           s.slow.Swap(0),
		TotalLatencyMs: s.latency.Swap(0),
	}
}

// Middleware đo thời gian xử lý mỗi request. Lỗi được chuyển tiếp nguyên vẹn cho ErrorHandler.
func (s *RequestStats) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		s.Observe(status, time.Since(start))
		return err
	}
}
