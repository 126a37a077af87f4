package basehdl

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/sync/errgroup"

	"github.com/mostafa12599/GreenFuture-Innovation/internal/common"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/logger"
)

// HealthCheck là một phụ thuộc cần ping khi kiểm tra sức khoẻ hệ thống
type HealthCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

// SystemHandler xử lý các route hệ thống (health check)
type SystemHandler struct {
	BaseHandler
	checks  []HealthCheck
	timeout time.Duration
}

// NewSystemHandler tạo SystemHandler với danh sách phụ thuộc cần kiểm tra
func NewSystemHandler(checks ...HealthCheck) *SystemHandler {
	return &SystemHandler{checks: checks, timeout: 3 * time.Second}
}

// CheckHealth ping song song mọi phụ thuộc. Kết quả theo tên, "ok" hoặc thông báo lỗi.
func (h *SystemHandler) CheckHealth(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	results := make([]string, len(h.checks))
	var g errgroup.Group
	for i, check := range h.checks {
		g.Go(func() error {
			if err := check.Ping(ctx); err != nil {
				results[i] = err.Error()
				return nil
			}
			results[i] = "ok"
			return nil
		})
	}
	_ = g.Wait()

	healthy := true
	out := make(map[string]string, len(h.checks))
	for i, check := range h.checks {
		out[check.Name] = results[i]
		if results[i] != "ok" {
			healthy = false
		}
	}
	return out, healthy
}

// HandleHealth trả về 200 khi mọi phụ thuộc phản hồi, 503 khi có phụ thuộc lỗi
func (h *SystemHandler) HandleHealth(c fiber.Ctx) error {
	checks, healthy := h.CheckHealth(c.Context())
	data := fiber.Map{
		"checks":    checks,
		"timestamp": time.Now().UnixMilli(),
	}
	if healthy {
		data["status"] = "healthy"
		return JSONResponse(c, common.StatusOK, fiber.Map{
			"code":    common.StatusOK,
			"message": "Service healthy",
			"data":    data,
			"status":  "success",
		})
	}

	data["status"] = "degraded"
	logger.WithRequest(c).WithField("checks", checks).Warn("Health check degraded")
	return JSONResponse(c, common.StatusServiceUnavailable, fiber.Map{
		"code":    common.StatusServiceUnavailable,
		"message": "Service degraded",
		"data":    data,
		"status":  "error",
	})
}
