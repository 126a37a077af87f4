// Package supportrouter đăng ký route cho /support
package supportrouter

import (
	"github.com/gofiber/fiber/v3"

	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/policy"
	apirouter "github.com/mostafa12599/GreenFuture-Innovation/internal/api/router"
	supporthdl "github.com/mostafa12599/GreenFuture-Innovation/internal/api/support/handler"
)

// Register trả về RegisterFunc cho domain support
func Register(h *supporthdl.SupportHandler) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		r.RegisterRoutes(v1, "/support", []apirouter.Route{
			{Method: fiber.MethodPost, Path: "/tickets", Handler: h.HandleCreateTicket},
			{Method: fiber.MethodGet, Path: "/tickets", Handler: h.HandleListTickets},
			{Method: fiber.MethodGet, Path: "/tickets/:id", Handler: h.HandleGetTicket},
			{Method: fiber.MethodPut, Path: "/tickets/:id", Action: policy.ActSupportManage, Handler: h.HandleUpdateTicket},
			{Method: fiber.MethodPost, Path: "/tickets/:id/respond", Action: policy.ActSupportManage, Handler: h.HandleRespond},
			{Method: fiber.MethodGet, Path: "/tickets/:id/history", Handler: h.HandleHistory},
			{Method: fiber.MethodGet, Path: "/system-status", Handler: h.HandleSystemStatus},
			{Method: fiber.MethodPost, Path: "/system-update", Action: policy.ActSystemUpdate, Handler: h.HandleSystemUpdate},
			{Method: fiber.MethodPost, Path: "/performance-metrics", Action: policy.ActSupportMetrics, Handler: h.HandleRecordPerformance},
			{Method: fiber.MethodGet, Path: "/performance-metrics", Action: policy.ActSupportMetrics, Handler: h.HandlePerformanceMetrics},
			{Method: fiber.MethodGet, Path: "/metrics/realtime", Handler: h.HandleRealtime},
		})
		return nil
	}
}
