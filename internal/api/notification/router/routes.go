// Package notifrouter đăng ký route cho /notifications
package notifrouter

import (
	"github.com/gofiber/fiber/v3"

	notifhdl "github.com/mostafa12599/GreenFuture-Innovation/internal/api/notification/handler"
	apirouter "github.com/mostafa12599/GreenFuture-Innovation/internal/api/router"
)

// Register trả về RegisterFunc cho domain notification.
// /preferences và /read-all phải đứng trước /:id.
func Register(h *notifhdl.NotificationHandler) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		r.RegisterRoutes(v1, "/notifications", []apirouter.Route{
			{Method: fiber.MethodGet, Path: "", Handler: h.HandleList},
			{Method: fiber.MethodGet, Path: "/preferences", Handler: h.HandleGetPreferences},
			{Method: fiber.MethodPut, Path: "/preferences", Handler: h.HandleUpdatePreferences},
			{Method: fiber.MethodPut, Path: "/read-all", Handler: h.HandleMarkAllRead},
			{Method: fiber.MethodPut, Path: "/:id/read", Handler: h.HandleMarkRead},
			{Method: fiber.MethodDelete, Path: "/:id", Handler: h.HandleDelete},
		})
		return nil
	}
}
