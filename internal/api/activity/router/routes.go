// Package activityrouter đăng ký route cho domain activity
package activityrouter

import (
	"github.com/gofiber/fiber/v3"

	activityhdl "github.com/mostafa12599/GreenFuture-Innovation/internal/api/activity/handler"
	apirouter "github.com/mostafa12599/GreenFuture-Innovation/internal/api/router"
)

// Register trả về RegisterFunc cho /activities
func Register(h *activityhdl.ActivityHandler) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		r.RegisterRoutes(v1, "/activities", []apirouter.Route{
			{Method: fiber.MethodGet, Path: "", Handler: h.HandleList},
			{Method: fiber.MethodGet, Path: "/analytics", Handler: h.HandleAnalytics},
			{Method: fiber.MethodGet, Path: "/user/:userId", Handler: h.HandleListByUser},
			{Method: fiber.MethodGet, Path: "/type/:type", Handler: h.HandleListByType},
		})
		return nil
	}
}
