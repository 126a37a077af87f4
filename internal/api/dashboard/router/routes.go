// Package dashboardrouter đăng ký route cho /dashboard
package dashboardrouter

import (
	"github.com/gofiber/fiber/v3"

	dashboardhdl "github.com/mostafa12599/GreenFuture-Innovation/internal/api/dashboard/handler"
	apirouter "github.com/mostafa12599/GreenFuture-Innovation/internal/api/router"
)

// Register trả về RegisterFunc cho dashboard
func Register(h *dashboardhdl.DashboardHandler) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		r.RegisterRoutes(v1, "/dashboard", []apirouter.Route{
			{Method: fiber.MethodGet, Path: "", Handler: h.HandleDashboard},
			{Method: fiber.MethodGet, Path: "/department-stats", Handler: h.HandleDepartmentStats},
			{Method: fiber.MethodGet, Path: "/performance", Handler: h.HandlePerformance},
		})
		return nil
	}
}
