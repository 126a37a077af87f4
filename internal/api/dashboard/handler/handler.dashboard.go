// Package dashboardhdl chứa các handler cho /dashboard
package dashboardhdl

import (
	"github.com/gofiber/fiber/v3"

	basehdl "github.com/mostafa12599/GreenFuture-Innovation/internal/api/base/handler"
	dashboardsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/dashboard/service"
	reportsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/report/service"
)

// DashboardHandler xử lý request cho dashboard
type DashboardHandler struct {
	basehdl.BaseHandler
	dashboard *dashboardsvc.DashboardService
}

// NewDashboardHandler tạo DashboardHandler
func NewDashboardHandler(dashboard *dashboardsvc.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// HandleDashboard GET /dashboard
func (h *DashboardHandler) HandleDashboard(c fiber.Ctx) error {
	data, err := h.dashboard.Dashboard(c.Context())
	return h.HandleResponse(c, data, err)
}

// HandleDepartmentStats GET /dashboard/department-stats?startDate&endDate
func (h *DashboardHandler) HandleDepartmentStats(c fiber.Ctx) error {
	start, end, err := h.ParseDateRange(c)
	if err != nil {
		return h.HandleResponse(c, nil, err)
	}
	stats, err := h.dashboard.DepartmentStats(c.Context(), reportsvc.TimeRange{Start: start, End: end})
	return h.HandleResponse(c, stats, err)
}

// HandlePerformance GET /dashboard/performance
func (h *DashboardHandler) HandlePerformance(c fiber.Ctx) error {
	perf, err := h.dashboard.Performance(c.Context())
	return h.HandleResponse(c, perf, err)
}
