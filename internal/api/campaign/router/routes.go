// Package campaignrouter đăng ký route cho /campaigns
package campaignrouter

import (
	"github.com/gofiber/fiber/v3"

	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/policy"
	campaignhdl "github.com/mostafa12599/GreenFuture-Innovation/internal/api/campaign/handler"
	apirouter "github.com/mostafa12599/GreenFuture-Innovation/internal/api/router"
)

// Register trả về RegisterFunc cho domain campaign
func Register(h *campaignhdl.CampaignHandler) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		manage, report := policy.ActCampaignManage, policy.ActCampaignReport
		r.RegisterRoutes(v1, "/campaigns", []apirouter.Route{
			{Method: fiber.MethodPost, Path: "", Action: manage, Handler: h.HandleCreate},
			{Method: fiber.MethodGet, Path: "", Action: manage, Handler: h.HandleList},
			{Method: fiber.MethodGet, Path: "/metrics", Action: manage, Handler: h.HandleRecentMetrics},
			{Method: fiber.MethodGet, Path: "/analytics", Action: report, Handler: h.HandleAnalytics},
			{Method: fiber.MethodPost, Path: "/share-report", Action: report, Handler: h.HandleShareReport},
			{Method: fiber.MethodGet, Path: "/:id", Action: manage, Handler: h.HandleGet},
			{Method: fiber.MethodPut, Path: "/:id", Action: manage, Handler: h.HandleUpdate},
			{Method: fiber.MethodDelete, Path: "/:id", Action: manage, Handler: h.HandleDelete},
			{Method: fiber.MethodGet, Path: "/:id/metrics", Action: manage, Handler: h.HandleCampaignMetrics},
			{Method: fiber.MethodPost, Path: "/:id/metrics", Action: manage, Handler: h.HandleRecordMetric},
			{Method: fiber.MethodGet, Path: "/:id/performance", Action: report, Handler: h.HandlePerformance},
		})
		return nil
	}
}
