// Package idearouter đăng ký route cho /ideas
package idearouter

import (
	"github.com/gofiber/fiber/v3"

	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/policy"
	ideahdl "github.com/mostafa12599/GreenFuture-Innovation/internal/api/idea/handler"
	apirouter "github.com/mostafa12599/GreenFuture-Innovation/internal/api/router"
)

// Register trả về RegisterFunc cho domain idea
func Register(h *ideahdl.IdeaHandler) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		r.RegisterRoutes(v1, "/ideas", []apirouter.Route{
			{Method: fiber.MethodPost, Path: "", Handler: h.HandleCreate},
			{Method: fiber.MethodGet, Path: "", Handler: h.HandleList},
			{Method: fiber.MethodGet, Path: "/pending", Action: policy.ActIdeaReview, Handler: h.HandlePending},
			{Method: fiber.MethodGet, Path: "/analytics", Action: policy.ActIdeaAnalytics, Handler: h.HandleAnalytics},
			{Method: fiber.MethodGet, Path: "/department-stats", Handler: h.HandleDepartmentStats},
			{Method: fiber.MethodGet, Path: "/timeline-stats", Handler: h.HandleTimelineStats},
			{Method: fiber.MethodGet, Path: "/:id", Handler: h.HandleGet},
			{Method: fiber.MethodPut, Path: "/:id", Handler: h.HandleUpdate},
			{Method: fiber.MethodPost, Path: "/:id/vote", Handler: h.HandleVote},
			{Method: fiber.MethodPost, Path: "/:id/feedback", Handler: h.HandleFeedback},
			{Method: fiber.MethodPut, Path: "/:id/status", Action: policy.ActIdeaReview, Handler: h.HandleUpdateStatus},
			{Method: fiber.MethodPut, Path: "/:id/evaluate", Action: policy.ActIdeaReview, Handler: h.HandleEvaluate},
			{Method: fiber.MethodPut, Path: "/:id/marketing-campaign", Action: policy.ActIdeaMarketing, Handler: h.HandleMarketingCampaign},
		})
		return nil
	}
}
