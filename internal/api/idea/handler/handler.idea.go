// Package ideahdl chứa các handler cho /ideas
package ideahdl

import (
	"github.com/gofiber/fiber/v3"

	basehdl "github.com/mostafa12599/GreenFuture-Innovation/internal/api/base/handler"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/idea/dto"
	ideasvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/idea/service"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/middleware"
	reportsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/report/service"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/logger"
)

// IdeaHandler xử lý request cho idea
type IdeaHandler struct {
	basehdl.BaseHandler
	ideas *ideasvc.IdeaService
}

// NewIdeaHandler tạo IdeaHandler
func NewIdeaHandler(ideas *ideasvc.IdeaService) *IdeaHandler {
	return &IdeaHandler{ideas: ideas}
}

func (h *IdeaHandler) timeRange(c fiber.Ctx) (reportsvc.TimeRange, error) {
	start, end, err := h.ParseDateRange(c)
	return reportsvc.TimeRange{Start: start, End: end}, err
}

// HandleCreate POST /ideas
func (h *IdeaHandler) HandleCreate(c fiber.Ctx) error {
	var input dto.CreateIdeaInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		return h.HandleResponse(c, nil, err)
	}
	idea, err := h.ideas.Create(c.Context(), *middleware.CurrentUser(c), input)
	if err == nil {
		logger.LogCRUD("create", "idea", idea.ID.Hex(), c, nil)
	}
	return h.HandleCreated(c, idea, err)
}

// HandleList GET /ideas?status&department&category&page&limit
func (h *IdeaHandler) HandleList(c fiber.Ctx) error {
	var q dto.ListQuery
	if err := h.ParseRequestQuery(c, &q); err != nil {
		return h.HandleResponse(c, nil, err)
	}
	page, limit := h.ParsePagination(c)
	result, err := h.ideas.List(c.Context(), q, page, limit)
	return h.HandleResponse(c, result, err)
}

// HandlePending GET /ideas/pending
func (h *IdeaHandler) HandlePending(c fiber.Ctx) error {
	page, limit := h.ParsePagination(c)
	result, err := h.ideas.Pending(c.Context(), page, limit)
	return h.HandleResponse(c, result, err)
}

// HandleGet GET /ideas/:id
func (h *IdeaHandler) HandleGet(c fiber.Ctx) error {
	id, err := h.ParseObjectIDParam(c, "id")
	if err != nil {
		return h.HandleResponse(c, nil, err)
	}
	idea, err := h.ideas.Get(c.Context(), id)
	return h.HandleResponse(c, idea, err)
}

// HandleUpdate PUT /ideas/:id
func (h *IdeaHandler) HandleUpdate(c fiber.Ctx) error {
	id, err := h.ParseObjectIDParam(c, "id")
	if err != nil {
		return h.HandleResponse(c, nil, err)
	}
	var input dto.UpdateIdeaInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		return h.HandleResponse(c, nil, err)
	}
	idea, err := h.ideas.Update(c.Context(), *middleware.CurrentUser(c), id, input)
	return h.HandleResponse(c, idea, err)
}

// HandleVote POST /ideas/:id/vote
func (h *IdeaHandler) HandleVote(c fiber.Ctx) error {
	id, err := h.ParseObjectIDParam(c, "id")
	if err != nil {
		return h.HandleResponse(c, nil, err)
	}
	idea, err := h.ideas.Vote(c.Context(), middleware.CurrentUser(c).ID, id)
	return h.HandleResponse(c, idea, err)
}

// HandleFeedback POST /ideas/:id/feedback
func (h *IdeaHandler) HandleFeedback(c fiber.Ctx) error {
	id, err := h.ParseObjectIDParam(c, "id")
	if err != nil {
		return h.HandleResponse(c, nil, err)
	}
	var input dto.FeedbackInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		return h.HandleResponse(c, nil, err)
	}
	idea, err := h.ideas.AddFeedback(c.Context(), *middleware.CurrentUser(c), id, input)
	return h.HandleCreated(c, idea, err)
}

// HandleUpdateStatus PUT /ideas/:id/status
func (h *IdeaHandler) HandleUpdateStatus(c fiber.Ctx) error {
	id, err := h.ParseObjectIDParam(c, "id")
	if err != nil {
		return h.HandleResponse(c, nil, err)
	}
	var input dto.UpdateStatusInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		return h.HandleResponse(c, nil, err)
	}
	idea, err := h.ideas.UpdateStatus(c.Context(), *middleware.CurrentUser(c), id, input)
	if err == nil {
		logger.LogCRUD("update", "idea_status", id.Hex(), c, map[string]interface{}{"status": input.Status})
	}
	return h.HandleResponse(c, idea, err)
}

// HandleEvaluate PUT /ideas/:id/evaluate
func (h *IdeaHandler) HandleEvaluate(c fiber.Ctx) error {
	id, err := h.ParseObjectIDParam(c, "id")
	if err != nil {
		return h.HandleResponse(c, nil, err)
	}
	var input dto.EvaluateInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		return h.HandleResponse(c, nil, err)
	}
	idea, err := h.ideas.Evaluate(c.Context(), *middleware.CurrentUser(c), id, input)
	return h.HandleResponse(c, idea, err)
}

// HandleMarketingCampaign PUT /ideas/:id/marketing-campaign
func (h *IdeaHandler) HandleMarketingCampaign(c fiber.Ctx) error {
	id, err := h.ParseObjectIDParam(c, "id")
	if err != nil {
		return h.HandleResponse(c, nil, err)
	}
	var input dto.MarketingCampaignInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		return h.HandleResponse(c, nil, err)
	}
	idea, err := h.ideas.UpdateMarketingCampaign(c.Context(), id, input)
	return h.HandleResponse(c, idea, err)
}

// HandleAnalytics GET /ideas/analytics?startDate&endDate
func (h *IdeaHandler) HandleAnalytics(c fiber.Ctx) error {
	r, err := h.timeRange(c)
	if err != nil {
		return h.HandleResponse(c, nil, err)
	}
	result, err := h.ideas.Analytics(c.Context(), r)
	return h.HandleResponse(c, result, err)
}

// HandleDepartmentStats GET /ideas/department-stats
func (h *IdeaHandler) HandleDepartmentStats(c fiber.Ctx) error {
	r, err := h.timeRange(c)
	if err != nil {
		return h.HandleResponse(c, nil, err)
	}
	result, err := h.ideas.DepartmentStats(c.Context(), r)
	return h.HandleResponse(c, result, err)
}

// HandleTimelineStats GET /ideas/timeline-stats
func (h *IdeaHandler) HandleTimelineStats(c fiber.Ctx) error {
	r, err := h.timeRange(c)
	if err != nil {
		return h.HandleResponse(c, nil, err)
	}
	result, err := h.ideas.TimelineStats(c.Context(), r)
	return h.HandleResponse(c, result, err)
}
