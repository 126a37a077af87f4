// Package campaignhdl chứa các handler cho /campaigns
package campaignhdl

import (
	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basehdl "github.com/mostafa12599/GreenFuture-Innovation/internal/api/base/handler"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/campaign/dto"
	campaignsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/campaign/service"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/middleware"
	reportsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/report/service"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/logger"
)

// CampaignHandler xử lý request cho campaign
type CampaignHandler struct {
	basehdl.BaseHandler
	campaigns *campaignsvc.CampaignService
}

// NewCampaignHandler tạo CampaignHandler
func NewCampaignHandler(campaigns *campaignsvc.CampaignService) *CampaignHandler {
	return &CampaignHandler{campaigns: campaigns}
}

// HandleCreate POST /campaigns
func (h *CampaignHandler) HandleCreate(c fiber.Ctx) error {
	var input dto.CreateCampaignInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		return h.HandleResponse(c, nil, err)
	}
	campaign, err := h.campaigns.Create(c.Context(), *middleware.CurrentUser(c), input)
	if err == nil {
		logger.LogCRUD("create", "campaign", campaign.ID.Hex(), c, nil)
	}
	return h.HandleCreated(c, campaign, err)
}

// HandleList GET /campaigns?status&type&page&limit
func (h *CampaignHandler) HandleList(c fiber.Ctx) error {
	var q dto.ListQuery
	if err := h.ParseRequestQuery(c, &q); err != nil {
		return h.HandleResponse(c, nil, err)
	}
	page, limit := h.ParsePagination(c)
	result, err := h.campaigns.List(c.Context(), q, page, limit)
	return h.HandleResponse(c, result, err)
}

// HandleGet GET /campaigns/:id
func (h *CampaignHandler) HandleGet(c fiber.Ctx) error {
	id, err := h.ParseObjectIDParam(c, "id")
	if err != nil {
		return h.HandleResponse(c, nil, err)
	}
	campaign, err := h.campaigns.Get(c.Context(), id)
	return h.HandleResponse(c, campaign, err)
}

// HandleUpdate PUT /campaigns/:id
func (h *CampaignHandler) HandleUpdate(c fiber.Ctx) error {
	id, err := h.ParseObjectIDParam(c, "id")
	if err != nil {
		return h.HandleResponse(c, nil, err)
	}
	var input dto.UpdateCampaignInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		return h.HandleResponse(c, nil, err)
	}
	campaign, err := h.campaigns.Update(c.Context(), *middleware.CurrentUser(c), id, input)
	if err == nil {
		logger.LogCRUD("update", "campaign", id.Hex(), c, nil)
	}
	return h.HandleResponse(c, campaign, err)
}

// HandleDelete DELETE /campaigns/:id
func (h *CampaignHandler) HandleDelete(c fiber.Ctx) error {
	id, err := h.ParseObjectIDParam(c, "id")
	if err != nil {
		return h.HandleResponse(c, nil, err)
	}
	err = h.campaigns.Remove(c.Context(), id)
	if err == nil {
		logger.LogCRUD("delete", "campaign", id.Hex(), c, nil)
	}
	return h.HandleMessage(c, "Campaign deleted successfully", err)
}

// HandleRecordMetric POST /campaigns/:id/metrics
func (h *CampaignHandler) HandleRecordMetric(c fiber.Ctx) error {
	id, err := h.ParseObjectIDParam(c, "id")
	if err != nil {
		return h.HandleResponse(c, nil, err)
	}
	var input dto.RecordMetricInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		return h.HandleResponse(c, nil, err)
	}
	metric, err := h.campaigns.RecordMetric(c.Context(), *middleware.CurrentUser(c), id, input)
	return h.HandleCreated(c, metric, err)
}

// HandleRecentMetrics GET /campaigns/metrics?campaign=
func (h *CampaignHandler) HandleRecentMetrics(c fiber.Ctx) error {
	var q dto.MetricsQuery
	if err := h.ParseRequestQuery(c, &q); err != nil {
		return h.HandleResponse(c, nil, err)
	}
	var campaignID *primitive.ObjectID
	if q.Campaign != "" {
		id, err := primitive.ObjectIDFromHex(q.Campaign)
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		campaignID = &id
	}
	metrics, err := h.campaigns.RecentMetrics(c.Context(), campaignID)
	return h.HandleResponse(c, metrics, err)
}

// HandleCampaignMetrics GET /campaigns/:id/metrics
func (h *CampaignHandler) HandleCampaignMetrics(c fiber.Ctx) error {
	id, err := h.ParseObjectIDParam(c, "id")
	if err != nil {
		return h.HandleResponse(c, nil, err)
	}
	metrics, err := h.campaigns.RecentMetrics(c.Context(), &id)
	return h.HandleResponse(c, metrics, err)
}

// HandleAnalytics GET /campaigns/analytics?startDate&endDate
func (h *CampaignHandler) HandleAnalytics(c fiber.Ctx) error {
	start, end, err := h.ParseDateRange(c)
	if err != nil {
		return h.HandleResponse(c, nil, err)
	}
	result, err := h.campaigns.Analytics(c.Context(), reportsvc.TimeRange{Start: start, End: end})
	return h.HandleResponse(c, result, err)
}

// HandlePerformance GET /campaigns/:id/performance?timeframe=week|month|quarter
func (h *CampaignHandler) HandlePerformance(c fiber.Ctx) error {
	id, err := h.ParseObjectIDParam(c, "id")
	if err != nil {
		return h.HandleResponse(c, nil, err)
	}
	var q dto.PerformanceQuery
	if err := h.ParseRequestQuery(c, &q); err != nil {
		return h.HandleResponse(c, nil, err)
	}
	result, err := h.campaigns.Performance(c.Context(), id, q.Timeframe)
	return h.HandleResponse(c, result, err)
}

// HandleShareReport POST /campaigns/share-report
func (h *CampaignHandler) HandleShareReport(c fiber.Ctx) error {
	var input dto.ShareReportInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		return h.HandleResponse(c, nil, err)
	}
	result, err := h.campaigns.ShareReport(c.Context(), *middleware.CurrentUser(c), input)
	return h.HandleMessageData(c, "Report shared successfully", result, err)
}
