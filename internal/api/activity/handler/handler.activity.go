// Package activityhdl chứa các handler cho /activities
package activityhdl

import (
	"github.com/gofiber/fiber/v3"

	activitysvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/activity/service"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/policy"
	basehdl "github.com/mostafa12599/GreenFuture-Innovation/internal/api/base/handler"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/middleware"
	reportsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/report/service"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/common"
)

// ActivityHandler xử lý request cho activity
type ActivityHandler struct {
	basehdl.BaseHandler
	activities *activitysvc.ActivityService
}

// NewActivityHandler tạo ActivityHandler
func NewActivityHandler(activities *activitysvc.ActivityService) *ActivityHandler {
	return &ActivityHandler{activities: activities}
}

func (h *ActivityHandler) parseType(raw string) (string, error) {
	if raw != "" && !activitysvc.IsValidType(raw) {
		return "", activitysvc.ErrInvalidType
	}
	return raw, nil
}

// HandleList GET /activities?type&startDate&endDate&page&limit
func (h *ActivityHandler) HandleList(c fiber.Ctx) error {
	activityType, err := h.parseType(c.Query("type"))
	if err != nil {
		return h.HandleResponse(c, nil, err)
	}
	start, end, err := h.ParseDateRange(c)
	if err != nil {
		return h.HandleResponse(c, nil, err)
	}
	page, limit := h.ParsePagination(c)
	result, err := h.activities.List(c.Context(), activitysvc.Filter{
		Type:  activityType,
		Range: reportsvc.TimeRange{Start: start, End: end},
	}, page, limit)
	return h.HandleResponse(c, result, err)
}

// HandleListByUser GET /activities/user/:userId, chỉ chủ sở hữu, hr hoặc admin
func (h *ActivityHandler) HandleListByUser(c fiber.Ctx) error {
	userID, err := h.ParseObjectIDParam(c, "userId")
	if err != nil {
		return h.HandleResponse(c, nil, err)
	}
	me := middleware.CurrentUser(c)
	if !policy.CanActOn(me.Role, me.ID.Hex(), userID.Hex(), policy.ActActivityViewAny) {
		return h.HandleResponse(c, nil, common.Forbidden("Not authorized to view these activities"))
	}
	page, limit := h.ParsePagination(c)
	result, err := h.activities.ListByUser(c.Context(), userID, page, limit)
	return h.HandleResponse(c, result, err)
}

// HandleListByType GET /activities/type/:type
func (h *ActivityHandler) HandleListByType(c fiber.Ctx) error {
	activityType := c.Params("type")
	if !activitysvc.IsValidType(activityType) {
		return h.HandleResponse(c, nil, activitysvc.ErrInvalidType)
	}
	page, limit := h.ParsePagination(c)
	result, err := h.activities.ListByType(c.Context(), activityType, page, limit)
	return h.HandleResponse(c, result, err)
}

// HandleAnalytics GET /activities/analytics?startDate&endDate
func (h *ActivityHandler) HandleAnalytics(c fiber.Ctx) error {
	start, end, err := h.ParseDateRange(c)
	if err != nil {
		return h.HandleResponse(c, nil, err)
	}
	result, err := h.activities.Analytics(c.Context(), reportsvc.TimeRange{Start: start, End: end})
	return h.HandleResponse(c, result, err)
}
