// Package supporthdl chứa các handler cho /support
package supporthdl

import (
	"github.com/gofiber/fiber/v3"

	basehdl "github.com/mostafa12599/GreenFuture-Innovation/internal/api/base/handler"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/middleware"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/support/dto"
	supportsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/support/service"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/logger"
)

// SupportHandler xử lý request cho support
type SupportHandler struct {
	basehdl.BaseHandler
	support *supportsvc.SupportService
}

// NewSupportHandler tạo SupportHandler
func NewSupportHandler(support *supportsvc.SupportService) *SupportHandler {
	return &SupportHandler{support: support}
}

// HandleCreateTicket POST /support/tickets
func (h *SupportHandler) HandleCreateTicket(c fiber.Ctx) error {
	var input dto.CreateTicketInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		return h.HandleResponse(c, nil, err)
	}
	ticket, err := h.support.CreateTicket(c.Context(), *middleware.CurrentUser(c), input)
	if err == nil {
		logger.LogCRUD("create", "support_ticket", ticket.ID.Hex(), c, map[string]interface{}{"priority": ticket.Priority})
	}
	return h.HandleCreated(c, ticket, err)
}

// HandleListTickets GET /support/tickets?status&priority&department
func (h *SupportHandler) HandleListTickets(c fiber.Ctx) error {
	var q dto.ListQuery
	if err := h.ParseRequestQuery(c, &q); err != nil {
		return h.HandleResponse(c, nil, err)
	}
	page, limit := h.ParsePagination(c)
	result, err := h.support.ListTickets(c.Context(), *middleware.CurrentUser(c), q, page, limit)
	return h.HandleResponse(c, result, err)
}

// HandleGetTicket GET /support/tickets/:id
func (h *SupportHandler) HandleGetTicket(c fiber.Ctx) error {
	id, err := h.ParseObjectIDParam(c, "id")
	if err != nil {
		return h.HandleResponse(c, nil, err)
	}
	ticket, err := h.support.GetTicket(c.Context(), *middleware.CurrentUser(c), id)
	return h.HandleResponse(c, ticket, err)
}

// HandleUpdateTicket PUT /support/tickets/:id
func (h *SupportHandler) HandleUpdateTicket(c fiber.Ctx) error {
	id, err := h.ParseObjectIDParam(c, "id")
	if err != nil {
		return h.HandleResponse(c, nil, err)
	}
	var input dto.UpdateTicketInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		return h.HandleResponse(c, nil, err)
	}
	ticket, err := h.support.UpdateTicket(c.Context(), *middleware.CurrentUser(c), id, input)
	if err == nil {
		logger.LogCRUD("update", "support_ticket", id.Hex(), c, map[string]interface{}{"status": ticket.Status})
	}
	return h.HandleResponse(c, ticket, err)
}

// HandleRespond POST /support/tickets/:id/respond
func (h *SupportHandler) HandleRespond(c fiber.Ctx) error {
	id, err := h.ParseObjectIDParam(c, "id")
	if err != nil {
		return h.HandleResponse(c, nil, err)
	}
	var input dto.RespondInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		return h.HandleResponse(c, nil, err)
	}
	ticket, err := h.support.Respond(c.Context(), *middleware.CurrentUser(c), id, input)
	return h.HandleResponse(c, ticket, err)
}

// HandleHistory GET /support/tickets/:id/history
func (h *SupportHandler) HandleHistory(c fiber.Ctx) error {
	id, err := h.ParseObjectIDParam(c, "id")
	if err != nil {
		return h.HandleResponse(c, nil, err)
	}
	history, err := h.support.History(c.Context(), *middleware.CurrentUser(c), id)
	return h.HandleResponse(c, history, err)
}

// HandleSystemStatus GET /support/system-status
func (h *SupportHandler) HandleSystemStatus(c fiber.Ctx) error {
	view, err := h.support.SystemStatus(c.Context())
	return h.HandleResponse(c, view, err)
}

// HandleSystemUpdate POST /support/system-update
func (h *SupportHandler) HandleSystemUpdate(c fiber.Ctx) error {
	var input dto.SystemUpdateInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		return h.HandleResponse(c, nil, err)
	}
	status, err := h.support.SystemUpdate(c.Context(), *middleware.CurrentUser(c), input)
	if err == nil {
		logger.WithRequest(c).WithField("status", status.Status).Info("System status updated")
	}
	return h.HandleResponse(c, status, err)
}

// HandleRecordPerformance POST /support/performance-metrics
func (h *SupportHandler) HandleRecordPerformance(c fiber.Ctx) error {
	var input dto.PerformanceSampleInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		return h.HandleResponse(c, nil, err)
	}
	sample, err := h.support.RecordPerformance(c.Context(), input)
	return h.HandleCreated(c, sample, err)
}

// HandlePerformanceMetrics GET /support/performance-metrics?timeframe=day|week|month
func (h *SupportHandler) HandlePerformanceMetrics(c fiber.Ctx) error {
	var q dto.PerformanceQuery
	if err := h.ParseRequestQuery(c, &q); err != nil {
		return h.HandleResponse(c, nil, err)
	}
	rows, err := h.support.PerformanceMetrics(c.Context(), q.Timeframe)
	return h.HandleResponse(c, rows, err)
}

// HandleRealtime GET /support/metrics/realtime
func (h *SupportHandler) HandleRealtime(c fiber.Ctx) error {
	metrics, err := h.support.Realtime(c.Context())
	return h.HandleResponse(c, metrics, err)
}
