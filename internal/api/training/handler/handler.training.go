// Package traininghdl chứa các handler cho /training
package traininghdl

import (
	"github.com/gofiber/fiber/v3"

	basehdl "github.com/mostafa12599/GreenFuture-Innovation/internal/api/base/handler"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/middleware"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/training/dto"
	trainingsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/training/service"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/logger"
)

// TrainingHandler xử lý request cho training
type TrainingHandler struct {
	basehdl.BaseHandler
	trainings *trainingsvc.TrainingService
}

// NewTrainingHandler tạo TrainingHandler
func NewTrainingHandler(trainings *trainingsvc.TrainingService) *TrainingHandler {
	return &TrainingHandler{trainings: trainings}
}

// HandleCreate POST /training
func (h *TrainingHandler) HandleCreate(c fiber.Ctx) error {
	var input dto.CreateTrainingInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		return h.HandleResponse(c, nil, err)
	}
	t, err := h.trainings.Create(c.Context(), *middleware.CurrentUser(c), input)
	if err == nil {
		logger.LogCRUD("create", "training", t.ID.Hex(), c, nil)
	}
	return h.HandleCreated(c, t, err)
}

// HandleList GET /training?department&status&type&page&limit
func (h *TrainingHandler) HandleList(c fiber.Ctx) error {
	var q dto.ListQuery
	if err := h.ParseRequestQuery(c, &q); err != nil {
		return h.HandleResponse(c, nil, err)
	}
	page, limit := h.ParsePagination(c)
	result, err := h.trainings.List(c.Context(), q, page, limit)
	return h.HandleResponse(c, result, err)
}

// HandleMyTrainings GET /training/my-trainings
func (h *TrainingHandler) HandleMyTrainings(c fiber.Ctx) error {
	result, err := h.trainings.MyTrainings(c.Context(), middleware.CurrentUser(c).ID)
	return h.HandleResponse(c, result, err)
}

// HandleStatistics GET /training/statistics
func (h *TrainingHandler) HandleStatistics(c fiber.Ctx) error {
	result, err := h.trainings.Statistics(c.Context())
	return h.HandleResponse(c, result, err)
}

// HandleGet GET /training/:id
func (h *TrainingHandler) HandleGet(c fiber.Ctx) error {
	id, err := h.ParseObjectIDParam(c, "id")
	if err != nil {
		return h.HandleResponse(c, nil, err)
	}
	t, err := h.trainings.Get(c.Context(), id)
	return h.HandleResponse(c, t, err)
}

// HandleUpdate PUT /training/:id
func (h *TrainingHandler) HandleUpdate(c fiber.Ctx) error {
	id, err := h.ParseObjectIDParam(c, "id")
	if err != nil {
		return h.HandleResponse(c, nil, err)
	}
	var input dto.UpdateTrainingInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		return h.HandleResponse(c, nil, err)
	}
	t, err := h.trainings.Update(c.Context(), id, input)
	if err == nil {
		logger.LogCRUD("update", "training", id.Hex(), c, nil)
	}
	return h.HandleResponse(c, t, err)
}

// HandleDelete DELETE /training/:id
func (h *TrainingHandler) HandleDelete(c fiber.Ctx) error {
	id, err := h.ParseObjectIDParam(c, "id")
	if err != nil {
		return h.HandleResponse(c, nil, err)
	}
	err = h.trainings.Remove(c.Context(), id)
	if err == nil {
		logger.LogCRUD("delete", "training", id.Hex(), c, nil)
	}
	return h.HandleMessage(c, "Training deleted successfully", err)
}

// HandleEnroll POST /training/:id/enroll
func (h *TrainingHandler) HandleEnroll(c fiber.Ctx) error {
	id, err := h.ParseObjectIDParam(c, "id")
	if err != nil {
		return h.HandleResponse(c, nil, err)
	}
	t, err := h.trainings.Enroll(c.Context(), middleware.CurrentUser(c).ID, id)
	return h.HandleResponse(c, t, err)
}

// HandleComplete POST /training/:id/complete
func (h *TrainingHandler) HandleComplete(c fiber.Ctx) error {
	id, err := h.ParseObjectIDParam(c, "id")
	if err != nil {
		return h.HandleResponse(c, nil, err)
	}
	t, err := h.trainings.Complete(c.Context(), middleware.CurrentUser(c).ID, id)
	return h.HandleResponse(c, t, err)
}

// HandleEnrollmentStatus GET /training/:id/enrollment-status
func (h *TrainingHandler) HandleEnrollmentStatus(c fiber.Ctx) error {
	id, err := h.ParseObjectIDParam(c, "id")
	if err != nil {
		return h.HandleResponse(c, nil, err)
	}
	status, err := h.trainings.EnrollmentStatus(c.Context(), middleware.CurrentUser(c).ID, id)
	return h.HandleResponse(c, status, err)
}

// HandleCertificate GET /training/:id/certificate
func (h *TrainingHandler) HandleCertificate(c fiber.Ctx) error {
	id, err := h.ParseObjectIDParam(c, "id")
	if err != nil {
		return h.HandleResponse(c, nil, err)
	}
	cert, err := h.trainings.Certificate(c.Context(), middleware.CurrentUser(c).ID, id)
	return h.HandleResponse(c, cert, err)
}
