// Package trainingrouter đăng ký route cho /training
package trainingrouter

import (
	"github.com/gofiber/fiber/v3"

	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/policy"
	apirouter "github.com/mostafa12599/GreenFuture-Innovation/internal/api/router"
	traininghdl "github.com/mostafa12599/GreenFuture-Innovation/internal/api/training/handler"
)

// Register trả về RegisterFunc cho domain training
func Register(h *traininghdl.TrainingHandler) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		r.RegisterRoutes(v1, "/training", []apirouter.Route{
			{Method: fiber.MethodPost, Path: "", Action: policy.ActTrainingManage, Handler: h.HandleCreate},
			{Method: fiber.MethodGet, Path: "", Handler: h.HandleList},
			{Method: fiber.MethodGet, Path: "/my-trainings", Handler: h.HandleMyTrainings},
			{Method: fiber.MethodGet, Path: "/statistics", Action: policy.ActTrainingStats, Handler: h.HandleStatistics},
			{Method: fiber.MethodGet, Path: "/:id", Handler: h.HandleGet},
			{Method: fiber.MethodPut, Path: "/:id", Action: policy.ActTrainingManage, Handler: h.HandleUpdate},
			{Method: fiber.MethodDelete, Path: "/:id", Action: policy.ActTrainingManage, Handler: h.HandleDelete},
			{Method: fiber.MethodPost, Path: "/:id/enroll", Handler: h.HandleEnroll},
			{Method: fiber.MethodPost, Path: "/:id/complete", Handler: h.HandleComplete},
			{Method: fiber.MethodGet, Path: "/:id/enrollment-status", Handler: h.HandleEnrollmentStatus},
			{Method: fiber.MethodGet, Path: "/:id/certificate", Handler: h.HandleCertificate},
		})
		return nil
	}
}
