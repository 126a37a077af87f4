package router

import (
	"github.com/gofiber/fiber/v3"

	basehdl "github.com/mostafa12599/GreenFuture-Innovation/internal/api/base/handler"
)

// RegisterSystem trả về RegisterFunc cho /system (health check công khai)
func RegisterSystem(h *basehdl.SystemHandler) RegisterFunc {
	return func(v1 fiber.Router, r *Router) error {
		r.RegisterRoutes(v1, "/system", []Route{
			{Method: fiber.MethodGet, Path: "/health", Public: true, Handler: h.HandleHealth},
		})
		return nil
	}
}
