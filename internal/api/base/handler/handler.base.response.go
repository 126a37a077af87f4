package basehdl

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v3"

	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/middleware"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/common"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/logger"
)

// BaseHandler chứa các helper dùng chung cho mọi handler domain:
// parse body/query, phân trang, chuẩn hoá response.
type BaseHandler struct{}

// JSONResponse trả về JSON response với charset=utf-8
func JSONResponse(c fiber.Ctx, statusCode int, data interface{}) error {
	return middleware.JSONResponse(c, statusCode, data)
}

// SafeHandler bọc handler với recover, đảm bảo client luôn nhận được response kể cả khi panic.
func (h *BaseHandler) SafeHandler(c fiber.Ctx, handler func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithRequest(c).WithField("stack", string(debug.Stack())).Errorf("Handler panic: %v", r)
			err = h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeInternalServer,
				fmt.Sprintf("Unexpected error: %v", r),
				common.StatusInternalServerError,
				nil,
			))
		}
	}()
	return handler()
}

// HandleResponse trả về envelope thành công (200) hoặc envelope lỗi
func (h *BaseHandler) HandleResponse(c fiber.Ctx, data interface{}, err error) error {
	return h.respond(c, common.StatusOK, common.MsgSuccess, data, err)
}

// HandleCreated giống HandleResponse nhưng trả về 201
func (h *BaseHandler) HandleCreated(c fiber.Ctx, data interface{}, err error) error {
	return h.respond(c, common.StatusCreated, common.MsgCreated, data, err)
}

// HandleMessage trả về envelope thành công chỉ với message
func (h *BaseHandler) HandleMessage(c fiber.Ctx, message string, err error) error {
	return h.respond(c, common.StatusOK, message, nil, err)
}

// HandleMessageData trả về envelope thành công với message riêng và data
func (h *BaseHandler) HandleMessageData(c fiber.Ctx, message string, data interface{}, err error) error {
	return h.respond(c, common.StatusOK, message, data, err)
}

func (h *BaseHandler) respond(c fiber.Ctx, status int, message string, data interface{}, err error) error {
	if err != nil {
		return middleware.HandleErrorResponse(c, err)
	}
	return JSONResponse(c, status, fiber.Map{
		"code":    status,
		"message": message,
		"data":    data,
		"status":  "success",
	})
}
