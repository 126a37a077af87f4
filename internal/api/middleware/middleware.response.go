package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/mostafa12599/GreenFuture-Innovation/internal/common"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/logger"
)

// JSONResponse trả về JSON response với Content-Type: application/json; charset=utf-8
func JSONResponse(c fiber.Ctx, statusCode int, data interface{}) error {
	c.Set(fiber.HeaderContentType, "application/json; charset=utf-8")
	return c.Status(statusCode).JSON(data)
}

// HandleErrorResponse chuẩn hoá lỗi thành envelope {code, message, details, status}.
// Lỗi không phải *common.Error được log đầy đủ nhưng client chỉ nhận thông báo chung.
func HandleErrorResponse(c fiber.Ctx, err error) error {
	var appErr *common.Error
	if errors.As(err, &appErr) {
		entry := logger.WithRequest(c).WithField("code", appErr.Code.Code)
		if appErr.StatusCode >= common.StatusInternalServerError {
			entry.WithError(errors.Unwrap(err)).Error(appErr.Message)
		} else {
			entry.Debug(appErr.Message)
		}
		return JSONResponse(c, appErr.StatusCode, fiber.Map{
			"code":    appErr.Code.Code,
			"message": appErr.Message,
			"details": appErr.Details,
			"status":  "error",
		})
	}

	logger.WithRequest(c).WithError(err).Error("Unhandled error")
	return JSONResponse(c, common.StatusInternalServerError, fiber.Map{
		"code":    common.ErrCodeInternalServer.Code,
		"message": common.MsgInternalError,
		"status":  "error",
	})
}
