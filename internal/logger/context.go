package logger

import (
	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// WithRequest trả về logger entry gắn request_id, method, path, ip và user (nếu đã xác thực)
func WithRequest(c fiber.Ctx) *logrus.Entry {
	entry := GetAppLogger().WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
		"ip":     c.IP(),
	})

	requestID, _ := c.Locals("requestid").(string)
	if requestID == "" {
		requestID = c.GetRespHeader(fiber.HeaderXRequestID)
	}
	if requestID != "" {
		entry = entry.WithField("request_id", requestID)
	}
	if userID, ok := c.Locals("userID").(string); ok && userID != "" {
		entry = entry.WithField("user_id", userID)
	}
	return entry
}

// WithModule trả về logger entry với module name (ví dụ: "idea", "training", "report")
func WithModule(module string) *logrus.Entry {
	return GetAppLogger().WithField("module", module)
}

// WithCollection trả về logger entry với tên collection MongoDB
func WithCollection(collection string) *logrus.Entry {
	return GetAppLogger().WithField("collection", collection)
}

// WithModuleAndCollection kết hợp hai hàm trên
func WithModuleAndCollection(module, collection string) *logrus.Entry {
	return GetAppLogger().WithFields(logrus.Fields{
		"module":     module,
		"collection": collection,
	})
}
