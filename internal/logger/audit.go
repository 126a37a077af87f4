package logger

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// LogAction ghi một bản audit vào audit logger
func LogAction(action string, c fiber.Ctx, details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}
	fields := logrus.Fields{
		"action":     action,
		"ip":         c.IP(),
		"user_agent": c.Get(fiber.HeaderUserAgent),
		"details":    details,
		"timestamp":  time.Now().UTC(),
	}
	if userID, ok := c.Locals("userID").(string); ok {
		fields["user_id"] = userID
	}
	if requestID, ok := c.Locals("requestid").(string); ok {
		fields["request_id"] = requestID
	}
	GetAuditLogger().WithFields(fields).Info("Audit log")
}

// LogCRUD log các thao tác ghi dữ liệu
func LogCRUD(operation, resourceType, resourceID string, c fiber.Ctx, details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}
	details["operation"] = operation
	details["resource_type"] = resourceType
	details["resource_id"] = resourceID
	LogAction("crud_"+operation, c, details)
}

// LogAuth log các thao tác xác thực (login, logout, reset password...)
func LogAuth(action string, c fiber.Ctx, details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}
	details["auth_action"] = action
	LogAction("auth_"+action, c, details)
}
