// Package notifhdl chứa các handler cho /notifications
package notifhdl

import (
	"github.com/gofiber/fiber/v3"

	authdto "github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/dto"
	authsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/service"
	basehdl "github.com/mostafa12599/GreenFuture-Innovation/internal/api/base/handler"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/middleware"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/notification/dto"
	notifsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/notification/service"
)

// NotificationHandler xử lý notification của người dùng hiện tại
type NotificationHandler struct {
	basehdl.BaseHandler
	notifications *notifsvc.NotificationService
	users         *authsvc.UserService
}

// NewNotificationHandler tạo NotificationHandler
func NewNotificationHandler(notifications *notifsvc.NotificationService, users *authsvc.UserService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, users: users}
}

// HandleList GET /notifications?type&read&page&limit
func (h *NotificationHandler) HandleList(c fiber.Ctx) error {
	var q dto.ListQuery
	if err := h.ParseRequestQuery(c, &q); err != nil {
		return h.HandleResponse(c, nil, err)
	}
	page, limit := h.ParsePagination(c)
	result, err := h.notifications.List(c.Context(), middleware.CurrentUser(c).ID, q, page, limit)
	return h.HandleResponse(c, result, err)
}

// HandleMarkRead PUT /notifications/:id/read
func (h *NotificationHandler) HandleMarkRead(c fiber.Ctx) error {
	id, err := h.ParseObjectIDParam(c, "id")
	if err != nil {
		return h.HandleResponse(c, nil, err)
	}
	n, err := h.notifications.MarkRead(c.Context(), middleware.CurrentUser(c).ID, id)
	return h.HandleResponse(c, n, err)
}

// HandleMarkAllRead PUT /notifications/read-all
func (h *NotificationHandler) HandleMarkAllRead(c fiber.Ctx) error {
	_, err := h.notifications.MarkAllRead(c.Context(), middleware.CurrentUser(c).ID)
	return h.HandleMessage(c, "All notifications marked as read", err)
}

// HandleDelete DELETE /notifications/:id
func (h *NotificationHandler) HandleDelete(c fiber.Ctx) error {
	id, err := h.ParseObjectIDParam(c, "id")
	if err != nil {
		return h.HandleResponse(c, nil, err)
	}
	err = h.notifications.Remove(c.Context(), middleware.CurrentUser(c).ID, id)
	return h.HandleMessage(c, "Notification deleted", err)
}

// HandleGetPreferences GET /notifications/preferences
func (h *NotificationHandler) HandleGetPreferences(c fiber.Ctx) error {
	s := middleware.CurrentUser(c).Settings
	return h.HandleResponse(c, dto.Preferences{
		EmailNotifications: s.EmailNotifications,
		PushNotifications:  s.PushNotifications,
	}, nil)
}

// HandleUpdatePreferences PUT /notifications/preferences
func (h *NotificationHandler) HandleUpdatePreferences(c fiber.Ctx) error {
	var input dto.PreferencesInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		return h.HandleResponse(c, nil, err)
	}
	settings, err := h.users.UpdateSettings(c.Context(), middleware.CurrentUser(c).ID, authdto.UpdateSettingsInput{
		EmailNotifications: input.EmailNotifications,
		PushNotifications:  input.PushNotifications,
	})
	if err != nil {
		return h.HandleResponse(c, nil, err)
	}
	return h.HandleResponse(c, dto.Preferences{
		EmailNotifications: settings.EmailNotifications,
		PushNotifications:  settings.PushNotifications,
	}, nil)
}
