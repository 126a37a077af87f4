package notifsvc

import (
	"context"

	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/events"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/notification/models"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/global"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/logger"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/mailer"
)

// RegisterEmailHook gửi email cho mỗi notification mới nếu người nhận bật emailNotifications.
// Lỗi chỉ được log, notification vẫn được giữ.
func RegisterEmailHook(bus *events.Bus, audience Audience, mail mailer.Sender) {
	if bus == nil || mail == nil || !mail.Enabled() {
		return
	}
	bus.OnDataChanged(global.MongoDB_ColNames.Notifications, func(ctx context.Context, e events.DataChangeEvent) {
		if e.Operation != events.OpInsert {
			return
		}
		n, ok := e.Document.(models.Notification)
		if !ok {
			return
		}
		deliverEmail(ctx, audience, mail, n)
	})
}

func deliverEmail(ctx context.Context, audience Audience, mail mailer.Sender, n models.Notification) {
	log := logger.WithModuleAndCollection("notification", global.MongoDB_ColNames.Notifications).
		WithField("user_id", n.User.Hex())
	user, err := audience.FindByID(ctx, n.User)
	if err != nil {
		log.WithError(err).Warn("Notification recipient not found")
		return
	}
	if !user.Settings.EmailNotifications || user.Email == "" {
		return
	}
	if err := mail.Send(ctx, mailer.NotificationMessage(user.Email, n.Title, n.Message)); err != nil {
		log.WithError(err).Warn("Failed to send notification email")
	}
}
