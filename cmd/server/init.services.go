package main

import (
	"context"

	"github.com/mostafa12599/GreenFuture-Innovation/config"
	activityhdl "github.com/mostafa12599/GreenFuture-Innovation/internal/api/activity/handler"
	activityrouter "github.com/mostafa12599/GreenFuture-Innovation/internal/api/activity/router"
	activitysvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/activity/service"
	authhdl "github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/handler"
	authrouter "github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/router"
	authsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/service"
	basehdl "github.com/mostafa12599/GreenFuture-Innovation/internal/api/base/handler"
	campaignhdl "github.com/mostafa12599/GreenFuture-Innovation/internal/api/campaign/handler"
	campaignrouter "github.com/mostafa12599/GreenFuture-Innovation/internal/api/campaign/router"
	campaignsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/campaign/service"
	dashboardhdl "github.com/mostafa12599/GreenFuture-Innovation/internal/api/dashboard/handler"
	dashboardrouter "github.com/mostafa12599/GreenFuture-Innovation/internal/api/dashboard/router"
	dashboardsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/dashboard/service"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/events"
	ideahdl "github.com/mostafa12599/GreenFuture-Innovation/internal/api/idea/handler"
	idearouter "github.com/mostafa12599/GreenFuture-Innovation/internal/api/idea/router"
	ideasvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/idea/service"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/middleware"
	notifhdl "github.com/mostafa12599/GreenFuture-Innovation/internal/api/notification/handler"
	notifrouter "github.com/mostafa12599/GreenFuture-Innovation/internal/api/notification/router"
	notifsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/notification/service"
	reportsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/report/service"
	apirouter "github.com/mostafa12599/GreenFuture-Innovation/internal/api/router"
	supporthdl "github.com/mostafa12599/GreenFuture-Innovation/internal/api/support/handler"
	supportrouter "github.com/mostafa12599/GreenFuture-Innovation/internal/api/support/router"
	supportsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/support/service"
	traininghdl "github.com/mostafa12599/GreenFuture-Innovation/internal/api/training/handler"
	trainingrouter "github.com/mostafa12599/GreenFuture-Innovation/internal/api/training/router"
	trainingsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/training/service"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/database"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/logger"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/mailer"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/session"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/storage"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/worker"
)

// Infra là các tài nguyên có vòng đời do main quản lý
type Infra struct {
	Store    *database.Store
	Sessions session.Store
	Storage  storage.Storage
	Mailer   mailer.Sender
	Bus      *events.Bus
}

// Services giữ các service đã dựng, dùng cho seed dữ liệu và route
type Services struct {
	Auth    *authsvc.AuthService
	Gate    *middleware.AuthGate
	Support *supportsvc.SupportService
	Stats   *middleware.RequestStats
	Probes  []basehdl.HealthCheck

	routes []apirouter.RegisterFunc
}

// InitServices dựng service và handler theo thứ tự phụ thuộc rồi trả về bảng route.
// Mọi service nhận Store qua tham số, không service nào đọc kết nối toàn cục.
func InitServices(cfg *config.Configuration, infra Infra) *Services {
	store, bus := infra.Store, infra.Bus

	reports := reportsvc.NewReportService(store)

	users := authsvc.NewUserService(store, bus)
	incentives := authsvc.NewIncentiveService(store, bus, users)
	tokens := authsvc.NewTokenManager(cfg.JwtSecret, cfg.JwtIssuer, cfg.JwtAccessTTL())
	auth := authsvc.NewAuthService(users, tokens, infra.Sessions, infra.Mailer, cfg.FrontendURL)

	activities := activitysvc.NewActivityService(store, bus, users, reports)
	notifications := notifsvc.NewNotificationService(store, bus, users)
	notifsvc.RegisterEmailHook(bus, users, infra.Mailer)

	ideas := ideasvc.NewIdeaService(store, bus, ideasvc.Deps{
		Users:         users,
		Incentives:    incentives,
		Activities:    activities,
		Notifications: notifications,
		Reports:       reports,
	})
	trainings := trainingsvc.NewTrainingService(store, bus, activities, notifications, reports)
	campaigns := campaignsvc.NewCampaignService(store, bus, campaignsvc.Deps{
		Activities:    activities,
		Notifications: notifications,
		Reports:       reports,
		Storage:       infra.Storage,
	})
	support := supportsvc.NewSupportService(store, bus, activities, notifications, reports)
	dashboard := dashboardsvc.NewDashboardService(reports, ideas, activities)

	probes := []basehdl.HealthCheck{
		{Name: worker.ProbeDatabase, Ping: store.Ping},
		{Name: worker.ProbeSession, Ping: infra.Sessions.Ping},
		{Name: worker.ProbeStorage, Ping: infra.Storage.Ping},
	}
	system := basehdl.NewSystemHandler(probes...)

	return &Services{
		Auth:    auth,
		Gate:    middleware.NewAuthGate(auth),
		Support: support,
		Stats:   middleware.NewRequestStats(),
		Probes:  probes,
		routes: []apirouter.RegisterFunc{
			apirouter.RegisterSystem(system),
			authrouter.Register(authhdl.NewAuthHandler(auth), authhdl.NewUserHandler(auth, incentives, activities, infra.Storage)),
			activityrouter.Register(activityhdl.NewActivityHandler(activities)),
			notifrouter.Register(notifhdl.NewNotificationHandler(notifications, users)),
			idearouter.Register(ideahdl.NewIdeaHandler(ideas)),
			trainingrouter.Register(traininghdl.NewTrainingHandler(trainings)),
			campaignrouter.Register(campaignhdl.NewCampaignHandler(campaigns)),
			supportrouter.Register(supporthdl.NewSupportHandler(support)),
			dashboardrouter.Register(dashboardhdl.NewDashboardHandler(dashboard)),
		},
	}
}

// InitDefaultData tạo tài khoản admin từ ADMIN_EMAIL/ADMIN_PASSWORD nếu chưa có.
// Lỗi chỉ được log để server vẫn khởi động.
func InitDefaultData(ctx context.Context, cfg *config.Configuration, svc *Services) {
	log := logger.GetAppLogger()
	if cfg.AdminEmail == "" {
		log.Info("ADMIN_EMAIL not set, skipping admin seed")
		return
	}
	created, err := svc.Auth.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		log.WithError(err).Error("Failed to seed admin user")
		return
	}
	if created {
		log.WithField("email", cfg.AdminEmail).Info("Admin user created")
	}
}
