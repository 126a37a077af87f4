package main

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mostafa12599/GreenFuture-Innovation/config"
	activitymodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/activity/models"
	authmodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/models"
	campaignmodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/campaign/models"
	ideamodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/idea/models"
	notifmodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/notification/models"
	supportmodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/support/models"
	trainingmodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/training/models"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/database"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/global"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/logger"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/mailer"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/session"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/storage"
)

// indexModels gắn mỗi collection với model mang tag index tương ứng
func indexModels() map[string]interface{} {
	names := global.MongoDB_ColNames
	return map[string]interface{}{
		names.Users:              authmodels.User{},
		names.Incentives:         authmodels.Incentive{},
		names.Ideas:              ideamodels.Idea{},
		names.Trainings:          trainingmodels.Training{},
		names.Campaigns:          campaignmodels.Campaign{},
		names.CampaignMetrics:    campaignmodels.CampaignMetric{},
		names.SupportTickets:     supportmodels.SupportTicket{},
		names.SystemStatuses:     supportmodels.SystemStatus{},
		names.PerformanceMetrics: supportmodels.PerformanceMetric{},
		names.Notifications:      notifmodels.Notification{},
		names.Activities:         activitymodels.Activity{},
	}
}

// initConfig nạp cấu hình server, dừng tiến trình nếu thiếu biến bắt buộc
func initConfig() *config.Configuration {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("Failed to initialize config: %v", err)
	}
	return cfg
}

// initLogger khởi tạo logger sau khi file env đã được nạp để LOG_* có hiệu lực
func initLogger() {
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	logger.GetAppLogger().Info("Logger system initialized successfully")
}

// initDatabase mở kết nối MongoDB, tạo collection còn thiếu và đồng bộ index
func initDatabase(ctx context.Context, cfg *config.Configuration) (*database.Store, error) {
	log := logger.GetAppLogger()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	store, err := database.Open(ctx, cfg.MongoDB_ConnectionURI, cfg.MongoDB_DBName)
	if err != nil {
		return nil, err
	}
	log.WithField("database", cfg.MongoDB_DBName).Info("Connected to MongoDB")

	if err := database.EnsureCollections(ctx, store.Database(), global.MongoDB_ColNames.All()); err != nil {
		_ = store.Close(context.Background())
		return nil, fmt.Errorf("ensure collections: %w", err)
	}
	log.Info("Ensured database and collections")

	// Index lỗi không chặn khởi động: dữ liệu cũ có thể vi phạm unique index mới
	for name, model := range indexModels() {
		if err := database.CreateIndexes(ctx, store.Collection(name), model); err != nil {
			log.WithError(err).WithField("collection", name).Error("Failed to create indexes")
		}
	}
	return store, nil
}

// initSession chọn Redis khi có REDIS_URL, ngược lại dùng bộ nhớ trong
func initSession(ctx context.Context, cfg *config.Configuration) (session.Store, error) {
	log := logger.GetAppLogger()
	if cfg.RedisURL == "" {
		log.Warn("REDIS_URL not set, revoked tokens are kept in memory")
		return session.NewMemoryStore(), nil
	}

	store, err := session.NewRedisStore(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	log.Info("Connected to Redis")
	return store, nil
}

func initStorage(ctx context.Context, cfg *config.Configuration) (storage.Storage, error) {
	st, err := storage.New(ctx, storage.Options{
		Backend:        cfg.StorageBackend,
		UploadDir:      cfg.UploadDir,
		MinioEndpoint:  cfg.MinioEndpoint,
		MinioAccessKey: cfg.MinioAccessKey,
		MinioSecretKey: cfg.MinioSecretKey,
		MinioBucket:    cfg.MinioBucket,
		MinioUseSSL:    cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}
	logger.GetAppLogger().WithField("backend", st.Name()).Info("Initialized file storage")
	return st, nil
}

func initMailer(cfg *config.Configuration) mailer.Sender {
	if !cfg.SMTPEnabled() {
		logger.GetAppLogger().Info("SMTP_HOST not set, email delivery disabled")
		return mailer.NoopMailer{}
	}
	return mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
}
