package main

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/gofiber/fiber/v3/middleware/static"
	"github.com/google/uuid"

	"github.com/mostafa12599/GreenFuture-Innovation/config"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/middleware"
	apirouter "github.com/mostafa12599/GreenFuture-Innovation/internal/api/router"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/common"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/logger"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/storage"
)

const healthPath = "/api/v1/system/health"

// errorCodeFor ánh xạ HTTP status của *fiber.Error sang mã lỗi trong envelope
func errorCodeFor(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return common.ErrCodeValidationInput.Code
	case fiber.StatusUnauthorized:
		return common.ErrCodeAuthToken.Code
	case fiber.StatusForbidden:
		return common.ErrCodeAuthRole.Code
	case fiber.StatusNotFound:
		return common.ErrCodeNotFound.Code
	case fiber.StatusConflict:
		return common.ErrCodeConflict.Code
	case fiber.StatusTooManyRequests:
		return common.ErrCodeBusinessOperation.Code
	default:
		return common.ErrCodeInternalServer.Code
	}
}

// errorHandler là ErrorHandler của Fiber cho lỗi không đi qua HandleErrorResponse
func errorHandler(c fiber.Ctx, err error) error {
	var appErr *common.Error
	if errors.As(err, &appErr) {
		return middleware.HandleErrorResponse(c, err)
	}

	code := fiber.StatusInternalServerError
	message := common.MsgInternalError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	// Client gọi https:// tới server HTTP: TLS ClientHello bắt đầu bằng 0x16 0x03 0x01
	errMsg := err.Error()
	if strings.Contains(errMsg, "unsupported http request method") &&
		(strings.Contains(errMsg, "\\x16\\x03\\x01") || strings.Contains(errMsg, "\x16\x03\x01")) {
		return middleware.JSONResponse(c, fiber.StatusBadRequest, fiber.Map{
			"code":    common.ErrCodeValidationInput.Code,
			"message": "Server only accepts HTTP, use http:// instead of https://",
			"status":  "error",
		})
	}

	entry := logger.WithRequest(c).WithFields(map[string]interface{}{
		"code":    code,
		"message": message,
	})
	if code >= fiber.StatusInternalServerError {
		entry.WithError(err).Error("Request error")
	} else {
		entry.Debug("Request error")
	}

	return middleware.JSONResponse(c, code, fiber.Map{
		"code":    errorCodeFor(code),
		"message": message,
		"status":  "error",
	})
}

// splitOrigins tách CORS_ORIGINS thành danh sách, "*" giữ nguyên
func splitOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "*" {
		return []string{"*"}
	}
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// InitFiberApp khởi tạo ứng dụng Fiber với middleware và toàn bộ route
func InitFiberApp(cfg *config.Configuration, svc *Services, files storage.Storage) (*fiber.App, error) {
	log := logger.GetAppLogger()

	app := fiber.New(fiber.Config{
		AppName:       "GreenFuture Innovation API",
		ServerHeader:  "GreenFuture",
		StrictRouting: false,
		CaseSensitive: true,
		UnescapePath:  true,

		BodyLimit:       10 * 1024 * 1024, // 10MB, đủ cho avatar
		Concurrency:     256 * 1024,
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,

		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,

		ErrorHandler: errorHandler,
	})

	// 1. Request ID
	app.Use(requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: uuid.NewString,
	}))

	// 2. CORS, đặt sớm để preflight không đi qua limiter
	app.Use(cors.New(cors.Config{
		AllowOrigins: splitOrigins(cfg.CORS_Origins),
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"X-Request-ID",
			"X-Requested-With",
		},
		AllowCredentials: cfg.CORS_AllowCredentials,
		ExposeHeaders:    []string{"Content-Length", "Content-Range", "X-Request-ID"},
		MaxAge:           24 * 60 * 60,
	}))

	// 3. Security headers
	app.Use(func(c fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		if cfg.EnableTLS {
			c.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		return c.Next()
	})

	// 4. Rate limit theo IP
	if cfg.RateLimit_Enabled && cfg.RateLimit_Max > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit_Max,
			Expiration: time.Duration(cfg.RateLimit_Window) * time.Second,
			KeyGenerator: func(c fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c fiber.Ctx) error {
				return middleware.JSONResponse(c, fiber.StatusTooManyRequests, fiber.Map{
					"code":    common.ErrCodeBusinessOperation.Code,
					"message": common.MsgTooManyRequests,
					"status":  "error",
				})
			},
			Next: func(c fiber.Ctx) bool {
				return c.Path() == healthPath || c.Method() == fiber.MethodOptions
			},
		}))
		log.Infof("Rate limiting enabled: %d requests per %d seconds", cfg.RateLimit_Max, cfg.RateLimit_Window)
	} else {
		log.Info("Rate limiting disabled")
	}

	// 5. Đếm request cho system monitor
	app.Use(svc.Stats.Middleware())

	// 6. Recover
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			logger.WithRequest(c).WithField("panic", e).Error("Panic recovered")
		},
	}))

	// Avatar và báo cáo lưu trên đĩa được phục vụ tĩnh dưới /uploads
	if local, ok := files.(*storage.Local); ok {
		app.Use("/uploads", static.New(local.Root()))
	}

	if err := apirouter.SetupRoutes(app, svc.Gate, svc.routes...); err != nil {
		return nil, err
	}

	// Route không tồn tại trả về 404 cùng envelope
	app.Use(func(c fiber.Ctx) error {
		return middleware.HandleErrorResponse(c, common.NotFound("Route not found"))
	})

	return app, nil
}
