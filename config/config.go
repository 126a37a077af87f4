package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration chứa toàn bộ cấu hình server, đọc từ biến môi trường
type Configuration struct {
	Address string `env:"ADDRESS" envDefault:":8080"` // Địa chỉ server

	// Xác thực
	JwtSecret        string `env:"JWT_SECRET,required"`
	JwtIssuer        string `env:"JWT_ISSUER" envDefault:"greenfuture"`
	JwtAccessTTLMins int    `env:"JWT_ACCESS_TTL" envDefault:"1440"` // phút

	// MongoDB
	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required"`
	MongoDB_DBName        string `env:"MONGODB_DBNAME" envDefault:"greenfuture"`

	// Redis dùng cho danh sách token bị thu hồi và reset token. Bỏ trống thì dùng bộ nhớ trong.
	RedisURL string `env:"REDIS_URL"`

	// Lưu trữ file upload: local | minio
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"local"`
	UploadDir      string `env:"UPLOAD_DIR" envDefault:"uploads"`
	MinioEndpoint  string `env:"MINIO_ENDPOINT"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY"`
	MinioBucket    string `env:"MINIO_BUCKET" envDefault:"greenfuture"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`

	// SMTP, bỏ trống SMTP_HOST thì không gửi email
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM" envDefault:"no-reply@greenfuture.local"`

	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`               // phân cách bởi dấu phẩy, * = tất cả
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"` // không dùng chung với "*"

	RateLimit_Enabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimit_Max     int  `env:"RATE_LIMIT_MAX" envDefault:"100"`    // 0 = tắt
	RateLimit_Window  int  `env:"RATE_LIMIT_WINDOW" envDefault:"900"` // giây

	EnableTLS   bool   `env:"ENABLE_TLS" envDefault:"false"`
	TLSCertFile string `env:"TLS_CERT_FILE"`
	TLSKeyFile  string `env:"TLS_KEY_FILE"`

	// Chu kỳ system monitor (giây), 0 = tắt
	MonitorInterval int `env:"MONITOR_INTERVAL" envDefault:"60"`

	// Tài khoản admin được tạo lúc khởi động nếu chưa tồn tại
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

// JwtAccessTTL trả về thời gian sống của access token
func (c *Configuration) JwtAccessTTL() time.Duration {
	return time.Duration(c.JwtAccessTTLMins) * time.Minute
}

// SMTPEnabled cho biết có cấu hình gửi email hay không
func (c *Configuration) SMTPEnabled() bool {
	return strings.TrimSpace(c.SMTPHost) != ""
}

// getEnvPath tìm file config/env/<GO_ENV>.env bằng cách đi ngược lên từ thư mục hiện tại
func getEnvPath() string {
	goEnv := os.Getenv("GO_ENV")
	if goEnv == "" {
		goEnv = "development"
	}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			return filepath.Join(envDir, goEnv+".env")
		}
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig nạp file env (nếu có) rồi parse biến môi trường vào Configuration.
// Thiếu file env không phải lỗi: khi chạy trong container cấu hình đến từ môi trường.
func NewConfig() (*Configuration, error) {
	if envPath := getEnvPath(); envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", envPath, err)
		}
	}

	cfg := Configuration{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Configuration) validate() error {
	if c.JwtAccessTTLMins <= 0 {
		return errors.New("JWT_ACCESS_TTL must be positive")
	}
	switch c.StorageBackend {
	case "local":
	case "minio":
		if c.MinioEndpoint == "" || c.MinioAccessKey == "" || c.MinioSecretKey == "" {
			return errors.New("STORAGE_BACKEND=minio requires MINIO_ENDPOINT, MINIO_ACCESS_KEY and MINIO_SECRET_KEY")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	if c.MonitorInterval < 0 {
		return errors.New("MONITOR_INTERVAL must not be negative")
	}
	if c.EnableTLS && (c.TLSCertFile == "" || c.TLSKeyFile == "") {
		return errors.New("ENABLE_TLS requires TLS_CERT_FILE and TLS_KEY_FILE")
	}
	return nil
}
