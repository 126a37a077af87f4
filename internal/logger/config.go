package logger

import (
	"os"
	"strings"

	"github.com/caarlos0/env"
)

// LogConfig chứa cấu hình cho hệ thống logging
type LogConfig struct {
	// Log Level: trace, debug, info, warn, error, fatal
	Level string `env:"LOG_LEVEL"`

	// Log Format: json, text
	Format string `env:"LOG_FORMAT"`

	// Log Output: file, stdout, both
	Output string `env:"LOG_OUTPUT" envDefault:"both"`

	// Log Rotation
	MaxSize    int  `env:"LOG_MAX_SIZE" envDefault:"100"` // MB
	MaxBackups int  `env:"LOG_MAX_BACKUPS" envDefault:"7"`
	MaxAge     int  `env:"LOG_MAX_AGE" envDefault:"7"` // ngày
	Compress   bool `env:"LOG_COMPRESS" envDefault:"true"`

	// Async writer
	AsyncBufferSize int `env:"LOG_ASYNC_BUFFER" envDefault:"1000"`

	// Log Paths
	LogPath         string `env:"LOG_PATH" envDefault:"./logs"`
	AppFile         string `env:"LOG_APP_FILE" envDefault:"app.log"`
	AuditFile       string `env:"LOG_AUDIT_FILE" envDefault:"audit.log"`
	PerformanceFile string `env:"LOG_PERF_FILE" envDefault:"performance.log"`
	ErrorFile       string `env:"LOG_ERROR_FILE" envDefault:"error.log"`

	// Filters, dạng "a,b,c"; rỗng hoặc "*" nghĩa là cho qua tất cả
	FilterModules     string `env:"LOG_FILTER_MODULES"`
	FilterCollections string `env:"LOG_FILTER_COLLECTIONS"`
	FilterEndpoints   string `env:"LOG_FILTER_ENDPOINTS"`
	FilterMethods     string `env:"LOG_FILTER_METHODS"`
	FilterLogTypes    string `env:"LOG_FILTER_TYPES"`
}

// DefaultConfig đọc cấu hình từ biến môi trường.
// Level và format mặc định phụ thuộc GO_ENV: development dùng debug/text, còn lại info/json.
func DefaultConfig() *LogConfig {
	cfg := &LogConfig{}
	if err := env.Parse(cfg); err != nil {
		cfg = &LogConfig{
			Output:          "both",
			MaxSize:         100,
			MaxBackups:      7,
			MaxAge:          7,
			Compress:        true,
			AsyncBufferSize: 1000,
			LogPath:         "./logs",
			AppFile:         "app.log",
			AuditFile:       "audit.log",
			PerformanceFile: "performance.log",
			ErrorFile:       "error.log",
		}
	}

	goEnv := os.Getenv("GO_ENV")
	if goEnv == "" {
		goEnv = "development"
	}
	if cfg.Level == "" {
		cfg.Level = "info"
		if goEnv == "development" {
			cfg.Level = "debug"
		}
	}
	if cfg.Format == "" {
		cfg.Format = "json"
		if goEnv == "development" {
			cfg.Format = "text"
		}
	}

	cfg.Level = strings.ToLower(cfg.Level)
	cfg.Format = strings.ToLower(cfg.Format)
	cfg.Output = strings.ToLower(cfg.Output)
	return cfg
}
