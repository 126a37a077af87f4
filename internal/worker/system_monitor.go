// Package worker chứa các background worker chạy định kỳ cùng server.
package worker

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"time"

	authmodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/models"
	basehdl "github.com/mostafa12599/GreenFuture-Innovation/internal/api/base/handler"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/middleware"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/support/dto"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/support/models"
	supportsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/support/service"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/logger"
)

// Tên probe mà EvaluateComponents nhận biết
const (
	ProbeDatabase = "mongodb"
	ProbeStorage  = "storage"
	ProbeSession  = "session"
)

// Monitor là phần của SupportService mà worker cần
type Monitor interface {
	SystemStatus(ctx context.Context) (dto.SystemStatusView, error)
	SystemUpdate(ctx context.Context, actor authmodels.User, in dto.SystemUpdateInput) (models.SystemStatus, error)
	RecordPerformance(ctx context.Context, in dto.PerformanceSampleInput) (models.PerformanceMetric, error)
	Realtime(ctx context.Context) (*supportsvc.RealtimeMetrics, error)
}

var _ Monitor = (*supportsvc.SupportService)(nil)

// EvaluateComponents suy ra trạng thái hệ thống từ kết quả ping.
// Mất MongoDB là major_outage, mất storage hoặc session là degraded.
func EvaluateComponents(results map[string]error) (string, models.Components) {
	comp := func(name, downStatus string) models.ComponentStatus {
		if err := results[name]; err != nil {
			return models.ComponentStatus{Status: downStatus, Message: err.Error()}
		}
		return models.ComponentStatus{Status: models.SystemOperational}
	}

	components := models.Components{
		Database:    comp(ProbeDatabase, models.SystemMajorOutage),
		API:         comp(ProbeSession, models.SystemDegraded), // API cần session store để xác thực token
		FileStorage: comp(ProbeStorage, models.SystemDegraded),
	}

	status := models.SystemOperational
	switch {
	case components.Database.Status != models.SystemOperational:
		status = models.SystemMajorOutage
	case components.API.Status != models.SystemOperational || components.FileStorage.Status != models.SystemOperational:
		status = models.SystemDegraded
	}
	return status, components
}

// statusMessage mô tả ngắn các thành phần đang lỗi
func statusMessage(results map[string]error, order []string) string {
	var down []string
	for _, name := range order {
		if results[name] != nil {
			down = append(down, name+" unreachable")
		}
	}
	if len(down) == 0 {
		return "Automatic check: all components reachable"
	}
	return "Automatic check: " + strings.Join(down, ", ")
}

// SystemMonitorWorker định kỳ ping các phụ thuộc, ghi một mẫu hiệu năng
// và ghi SystemStatus mới khi trạng thái suy ra khác trạng thái gần nhất.
type SystemMonitorWorker struct {
	monitor  Monitor
	probes   []basehdl.HealthCheck
	stats    *middleware.RequestStats
	interval time.Duration

	checks    int64
	checksUp  int64
	lastState string
}

// NewSystemMonitorWorker tạo worker. interval dưới 10 giây được nâng lên 1 phút.
func NewSystemMonitorWorker(monitor Monitor, stats *middleware.RequestStats, interval time.Duration, probes ...basehdl.HealthCheck) *SystemMonitorWorker {
	if interval < 10*time.Second {
		interval = time.Minute
	}
	return &SystemMonitorWorker{
		monitor:  monitor,
		probes:   probes,
		stats:    stats,
		interval: interval,
	}
}

// Start chạy vòng lặp tới khi ctx bị huỷ
func (w *SystemMonitorWorker) Start(ctx context.Context) {
	log := logger.WithModule("system_monitor")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithField("interval", w.interval.String()).Info("Starting system monitor worker")

	for {
		select {
		case <-ctx.Done():
			log.Info("System monitor worker stopped")
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.WithField("panic", r).Error("System monitor panic, retrying next tick")
					}
				}()
				if err := w.Tick(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.WithError(err).Warn("System monitor tick failed")
				}
			}()
		}
	}
}

// Tick chạy một vòng kiểm tra
func (w *SystemMonitorWorker) Tick(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, w.interval/2)
	defer cancel()

	results := make(map[string]error, len(w.probes))
	order := make([]string, 0, len(w.probes))
	var dbLatency time.Duration
	for _, p := range w.probes {
		start := time.Now()
		results[p.Name] = p.Ping(ctx)
		if p.Name == ProbeDatabase {
			dbLatency = time.Since(start)
		}
		order = append(order, p.Name)
	}

	state, components := EvaluateComponents(results)
	w.checks++
	if state == models.SystemOperational {
		w.checksUp++
	}

	// Không có MongoDB thì không ghi được gì
	if results[ProbeDatabase] != nil {
		w.lastState = state
		return results[ProbeDatabase]
	}

	if err := w.recordSample(ctx, dbLatency); err != nil {
		return err
	}
	return w.syncStatus(ctx, state, components, statusMessage(results, order))
}

func (w *SystemMonitorWorker) recordSample(ctx context.Context, dbLatency time.Duration) error {
	var snap middleware.StatsSnapshot
	if w.stats != nil {
		snap = w.stats.Drain()
	}
	var activeUsers int64
	if rt, err := w.monitor.Realtime(ctx); err == nil {
		activeUsers = rt.ActiveUsers
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	responseTime := snap.AvgLatencyMs()
	if snap.Calls == 0 {
		responseTime = float64(dbLatency.Microseconds()) / 1000
	}

	_, err := w.monitor.RecordPerformance(ctx, dto.PerformanceSampleInput{
		ResponseTime: responseTime,
		ErrorRate:    snap.ErrorRate(),
		Uptime:       w.Uptime(),
		ActiveUsers:  activeUsers,
		Memory:       float64(mem.Alloc) / (1024 * 1024),
		APICalls:     snap.Calls,
		SlowQueries:  snap.Slow,
	})
	return err
}

// syncStatus chỉ ghi khi trạng thái đổi so với bản ghi gần nhất, tránh spam notification
func (w *SystemMonitorWorker) syncStatus(ctx context.Context, state string, components models.Components, message string) error {
	if w.lastState == "" {
		current, err := w.monitor.SystemStatus(ctx)
		if err != nil {
			return err
		}
		w.lastState = current.Status
	}
	if state == w.lastState {
		return nil
	}

	_, err := w.monitor.SystemUpdate(ctx, authmodels.User{}, dto.SystemUpdateInput{
		Status:     state,
		Components: components,
		Message:    message,
	})
	if err != nil {
		return err
	}
	logger.WithModule("system_monitor").WithFields(map[string]interface{}{
		"from": w.lastState,
		"to":   state,
	}).Warn("System status changed")
	w.lastState = state
	return nil
}

// Uptime phần trăm lần kiểm tra operational kể từ khi worker chạy
func (w *SystemMonitorWorker) Uptime() float64 {
	if w.checks == 0 {
		return 100
	}
	return float64(w.checksUp) * 100 / float64(w.checks)
}
