package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authmodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/models"
	basehdl "github.com/mostafa12599/GreenFuture-Innovation/internal/api/base/handler"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/middleware"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/support/dto"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/support/models"
	supportsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/support/service"
)

type fakeMonitor struct {
	current string
	updates []dto.SystemUpdateInput
	samples []dto.PerformanceSampleInput
}

func (f *fakeMonitor) SystemStatus(context.Context) (dto.SystemStatusView, error) {
	return dto.SystemStatusView{Status: f.current}, nil
}

func (f *fakeMonitor) SystemUpdate(_ context.Context, _ authmodels.User, in dto.SystemUpdateInput) (models.SystemStatus, error) {
	f.updates = append(f.updates, in)
	f.current = in.Status
	return models.SystemStatus{Status: in.Status}, nil
}

func (f *fakeMonitor) RecordPerformance(_ context.Context, in dto.PerformanceSampleInput) (models.PerformanceMetric, error) {
	f.samples = append(f.samples, in)
	return models.PerformanceMetric{}, nil
}

func (f *fakeMonitor) Realtime(context.Context) (*supportsvc.RealtimeMetrics, error) {
	return &supportsvc.RealtimeMetrics{ActiveUsers: 3}, nil
}

type switchable struct{ err error }

func (s *switchable) Ping(context.Context) error { return s.err }

func TestEvaluateComponents(t *testing.T) {
	down := errors.New("down")

	status, comps := EvaluateComponents(map[string]error{ProbeDatabase: nil, ProbeStorage: nil})
	assert.Equal(t, models.SystemOperational, status)
	assert.Equal(t, models.SystemOperational, comps.FileStorage.Status)

	status, comps = EvaluateComponents(map[string]error{ProbeStorage: down})
	assert.Equal(t, models.SystemDegraded, status)
	assert.Equal(t, "down", comps.FileStorage.Message)

	status, _ = EvaluateComponents(map[string]error{ProbeDatabase: down, ProbeStorage: down})
	assert.Equal(t, models.SystemMajorOutage, status)
}

func TestTickWritesStatusOnlyOnChange(t *testing.T) {
	mon := &fakeMonitor{current: models.SystemOperational}
	storage := &switchable{}
	stats := middleware.NewRequestStats()
	stats.Observe(200, 40*time.Millisecond)
	stats.Observe(500, 60*time.Millisecond)

	w := NewSystemMonitorWorker(mon, stats, time.Minute,
		basehdl.HealthCheck{Name: ProbeDatabase, Ping: func(context.Context) error { return nil }},
		basehdl.HealthCheck{Name: ProbeStorage, Ping: storage.Ping},
	)
	ctx := context.Background()

	require.NoError(t, w.Tick(ctx))
	assert.Empty(t, mon.updates)
	require.Len(t, mon.samples, 1)
	assert.InDelta(t, 50.0, mon.samples[0].ResponseTime, 0.001)
	assert.InDelta(t, 50.0, mon.samples[0].ErrorRate, 0.001)
	assert.Equal(t, int64(2), mon.samples[0].APICalls)
	assert.Equal(t, int64(3), mon.samples[0].ActiveUsers)
	assert.Equal(t, 100.0, mon.samples[0].Uptime)

	storage.err = errors.New("bucket missing")
	require.NoError(t, w.Tick(ctx))
	require.Len(t, mon.updates, 1)
	assert.Equal(t, models.SystemDegraded, mon.updates[0].Status)
	assert.Contains(t, mon.updates[0].Message, "storage unreachable")
	assert.Equal(t, 50.0, mon.samples[1].Uptime)

	require.NoError(t, w.Tick(ctx))
	assert.Len(t, mon.updates, 1)

	storage.err = nil
	require.NoError(t, w.Tick(ctx))
	require.Len(t, mon.updates, 2)
	assert.Equal(t, models.SystemOperational, mon.updates[1].Status)
}

func TestTickDatabaseDown(t *testing.T) {
	mon := &fakeMonitor{current: models.SystemOperational}
	w := NewSystemMonitorWorker(mon, nil, 0,
		basehdl.HealthCheck{Name: ProbeDatabase, Ping: func(context.Context) error { return errors.New("no reachable servers") }},
	)
	assert.Error(t, w.Tick(context.Background()))
	assert.Empty(t, mon.samples)
	assert.Empty(t, mon.updates)
	assert.Equal(t, time.Minute, w.interval)
	assert.Zero(t, w.Uptime())
}
