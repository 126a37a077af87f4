package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestStatsDrain(t *testing.T) {
	s := NewRequestStats()
	s.Observe(http.StatusOK, 100*time.Millisecond)
	s.Observe(http.StatusInternalServerError, 300*time.Millisecond)
	s.Observe(http.StatusNotFound, 2*time.Second)
	s.Observe(http.StatusOK, 0)

	snap := s.Drain()
	assert.Equal(t, int64(4), snap.Calls)
	assert.Equal(t, int64(1), snap.Errors)
	assert.Equal(t, int64(1), snap.Slow)
	assert.InDelta(t, 600.0, snap.AvgLatencyMs(), 0.001)
	assert.InDelta(t, 25.0, snap.ErrorRate(), 0.001)

	empty := s.Drain()
	assert.Equal(t, StatsSnapshot{}, empty)
	assert.Zero(t, empty.AvgLatencyMs())
	assert.Zero(t, empty.ErrorRate())
}

func TestRequestStatsMiddleware(t *testing.T) {
	s := NewRequestStats()
	app := fiber.New()
	app.Use(s.Middleware())
	app.Get("/ok", func(c fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/boom", func(c fiber.Ctx) error { return errors.New("boom") })
	app.Get("/missing", func(c fiber.Ctx) error { return fiber.ErrNotFound })

	for _, path := range []string{"/ok", "/boom", "/missing"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		resp.Body.Close()
	}

	snap := s.Drain()
	assert.Equal(t, int64(3), snap.Calls)
	assert.Equal(t, int64(1), snap.Errors)
}
