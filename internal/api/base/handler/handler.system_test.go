package basehdl

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(context.Context) error { return nil }

func TestCheckHealth(t *testing.T) {
	h := NewSystemHandler(
		HealthCheck{Name: "mongodb", Ping: ok},
		HealthCheck{Name: "redis", Ping: func(context.Context) error { return errors.New("connection refused") }},
	)
	checks, healthy := h.CheckHealth(context.Background())
	assert.False(t, healthy)
	assert.Equal(t, "ok", checks["mongodb"])
	assert.Equal(t, "connection refused", checks["redis"])

	checks, healthy = NewSystemHandler(HealthCheck{Name: "mongodb", Ping: ok}).CheckHealth(context.Background())
	assert.True(t, healthy)
	assert.Len(t, checks, 1)
}

func TestHealthStatusCodes(t *testing.T) {
	cases := []struct {
		name   string
		ping   func(context.Context) error
		status int
		body   string
	}{
		{"healthy", ok, http.StatusOK, "success"},
		{"degraded", func(context.Context) error { return errors.New("down") }, http.StatusServiceUnavailable, "error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/health", NewSystemHandler(HealthCheck{Name: "mongodb", Ping: tc.ping}).HandleHealth)

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode)

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.body, body["status"])
		})
	}
}
