// Package dto chứa các DTO cho support
package dto

import (
	"time"

	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/support/models"
)

// CreateTicketInput POST /support/tickets
type CreateTicketInput struct {
	Title       string `json:"title" validate:"required,min=3,max=200,no_xss"`
	Description string `json:"description" validate:"required,max=5000,no_xss"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	Category    string `json:"category" validate:"required,oneof=technical access bug feature_request other"`
}

// UpdateTicketInput PUT /support/tickets/:id
type UpdateTicketInput struct {
	Status     *string `json:"status" validate:"omitempty,oneof=open in_progress resolved closed"`
	Priority   *string `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	Category   *string `json:"category" validate:"omitempty,oneof=technical access bug feature_request other"`
	AssignedTo *string `json:"assignedTo" validate:"omitempty,object_id"`
	Solution   *string `json:"solution" validate:"omitempty,max=5000,no_xss"`
}

// ListQuery bộ lọc GET /support/tickets
type ListQuery struct {
	Status     string `query:"status" validate:"omitempty,oneof=open in_progress resolved closed"`
	Priority   string `query:"priority" validate:"omitempty,oneof=low medium high critical"`
	Department string `query:"department" validate:"omitempty,max=100"`
}

// RespondInput POST /support/tickets/:id/respond
type RespondInput struct {
	Response      string `json:"response" validate:"required,max=5000,no_xss"`
	Status        string `json:"status" validate:"omitempty,oneof=open in_progress resolved closed"`
	InternalNotes string `json:"internalNotes" validate:"omitempty,max=5000,no_xss"`
}

// TicketHistory là kết quả GET /support/tickets/:id/history
type TicketHistory struct {
	Status    string                `json:"status"`
	Responses []models.Response     `json:"responses"`
	History   []models.HistoryEntry `json:"history"`
}

// SystemUpdateInput POST /support/system-update
type SystemUpdateInput struct {
	Status     string            `json:"status" validate:"required,oneof=operational degraded partial_outage major_outage"`
	Components models.Components `json:"components"`
	Message    string            `json:"message" validate:"omitempty,max=1000,no_xss"`
}

// PerformanceSampleInput POST /support/performance-metrics
type PerformanceSampleInput struct {
	Timestamp    *time.Time `json:"timestamp"`
	ResponseTime float64    `json:"responseTime" validate:"gte=0"`
	ErrorRate    float64    `json:"errorRate" validate:"gte=0,lte=100"`
	Uptime       float64    `json:"uptime" validate:"gte=0,lte=100"`
	ActiveUsers  int64      `json:"activeUsers" validate:"gte=0"`
	CPU          float64    `json:"cpu" validate:"gte=0"`
	Memory       float64    `json:"memory" validate:"gte=0"`
	APICalls     int64      `json:"apiCalls" validate:"gte=0"`
	SlowQueries  int64      `json:"slowQueries" validate:"gte=0"`
}

// PerformanceQuery GET /support/performance-metrics
type PerformanceQuery struct {
	Timeframe string `query:"timeframe" validate:"omitempty,oneof=day week month"`
}

// LatestMetrics các chỉ số của mẫu mới nhất; nil khi chưa có mẫu nào
type LatestMetrics struct {
	ResponseTime *float64 `json:"responseTime"`
	ErrorRate    *float64 `json:"errorRate"`
	Uptime       *float64 `json:"uptime"`
	ActiveUsers  *int64   `json:"activeUsers"`
}

// SystemStatusView là kết quả GET /support/system-status
type SystemStatusView struct {
	Status      string            `json:"status"`
	Message     string            `json:"message,omitempty"`
	LastUpdated *int64            `json:"lastUpdated"`
	Metrics     LatestMetrics     `json:"metrics"`
	Components  models.Components `json:"components"`
}
