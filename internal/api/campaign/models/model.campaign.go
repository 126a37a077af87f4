// Package models - model Campaign và CampaignMetric.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Loại chiến dịch
const (
	TypeAwareness      = "awareness"
	TypeLeadGeneration = "lead_generation"
	TypeEngagement     = "engagement"
	TypeConversion     = "conversion"
)

// Trạng thái chiến dịch
const (
	StatusDraft     = "draft"
	StatusActive    = "active"
	StatusPaused    = "paused"
	StatusCompleted = "completed"
)

// Metrics là bộ chỉ số reach/engagement/conversion/roi
type Metrics struct {
	Reach      float64 `json:"reach" bson:"reach"`
	Engagement float64 `json:"engagement" bson:"engagement"`
	Conversion float64 `json:"conversion" bson:"conversion"`
	ROI        float64 `json:"roi" bson:"roi"`
}

// TeamMember thành viên chiến dịch
type TeamMember struct {
	User primitive.ObjectID `json:"user" bson:"user"`
	Role string             `json:"role,omitempty" bson:"role,omitempty"`
}

// ContentItem nội dung cần sản xuất cho chiến dịch
type ContentItem struct {
	Title      string              `json:"title" bson:"title"`
	Type       string              `json:"type,omitempty" bson:"type,omitempty"`
	Status     string              `json:"status,omitempty" bson:"status,omitempty"`
	DueDate    *time.Time          `json:"dueDate,omitempty" bson:"dueDate,omitempty"`
	AssignedTo *primitive.ObjectID `json:"assignedTo,omitempty" bson:"assignedTo,omitempty"`
}

// Campaign - Metrics là ảnh chụp của CampaignMetric mới nhất theo MetricsUpdatedAt
type Campaign struct {
	ID               primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title            string             `json:"title" bson:"title"`
	Description      string             `json:"description" bson:"description"`
	Type             string             `json:"type" bson:"type" index:"single"`
	Status           string             `json:"status" bson:"status" index:"single"`
	StartDate        time.Time          `json:"startDate" bson:"startDate" index:"single,order:-1"`
	EndDate          time.Time          `json:"endDate" bson:"endDate"`
	Budget           float64            `json:"budget" bson:"budget"`
	TargetAudience   string             `json:"targetAudience" bson:"targetAudience"`
	Channels         []string           `json:"channels" bson:"channels"`
	Goals            Metrics            `json:"goals" bson:"goals"`
	Metrics          Metrics            `json:"metrics" bson:"metrics"`
	MetricsUpdatedAt int64              `json:"metricsUpdatedAt,omitempty" bson:"metricsUpdatedAt,omitempty"`
	CreatedBy        primitive.ObjectID `json:"createdBy" bson:"createdBy"`
	Team             []TeamMember       `json:"team" bson:"team"`
	Content          []ContentItem      `json:"content" bson:"content"`
	CreatedAt        int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt        int64              `json:"updatedAt" bson:"updatedAt"`
}

// CampaignMetric là một lần ghi chỉ số, chỉ được thêm vào
type CampaignMetric struct {
	ID             primitive.ObjectID            `json:"id,omitempty" bson:"_id,omitempty"`
	Campaign       primitive.ObjectID            `json:"campaign" bson:"campaign" index:"compound:campaign_timestamp"`
	Timestamp      int64                         `json:"timestamp" bson:"timestamp" index:"compound:campaign_timestamp,order:-1;single,order:-1"`
	Reach          float64                       `json:"reach" bson:"reach"`
	Engagement     float64                       `json:"engagement" bson:"engagement"`
	Conversion     float64                       `json:"conversion" bson:"conversion"`
	ROI            float64                       `json:"roi" bson:"roi"`
	ChannelMetrics map[string]map[string]float64 `json:"channelMetrics,omitempty" bson:"channelMetrics,omitempty"`
	RecordedBy     primitive.ObjectID            `json:"recordedBy" bson:"recordedBy"`
	CreatedAt      int64                         `json:"createdAt" bson:"createdAt"`
	UpdatedAt      int64                         `json:"updatedAt" bson:"updatedAt"`
}
