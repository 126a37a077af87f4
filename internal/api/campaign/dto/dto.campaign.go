// Package dto chứa các DTO cho campaign
package dto

import (
	"time"

	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/campaign/models"
)

// MetricsInput bộ chỉ số mục tiêu
type MetricsInput struct {
	Reach      float64 `json:"reach" validate:"gte=0"`
	Engagement float64 `json:"engagement" validate:"gte=0"`
	Conversion float64 `json:"conversion" validate:"gte=0"`
	ROI        float64 `json:"roi"`
}

// CreateCampaignInput POST /campaigns
type CreateCampaignInput struct {
	Title          string               `json:"title" validate:"required,min=3,max=200,no_xss"`
	Description    string               `json:"description" validate:"required,max=5000,no_xss"`
	Type           string               `json:"type" validate:"required,oneof=awareness lead_generation engagement conversion"`
	Status         string               `json:"status" validate:"omitempty,oneof=draft active paused completed"`
	StartDate      time.Time            `json:"startDate" validate:"required"`
	EndDate        time.Time            `json:"endDate" validate:"required,gtefield=StartDate"`
	Budget         float64              `json:"budget" validate:"gte=0"`
	TargetAudience string               `json:"targetAudience" validate:"required,max=500,no_xss"`
	Channels       []string             `json:"channels" validate:"omitempty,dive,oneof=social_media email website paid_ads events"`
	Goals          MetricsInput         `json:"goals"`
	Team           []models.TeamMember  `json:"team"`
	Content        []models.ContentItem `json:"content"`
}

// UpdateCampaignInput PUT /campaigns/:id
type UpdateCampaignInput struct {
	Title          *string              `json:"title" validate:"omitempty,min=3,max=200,no_xss"`
	Description    *string              `json:"description" validate:"omitempty,max=5000,no_xss"`
	Type           *string              `json:"type" validate:"omitempty,oneof=awareness lead_generation engagement conversion"`
	Status         *string              `json:"status" validate:"omitempty,oneof=draft active paused completed"`
	StartDate      *time.Time           `json:"startDate"`
	EndDate        *time.Time           `json:"endDate"`
	Budget         *float64             `json:"budget" validate:"omitempty,gte=0"`
	TargetAudience *string              `json:"targetAudience" validate:"omitempty,max=500,no_xss"`
	Channels       []string             `json:"channels" validate:"omitempty,dive,oneof=social_media email website paid_ads events"`
	Goals          *MetricsInput        `json:"goals"`
	Team           []models.TeamMember  `json:"team"`
	Content        []models.ContentItem `json:"content"`
}

// ToSet trả về các field cần $set; metrics chỉ được đổi qua POST /:id/metrics
func (in UpdateCampaignInput) ToSet() map[string]interface{} {
	set := map[string]interface{}{}
	if in.Title != nil {
		set["title"] = *in.Title
	}
	if in.Description != nil {
		set["description"] = *in.Description
	}
	if in.Type != nil {
		set["type"] = *in.Type
	}
	if in.Status != nil {
		set["status"] = *in.Status
	}
	if in.StartDate != nil {
		set["startDate"] = in.StartDate.UTC()
	}
	if in.EndDate != nil {
		set["endDate"] = in.EndDate.UTC()
	}
	if in.Budget != nil {
		set["budget"] = *in.Budget
	}
	if in.TargetAudience != nil {
		set["targetAudience"] = *in.TargetAudience
	}
	if in.Channels != nil {
		set["channels"] = in.Channels
	}
	if in.Goals != nil {
		set["goals"] = models.Metrics(*in.Goals)
	}
	if in.Team != nil {
		set["team"] = in.Team
	}
	if in.Content != nil {
		set["content"] = in.Content
	}
	return set
}

// ListQuery bộ lọc GET /campaigns
type ListQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=draft active paused completed"`
	Type   string `query:"type" validate:"omitempty,oneof=awareness lead_generation engagement conversion"`
}

// MetricsQuery bộ lọc GET /campaigns/metrics
type MetricsQuery struct {
	Campaign string `query:"campaign" validate:"omitempty,object_id"`
}

// RecordMetricInput POST /campaigns/:id/metrics. Timestamp rỗng là thời điểm hiện tại.
type RecordMetricInput struct {
	Timestamp      *time.Time                    `json:"timestamp"`
	Reach          float64                       `json:"reach" validate:"gte=0"`
	Engagement     float64                       `json:"engagement" validate:"gte=0"`
	Conversion     float64                       `json:"conversion" validate:"gte=0"`
	ROI            float64                       `json:"roi"`
	ChannelMetrics map[string]map[string]float64 `json:"channelMetrics"`
}

// PerformanceQuery GET /campaigns/:id/performance
type PerformanceQuery struct {
	Timeframe string `query:"timeframe" validate:"omitempty,oneof=week month quarter"`
}

// ShareReportInput POST /campaigns/share-report
type ShareReportInput struct {
	CampaignID string   `json:"campaignId" validate:"required,object_id"`
	Recipients []string `json:"recipients" validate:"required,min=1,max=100,dive,object_id"`
	Message    string   `json:"message" validate:"omitempty,max=1000,no_xss"`
	Format     string   `json:"format" validate:"omitempty,oneof=json csv"`
}
