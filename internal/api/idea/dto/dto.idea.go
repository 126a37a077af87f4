// Package dto chứa các DTO cho idea
package dto

import "time"

// CreateIdeaInput POST /ideas
type CreateIdeaInput struct {
	Title       string `json:"title" validate:"required,min=3,max=200,no_xss"`
	Description string `json:"description" validate:"required,min=10,max=5000,no_xss"`
	Category    string `json:"category" validate:"required,max=100,no_xss"`
	Department  string `json:"department" validate:"omitempty,max=100,no_xss"`
}

// UpdateIdeaInput PUT /ideas/:id, chỉ khi idea còn pending
type UpdateIdeaInput struct {
	Title       *string `json:"title" validate:"omitempty,min=3,max=200,no_xss"`
	Description *string `json:"description" validate:"omitempty,min=10,max=5000,no_xss"`
	Category    *string `json:"category" validate:"omitempty,max=100,no_xss"`
}

// ToSet trả về các field cần $set
func (in UpdateIdeaInput) ToSet() map[string]interface{} {
	set := map[string]interface{}{}
	if in.Title != nil {
		set["title"] = *in.Title
	}
	if in.Description != nil {
		set["description"] = *in.Description
	}
	if in.Category != nil {
		set["category"] = *in.Category
	}
	return set
}

// ListQuery bộ lọc GET /ideas
type ListQuery struct {
	Status     string `query:"status" validate:"omitempty,oneof=pending under_review approved rejected implemented"`
	Department string `query:"department" validate:"omitempty,max=100"`
	Category   string `query:"category" validate:"omitempty,max=100"`
}

// FeedbackInput POST /ideas/:id/feedback
type FeedbackInput struct {
	Comment string `json:"comment" validate:"required,min=1,max=2000,no_xss"`
	Type    string `json:"type" validate:"omitempty,oneof=comment suggestion concern"`
}

// UpdateStatusInput PUT /ideas/:id/status
type UpdateStatusInput struct {
	Status              string `json:"status" validate:"required,oneof=pending under_review approved rejected implemented"`
	ImplementationNotes string `json:"implementationNotes" validate:"omitempty,max=5000,no_xss"`
}

// EvaluateInput PUT /ideas/:id/evaluate
type EvaluateInput struct {
	Score    *float64 `json:"score" validate:"required,gte=0,lte=10"`
	Comments string   `json:"comments" validate:"omitempty,max=2000,no_xss"`
}

// MarketingMetricsInput các chỉ số được gộp vào marketingCampaign.metrics
type MarketingMetricsInput struct {
	Reach      *float64 `json:"reach" validate:"omitempty,gte=0"`
	Engagement *float64 `json:"engagement" validate:"omitempty,gte=0"`
	Impact     *float64 `json:"impact" validate:"omitempty,gte=0"`
}

// MarketingCampaignInput PUT /ideas/:id/marketing-campaign
type MarketingCampaignInput struct {
	Status    *string                `json:"status" validate:"omitempty,oneof=planned active completed"`
	StartDate *time.Time             `json:"startDate"`
	EndDate   *time.Time             `json:"endDate"`
	Metrics   *MarketingMetricsInput `json:"metrics"`
}

// ToSet gộp các field có giá trị vào marketingCampaign.*
func (in MarketingCampaignInput) ToSet() map[string]interface{} {
	set := map[string]interface{}{}
	if in.Status != nil {
		set["marketingCampaign.status"] = *in.Status
	}
	if in.StartDate != nil {
		set["marketingCampaign.startDate"] = in.StartDate.UTC()
	}
	if in.EndDate != nil {
		set["marketingCampaign.endDate"] = in.EndDate.UTC()
	}
	if m := in.Metrics; m != nil {
		if m.Reach != nil {
			set["marketingCampaign.metrics.reach"] = *m.Reach
		}
		if m.Engagement != nil {
			set["marketingCampaign.metrics.engagement"] = *m.Engagement
		}
		if m.Impact != nil {
			set["marketingCampaign.metrics.impact"] = *m.Impact
		}
	}
	return set
}
