// Package models - model Idea: ý tưởng đổi mới do nhân viên gửi.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trạng thái idea
const (
	StatusPending     = "pending"
	StatusUnderReview = "under_review"
	StatusApproved    = "approved"
	StatusRejected    = "rejected"
	StatusImplemented = "implemented"
)

// Statuses trả về các trạng thái hợp lệ
func Statuses() []string {
	return []string{StatusPending, StatusUnderReview, StatusApproved, StatusRejected, StatusImplemented}
}

// Feedback là một góp ý trên idea, chỉ được thêm vào
type Feedback struct {
	User      primitive.ObjectID `json:"user" bson:"user"`
	Comment   string             `json:"comment" bson:"comment"`
	Type      string             `json:"type" bson:"type"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
}

// Evaluation là đánh giá của innovation manager, score 0..10
type Evaluation struct {
	Score       float64            `json:"score" bson:"score"`
	Comments    string             `json:"comments,omitempty" bson:"comments,omitempty"`
	EvaluatedBy primitive.ObjectID `json:"evaluatedBy" bson:"evaluatedBy"`
	EvaluatedAt int64              `json:"evaluatedAt" bson:"evaluatedAt"`
}

// ImplementationDetails kế hoạch triển khai
type ImplementationDetails struct {
	StartDate      *time.Time           `json:"startDate,omitempty" bson:"startDate,omitempty"`
	CompletionDate *time.Time           `json:"completionDate,omitempty" bson:"completionDate,omitempty"`
	AssignedTeam   []primitive.ObjectID `json:"assignedTeam,omitempty" bson:"assignedTeam,omitempty"`
	Budget         float64              `json:"budget,omitempty" bson:"budget,omitempty"`
	Status         string               `json:"status,omitempty" bson:"status,omitempty"`
	Notes          string               `json:"notes,omitempty" bson:"notes,omitempty"`
}

// MarketingMetrics chỉ số của chiến dịch quảng bá idea
type MarketingMetrics struct {
	Reach      float64 `json:"reach" bson:"reach"`
	Engagement float64 `json:"engagement" bson:"engagement"`
	Impact     float64 `json:"impact" bson:"impact"`
}

// MarketingCampaign chiến dịch quảng bá idea đã triển khai
type MarketingCampaign struct {
	Status    string           `json:"status,omitempty" bson:"status,omitempty"`
	StartDate *time.Time       `json:"startDate,omitempty" bson:"startDate,omitempty"`
	EndDate   *time.Time       `json:"endDate,omitempty" bson:"endDate,omitempty"`
	Metrics   MarketingMetrics `json:"metrics" bson:"metrics"`
}

// Idea - voteCount luôn bằng len(votes), cả hai được cập nhật trong cùng một lệnh
type Idea struct {
	ID                    primitive.ObjectID     `json:"id,omitempty" bson:"_id,omitempty"`
	Title                 string                 `json:"title" bson:"title" index:"text"`
	Description           string                 `json:"description" bson:"description"`
	SubmittedBy           primitive.ObjectID     `json:"submittedBy" bson:"submittedBy" index:"single"`
	Department            string                 `json:"department" bson:"department" index:"compound:department_status"`
	Category              string                 `json:"category" bson:"category"`
	Status                string                 `json:"status" bson:"status" index:"compound:status_created;compound:department_status"`
	Votes                 []primitive.ObjectID   `json:"votes" bson:"votes"`
	VoteCount             int64                  `json:"voteCount" bson:"voteCount"`
	Feedback              []Feedback             `json:"feedback" bson:"feedback"`
	ImplementationNotes   string                 `json:"implementationNotes,omitempty" bson:"implementationNotes,omitempty"`
	Evaluation            *Evaluation            `json:"evaluation,omitempty" bson:"evaluation,omitempty"`
	ImplementationDetails *ImplementationDetails `json:"implementationDetails,omitempty" bson:"implementationDetails,omitempty"`
	MarketingCampaign     *MarketingCampaign     `json:"marketingCampaign,omitempty" bson:"marketingCampaign,omitempty"`
	CreatedAt             int64                  `json:"createdAt" bson:"createdAt" index:"compound:status_created,order:-1"`
	UpdatedAt             int64                  `json:"updatedAt" bson:"updatedAt"`
}

// IdeaView là Idea kèm thông tin người gửi
type IdeaView struct {
	Idea      `bson:",inline"`
	Submitter *Submitter `json:"submitter,omitempty" bson:"-"`
}

// Submitter là phần công khai của người gửi idea
type Submitter struct {
	Name       string `json:"name"`
	Department string `json:"department,omitempty"`
	Avatar     string `json:"avatar,omitempty"`
}
