package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Trạng thái incentive
const (
	IncentivePending  = "pending"
	IncentiveApproved = "approved"
	IncentiveRejected = "rejected"
)

// Incentive là điểm thưởng trao cho người dùng, ví dụ khi idea được triển khai
type Incentive struct {
	ID        primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	User      primitive.ObjectID  `json:"user" bson:"user" index:"compound:user_created"`
	Type      string              `json:"type" bson:"type"`
	Points    int64               `json:"points" bson:"points"`
	Reason    string              `json:"reason" bson:"reason"`
	Idea      *primitive.ObjectID `json:"idea,omitempty" bson:"idea,omitempty" index:"single"`
	Status    string              `json:"status" bson:"status"`
	AwardKey  string              `json:"-" bson:"awardKey,omitempty" index:"unique,sparse"`
	CreatedAt int64               `json:"createdAt" bson:"createdAt" index:"compound:user_created,order:-1"`
	UpdatedAt int64               `json:"updatedAt" bson:"updatedAt"`
}
