// Package models - model Activity: nhật ký hành động bất biến của người dùng.
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Các loại activity
const (
	TypeIdeaSubmission     = "idea_submission"
	TypeIdeaUpdate         = "idea_update"
	TypeComment            = "comment"
	TypeVote               = "vote"
	TypeProfileUpdate      = "profile_update"
	TypeTrainingEnrollment = "training_enrollment"
	TypeTrainingCompletion = "training_completion"
	TypeSupportTicket      = "support_ticket"
	TypeCampaignUpdate     = "campaign_update"
)

// Types trả về các loại activity hợp lệ
func Types() []string {
	return []string{
		TypeIdeaSubmission, TypeIdeaUpdate, TypeComment, TypeVote, TypeProfileUpdate,
		TypeTrainingEnrollment, TypeTrainingCompletion, TypeSupportTicket, TypeCampaignUpdate,
	}
}

// ActivityMetadata trỏ tới đối tượng liên quan
type ActivityMetadata struct {
	EntityID   *primitive.ObjectID    `json:"entityId,omitempty" bson:"entityId,omitempty"`
	EntityType string                 `json:"entityType,omitempty" bson:"entityType,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty" bson:"details,omitempty"`
}

// Activity chỉ được insert, không sửa, không xoá
type Activity struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	User      primitive.ObjectID `json:"user" bson:"user" index:"compound:user_timestamp"`
	Type      string             `json:"type" bson:"type" index:"compound:type_timestamp"`
	Action    string             `json:"action" bson:"action"`
	Timestamp int64              `json:"timestamp" bson:"timestamp" index:"compound:user_timestamp,order:-1;compound:type_timestamp,order:-1"`
	Metadata  ActivityMetadata   `json:"metadata" bson:"metadata"`
	Public    bool               `json:"public" bson:"public"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}

// ActivityView là Activity kèm thông tin công khai của người thực hiện
type ActivityView struct {
	Activity `bson:",inline"`
	UserInfo *UserInfo `json:"userInfo,omitempty" bson:"-"`
}

// UserInfo là phần công khai của user hiển thị cạnh activity
type UserInfo struct {
	Name       string `json:"name"`
	Department string `json:"department,omitempty"`
	Avatar     string `json:"avatar,omitempty"`
}
