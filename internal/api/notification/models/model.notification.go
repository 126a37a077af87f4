// Package models - model Notification: thông báo gửi tới từng người dùng.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Loại notification
const (
	TypeIdea         = "idea"
	TypeComment      = "comment"
	TypeAnnouncement = "announcement"
	TypeMention      = "mention"
	TypeSupport      = "support"
	TypeCampaign     = "campaign"
	TypeSystem       = "system"
)

// Mức ưu tiên
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

// NotificationMetadata trỏ tới đối tượng liên quan
type NotificationMetadata struct {
	EntityID       *primitive.ObjectID    `json:"entityId,omitempty" bson:"entityId,omitempty"`
	EntityType     string                 `json:"entityType,omitempty" bson:"entityType,omitempty"`
	AdditionalData map[string]interface{} `json:"additionalData,omitempty" bson:"additionalData,omitempty"`
}

// Notification chỉ được sửa trường read. ExpiresAt là BSON date để TTL index xoá tự động.
type Notification struct {
	ID        primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	User      primitive.ObjectID   `json:"user" bson:"user" index:"compound:user_created;compound:user_read"`
	Title     string               `json:"title" bson:"title"`
	Message   string               `json:"message" bson:"message"`
	Type      string               `json:"type" bson:"type"`
	Priority  string               `json:"priority" bson:"priority"`
	Read      bool                 `json:"read" bson:"read" index:"compound:user_read"`
	Metadata  NotificationMetadata `json:"metadata" bson:"metadata"`
	ExpiresAt *time.Time           `json:"expiresAt,omitempty" bson:"expiresAt,omitempty" index:"ttl:0"`
	CreatedAt int64                `json:"createdAt" bson:"createdAt" index:"compound:user_created,order:-1"`
	UpdatedAt int64                `json:"updatedAt" bson:"updatedAt"`
}
