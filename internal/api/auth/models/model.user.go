// Package models - model người dùng (User) và phần thưởng (Incentive).
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxUserActivities số activity gần nhất giữ trong user.activities
const MaxUserActivities = 50

// UserStatistics là các bộ đếm, chỉ được cập nhật bằng $inc
type UserStatistics struct {
	IdeasSubmitted   int64 `json:"ideasSubmitted" bson:"ideasSubmitted"`
	IdeasImplemented int64 `json:"ideasImplemented" bson:"ideasImplemented"`
	VotesReceived    int64 `json:"votesReceived" bson:"votesReceived"`
	PointsEarned     int64 `json:"pointsEarned" bson:"pointsEarned"`
}

// UserSettings là tuỳ chọn cá nhân; emailNotifications quyết định có gửi mail khi có notification
type UserSettings struct {
	EmailNotifications bool   `json:"emailNotifications" bson:"emailNotifications"`
	PushNotifications  bool   `json:"pushNotifications" bson:"pushNotifications"`
	DarkMode           bool   `json:"darkMode" bson:"darkMode"`
	Language           string `json:"language" bson:"language"`
	TwoFactorAuth      bool   `json:"twoFactorAuth" bson:"twoFactorAuth"`
}

// DefaultSettings giá trị mặc định khi đăng ký
func DefaultSettings() UserSettings {
	return UserSettings{
		EmailNotifications: true,
		PushNotifications:  true,
		Language:           "en",
	}
}

// Achievement là huy hiệu người dùng đạt được
type Achievement struct {
	Title       string `json:"title" bson:"title"`
	Description string `json:"description" bson:"description"`
	EarnedAt    int64  `json:"earnedAt" bson:"earnedAt"`
}

// UserActivity là bản sao rút gọn của Activity gắn trên user
type UserActivity struct {
	Action    string                 `json:"action" bson:"action"`
	Timestamp int64                  `json:"timestamp" bson:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty" bson:"metadata,omitempty"`
}

// User định nghĩa mô hình người dùng. Password là bcrypt hash, không bao giờ trả về client.
type User struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email" bson:"email" index:"unique"`
	Password     string             `json:"-" bson:"password"`
	Role         string             `json:"role" bson:"role" index:"single"`
	Department   string             `json:"department" bson:"department" index:"single"`
	Position     string             `json:"position,omitempty" bson:"position,omitempty"`
	Bio          string             `json:"bio,omitempty" bson:"bio,omitempty"`
	Avatar       string             `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Statistics   UserStatistics     `json:"statistics" bson:"statistics"`
	Settings     UserSettings       `json:"settings" bson:"settings"`
	Achievements []Achievement      `json:"achievements" bson:"achievements"`
	Activities   []UserActivity     `json:"activities,omitempty" bson:"activities"`
	CreatedAt    int64              `json:"createdAt" bson:"createdAt" index:"single,order:-1"`
	UpdatedAt    int64              `json:"updatedAt" bson:"updatedAt"`
}
