// Package dto chứa các DTO cho notification
package dto

// ListQuery bộ lọc GET /notifications. Read là chuỗi "true"/"false", rỗng là không lọc.
type ListQuery struct {
	Type string `query:"type" validate:"omitempty,oneof=idea comment announcement mention support campaign system"`
	Read string `query:"read" validate:"omitempty,oneof=true false"`
}

// PreferencesInput cập nhật tuỳ chọn nhận thông báo (ánh xạ vào user.settings)
type PreferencesInput struct {
	EmailNotifications *bool `json:"emailNotifications"`
	PushNotifications  *bool `json:"pushNotifications"`
}

// Preferences là tuỳ chọn nhận thông báo hiện tại
type Preferences struct {
	EmailNotifications bool `json:"emailNotifications"`
	PushNotifications  bool `json:"pushNotifications"`
}
