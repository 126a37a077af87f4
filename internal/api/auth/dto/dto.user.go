package dto

// UpdateProfileInput các trường hồ sơ được phép sửa. Field nil được giữ nguyên.
type UpdateProfileInput struct {
	Name       *string `json:"name" validate:"omitempty,min=2,max=100,no_xss"`
	Department *string `json:"department" validate:"omitempty,min=1,max=100,no_xss"`
	Position   *string `json:"position" validate:"omitempty,max=100,no_xss"`
	Bio        *string `json:"bio" validate:"omitempty,max=1000,no_xss"`
}

// ChangePasswordInput đổi mật khẩu khi đã đăng nhập
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,strong_password,max=72,nefield=CurrentPassword"`
}

// UpdateSettingsInput cập nhật một phần settings
type UpdateSettingsInput struct {
	EmailNotifications *bool   `json:"emailNotifications"`
	PushNotifications  *bool   `json:"pushNotifications"`
	DarkMode           *bool   `json:"darkMode"`
	Language           *string `json:"language" validate:"omitempty,min=2,max=10,alpha"`
	TwoFactorAuth      *bool   `json:"twoFactorAuth"`
}

// ToSet chuyển các field có giá trị thành map $set với tiền tố "settings."
func (in UpdateSettingsInput) ToSet() map[string]interface{} {
	set := map[string]interface{}{}
	if in.EmailNotifications != nil {
		set["settings.emailNotifications"] = *in.EmailNotifications
	}
	if in.PushNotifications != nil {
		set["settings.pushNotifications"] = *in.PushNotifications
	}
	if in.DarkMode != nil {
		set["settings.darkMode"] = *in.DarkMode
	}
	if in.Language != nil {
		set["settings.language"] = *in.Language
	}
	if in.TwoFactorAuth != nil {
		set["settings.twoFactorAuth"] = *in.TwoFactorAuth
	}
	return set
}

// UpdateRoleInput admin đổi vai trò người dùng
type UpdateRoleInput struct {
	Role string `json:"role" validate:"required,oneof=employee innovation_manager hr it_support marketing admin"`
}
