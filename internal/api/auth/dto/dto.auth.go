// Package dto chứa các Data Transfer Object cho domain auth và user.
package dto

import "github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/models"

// RegisterInput dữ liệu đăng ký tài khoản. Role luôn là employee, chỉ admin mới đổi được.
type RegisterInput struct {
	Name       string `json:"name" validate:"required,min=2,max=100,no_xss"`
	Email      string `json:"email" validate:"required,email,max=254"`
	Password   string `json:"password" validate:"required,strong_password,max=72"`
	Department string `json:"department" validate:"required,max=100,no_xss"`
	Position   string `json:"position" validate:"omitempty,max=100,no_xss"`
}

// LoginInput dữ liệu đăng nhập
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordInput yêu cầu gửi link đặt lại mật khẩu
type ForgotPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordInput đặt lại mật khẩu bằng token nhận qua email
type ResetPasswordInput struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,strong_password,max=72"`
}

// AuthResponse trả về sau khi đăng ký / đăng nhập
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}
