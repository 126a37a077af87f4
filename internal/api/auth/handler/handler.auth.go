// Package authhdl chứa các handler cho /auth và /users
package authhdl

import (
	"github.com/gofiber/fiber/v3"

	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/dto"
	authsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/service"
	basehdl "github.com/mostafa12599/GreenFuture-Innovation/internal/api/base/handler"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/middleware"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/logger"
)

// AuthHandler xử lý đăng ký, đăng nhập, đăng xuất và đặt lại mật khẩu
type AuthHandler struct {
	basehdl.BaseHandler
	auth *authsvc.AuthService
}

// NewAuthHandler tạo AuthHandler
func NewAuthHandler(auth *authsvc.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// HandleRegister POST /auth/register
func (h *AuthHandler) HandleRegister(c fiber.Ctx) error {
	var input dto.RegisterInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		return h.HandleResponse(c, nil, err)
	}
	result, err := h.auth.Register(c.Context(), input)
	if err == nil {
		c.Locals(middleware.LocalUserID, result.User.ID.Hex())
		logger.LogAuth("register", c, map[string]interface{}{"email": result.User.Email})
	}
	return h.HandleCreated(c, result, err)
}

// HandleLogin POST /auth/login
func (h *AuthHandler) HandleLogin(c fiber.Ctx) error {
	var input dto.LoginInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		return h.HandleResponse(c, nil, err)
	}
	result, err := h.auth.Login(c.Context(), input)
	if err != nil {
		logger.LogAuth("login_failed", c, map[string]interface{}{"email": authsvc.NormalizeEmail(input.Email)})
		return h.HandleResponse(c, nil, err)
	}
	c.Locals(middleware.LocalUserID, result.User.ID.Hex())
	logger.LogAuth("login", c, nil)
	return h.HandleResponse(c, result, nil)
}

// HandleMe GET /auth/me
func (h *AuthHandler) HandleMe(c fiber.Ctx) error {
	return h.HandleResponse(c, middleware.CurrentUser(c), nil)
}

// HandleLogout POST /auth/logout, thu hồi token hiện tại
func (h *AuthHandler) HandleLogout(c fiber.Ctx) error {
	err := h.auth.Logout(c.Context(), middleware.CurrentClaims(c))
	if err == nil {
		logger.LogAuth("logout", c, nil)
	}
	return h.HandleMessage(c, "Logged out successfully", err)
}

// HandleForgotPassword POST /auth/forgot-password, luôn trả về 200
func (h *AuthHandler) HandleForgotPassword(c fiber.Ctx) error {
	var input dto.ForgotPasswordInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		return h.HandleResponse(c, nil, err)
	}
	err := h.auth.ForgotPassword(c.Context(), input.Email)
	logger.LogAuth("forgot_password", c, nil)
	return h.HandleMessage(c, "If the email is registered, a reset link has been sent", err)
}

// HandleResetPassword POST /auth/reset-password
func (h *AuthHandler) HandleResetPassword(c fiber.Ctx) error {
	var input dto.ResetPasswordInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		return h.HandleResponse(c, nil, err)
	}
	err := h.auth.ResetPassword(c.Context(), input)
	if err == nil {
		logger.LogAuth("reset_password", c, nil)
	}
	return h.HandleMessage(c, "Password has been reset successfully", err)
}
