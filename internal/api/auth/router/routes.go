// Package authrouter đăng ký route cho /auth và /users
package authrouter

import (
	"github.com/gofiber/fiber/v3"

	authhdl "github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/handler"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/policy"
	apirouter "github.com/mostafa12599/GreenFuture-Innovation/internal/api/router"
)

// Register trả về RegisterFunc cho domain auth
func Register(auth *authhdl.AuthHandler, users *authhdl.UserHandler) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		r.RegisterRoutes(v1, "/auth", []apirouter.Route{
			{Method: fiber.MethodPost, Path: "/register", Public: true, Handler: auth.HandleRegister},
			{Method: fiber.MethodPost, Path: "/login", Public: true, Handler: auth.HandleLogin},
			{Method: fiber.MethodPost, Path: "/forgot-password", Public: true, Handler: auth.HandleForgotPassword},
			{Method: fiber.MethodPost, Path: "/reset-password", Public: true, Handler: auth.HandleResetPassword},
			{Method: fiber.MethodGet, Path: "/me", Handler: auth.HandleMe},
			{Method: fiber.MethodPost, Path: "/logout", Handler: auth.HandleLogout},
		})

		r.RegisterRoutes(v1, "/users", []apirouter.Route{
			{Method: fiber.MethodGet, Path: "/profile", Handler: users.HandleGetProfile},
			{Method: fiber.MethodPut, Path: "/profile", Handler: users.HandleUpdateProfile},
			{Method: fiber.MethodPost, Path: "/avatar", Handler: users.HandleUploadAvatar},
			{Method: fiber.MethodPut, Path: "/change-password", Handler: users.HandleChangePassword},
			{Method: fiber.MethodGet, Path: "/settings", Handler: users.HandleGetSettings},
			{Method: fiber.MethodPut, Path: "/settings", Handler: users.HandleUpdateSettings},
			{Method: fiber.MethodGet, Path: "/statistics", Handler: users.HandleGetStatistics},
			{Method: fiber.MethodGet, Path: "/activities", Handler: users.HandleGetActivities},
			{Method: fiber.MethodGet, Path: "/achievements", Handler: users.HandleGetAchievements},
			{Method: fiber.MethodGet, Path: "/incentives", Handler: users.HandleGetIncentives},
			{Method: fiber.MethodGet, Path: "/team-members", Handler: users.HandleGetTeamMembers},
			{Method: fiber.MethodPut, Path: "/:id/role", Action: policy.ActUserManage, Handler: users.HandleUpdateRole},
		})
		return nil
	}
}
