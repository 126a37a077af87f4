package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/models"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/policy"
	authsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/service"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/common"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/logger"
)

// Khoá c.Locals do AuthMiddleware gắn
const (
	LocalUser   = "user"
	LocalUserID = "userID"
	LocalClaims = "claims"
)

// AuthGate giữ các phụ thuộc của AuthMiddleware. Tạo một lần trong main.
type AuthGate struct {
	auth *authsvc.AuthService
}

// NewAuthGate tạo AuthGate
func NewAuthGate(auth *authsvc.AuthService) *AuthGate {
	return &AuthGate{auth: auth}
}

// bearerToken tách token từ header "Authorization: Bearer <token>"
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", common.ErrTokenMissing
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", common.ErrTokenInvalid
	}
	return parts[1], nil
}

// AuthMiddleware xác thực token, kiểm tra thu hồi, nạp user rồi gọi policy.Can đúng một lần.
// action rỗng nghĩa là chỉ cần đăng nhập.
func (g *AuthGate) AuthMiddleware(action string) fiber.Handler {
	return func(c fiber.Ctx) error {
		token, err := bearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Debug("Rejected request without a valid Authorization header")
			return HandleErrorResponse(c, err)
		}

		claims, user, err := g.auth.Authenticate(c.Context(), token)
		if err != nil {
			return HandleErrorResponse(c, err)
		}

		if action != "" && !policy.Can(user.Role, action) {
			logger.WithRequest(c).WithFields(logrus.Fields{
				"role":   user.Role,
				"action": action,
			}).Warn("Access denied")
			return HandleErrorResponse(c, common.ErrForbidden)
		}

		c.Locals(LocalUser, &user)
		c.Locals(LocalUserID, user.ID.Hex())
		c.Locals(LocalClaims, claims)
		return c.Next()
	}
}

// CurrentUser trả về user do AuthMiddleware gắn, nil nếu route không có AuthMiddleware
func CurrentUser(c fiber.Ctx) *models.User {
	user, _ := c.Locals(LocalUser).(*models.User)
	return user
}

// CurrentClaims trả về claims của token hiện tại
func CurrentClaims(c fiber.Ctx) *authsvc.Claims {
	claims, _ := c.Locals(LocalClaims).(*authsvc.Claims)
	return claims
}
