// Package authsvc xử lý đăng ký, đăng nhập, JWT, phiên và phần thưởng của người dùng.
package authsvc

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/dto"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/models"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/policy"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/common"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/logger"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/mailer"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/session"
)

// ResetTokenTTL thời hạn của link đặt lại mật khẩu
const ResetTokenTTL = time.Hour

var (
	// ErrWrongPassword mật khẩu hiện tại không khớp khi đổi mật khẩu
	ErrWrongPassword = common.BadRequest("Current password is incorrect", nil)
	// ErrResetTokenInvalid reset token sai, hết hạn hoặc đã dùng
	ErrResetTokenInvalid = common.BadRequest("Invalid or expired reset token", nil)
)

// AuthService gom các thao tác xác thực. Mọi phụ thuộc được truyền vào từ main.
type AuthService struct {
	users       *UserService
	tokens      *TokenManager
	sessions    session.Store
	mail        mailer.Sender
	frontendURL string
}

// NewAuthService tạo AuthService
func NewAuthService(users *UserService, tokens *TokenManager, sessions session.Store, mail mailer.Sender, frontendURL string) *AuthService {
	if mail == nil {
		mail = mailer.NoopMailer{}
	}
	return &AuthService{
		users:       users,
		tokens:      tokens,
		sessions:    sessions,
		mail:        mail,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

// Users trả về UserService dùng chung
func (s *AuthService) Users() *UserService {
	return s.users
}

func (s *AuthService) issue(user models.User) (*dto.AuthResponse, error) {
	token, _, err := s.tokens.Generate(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, common.WrapError(common.ErrCodeInternalServer, common.MsgInternalError, common.StatusInternalServerError, err)
	}
	return &dto.AuthResponse{Token: token, User: &user}, nil
}

// Register tạo tài khoản employee mới và trả về token
func (s *AuthService) Register(ctx context.Context, in dto.RegisterInput) (*dto.AuthResponse, error) {
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, common.WrapError(common.ErrCodeInternalServer, common.MsgInternalError, common.StatusInternalServerError, err)
	}
	user, err := s.users.Create(ctx, models.User{
		Name:       strings.TrimSpace(in.Name),
		Email:      in.Email,
		Password:   hash,
		Role:       policy.RoleEmployee,
		Department: strings.TrimSpace(in.Department),
		Position:   in.Position,
	})
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Login kiểm tra email/mật khẩu. Sai email hay sai mật khẩu đều trả về cùng một lỗi.
func (s *AuthService) Login(ctx context.Context, in dto.LoginInput) (*dto.AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}
	ok, err := CheckPassword(user.Password, in.Password)
	if err != nil || !ok {
		return nil, common.ErrInvalidCredentials
	}
	return s.issue(user)
}

// Authenticate xác thực bearer token: chữ ký, issuer, hạn, danh sách thu hồi và user còn tồn tại
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Claims, models.User, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, models.User{}, err
	}
	revoked, err := s.sessions.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, models.User{}, common.WrapError(common.ErrCodeDatabaseConnection, "Session store is unavailable", common.StatusServiceUnavailable, err)
	}
	if revoked {
		return nil, models.User{}, common.ErrTokenInvalid
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, models.User{}, common.ErrTokenInvalid
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			return nil, models.User{}, common.ErrTokenInvalid
		}
		return nil, models.User{}, err
	}
	return claims, user, nil
}

// Logout thu hồi jti của token hiện tại cho tới khi token hết hạn
func (s *AuthService) Logout(ctx context.Context, claims *Claims) error {
	if claims == nil {
		return common.ErrTokenMissing
	}
	ttl := time.Until(claims.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.sessions.Revoke(ctx, claims.ID, ttl); err != nil {
		return common.WrapError(common.ErrCodeDatabaseConnection, "Session store is unavailable", common.StatusServiceUnavailable, err)
	}
	return nil
}

// ForgotPassword gửi link đặt lại mật khẩu. Luôn trả về nil để không lộ email nào đã đăng ký.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	log := logger.WithModule("auth")
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, common.ErrUserNotFound) {
			log.WithError(err).Error("Failed to look up user for password reset")
		}
		return nil
	}

	raw, hash, err := GenerateResetToken()
	if err != nil {
		log.WithError(err).Error("Failed to generate reset token")
		return nil
	}
	if err := s.sessions.SaveResetToken(ctx, hash, user.ID.Hex(), ResetTokenTTL); err != nil {
		log.WithError(err).Error("Failed to store reset token")
		return nil
	}
	if !s.mail.Enabled() {
		log.WithField("user_id", user.ID.Hex()).Warn("SMTP is not configured, reset link was not sent")
		return nil
	}
	link := s.frontendURL + "/reset-password?token=" + url.QueryEscape(raw)
	if err := s.mail.Send(ctx, mailer.ResetPasswordMessage(user.Email, link)); err != nil {
		log.WithError(err).WithField("user_id", user.ID.Hex()).Error("Failed to send reset email")
	}
	return nil
}

// ResetPassword dùng reset token đúng một lần để đặt mật khẩu mới
func (s *AuthService) ResetPassword(ctx context.Context, in dto.ResetPasswordInput) error {
	userID, err := s.sessions.ConsumeResetToken(ctx, HashToken(in.Token))
	if err != nil {
		if errors.Is(err, session.ErrTokenNotFound) {
			return ErrResetTokenInvalid
		}
		return common.WrapError(common.ErrCodeDatabaseConnection, "Session store is unavailable", common.StatusServiceUnavailable, err)
	}
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ErrResetTokenInvalid
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return common.WrapError(common.ErrCodeInternalServer, common.MsgInternalError, common.StatusInternalServerError, err)
	}
	if err := s.users.SetPassword(ctx, id, hash); err != nil {
		if common.IsNotFound(err) {
			return ErrResetTokenInvalid
		}
		return err
	}
	return nil
}

// ChangePassword đổi mật khẩu sau khi kiểm tra mật khẩu hiện tại
func (s *AuthService) ChangePassword(ctx context.Context, user models.User, in dto.ChangePasswordInput) error {
	ok, err := CheckPassword(user.Password, in.CurrentPassword)
	if err != nil || !ok {
		return ErrWrongPassword
	}
	hash, err := HashPassword(in.NewPassword)
	if err != nil {
		return common.WrapError(common.ErrCodeInternalServer, common.MsgInternalError, common.StatusInternalServerError, err)
	}
	return s.users.SetPassword(ctx, user.ID, hash)
}

// EnsureAdmin tạo tài khoản admin từ cấu hình nếu email chưa tồn tại
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) (created bool, err error) {
	if email == "" || password == "" {
		return false, nil
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, common.ErrUserNotFound) {
		return false, err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}
	_, err = s.users.Create(ctx, models.User{
		Name:       "Administrator",
		Email:      email,
		Password:   hash,
		Role:       policy.RoleAdmin,
		Department: "Administration",
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
