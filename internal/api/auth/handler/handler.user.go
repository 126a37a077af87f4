package authhdl

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	activitymodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/activity/models"
	activitysvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/activity/service"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/dto"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/models"
	authsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/service"
	basehdl "github.com/mostafa12599/GreenFuture-Innovation/internal/api/base/handler"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/middleware"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/common"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/logger"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/storage"
)

const (
	// MaxAvatarSize dung lượng tối đa của ảnh đại diện
	MaxAvatarSize = 5 << 20
	// RecentUserActivities số activity trả về ở GET /users/activities
	RecentUserActivities = 20
)

// UserHandler xử lý hồ sơ, cài đặt và thống kê của người dùng hiện tại
type UserHandler struct {
	basehdl.BaseHandler
	auth       *authsvc.AuthService
	users      *authsvc.UserService
	incentives *authsvc.IncentiveService
	activities *activitysvc.ActivityService
	storage    storage.Storage
}

// NewUserHandler tạo UserHandler
func NewUserHandler(auth *authsvc.AuthService, incentives *authsvc.IncentiveService, activities *activitysvc.ActivityService, store storage.Storage) *UserHandler {
	return &UserHandler{
		auth:       auth,
		users:      auth.Users(),
		incentives: incentives,
		activities: activities,
		storage:    store,
	}
}

// HandleGetProfile GET /users/profile
func (h *UserHandler) HandleGetProfile(c fiber.Ctx) error {
	return h.HandleResponse(c, middleware.CurrentUser(c), nil)
}

// HandleUpdateProfile PUT /users/profile
func (h *UserHandler) HandleUpdateProfile(c fiber.Ctx) error {
	var input dto.UpdateProfileInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		return h.HandleResponse(c, nil, err)
	}
	me := middleware.CurrentUser(c)
	user, err := h.users.UpdateProfile(c.Context(), me.ID, input)
	if err != nil {
		return h.HandleResponse(c, nil, err)
	}
	h.activities.Track(c.Context(), me.ID, activitysvc.Input{
		Type:       activitymodels.TypeProfileUpdate,
		Action:     "Updated profile",
		EntityID:   &me.ID,
		EntityType: "User",
	})
	return h.HandleResponse(c, user, nil)
}

// avatarKey tạo key lưu trữ dạng avatars/<uuid>-<tên file>
func avatarKey(filename string) string {
	name := strings.ReplaceAll(filepath.Base(filename), " ", "_")
	if name == "." || name == "/" || name == "" {
		name = "avatar"
	}
	return "avatars/" + uuid.NewString() + "-" + name
}

// HandleUploadAvatar POST /users/avatar (multipart, field "avatar")
func (h *UserHandler) HandleUploadAvatar(c fiber.Ctx) error {
	file, err := c.FormFile("avatar")
	if err != nil || file == nil {
		return h.HandleResponse(c, nil, common.BadRequest("No file uploaded", nil))
	}
	if file.Size > MaxAvatarSize {
		return h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "File is too large, the limit is 5MB", common.StatusTooLarge, nil))
	}
	contentType := file.Header.Get(fiber.HeaderContentType)
	if !strings.HasPrefix(contentType, "image/") {
		return h.HandleResponse(c, nil, common.BadRequest("Only image files are allowed", nil))
	}

	src, err := file.Open()
	if err != nil {
		return h.HandleResponse(c, nil, common.BadRequest("Failed to read uploaded file", nil))
	}
	defer src.Close()

	url, err := h.storage.Put(c.Context(), avatarKey(file.Filename), src, file.Size, contentType)
	if err != nil {
		logger.WithRequest(c).WithError(err).WithField("backend", h.storage.Name()).Error("Avatar upload failed")
		return h.HandleResponse(c, nil, common.WrapError(common.ErrCodeBusinessOperation, "Error uploading file", common.StatusInternalServerError, err))
	}

	me := middleware.CurrentUser(c)
	user, err := h.users.SetAvatar(c.Context(), me.ID, url)
	return h.HandleResponse(c, user, err)
}

// HandleChangePassword PUT /users/change-password
func (h *UserHandler) HandleChangePassword(c fiber.Ctx) error {
	var input dto.ChangePasswordInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		return h.HandleResponse(c, nil, err)
	}
	err := h.auth.ChangePassword(c.Context(), *middleware.CurrentUser(c), input)
	if err == nil {
		logger.LogAuth("change_password", c, nil)
	}
	return h.HandleMessage(c, "Password changed successfully", err)
}

// HandleGetSettings GET /users/settings
func (h *UserHandler) HandleGetSettings(c fiber.Ctx) error {
	return h.HandleResponse(c, middleware.CurrentUser(c).Settings, nil)
}

// HandleUpdateSettings PUT /users/settings
func (h *UserHandler) HandleUpdateSettings(c fiber.Ctx) error {
	var input dto.UpdateSettingsInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		return h.HandleResponse(c, nil, err)
	}
	settings, err := h.users.UpdateSettings(c.Context(), middleware.CurrentUser(c).ID, input)
	return h.HandleResponse(c, settings, err)
}

// HandleGetStatistics GET /users/statistics
func (h *UserHandler) HandleGetStatistics(c fiber.Ctx) error {
	return h.HandleResponse(c, middleware.CurrentUser(c).Statistics, nil)
}

// RecentActivities trả về tối đa n activity mới nhất, mới nhất trước
func RecentActivities(activities []models.UserActivity, n int) []models.UserActivity {
	out := make([]models.UserActivity, len(activities))
	copy(out, activities)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// HandleGetActivities GET /users/activities
func (h *UserHandler) HandleGetActivities(c fiber.Ctx) error {
	return h.HandleResponse(c, RecentActivities(middleware.CurrentUser(c).Activities, RecentUserActivities), nil)
}

// HandleGetAchievements GET /users/achievements
func (h *UserHandler) HandleGetAchievements(c fiber.Ctx) error {
	achievements := middleware.CurrentUser(c).Achievements
	if achievements == nil {
		achievements = []models.Achievement{}
	}
	return h.HandleResponse(c, achievements, nil)
}

// HandleGetIncentives GET /users/incentives
func (h *UserHandler) HandleGetIncentives(c fiber.Ctx) error {
	incentives, err := h.incentives.ListByUser(c.Context(), middleware.CurrentUser(c).ID)
	return h.HandleResponse(c, incentives, err)
}

// HandleGetTeamMembers GET /users/team-members
func (h *UserHandler) HandleGetTeamMembers(c fiber.Ctx) error {
	members, err := h.users.TeamMembers(c.Context(), middleware.CurrentUser(c).Department)
	return h.HandleResponse(c, members, err)
}

// HandleUpdateRole PUT /users/:id/role (admin)
func (h *UserHandler) HandleUpdateRole(c fiber.Ctx) error {
	id, err := h.ParseObjectIDParam(c, "id")
	if err != nil {
		return h.HandleResponse(c, nil, err)
	}
	var input dto.UpdateRoleInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		return h.HandleResponse(c, nil, err)
	}
	user, err := h.users.SetRole(c.Context(), id, input.Role)
	if err == nil {
		logger.LogCRUD("update", "user_role", id.Hex(), c, map[string]interface{}{"role": input.Role})
	}
	return h.HandleResponse(c, user, err)
}
