package authsvc

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/dto"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/models"
	basesvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/base/service"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/events"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/common"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/database"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/global"
)

// ErrEmailTaken email đã được dùng cho tài khoản khác
var ErrEmailTaken = common.Conflict("Email already registered")

// UserService là service quản lý người dùng
type UserService struct {
	*basesvc.BaseServiceMongoImpl[models.User]
}

// NewUserService tạo UserService
func NewUserService(store *database.Store, bus *events.Bus) *UserService {
	coll := store.Collection(global.MongoDB_ColNames.Users)
	return &UserService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.User](coll, bus),
	}
}

// NormalizeEmail chuẩn hoá email trước khi lưu/tìm
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FindByEmail tìm user theo email
func (s *UserService) FindByEmail(ctx context.Context, email string) (models.User, error) {
	user, err := s.FindOne(ctx, bson.M{"email": NormalizeEmail(email)}, nil)
	if common.IsNotFound(err) {
		return user, common.ErrUserNotFound
	}
	return user, err
}

// FindByID tìm user theo id, không có thì trả về ErrUserNotFound
func (s *UserService) FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	user, err := s.FindOneById(ctx, id)
	if common.IsNotFound(err) {
		return user, common.ErrUserNotFound
	}
	return user, err
}

// Create tạo user mới. Các mảng được khởi tạo rỗng để $push/$slice về sau hoạt động.
func (s *UserService) Create(ctx context.Context, user models.User) (models.User, error) {
	user.Email = NormalizeEmail(user.Email)
	exists, err := s.DocumentExists(ctx, bson.M{"email": user.Email})
	if err != nil {
		return models.User{}, err
	}
	if exists {
		return models.User{}, ErrEmailTaken
	}
	if user.Achievements == nil {
		user.Achievements = []models.Achievement{}
	}
	if user.Activities == nil {
		user.Activities = []models.UserActivity{}
	}
	if user.Settings == (models.UserSettings{}) {
		user.Settings = models.DefaultSettings()
	}

	created, err := s.InsertOne(ctx, user)
	if err != nil && errors.Is(err, common.ErrDuplicate) {
		return models.User{}, ErrEmailTaken
	}
	return created, err
}

// IncStatistics tăng các bộ đếm statistics bằng một lệnh $inc
func (s *UserService) IncStatistics(ctx context.Context, id primitive.ObjectID, deltas map[string]int64) error {
	inc := make(map[string]interface{}, len(deltas))
	for k, v := range deltas {
		inc["statistics."+k] = v
	}
	_, err := s.UpdateById(ctx, id, &basesvc.UpdateData{Inc: inc})
	return err
}

// UpdateProfile cập nhật name/department/position/bio
func (s *UserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, in dto.UpdateProfileInput) (models.User, error) {
	set := map[string]interface{}{}
	if in.Name != nil {
		set["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Department != nil {
		set["department"] = strings.TrimSpace(*in.Department)
	}
	if in.Position != nil {
		set["position"] = *in.Position
	}
	if in.Bio != nil {
		set["bio"] = *in.Bio
	}
	if len(set) == 0 {
		return s.FindByID(ctx, id)
	}
	return s.UpdateById(ctx, id, &basesvc.UpdateData{Set: set})
}

// UpdateSettings cập nhật một phần settings và trả về settings mới
func (s *UserService) UpdateSettings(ctx context.Context, id primitive.ObjectID, in dto.UpdateSettingsInput) (models.UserSettings, error) {
	set := in.ToSet()
	var (
		user models.User
		err  error
	)
	if len(set) == 0 {
		user, err = s.FindByID(ctx, id)
	} else {
		user, err = s.UpdateById(ctx, id, &basesvc.UpdateData{Set: set})
	}
	if err != nil {
		return models.UserSettings{}, err
	}
	return user.Settings, nil
}

// SetPassword lưu hash mật khẩu mới
func (s *UserService) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	_, err := s.UpdateById(ctx, id, &basesvc.UpdateData{Set: map[string]interface{}{"password": hash}})
	return err
}

// SetAvatar lưu URL ảnh đại diện
func (s *UserService) SetAvatar(ctx context.Context, id primitive.ObjectID, url string) (models.User, error) {
	return s.UpdateById(ctx, id, &basesvc.UpdateData{Set: map[string]interface{}{"avatar": url}})
}

// SetRole đổi vai trò người dùng
func (s *UserService) SetRole(ctx context.Context, id primitive.ObjectID, role string) (models.User, error) {
	user, err := s.UpdateById(ctx, id, &basesvc.UpdateData{Set: map[string]interface{}{"role": role}})
	if common.IsNotFound(err) {
		return user, common.ErrUserNotFound
	}
	return user, err
}

// TeamMembers trả về các user cùng phòng ban, chỉ gồm các trường công khai
func (s *UserService) TeamMembers(ctx context.Context, department string) ([]models.User, error) {
	opts := options.Find().
		SetProjection(bson.M{"name": 1, "email": 1, "role": 1, "department": 1, "position": 1, "avatar": 1}).
		SetSort(bson.D{{Key: "name", Value: 1}})
	return s.Find(ctx, bson.M{"department": department}, opts)
}

// PushActivity thêm activity vào user.activities, chỉ giữ MaxUserActivities bản ghi mới nhất
func (s *UserService) PushActivity(ctx context.Context, id primitive.ObjectID, activity models.UserActivity) error {
	_, err := s.UpdateById(ctx, id, &basesvc.UpdateData{
		Push: map[string]interface{}{
			"activities": bson.M{
				"$each":  []models.UserActivity{activity},
				"$slice": -models.MaxUserActivities,
			},
		},
	})
	return err
}

// PublicByIDs trả về name/department/avatar của các user theo id, dùng để làm giàu danh sách
func (s *UserService) PublicByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	out := make(map[primitive.ObjectID]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	opts := options.Find().SetProjection(bson.M{"name": 1, "department": 1, "avatar": 1})
	users, err := s.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (s *UserService) idsWhere(ctx context.Context, filter bson.M) ([]primitive.ObjectID, error) {
	users, err := s.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids, nil
}

// IDsByRole trả về id các user có role
func (s *UserService) IDsByRole(ctx context.Context, role string) ([]primitive.ObjectID, error) {
	return s.idsWhere(ctx, bson.M{"role": role})
}

// IDsByDepartment trả về id các user thuộc phòng ban
func (s *UserService) IDsByDepartment(ctx context.Context, department string) ([]primitive.ObjectID, error) {
	return s.idsWhere(ctx, bson.M{"department": department})
}

// AllIDs trả về id toàn bộ user
func (s *UserService) AllIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	return s.idsWhere(ctx, bson.M{})
}
