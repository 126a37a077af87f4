// Package activitysvc ghi nhận và truy vấn Activity.
// Record chèn Activity bất biến rồi đẩy bản rút gọn vào user.activities (giữ 50 bản mới nhất).
package activitysvc

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/activity/models"
	authmodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/models"
	basemodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/base/models"
	basesvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/base/service"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/events"
	reportsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/report/service"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/common"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/database"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/global"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/logger"
)

// Users là phần của UserService mà activity cần
type Users interface {
	PushActivity(ctx context.Context, id primitive.ObjectID, activity authmodels.UserActivity) error
	PublicByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]authmodels.User, error)
}

// Input mô tả một activity cần ghi
type Input struct {
	Type       string
	Action     string
	EntityID   *primitive.ObjectID
	EntityType string
	Details    map[string]interface{}
	Private    bool
}

// Filter lọc danh sách activity
type Filter struct {
	Type  string
	Range reportsvc.TimeRange
}

func (f Filter) query() bson.M {
	q := reportsvc.On(global.MongoDB_ColNames.Activities).Between("timestamp", f.Range)
	if f.Type != "" {
		q = q.Where(bson.M{"type": f.Type})
	}
	return q.MatchFilter()
}

// ActivityService là service quản lý activity
type ActivityService struct {
	*basesvc.BaseServiceMongoImpl[models.Activity]
	users   Users
	reports *reportsvc.ReportService
}

// NewActivityService tạo ActivityService
func NewActivityService(store *database.Store, bus *events.Bus, users Users, reports *reportsvc.ReportService) *ActivityService {
	coll := store.Collection(global.MongoDB_ColNames.Activities)
	return &ActivityService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Activity](coll, bus),
		users:                users,
		reports:              reports,
	}
}

// Record chèn Activity và đẩy bản rút gọn vào user.activities
func (s *ActivityService) Record(ctx context.Context, userID primitive.ObjectID, in Input) (models.Activity, error) {
	now := s.Now()
	activity, err := s.InsertOne(ctx, models.Activity{
		User:      userID,
		Type:      in.Type,
		Action:    in.Action,
		Timestamp: now,
		Metadata: models.ActivityMetadata{
			EntityID:   in.EntityID,
			EntityType: in.EntityType,
			Details:    in.Details,
		},
		Public: !in.Private,
	})
	if err != nil {
		return models.Activity{}, err
	}

	mirror := authmodels.UserActivity{Action: in.Action, Timestamp: now}
	if in.EntityID != nil || in.EntityType != "" {
		mirror.Metadata = map[string]interface{}{"entityType": in.EntityType}
		if in.EntityID != nil {
			mirror.Metadata["entityId"] = *in.EntityID
		}
	}
	if err := s.users.PushActivity(ctx, userID, mirror); err != nil {
		return activity, err
	}
	return activity, nil
}

// Track giống Record nhưng chỉ log lỗi, không làm hỏng request chính
func (s *ActivityService) Track(ctx context.Context, userID primitive.ObjectID, in Input) {
	if _, err := s.Record(ctx, userID, in); err != nil {
		logger.WithModuleAndCollection("activity", global.MongoDB_ColNames.Activities).
			WithError(err).
			WithField("user_id", userID.Hex()).
			WithField("type", in.Type).
			Warn("Failed to record activity")
	}
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}})
}

// withUsers gắn thông tin công khai của người thực hiện vào từng activity
func (s *ActivityService) withUsers(ctx context.Context, items []models.Activity) ([]models.ActivityView, error) {
	ids := make([]primitive.ObjectID, 0, len(items))
	seen := map[primitive.ObjectID]bool{}
	for _, a := range items {
		if !seen[a.User] {
			seen[a.User] = true
			ids = append(ids, a.User)
		}
	}
	users, err := s.users.PublicByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	views := make([]models.ActivityView, 0, len(items))
	for _, a := range items {
		v := models.ActivityView{Activity: a}
		if u, ok := users[a.User]; ok {
			v.UserInfo = &models.UserInfo{Name: u.Name, Department: u.Department, Avatar: u.Avatar}
		}
		views = append(views, v)
	}
	return views, nil
}

func (s *ActivityService) page(ctx context.Context, filter bson.M, page, limit int64) (*basemodels.PaginateResult[models.ActivityView], error) {
	result, err := s.FindWithPagination(ctx, filter, page, limit, newestFirst())
	if err != nil {
		return nil, err
	}
	views, err := s.withUsers(ctx, result.Items)
	if err != nil {
		return nil, err
	}
	return basemodels.NewPaginateResult(views, result.Page, result.Limit, result.Total), nil
}

// List trả về activity theo bộ lọc, mới nhất trước
func (s *ActivityService) List(ctx context.Context, f Filter, page, limit int64) (*basemodels.PaginateResult[models.ActivityView], error) {
	return s.page(ctx, f.query(), page, limit)
}

// ListByUser trả về activity của một user
func (s *ActivityService) ListByUser(ctx context.Context, userID primitive.ObjectID, page, limit int64) (*basemodels.PaginateResult[models.ActivityView], error) {
	return s.page(ctx, bson.M{"user": userID}, page, limit)
}

// ListByType trả về activity của một loại
func (s *ActivityService) ListByType(ctx context.Context, activityType string, page, limit int64) (*basemodels.PaginateResult[models.ActivityView], error) {
	return s.page(ctx, bson.M{"type": activityType}, page, limit)
}

// Recent trả về n activity mới nhất, dùng cho dashboard
func (s *ActivityService) Recent(ctx context.Context, n int64) ([]models.ActivityView, error) {
	items, err := s.Find(ctx, bson.M{}, newestFirst().SetLimit(n))
	if err != nil {
		return nil, err
	}
	return s.withUsers(ctx, items)
}

// UserActivityEntry là một dòng top người dùng hoạt động nhiều nhất
type UserActivityEntry struct {
	UserID        string      `json:"userId"`
	Name          interface{} `json:"name"`
	Department    interface{} `json:"department"`
	ActivityCount int64       `json:"activityCount"`
}

// Analytics là kết quả GET /activities/analytics
type Analytics struct {
	TypeDistribution []reportsvc.GroupPercentage `json:"typeDistribution"`
	UserActivity     []UserActivityEntry         `json:"userActivity"`
	TimelineData     []reportsvc.Bucket          `json:"timelineData"`
}

// TopUsersLimit số user trong bảng userActivity
const TopUsersLimit = 10

// Analytics chạy ba phép tổng hợp song song trên cùng khoảng thời gian
func (s *ActivityService) Analytics(ctx context.Context, r reportsvc.TimeRange) (*Analytics, error) {
	q := reportsvc.On(global.MongoDB_ColNames.Activities).Between("timestamp", r)
	results, err := reportsvc.RunConcurrently(ctx, map[string]reportsvc.Job{
		"typeDistribution": func(ctx context.Context) (interface{}, error) {
			return s.reports.RunGroupCountWithPercentage(ctx, q, reportsvc.ByField("type"))
		},
		"userActivity": func(ctx context.Context) (interface{}, error) {
			return s.reports.RunTopN(ctx, q, reportsvc.ByField("user"), TopUsersLimit, &reportsvc.JoinSpec{
				From:   global.MongoDB_ColNames.Users,
				Fields: []string{"name", "department"},
			})
		},
		"timelineData": func(ctx context.Context) (interface{}, error) {
			return s.reports.RunTimeBuckets(ctx, q, "timestamp", reportsvc.GranularityDay)
		},
	})
	if err != nil {
		return nil, err
	}

	top := results["userActivity"].([]reportsvc.TopEntry)
	users := make([]UserActivityEntry, 0, len(top))
	for _, e := range top {
		users = append(users, UserActivityEntry{
			UserID:        e.Key,
			Name:          e.Fields["name"],
			Department:    e.Fields["department"],
			ActivityCount: e.Count,
		})
	}
	return &Analytics{
		TypeDistribution: results["typeDistribution"].([]reportsvc.GroupPercentage),
		UserActivity:     users,
		TimelineData:     results["timelineData"].([]reportsvc.Bucket),
	}, nil
}

// IsValidType kiểm tra loại activity
func IsValidType(t string) bool {
	for _, v := range models.Types() {
		if v == t {
			return true
		}
	}
	return false
}

// ErrInvalidType loại activity không hợp lệ
var ErrInvalidType = common.BadRequest("Invalid activity type", nil)
