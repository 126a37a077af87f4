// Package notifsvc tạo notification cho người nhận và gửi email tương ứng qua hook trên event bus.
package notifsvc

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	authmodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/models"
	basemodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/base/models"
	basesvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/base/service"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/events"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/notification/dto"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/notification/models"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/common"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/database"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/global"
)

// ErrNotificationNotFound notification không tồn tại hoặc không thuộc người dùng
var ErrNotificationNotFound = common.NotFound("Notification not found")

// Audience tra cứu người nhận theo vai trò, phòng ban hoặc toàn bộ
type Audience interface {
	IDsByRole(ctx context.Context, role string) ([]primitive.ObjectID, error)
	IDsByDepartment(ctx context.Context, department string) ([]primitive.ObjectID, error)
	AllIDs(ctx context.Context) ([]primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (authmodels.User, error)
}

// Input là nội dung một notification, dùng chung cho mọi người nhận
type Input struct {
	Title      string
	Message    string
	Type       string
	Priority   string
	EntityID   *primitive.ObjectID
	EntityType string
	Data       map[string]interface{}
	ExpiresAt  *time.Time
}

// NotificationService là service quản lý notification
type NotificationService struct {
	*basesvc.BaseServiceMongoImpl[models.Notification]
	audience Audience
}

// NewNotificationService tạo NotificationService
func NewNotificationService(store *database.Store, bus *events.Bus, audience Audience) *NotificationService {
	coll := store.Collection(global.MongoDB_ColNames.Notifications)
	return &NotificationService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Notification](coll, bus),
		audience:             audience,
	}
}

// Dispatch tạo một notification cho mỗi người nhận bằng một lệnh InsertMany.
// Người nhận trùng lặp hoặc id rỗng bị bỏ qua.
func (s *NotificationService) Dispatch(ctx context.Context, recipients []primitive.ObjectID, in Input) ([]models.Notification, error) {
	priority := in.Priority
	if priority == "" {
		priority = models.PriorityNormal
	}
	seen := make(map[primitive.ObjectID]bool, len(recipients))
	docs := make([]models.Notification, 0, len(recipients))
	for _, id := range recipients {
		if id.IsZero() || seen[id] {
			continue
		}
		seen[id] = true
		docs = append(docs, models.Notification{
			User:     id,
			Title:    in.Title,
			Message:  in.Message,
			Type:     in.Type,
			Priority: priority,
			Metadata: models.NotificationMetadata{
				EntityID:       in.EntityID,
				EntityType:     in.EntityType,
				AdditionalData: in.Data,
			},
			ExpiresAt: in.ExpiresAt,
		})
	}
	if len(docs) == 0 {
		return []models.Notification{}, nil
	}
	return s.InsertMany(ctx, docs)
}

func (s *NotificationService) dispatchTo(ctx context.Context, ids []primitive.ObjectID, err error, in Input) (int, error) {
	if err != nil {
		return 0, err
	}
	created, err := s.Dispatch(ctx, ids, in)
	return len(created), err
}

// ToRole gửi cho mọi user có role
func (s *NotificationService) ToRole(ctx context.Context, role string, in Input) (int, error) {
	ids, err := s.audience.IDsByRole(ctx, role)
	return s.dispatchTo(ctx, ids, err, in)
}

// ToDepartment gửi cho mọi user thuộc phòng ban
func (s *NotificationService) ToDepartment(ctx context.Context, department string, in Input) (int, error) {
	ids, err := s.audience.IDsByDepartment(ctx, department)
	return s.dispatchTo(ctx, ids, err, in)
}

// ToAll gửi cho toàn bộ user
func (s *NotificationService) ToAll(ctx context.Context, in Input) (int, error) {
	ids, err := s.audience.AllIDs(ctx)
	return s.dispatchTo(ctx, ids, err, in)
}

// ListResult là một trang notification kèm số chưa đọc
type ListResult struct {
	*basemodels.PaginateResult[models.Notification]
	UnreadCount int64 `json:"unreadCount"`
}

// List trả về notification của user, mới nhất trước
func (s *NotificationService) List(ctx context.Context, userID primitive.ObjectID, q dto.ListQuery, page, limit int64) (*ListResult, error) {
	filter := bson.M{"user": userID}
	if q.Type != "" {
		filter["type"] = q.Type
	}
	if q.Read != "" {
		filter["read"] = q.Read == "true"
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	result, err := s.FindWithPagination(ctx, filter, page, limit, opts)
	if err != nil {
		return nil, err
	}
	unread, err := s.CountDocuments(ctx, bson.M{"user": userID, "read": false})
	if err != nil {
		return nil, err
	}
	return &ListResult{PaginateResult: result, UnreadCount: unread}, nil
}

// MarkRead đánh dấu đã đọc một notification của user
func (s *NotificationService) MarkRead(ctx context.Context, userID, id primitive.ObjectID) (models.Notification, error) {
	n, err := s.FindOneAndUpdate(ctx, bson.M{"_id": id, "user": userID}, bson.M{"$set": bson.M{"read": true}}, nil)
	if common.IsNotFound(err) {
		return n, ErrNotificationNotFound
	}
	return n, err
}

// MarkAllRead đánh dấu đã đọc mọi notification của user, trả về số bản ghi đã đổi
func (s *NotificationService) MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.UpdateMany(ctx, bson.M{"user": userID, "read": false}, bson.M{"$set": bson.M{"read": true}})
}

// Remove xoá notification của chính user
func (s *NotificationService) Remove(ctx context.Context, userID, id primitive.ObjectID) error {
	err := s.DeleteOne(ctx, bson.M{"_id": id, "user": userID})
	if common.IsNotFound(err) {
		return ErrNotificationNotFound
	}
	return err
}
