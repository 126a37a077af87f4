// Package trainingsvc quản lý khoá đào tạo và ghi danh.
//
// Ghi danh là một lệnh FindOneAndUpdate có điều kiện (chưa ghi danh và còn chỗ),
// nên enrolledUsers không bao giờ vượt capacity dù nhiều request đến cùng lúc.
package trainingsvc

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	activitymodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/activity/models"
	activitysvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/activity/service"
	authmodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/models"
	basemodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/base/models"
	basesvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/base/service"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/events"
	notifmodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/notification/models"
	notifsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/notification/service"
	reportsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/report/service"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/training/dto"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/training/models"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/common"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/database"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/global"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/logger"
)

const entityType = "Training"

var (
	ErrTrainingNotFound = common.NotFound("Training not found")
	ErrAlreadyEnrolled  = common.Conflict("Already enrolled in this training")
	ErrTrainingFull     = common.NewError(common.ErrCodeBusinessState, "Training is at full capacity", common.StatusConflict, nil)
	ErrNotEnrolled      = common.BadRequest("Not enrolled in this training", nil)
	ErrNotCompleted     = common.BadRequest("Training not completed", nil)
	ErrCapacityTooLow   = common.NewError(common.ErrCodeBusinessState, "Capacity cannot be lower than the number of enrolled users", common.StatusConflict, nil)
	ErrNothingToSave    = common.BadRequest("No fields to update", nil)
)

// TrainingService là service quản lý training
type TrainingService struct {
	*basesvc.BaseServiceMongoImpl[models.Training]
	activities    *activitysvc.ActivityService
	notifications *notifsvc.NotificationService
	reports       *reportsvc.ReportService
}

// NewTrainingService tạo TrainingService
func NewTrainingService(store *database.Store, bus *events.Bus, activities *activitysvc.ActivityService, notifications *notifsvc.NotificationService, reports *reportsvc.ReportService) *TrainingService {
	coll := store.Collection(global.MongoDB_ColNames.Trainings)
	return &TrainingService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Training](coll, bus),
		activities:           activities,
		notifications:        notifications,
		reports:              reports,
	}
}

func (s *TrainingService) track(ctx context.Context, userID primitive.ObjectID, t models.Training, kind, action string) {
	id := t.ID
	s.activities.Track(ctx, userID, activitysvc.Input{Type: kind, Action: action, EntityID: &id, EntityType: entityType})
}

// Create tạo khoá học và báo cho phòng ban liên quan
func (s *TrainingService) Create(ctx context.Context, actor authmodels.User, in dto.CreateTrainingInput) (models.Training, error) {
	status := in.Status
	if status == "" {
		status = models.StatusUpcoming
	}
	training, err := s.InsertOne(ctx, models.Training{
		Title:         in.Title,
		Description:   in.Description,
		Type:          in.Type,
		Department:    in.Department,
		Status:        status,
		StartDate:     in.StartDate.UTC(),
		EndDate:       in.EndDate.UTC(),
		Capacity:      in.Capacity,
		EnrolledUsers: []models.Enrollment{},
		CreatedBy:     actor.ID,
	})
	if err != nil {
		return training, err
	}

	id := training.ID
	if _, err := s.notifications.ToDepartment(ctx, training.Department, notifsvc.Input{
		Title:      "New training available",
		Message:    fmt.Sprintf("%s starts on %s", training.Title, training.StartDate.Format("2006-01-02")),
		Type:       notifmodels.TypeAnnouncement,
		EntityID:   &id,
		EntityType: entityType,
	}); err != nil {
		logger.WithModuleAndCollection("training", global.MongoDB_ColNames.Notifications).
			WithError(err).WithField("department", training.Department).Warn("Failed to notify department")
	}
	return training, nil
}

// List trả về khoá học theo bộ lọc, sắp theo ngày bắt đầu
func (s *TrainingService) List(ctx context.Context, q dto.ListQuery, page, limit int64) (*basemodels.PaginateResult[models.Training], error) {
	filter := bson.M{}
	if q.Department != "" {
		filter["department"] = q.Department
	}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.Type != "" {
		filter["type"] = q.Type
	}
	opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: 1}, {Key: "_id", Value: 1}})
	return s.FindWithPagination(ctx, filter, page, limit, opts)
}

// MyTrainings trả về các khoá user đã ghi danh
func (s *TrainingService) MyTrainings(ctx context.Context, userID primitive.ObjectID) ([]models.Training, error) {
	opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: 1}})
	return s.Find(ctx, bson.M{"enrolledUsers.user": userID}, opts)
}

// Get lấy một khoá học
func (s *TrainingService) Get(ctx context.Context, id primitive.ObjectID) (models.Training, error) {
	t, err := s.FindOneById(ctx, id)
	if common.IsNotFound(err) {
		return t, ErrTrainingNotFound
	}
	return t, err
}

// Update sửa khoá học. Capacity mới không được nhỏ hơn số người đã ghi danh.
func (s *TrainingService) Update(ctx context.Context, id primitive.ObjectID, in dto.UpdateTrainingInput) (models.Training, error) {
	set := in.ToSet()
	if len(set) == 0 {
		return models.Training{}, ErrNothingToSave
	}
	filter := bson.M{"_id": id}
	if in.Capacity != nil {
		filter["$expr"] = bson.M{"$lte": bson.A{bson.M{"$size": "$enrolledUsers"}, *in.Capacity}}
	}
	t, err := s.FindOneAndUpdate(ctx, filter, &basesvc.UpdateData{Set: set}, nil)
	if common.IsNotFound(err) {
		if _, gerr := s.Get(ctx, id); gerr != nil {
			return t, gerr
		}
		return t, ErrCapacityTooLow
	}
	return t, err
}

// Remove xoá khoá học
func (s *TrainingService) Remove(ctx context.Context, id primitive.ObjectID) error {
	err := s.DeleteById(ctx, id)
	if common.IsNotFound(err) {
		return ErrTrainingNotFound
	}
	return err
}

// Enroll ghi danh user. Khi không khớp, đọc lại để phân loại: không tồn tại, đã ghi danh hoặc hết chỗ.
func (s *TrainingService) Enroll(ctx context.Context, userID, id primitive.ObjectID) (models.Training, error) {
	filter := bson.M{
		"_id":                id,
		"enrolledUsers.user": bson.M{"$ne": userID},
		"$expr":              bson.M{"$lt": bson.A{bson.M{"$size": "$enrolledUsers"}, "$capacity"}},
	}
	update := &basesvc.UpdateData{Push: map[string]interface{}{
		"enrolledUsers": models.Enrollment{User: userID, Status: models.EnrollmentEnrolled, EnrollmentDate: s.Now()},
	}}
	t, err := s.FindOneAndUpdate(ctx, filter, update, nil)
	if common.IsNotFound(err) {
		current, gerr := s.Get(ctx, id)
		switch {
		case gerr != nil:
			return t, gerr
		case current.EnrollmentOf(userID) != nil:
			return t, ErrAlreadyEnrolled
		default:
			return t, ErrTrainingFull
		}
	}
	if err != nil {
		return t, err
	}
	s.track(ctx, userID, t, activitymodels.TypeTrainingEnrollment, "Enrolled in training: "+t.Title)
	return t, nil
}

// Complete đánh dấu hoàn thành cho user đang ghi danh. Gọi lại khi đã hoàn thành thì trả về khoá học như cũ.
func (s *TrainingService) Complete(ctx context.Context, userID, id primitive.ObjectID) (models.Training, error) {
	filter := bson.M{
		"_id":           id,
		"enrolledUsers": bson.M{"$elemMatch": bson.M{"user": userID, "status": models.EnrollmentEnrolled}},
	}
	update := &basesvc.UpdateData{Set: map[string]interface{}{
		"enrolledUsers.$.status":         models.EnrollmentCompleted,
		"enrolledUsers.$.completionDate": s.Now(),
	}}
	t, err := s.FindOneAndUpdate(ctx, filter, update, nil)
	if common.IsNotFound(err) {
		current, gerr := s.Get(ctx, id)
		if gerr != nil {
			return t, gerr
		}
		if e := current.EnrollmentOf(userID); e != nil && e.Status == models.EnrollmentCompleted {
			return current, nil
		}
		return t, ErrNotEnrolled
	}
	if err != nil {
		return t, err
	}
	s.track(ctx, userID, t, activitymodels.TypeTrainingCompletion, "Completed training: "+t.Title)
	return t, nil
}

// EnrollmentStatus trả về trạng thái ghi danh của user
func (s *TrainingService) EnrollmentStatus(ctx context.Context, userID, id primitive.ObjectID) (dto.EnrollmentStatus, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return dto.EnrollmentStatus{}, err
	}
	out := dto.EnrollmentStatus{SeatsLeft: t.Capacity - int64(len(t.EnrolledUsers))}
	if out.SeatsLeft < 0 {
		out.SeatsLeft = 0
	}
	if e := t.EnrollmentOf(userID); e != nil {
		out.Enrolled = true
		out.Status = e.Status
		out.EnrollmentDate = e.EnrollmentDate
		out.CompletionDate = e.CompletionDate
	}
	return out, nil
}

// CertificateURL đường dẫn chứng chỉ của user cho một khoá học
func CertificateURL(trainingID, userID primitive.ObjectID) string {
	return fmt.Sprintf("/certificates/%s_%s.pdf", trainingID.Hex(), userID.Hex())
}

// Certificate yêu cầu user đã hoàn thành khoá học
func (s *TrainingService) Certificate(ctx context.Context, userID, id primitive.ObjectID) (dto.Certificate, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return dto.Certificate{}, err
	}
	e := t.EnrollmentOf(userID)
	if e == nil {
		return dto.Certificate{}, ErrNotEnrolled
	}
	if e.Status != models.EnrollmentCompleted {
		return dto.Certificate{}, ErrNotCompleted
	}
	return dto.Certificate{CertificateURL: CertificateURL(t.ID, userID), CompletionDate: e.CompletionDate}, nil
}
