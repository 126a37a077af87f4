// Package ideasvc quản lý vòng đời Idea: gửi, bình chọn, góp ý, duyệt và thống kê.
//
// Bình chọn dùng một lệnh FindOneAndUpdate có điều kiện votes: {$ne: uid}
// nên voteCount luôn bằng len(votes) kể cả khi nhiều request chạy song song.
package ideasvc

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	activitymodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/activity/models"
	activitysvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/activity/service"
	authmodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/models"
	authsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/service"
	basemodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/base/models"
	basesvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/base/service"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/events"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/idea/dto"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/idea/models"
	notifmodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/notification/models"
	notifsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/notification/service"
	reportsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/report/service"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/common"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/database"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/global"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/logger"
)

const entityType = "Idea"

var (
	ErrIdeaNotFound  = common.NotFound("Idea not found")
	ErrAlreadyVoted  = common.Conflict("Already voted")
	ErrNotSubmitter  = common.Forbidden("Not authorized to update this idea")
	ErrIdeaLocked    = common.NewError(common.ErrCodeBusinessState, "Only pending ideas can be edited", common.StatusConflict, nil)
	ErrNothingToSave = common.BadRequest("No fields to update", nil)
)

// Deps gom các service mà IdeaService dùng cho hiệu ứng phụ
type Deps struct {
	Users         *authsvc.UserService
	Incentives    *authsvc.IncentiveService
	Activities    *activitysvc.ActivityService
	Notifications *notifsvc.NotificationService
	Reports       *reportsvc.ReportService
}

// IdeaService là service quản lý idea
type IdeaService struct {
	*basesvc.BaseServiceMongoImpl[models.Idea]
	Deps
}

// NewIdeaService tạo IdeaService
func NewIdeaService(store *database.Store, bus *events.Bus, deps Deps) *IdeaService {
	coll := store.Collection(global.MongoDB_ColNames.Ideas)
	return &IdeaService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Idea](coll, bus),
		Deps:                 deps,
	}
}

func (s *IdeaService) notify(ctx context.Context, to primitive.ObjectID, idea models.Idea, title, message, kind string) {
	id := idea.ID
	_, err := s.Notifications.Dispatch(ctx, []primitive.ObjectID{to}, notifsvc.Input{
		Title:      title,
		Message:    message,
		Type:       kind,
		EntityID:   &id,
		EntityType: entityType,
	})
	if err != nil {
		logger.WithModuleAndCollection("idea", global.MongoDB_ColNames.Ideas).
			WithError(err).WithField("idea_id", idea.ID.Hex()).Warn("Failed to notify submitter")
	}
}

func (s *IdeaService) track(ctx context.Context, userID primitive.ObjectID, idea models.Idea, kind, action string, details map[string]interface{}) {
	id := idea.ID
	s.Activities.Track(ctx, userID, activitysvc.Input{
		Type:       kind,
		Action:     action,
		EntityID:   &id,
		EntityType: entityType,
		Details:    details,
	})
}

// Create tạo idea ở trạng thái pending và tăng statistics.ideasSubmitted
func (s *IdeaService) Create(ctx context.Context, author authmodels.User, in dto.CreateIdeaInput) (models.Idea, error) {
	department := in.Department
	if department == "" {
		department = author.Department
	}
	idea, err := s.InsertOne(ctx, models.Idea{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Department:  department,
		SubmittedBy: author.ID,
		Status:      models.StatusPending,
		Votes:       []primitive.ObjectID{},
		Feedback:    []models.Feedback{},
	})
	if err != nil {
		return idea, err
	}
	if err := s.Users.IncStatistics(ctx, author.ID, map[string]int64{"ideasSubmitted": 1}); err != nil {
		logger.WithModuleAndCollection("idea", global.MongoDB_ColNames.Users).
			WithError(err).WithField("user_id", author.ID.Hex()).Warn("Failed to update submitter statistics")
	}
	s.track(ctx, author.ID, idea, activitymodels.TypeIdeaSubmission, "Submitted idea: "+idea.Title, nil)
	return idea, nil
}

func (s *IdeaService) withSubmitters(ctx context.Context, items []models.Idea) ([]models.IdeaView, error) {
	ids := make([]primitive.ObjectID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.SubmittedBy)
	}
	users, err := s.Users.PublicByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	views := make([]models.IdeaView, 0, len(items))
	for _, it := range items {
		v := models.IdeaView{Idea: it}
		if u, ok := users[it.SubmittedBy]; ok {
			v.Submitter = &models.Submitter{Name: u.Name, Department: u.Department, Avatar: u.Avatar}
		}
		views = append(views, v)
	}
	return views, nil
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
}

func (s *IdeaService) page(ctx context.Context, filter bson.M, page, limit int64) (*basemodels.PaginateResult[models.IdeaView], error) {
	result, err := s.FindWithPagination(ctx, filter, page, limit, newestFirst())
	if err != nil {
		return nil, err
	}
	views, err := s.withSubmitters(ctx, result.Items)
	if err != nil {
		return nil, err
	}
	return basemodels.NewPaginateResult(views, result.Page, result.Limit, result.Total), nil
}

// List trả về idea theo bộ lọc, mới nhất trước
func (s *IdeaService) List(ctx context.Context, q dto.ListQuery, page, limit int64) (*basemodels.PaginateResult[models.IdeaView], error) {
	filter := bson.M{}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.Department != "" {
		filter["department"] = q.Department
	}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	return s.page(ctx, filter, page, limit)
}

// Pending trả về idea đang chờ duyệt
func (s *IdeaService) Pending(ctx context.Context, page, limit int64) (*basemodels.PaginateResult[models.IdeaView], error) {
	return s.page(ctx, bson.M{"status": models.StatusPending}, page, limit)
}

// Recent trả về n idea mới nhất
func (s *IdeaService) Recent(ctx context.Context, n int64) ([]models.IdeaView, error) {
	items, err := s.Find(ctx, bson.M{}, newestFirst().SetLimit(n))
	if err != nil {
		return nil, err
	}
	return s.withSubmitters(ctx, items)
}

// Get lấy một idea
func (s *IdeaService) Get(ctx context.Context, id primitive.ObjectID) (models.IdeaView, error) {
	idea, err := s.FindOneById(ctx, id)
	if common.IsNotFound(err) {
		return models.IdeaView{}, ErrIdeaNotFound
	}
	if err != nil {
		return models.IdeaView{}, err
	}
	views, err := s.withSubmitters(ctx, []models.Idea{idea})
	if err != nil {
		return models.IdeaView{}, err
	}
	return views[0], nil
}

func (s *IdeaService) update(ctx context.Context, filter bson.M, update interface{}) (models.Idea, error) {
	idea, err := s.FindOneAndUpdate(ctx, filter, update, nil)
	if common.IsNotFound(err) {
		return idea, ErrIdeaNotFound
	}
	return idea, err
}

// Update sửa idea; chỉ người gửi và chỉ khi idea còn pending
func (s *IdeaService) Update(ctx context.Context, actor authmodels.User, id primitive.ObjectID, in dto.UpdateIdeaInput) (models.Idea, error) {
	set := in.ToSet()
	if len(set) == 0 {
		return models.Idea{}, ErrNothingToSave
	}
	filter := bson.M{"_id": id, "submittedBy": actor.ID, "status": models.StatusPending}
	idea, err := s.FindOneAndUpdate(ctx, filter, &basesvc.UpdateData{Set: set}, nil)
	if common.IsNotFound(err) {
		current, ferr := s.FindOneById(ctx, id)
		switch {
		case common.IsNotFound(ferr):
			return idea, ErrIdeaNotFound
		case ferr != nil:
			return idea, ferr
		case current.SubmittedBy != actor.ID:
			return idea, ErrNotSubmitter
		default:
			return idea, ErrIdeaLocked
		}
	}
	if err != nil {
		return idea, err
	}
	s.track(ctx, actor.ID, idea, activitymodels.TypeIdeaUpdate, "Updated idea: "+idea.Title, nil)
	return idea, nil
}

// Vote thêm phiếu của user. Lần bình chọn thứ hai trả về ErrAlreadyVoted và không đổi voteCount.
func (s *IdeaService) Vote(ctx context.Context, userID, id primitive.ObjectID) (models.Idea, error) {
	idea, err := s.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "votes": bson.M{"$ne": userID}},
		&basesvc.UpdateData{
			AddToSet: map[string]interface{}{"votes": userID},
			Inc:      map[string]interface{}{"voteCount": 1},
		}, nil)
	if common.IsNotFound(err) {
		exists, ferr := s.DocumentExists(ctx, bson.M{"_id": id})
		if ferr != nil {
			return idea, ferr
		}
		if !exists {
			return idea, ErrIdeaNotFound
		}
		return idea, ErrAlreadyVoted
	}
	if err != nil {
		return idea, err
	}
	if err := s.Users.IncStatistics(ctx, idea.SubmittedBy, map[string]int64{"votesReceived": 1}); err != nil {
		logger.WithModuleAndCollection("idea", global.MongoDB_ColNames.Users).
			WithError(err).WithField("user_id", idea.SubmittedBy.Hex()).Warn("Failed to update votesReceived")
	}
	s.track(ctx, userID, idea, activitymodels.TypeVote, "Voted on idea: "+idea.Title, nil)
	return idea, nil
}

// AddFeedback thêm góp ý và báo cho người gửi
func (s *IdeaService) AddFeedback(ctx context.Context, actor authmodels.User, id primitive.ObjectID, in dto.FeedbackInput) (models.Idea, error) {
	kind := in.Type
	if kind == "" {
		kind = "comment"
	}
	idea, err := s.update(ctx, bson.M{"_id": id}, &basesvc.UpdateData{
		Push: map[string]interface{}{"feedback": models.Feedback{
			User:      actor.ID,
			Comment:   in.Comment,
			Type:      kind,
			CreatedAt: s.Now(),
		}},
	})
	if err != nil {
		return idea, err
	}
	s.track(ctx, actor.ID, idea, activitymodels.TypeComment, "Commented on idea: "+idea.Title, nil)
	s.notify(ctx, idea.SubmittedBy, idea, "New feedback on your idea",
		fmt.Sprintf("%s commented on \"%s\"", actor.Name, idea.Title), notifmodels.TypeComment)
	return idea, nil
}

// UpdateStatus đổi trạng thái, báo cho người gửi và trao thưởng khi chuyển sang implemented.
// Chuyển sang implemented được lọc bằng status $ne nên chỉ một request thắng và được thưởng.
func (s *IdeaService) UpdateStatus(ctx context.Context, actor authmodels.User, id primitive.ObjectID, in dto.UpdateStatusInput) (models.Idea, error) {
	before, err := s.FindOneById(ctx, id)
	if common.IsNotFound(err) {
		return before, ErrIdeaNotFound
	}
	if err != nil {
		return before, err
	}

	set := map[string]interface{}{"status": in.Status}
	if in.ImplementationNotes != "" {
		set["implementationNotes"] = in.ImplementationNotes
	}
	update := &basesvc.UpdateData{Set: set}

	implemented := false
	var idea models.Idea
	if in.Status == models.StatusImplemented {
		idea, err = s.update(ctx, bson.M{"_id": id, "status": bson.M{"$ne": models.StatusImplemented}}, update)
		implemented = err == nil
		if errors.Is(err, ErrIdeaNotFound) {
			// đã implemented từ trước (hoặc bởi request song song)
			idea, err = s.update(ctx, bson.M{"_id": id}, update)
		}
	} else {
		idea, err = s.update(ctx, bson.M{"_id": id}, update)
	}
	if err != nil {
		return idea, err
	}

	s.track(ctx, actor.ID, idea, activitymodels.TypeIdeaUpdate,
		fmt.Sprintf("Changed idea status to %s", in.Status),
		map[string]interface{}{"from": before.Status, "to": in.Status})
	s.notify(ctx, idea.SubmittedBy, idea, "Idea status updated",
		fmt.Sprintf("Your idea \"%s\" is now %s", idea.Title, in.Status), notifmodels.TypeIdea)

	if implemented {
		if _, err := s.Incentives.AwardImplementation(ctx, idea.SubmittedBy, idea.ID, idea.Title); err != nil {
			logger.WithModuleAndCollection("idea", global.MongoDB_ColNames.Incentives).
				WithError(err).WithField("idea_id", idea.ID.Hex()).Error("Failed to award implementation incentive")
		}
	}
	return idea, nil
}

// Evaluate ghi đánh giá của innovation manager
func (s *IdeaService) Evaluate(ctx context.Context, actor authmodels.User, id primitive.ObjectID, in dto.EvaluateInput) (models.Idea, error) {
	idea, err := s.update(ctx, bson.M{"_id": id}, &basesvc.UpdateData{Set: map[string]interface{}{
		"evaluation": models.Evaluation{
			Score:       *in.Score,
			Comments:    in.Comments,
			EvaluatedBy: actor.ID,
			EvaluatedAt: s.Now(),
		},
	}})
	if err != nil {
		return idea, err
	}
	s.track(ctx, actor.ID, idea, activitymodels.TypeIdeaUpdate, "Evaluated idea: "+idea.Title,
		map[string]interface{}{"score": *in.Score})
	return idea, nil
}

// UpdateMarketingCampaign gộp các field của marketingCampaign
func (s *IdeaService) UpdateMarketingCampaign(ctx context.Context, id primitive.ObjectID, in dto.MarketingCampaignInput) (models.Idea, error) {
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return models.Idea{}, common.BadRequest("endDate must not be before startDate", nil)
	}
	set := in.ToSet()
	if len(set) == 0 {
		return models.Idea{}, ErrNothingToSave
	}
	return s.update(ctx, bson.M{"_id": id}, &basesvc.UpdateData{Set: set})
}
