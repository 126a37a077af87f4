// Package campaignsvc quản lý chiến dịch marketing, chỉ số theo thời gian và báo cáo chia sẻ.
package campaignsvc

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	activitymodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/activity/models"
	activitysvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/activity/service"
	authmodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/models"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/policy"
	basemodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/base/models"
	basesvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/base/service"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/campaign/dto"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/campaign/models"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/events"
	notifmodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/notification/models"
	notifsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/notification/service"
	reportsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/report/service"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/common"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/database"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/global"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/logger"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/storage"
)

const (
	entityType = "Campaign"
	// recentMetricsLimit số bản ghi trả về cho GET /campaigns/metrics
	recentMetricsLimit = 30
)

var (
	ErrCampaignNotFound = common.NotFound("Campaign not found")
	ErrNothingToSave    = common.BadRequest("No fields to update", nil)
	ErrInvalidDates     = common.BadRequest("End date must not be before start date", nil)
)

// Deps các service mà CampaignService gọi sang
type Deps struct {
	Activities    *activitysvc.ActivityService
	Notifications *notifsvc.NotificationService
	Reports       *reportsvc.ReportService
	Storage       storage.Storage
}

// CampaignService là service quản lý campaign
type CampaignService struct {
	*basesvc.BaseServiceMongoImpl[models.Campaign]
	metrics *basesvc.BaseServiceMongoImpl[models.CampaignMetric]
	Deps
}

// NewCampaignService tạo CampaignService
func NewCampaignService(store *database.Store, bus *events.Bus, deps Deps) *CampaignService {
	return &CampaignService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Campaign](store.Collection(global.MongoDB_ColNames.Campaigns), bus),
		metrics:              basesvc.NewBaseServiceMongo[models.CampaignMetric](store.Collection(global.MongoDB_ColNames.CampaignMetrics), bus),
		Deps:                 deps,
	}
}

func (s *CampaignService) track(ctx context.Context, userID primitive.ObjectID, c models.Campaign, action string) {
	id := c.ID
	s.Activities.Track(ctx, userID, activitysvc.Input{
		Type:       activitymodels.TypeCampaignUpdate,
		Action:     action,
		EntityID:   &id,
		EntityType: entityType,
	})
}

func (s *CampaignService) notify(ctx context.Context, recipients []primitive.ObjectID, role string, in notifsvc.Input) {
	var err error
	if role != "" {
		_, err = s.Notifications.ToRole(ctx, role, in)
	} else {
		_, err = s.Notifications.Dispatch(ctx, recipients, in)
	}
	if err != nil {
		logger.WithModuleAndCollection("campaign", global.MongoDB_ColNames.Notifications).
			WithError(err).WithField("title", in.Title).Warn("Failed to dispatch campaign notification")
	}
}

// Create tạo campaign ở trạng thái draft (mặc định) và báo cho team marketing
func (s *CampaignService) Create(ctx context.Context, actor authmodels.User, in dto.CreateCampaignInput) (models.Campaign, error) {
	status := in.Status
	if status == "" {
		status = models.StatusDraft
	}
	channels, team, content := in.Channels, in.Team, in.Content
	if channels == nil {
		channels = []string{}
	}
	if team == nil {
		team = []models.TeamMember{}
	}
	if content == nil {
		content = []models.ContentItem{}
	}
	campaign, err := s.InsertOne(ctx, models.Campaign{
		Title:          in.Title,
		Description:    in.Description,
		Type:           in.Type,
		Status:         status,
		StartDate:      in.StartDate.UTC(),
		EndDate:        in.EndDate.UTC(),
		Budget:         in.Budget,
		TargetAudience: in.TargetAudience,
		Channels:       channels,
		Goals:          models.Metrics(in.Goals),
		CreatedBy:      actor.ID,
		Team:           team,
		Content:        content,
	})
	if err != nil {
		return campaign, err
	}

	id := campaign.ID
	s.notify(ctx, nil, policy.RoleMarketing, notifsvc.Input{
		Title:      "New Marketing Campaign",
		Message:    "New campaign created: " + campaign.Title,
		Type:       notifmodels.TypeCampaign,
		EntityID:   &id,
		EntityType: entityType,
	})
	s.track(ctx, actor.ID, campaign, "Created campaign: "+campaign.Title)
	return campaign, nil
}

// List lọc theo status/type, mới bắt đầu gần nhất lên trước
func (s *CampaignService) List(ctx context.Context, q dto.ListQuery, page, limit int64) (*basemodels.PaginateResult[models.Campaign], error) {
	filter := bson.M{}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.Type != "" {
		filter["type"] = q.Type
	}
	opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: -1}, {Key: "_id", Value: -1}})
	return s.FindWithPagination(ctx, filter, page, limit, opts)
}

// Get lấy một campaign
func (s *CampaignService) Get(ctx context.Context, id primitive.ObjectID) (models.Campaign, error) {
	c, err := s.FindOneById(ctx, id)
	if common.IsNotFound(err) {
		return c, ErrCampaignNotFound
	}
	return c, err
}

// Update sửa campaign. Khi chỉ đổi một đầu ngày, đầu còn lại được đọc từ DB để kiểm tra thứ tự.
func (s *CampaignService) Update(ctx context.Context, actor authmodels.User, id primitive.ObjectID, in dto.UpdateCampaignInput) (models.Campaign, error) {
	set := in.ToSet()
	if len(set) == 0 {
		return models.Campaign{}, ErrNothingToSave
	}
	if in.StartDate != nil || in.EndDate != nil {
		current, err := s.Get(ctx, id)
		if err != nil {
			return current, err
		}
		start, end := current.StartDate, current.EndDate
		if in.StartDate != nil {
			start = *in.StartDate
		}
		if in.EndDate != nil {
			end = *in.EndDate
		}
		if end.Before(start) {
			return models.Campaign{}, ErrInvalidDates
		}
	}
	c, err := s.FindOneAndUpdate(ctx, bson.M{"_id": id}, &basesvc.UpdateData{Set: set}, nil)
	if common.IsNotFound(err) {
		return c, ErrCampaignNotFound
	}
	if err != nil {
		return c, err
	}
	s.track(ctx, actor.ID, c, "Updated campaign: "+c.Title)
	return c, nil
}

// Remove xoá campaign; các CampaignMetric đã ghi được giữ lại
func (s *CampaignService) Remove(ctx context.Context, id primitive.ObjectID) error {
	err := s.DeleteById(ctx, id)
	if common.IsNotFound(err) {
		return ErrCampaignNotFound
	}
	return err
}

// RecordMetric thêm một CampaignMetric rồi cập nhật snapshot metrics của campaign.
// Snapshot chỉ được ghi khi metric mới không cũ hơn snapshot hiện tại.
func (s *CampaignService) RecordMetric(ctx context.Context, actor authmodels.User, id primitive.ObjectID, in dto.RecordMetricInput) (models.CampaignMetric, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return models.CampaignMetric{}, err
	}
	ts := s.Now()
	if in.Timestamp != nil {
		ts = in.Timestamp.UnixMilli()
	}
	metric, err := s.metrics.InsertOne(ctx, models.CampaignMetric{
		Campaign:       id,
		Timestamp:      ts,
		Reach:          in.Reach,
		Engagement:     in.Engagement,
		Conversion:     in.Conversion,
		ROI:            in.ROI,
		ChannelMetrics: in.ChannelMetrics,
		RecordedBy:     actor.ID,
	})
	if err != nil {
		return metric, err
	}

	filter := bson.M{
		"_id": id,
		"$or": bson.A{
			bson.M{"metricsUpdatedAt": bson.M{"$exists": false}},
			bson.M{"metricsUpdatedAt": bson.M{"$lte": ts}},
		},
	}
	update := &basesvc.UpdateData{Set: map[string]interface{}{
		"metrics":          models.Metrics{Reach: in.Reach, Engagement: in.Engagement, Conversion: in.Conversion, ROI: in.ROI},
		"metricsUpdatedAt": ts,
	}}
	c, err := s.FindOneAndUpdate(ctx, filter, update, nil)
	switch {
	case common.IsNotFound(err):
		// snapshot hiện tại mới hơn metric vừa ghi
		return metric, nil
	case err != nil:
		return metric, err
	}
	s.track(ctx, actor.ID, c, "Recorded metrics for campaign: "+c.Title)
	return metric, nil
}

// RecentMetrics trả về tối đa 30 metric mới nhất, có thể lọc theo campaign
func (s *CampaignService) RecentMetrics(ctx context.Context, campaignID *primitive.ObjectID) ([]models.CampaignMetric, error) {
	filter := bson.M{}
	if campaignID != nil {
		filter["campaign"] = *campaignID
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(recentMetricsLimit)
	return s.metrics.Find(ctx, filter, opts)
}

// timeframeDays week=7, month=30, quarter=90; rỗng là month
func timeframeDays(timeframe string) int {
	switch timeframe {
	case "week":
		return 7
	case "quarter":
		return 90
	default:
		return 30
	}
}

// PerformanceWindow trả về khoảng [now - timeframe, now]
func PerformanceWindow(now time.Time, timeframe string) reportsvc.TimeRange {
	start := now.AddDate(0, 0, -timeframeDays(timeframe))
	return reportsvc.TimeRange{Start: &start, End: &now}
}

// ReportKey tên object của báo cáo được chia sẻ
func ReportKey(campaignID primitive.ObjectID, suffix, format string) string {
	return fmt.Sprintf("reports/campaign-%s-%s.%s", campaignID.Hex(), suffix, format)
}
