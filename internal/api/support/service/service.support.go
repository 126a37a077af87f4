// Package supportsvc quản lý ticket hỗ trợ IT, trạng thái hệ thống và các mẫu hiệu năng.
package supportsvc

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	activitymodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/activity/models"
	activitysvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/activity/service"
	authmodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/models"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/policy"
	basemodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/base/models"
	basesvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/base/service"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/events"
	notifmodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/notification/models"
	notifsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/notification/service"
	reportsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/report/service"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/support/dto"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/support/models"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/common"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/database"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/global"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/logger"
)

const (
	entityType = "SupportTicket"
	// statusRetries số lần thử lại khi trạng thái ticket bị đổi đồng thời
	statusRetries = 3
)

var (
	ErrTicketNotFound   = common.NotFound("Ticket not found")
	ErrTicketForbidden  = common.Forbidden("Not authorized to view this ticket")
	ErrNothingToSave    = common.BadRequest("No fields to update", nil)
	ErrTicketContention = common.Conflict("Ticket was modified concurrently, please retry")
)

// SupportService là service quản lý support
type SupportService struct {
	*basesvc.BaseServiceMongoImpl[models.SupportTicket]
	statuses      *basesvc.BaseServiceMongoImpl[models.SystemStatus]
	samples       *basesvc.BaseServiceMongoImpl[models.PerformanceMetric]
	activities    *activitysvc.ActivityService
	notifications *notifsvc.NotificationService
	reports       *reportsvc.ReportService
}

// NewSupportService tạo SupportService
func NewSupportService(store *database.Store, bus *events.Bus, activities *activitysvc.ActivityService, notifications *notifsvc.NotificationService, reports *reportsvc.ReportService) *SupportService {
	cols := global.MongoDB_ColNames
	return &SupportService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.SupportTicket](store.Collection(cols.SupportTickets), bus),
		statuses:             basesvc.NewBaseServiceMongo[models.SystemStatus](store.Collection(cols.SystemStatuses), bus),
		samples:              basesvc.NewBaseServiceMongo[models.PerformanceMetric](store.Collection(cols.PerformanceMetrics), bus),
		activities:           activities,
		notifications:        notifications,
		reports:              reports,
	}
}

func isSupport(actor authmodels.User) bool {
	return policy.Can(actor.Role, policy.ActSupportManage)
}

func (s *SupportService) warnNotify(err error, title string) {
	if err != nil {
		logger.WithModuleAndCollection("support", global.MongoDB_ColNames.Notifications).
			WithError(err).WithField("title", title).Warn("Failed to dispatch support notification")
	}
}

// CreateTicket mở ticket mới, báo cho IT support và ghi activity
func (s *SupportService) CreateTicket(ctx context.Context, actor authmodels.User, in dto.CreateTicketInput) (models.SupportTicket, error) {
	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	ticket, err := s.InsertOne(ctx, models.SupportTicket{
		Title:         in.Title,
		Description:   in.Description,
		ReportedBy:    actor.ID,
		Status:        models.StatusOpen,
		Priority:      priority,
		Category:      in.Category,
		Department:    actor.Department,
		Responses:     []models.Response{},
		InternalNotes: []models.InternalNote{},
		History:       []models.HistoryEntry{{Status: models.StatusOpen, ChangedBy: actor.ID, Timestamp: s.Now()}},
	})
	if err != nil {
		return ticket, err
	}

	id := ticket.ID
	_, err = s.notifications.ToRole(ctx, policy.RoleITSupport, notifsvc.Input{
		Title:      "New Support Ticket",
		Message:    "New support ticket: " + ticket.Title,
		Type:       notifmodels.TypeSupport,
		Priority:   notifPriority(ticket.Priority),
		EntityID:   &id,
		EntityType: entityType,
	})
	s.warnNotify(err, "New Support Ticket")
	s.activities.Track(ctx, actor.ID, activitysvc.Input{
		Type:       activitymodels.TypeSupportTicket,
		Action:     "Created support ticket: " + ticket.Title,
		EntityID:   &id,
		EntityType: entityType,
		Private:    true,
	})
	return ticket, nil
}

// notifPriority ticket high/critical thành notification high
func notifPriority(ticketPriority string) string {
	switch ticketPriority {
	case models.PriorityHigh, models.PriorityCritical:
		return notifmodels.PriorityHigh
	default:
		return notifmodels.PriorityNormal
	}
}

// ListTickets - IT support thấy mọi ticket, người khác chỉ thấy ticket mình báo
func (s *SupportService) ListTickets(ctx context.Context, actor authmodels.User, q dto.ListQuery, page, limit int64) (*basemodels.PaginateResult[models.SupportTicket], error) {
	filter := bson.M{}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.Priority != "" {
		filter["priority"] = q.Priority
	}
	if q.Department != "" {
		filter["department"] = q.Department
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if !isSupport(actor) {
		filter["reportedBy"] = actor.ID
		opts.SetProjection(bson.M{"internalNotes": 0})
	}
	return s.FindWithPagination(ctx, filter, page, limit, opts)
}

func (s *SupportService) find(ctx context.Context, id primitive.ObjectID) (models.SupportTicket, error) {
	t, err := s.FindOneById(ctx, id)
	if common.IsNotFound(err) {
		return t, ErrTicketNotFound
	}
	return t, err
}

// GetTicket trả về ticket cho người báo hoặc IT support. Ghi chú nội bộ bị ẩn với người báo.
func (s *SupportService) GetTicket(ctx context.Context, actor authmodels.User, id primitive.ObjectID) (models.SupportTicket, error) {
	t, err := s.find(ctx, id)
	if err != nil {
		return t, err
	}
	if !policy.CanActOn(actor.Role, actor.ID.Hex(), t.ReportedBy.Hex(), policy.ActSupportManage) {
		return models.SupportTicket{}, ErrTicketForbidden
	}
	if !isSupport(actor) {
		t.InternalNotes = nil
	}
	return t, nil
}

// apply ghi set/push lên ticket. Nếu đổi trạng thái thì kèm một HistoryEntry, với điều kiện
// trạng thái trong DB chưa bị request khác đổi; bị đổi thì đọc lại và thử lại.
func (s *SupportService) apply(ctx context.Context, actorID, id primitive.ObjectID, newStatus string, set, push map[string]interface{}) (models.SupportTicket, error) {
	for attempt := 0; attempt < statusRetries; attempt++ {
		current, err := s.find(ctx, id)
		if err != nil {
			return current, err
		}
		update := &basesvc.UpdateData{Set: map[string]interface{}{}, Push: map[string]interface{}{}}
		for k, v := range set {
			update.Set[k] = v
		}
		for k, v := range push {
			update.Push[k] = v
		}
		filter := bson.M{"_id": id}
		if newStatus != "" && newStatus != current.Status {
			filter["status"] = current.Status
			update.Set["status"] = newStatus
			update.Push["history"] = models.HistoryEntry{Status: newStatus, ChangedBy: actorID, Timestamp: s.Now()}
			if newStatus == models.StatusResolved && current.Resolution == nil {
				if _, ok := update.Set["resolution"]; !ok {
					update.Set["resolution"] = models.Resolution{ResolvedBy: actorID, Timestamp: s.Now()}
				}
			}
		}
		if len(update.Push) == 0 {
			update.Push = nil
		}
		t, err := s.FindOneAndUpdate(ctx, filter, update, nil)
		if common.IsNotFound(err) {
			continue
		}
		return t, err
	}
	return models.SupportTicket{}, ErrTicketContention
}

// UpdateTicket sửa trạng thái, mức ưu tiên, người xử lý hoặc cách xử lý
func (s *SupportService) UpdateTicket(ctx context.Context, actor authmodels.User, id primitive.ObjectID, in dto.UpdateTicketInput) (models.SupportTicket, error) {
	set := map[string]interface{}{}
	if in.Priority != nil {
		set["priority"] = *in.Priority
	}
	if in.Category != nil {
		set["category"] = *in.Category
	}
	if in.AssignedTo != nil {
		assignee, err := primitive.ObjectIDFromHex(*in.AssignedTo)
		if err != nil {
			return models.SupportTicket{}, common.BadRequest("Invalid assignedTo", nil)
		}
		set["assignedTo"] = assignee
	}
	if in.Solution != nil {
		set["resolution"] = models.Resolution{ResolvedBy: actor.ID, Solution: *in.Solution, Timestamp: s.Now()}
	}
	status := ""
	if in.Status != nil {
		status = *in.Status
	}
	if len(set) == 0 && status == "" {
		return models.SupportTicket{}, ErrNothingToSave
	}
	return s.apply(ctx, actor.ID, id, status, set, nil)
}

// Respond thêm phản hồi (và ghi chú nội bộ nếu có), có thể đổi trạng thái, rồi báo cho người báo
func (s *SupportService) Respond(ctx context.Context, actor authmodels.User, id primitive.ObjectID, in dto.RespondInput) (models.SupportTicket, error) {
	now := s.Now()
	push := map[string]interface{}{
		"responses": models.Response{User: actor.ID, Message: in.Response, CreatedAt: now},
	}
	if in.InternalNotes != "" {
		push["internalNotes"] = models.InternalNote{User: actor.ID, Note: in.InternalNotes, CreatedAt: now}
	}
	t, err := s.apply(ctx, actor.ID, id, in.Status, nil, push)
	if err != nil {
		return t, err
	}

	tid := t.ID
	_, err = s.notifications.Dispatch(ctx, []primitive.ObjectID{t.ReportedBy}, notifsvc.Input{
		Title:      "Support Ticket Updated",
		Message:    fmt.Sprintf("Your ticket %q has received a response", t.Title),
		Type:       notifmodels.TypeSupport,
		EntityID:   &tid,
		EntityType: entityType,
	})
	s.warnNotify(err, "Support Ticket Updated")
	return t, nil
}

// History trả về trạng thái, phản hồi và lịch sử đổi trạng thái của ticket
func (s *SupportService) History(ctx context.Context, actor authmodels.User, id primitive.ObjectID) (dto.TicketHistory, error) {
	t, err := s.GetTicket(ctx, actor, id)
	if err != nil {
		return dto.TicketHistory{}, err
	}
	return dto.TicketHistory{Status: t.Status, Responses: t.Responses, History: t.History}, nil
}
