package supportsvc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	activitysvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/activity/service"
	authmodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/models"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/policy"
	authsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/service"
	notifdto "github.com/mostafa12599/GreenFuture-Innovation/internal/api/notification/dto"
	notifmodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/notification/models"
	notifsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/notification/service"
	reportsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/report/service"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/support/dto"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/support/models"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/database/testhelper"
)

func str(s string) *string { return &s }

func TestStatusViewFrom_DefaultsToOperational(t *testing.T) {
	view := StatusViewFrom(nil, nil)
	assert.Equal(t, models.SystemOperational, view.Status)
	assert.Nil(t, view.LastUpdated)
	assert.Nil(t, view.Metrics.ResponseTime)

	view = StatusViewFrom(
		&models.SystemStatus{Status: models.SystemDegraded, Timestamp: 42, Message: "db slow"},
		&models.PerformanceMetric{ResponseTime: 120, ActiveUsers: 7},
	)
	assert.Equal(t, models.SystemDegraded, view.Status)
	assert.Equal(t, int64(42), *view.LastUpdated)
	assert.Equal(t, float64(120), *view.Metrics.ResponseTime)
	assert.Equal(t, int64(7), *view.Metrics.ActiveUsers)
}

func TestPerformanceWindow(t *testing.T) {
	now := time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, now.AddDate(0, 0, -1), *PerformanceWindow(now, "").Start)
	assert.Equal(t, now.AddDate(0, 0, -7), *PerformanceWindow(now, "week").Start)
	assert.Equal(t, now.AddDate(0, 0, -30), *PerformanceWindow(now, "month").Start)
}

func TestNotifPriority(t *testing.T) {
	assert.Equal(t, notifmodels.PriorityHigh, notifPriority(models.PriorityCritical))
	assert.Equal(t, notifmodels.PriorityNormal, notifPriority(models.PriorityLow))
}

type fixture struct {
	svc   *SupportService
	users *authsvc.UserService
	notes *notifsvc.NotificationService
}

func newFixture(t *testing.T) fixture {
	store := testhelper.SetupTestStore(t)
	users := authsvc.NewUserService(store, nil)
	reports := reportsvc.NewReportService(store)
	notes := notifsvc.NewNotificationService(store, nil, users)
	svc := NewSupportService(store, nil, activitysvc.NewActivityService(store, nil, users, reports), notes, reports)
	return fixture{svc: svc, users: users, notes: notes}
}

func (f fixture) user(t *testing.T, email, role string) authmodels.User {
	t.Helper()
	u, err := f.users.Create(context.Background(), authmodels.User{Name: email, Email: email, Password: "x", Role: role, Department: "Ops"})
	require.NoError(t, err)
	return u
}

func (f fixture) unread(t *testing.T, u authmodels.User) []notifmodels.Notification {
	t.Helper()
	got, err := f.notes.List(context.Background(), u.ID, notifdto.ListQuery{}, 1, 50)
	require.NoError(t, err)
	return got.Items
}

func TestSupportService_TicketLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reporter := f.user(t, "emp@example.com", policy.RoleEmployee)
	other := f.user(t, "other@example.com", policy.RoleEmployee)
	it := f.user(t, "it@example.com", policy.RoleITSupport)

	ticket, err := f.svc.CreateTicket(ctx, reporter, dto.CreateTicketInput{Title: "VPN down", Description: "cannot connect", Category: "access"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusOpen, ticket.Status)
	assert.Equal(t, models.PriorityMedium, ticket.Priority)
	assert.Equal(t, "Ops", ticket.Department)
	require.Len(t, ticket.History, 1)

	notes := f.unread(t, it)
	require.Len(t, notes, 1)
	assert.Equal(t, "New support ticket: VPN down", notes[0].Message)

	_, err = f.svc.GetTicket(ctx, other, ticket.ID)
	assert.ErrorIs(t, err, ErrTicketForbidden)

	got, err := f.svc.Respond(ctx, it, ticket.ID, dto.RespondInput{Response: "Looking", Status: models.StatusInProgress, InternalNotes: "router"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, got.Status)
	assert.Len(t, got.Responses, 1)
	assert.Len(t, got.InternalNotes, 1)
	require.Len(t, got.History, 2)
	assert.Equal(t, it.ID, got.History[1].ChangedBy)

	reporterNotes := f.unread(t, reporter)
	require.Len(t, reporterNotes, 1)
	assert.Equal(t, `Your ticket "VPN down" has received a response`, reporterNotes[0].Message)

	// cùng trạng thái: không thêm history
	got, err = f.svc.UpdateTicket(ctx, it, ticket.ID, dto.UpdateTicketInput{Status: str(models.StatusInProgress), Priority: str(models.PriorityHigh)})
	require.NoError(t, err)
	assert.Len(t, got.History, 2)
	assert.Equal(t, models.PriorityHigh, got.Priority)

	got, err = f.svc.UpdateTicket(ctx, it, ticket.ID, dto.UpdateTicketInput{Status: str(models.StatusResolved)})
	require.NoError(t, err)
	assert.Len(t, got.History, 3)
	require.NotNil(t, got.Resolution)
	assert.Equal(t, it.ID, got.Resolution.ResolvedBy)

	view, err := f.svc.GetTicket(ctx, reporter, ticket.ID)
	require.NoError(t, err)
	assert.Nil(t, view.InternalNotes)

	history, err := f.svc.History(ctx, reporter, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, history.Status)
	assert.Len(t, history.History, 3)

	_, err = f.svc.UpdateTicket(ctx, it, ticket.ID, dto.UpdateTicketInput{})
	assert.ErrorIs(t, err, ErrNothingToSave)
	_, err = f.svc.Respond(ctx, it, primitive.NewObjectID(), dto.RespondInput{Response: "x"})
	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestSupportService_ListScopesByRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.user(t, "a@example.com", policy.RoleEmployee)
	b := f.user(t, "b@example.com", policy.RoleEmployee)
	it := f.user(t, "it@example.com", policy.RoleITSupport)
	for _, u := range []authmodels.User{a, a, b} {
		_, err := f.svc.CreateTicket(ctx, u, dto.CreateTicketInput{Title: "Printer", Description: "jam", Category: "technical"})
		require.NoError(t, err)
	}

	mine, err := f.svc.ListTickets(ctx, a, dto.ListQuery{}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), mine.Total)

	all, err := f.svc.ListTickets(ctx, it, dto.ListQuery{}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)

	rt, err := f.svc.Realtime(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), rt.OpenTickets)
	assert.Equal(t, int64(2), rt.ActiveUsers)
	require.Len(t, rt.ByStatus, 1)
	assert.Equal(t, reportsvc.GroupCount{Key: models.StatusOpen, Count: 3}, rt.ByStatus[0])
}

func TestSupportService_SystemStatusAndPerformance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	it := f.user(t, "it@example.com", policy.RoleITSupport)
	emp := f.user(t, "emp@example.com", policy.RoleEmployee)

	view, err := f.svc.SystemStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SystemOperational, view.Status)

	_, err = f.svc.SystemUpdate(ctx, it, dto.SystemUpdateInput{Status: models.SystemOperational})
	require.NoError(t, err)
	assert.Empty(t, f.unread(t, emp))

	_, err = f.svc.SystemUpdate(ctx, it, dto.SystemUpdateInput{Status: models.SystemDegraded, Message: "Slow API"})
	require.NoError(t, err)
	notes := f.unread(t, emp)
	require.Len(t, notes, 1)
	assert.Equal(t, "System status: degraded. Slow API", notes[0].Message)
	assert.Equal(t, notifmodels.PriorityHigh, notes[0].Priority)

	hour := time.Now().UTC().Add(-2 * time.Hour).Truncate(time.Hour)
	for i, rt := range []float64{100, 200} {
		ts := hour.Add(time.Duration(i) * time.Minute)
		_, err := f.svc.RecordPerformance(ctx, dto.PerformanceSampleInput{Timestamp: &ts, ResponseTime: rt, Uptime: 99})
		require.NoError(t, err)
	}

	view, err = f.svc.SystemStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SystemDegraded, view.Status)
	require.NotNil(t, view.Metrics.ResponseTime)
	assert.Equal(t, float64(200), *view.Metrics.ResponseTime)

	rows, err := f.svc.PerformanceMetrics(ctx, "day")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, hour.Format("2006-01-02-15"), rows[0].Hour)
	assert.Equal(t, int64(2), rows[0].Samples)
	assert.Equal(t, float64(150), *rows[0].AvgResponseTime)
}
