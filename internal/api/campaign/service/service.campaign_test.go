package campaignsvc

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	activitysvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/activity/service"
	authmodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/models"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/policy"
	authsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/service"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/campaign/dto"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/campaign/models"
	notifdto "github.com/mostafa12599/GreenFuture-Innovation/internal/api/notification/dto"
	notifsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/notification/service"
	reportsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/report/service"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/database/testhelper"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/storage"
)

func f64(v float64) *float64 { return &v }

func TestPerformanceWindow(t *testing.T) {
	now := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	cases := map[string]time.Time{
		"week":    time.Date(2025, 3, 25, 0, 0, 0, 0, time.UTC),
		"month":   time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
		"":        time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
		"quarter": time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for tf, want := range cases {
		r := PerformanceWindow(now, tf)
		assert.Equal(t, want, *r.Start, tf)
		assert.Equal(t, now, *r.End, tf)
	}
}

func TestTypeSummariesFrom(t *testing.T) {
	got := TypeSummariesFrom(
		[]reportsvc.GroupAverage{
			{Key: "awareness", Count: 2, Averages: map[string]*float64{"metrics.roi": f64(1.5)}},
			{Key: "conversion", Count: 1, Averages: map[string]*float64{"metrics.roi": nil}},
		},
		[]reportsvc.GroupSum{{Key: "awareness", Count: 2, Sums: map[string]float64{"metrics.reach": 300}}},
	)
	require.Len(t, got, 2)
	assert.Equal(t, 1.5, *got[0].AvgROI)
	assert.Equal(t, float64(300), got[0].TotalReach)
	assert.Nil(t, got[1].AvgROI)
	assert.Zero(t, got[1].TotalReach)
}

func TestRenderReport_CSV(t *testing.T) {
	doc := reportDocument{
		Campaign: models.Campaign{ID: primitive.NewObjectID(), Title: "Green, week"},
		Metrics: []models.CampaignMetric{
			{Timestamp: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC).UnixMilli(), Reach: 100, Engagement: 2.5, Conversion: 1, ROI: 0.4},
		},
	}
	body, contentType, err := RenderReport(doc, "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "campaign,title,timestamp,reach,engagement,conversion,roi", lines[0])
	assert.Contains(t, lines[1], `"Green, week",2025-03-01T12:00:00Z,100,2.5,1,0.4`)

	_, contentType, err = RenderReport(doc, "json")
	require.NoError(t, err)
	assert.Equal(t, "application/json", contentType)
}

type fixture struct {
	svc     *CampaignService
	users   *authsvc.UserService
	notes   *notifsvc.NotificationService
	storage *storage.Local
}

func newFixture(t *testing.T) fixture {
	store := testhelper.SetupTestStore(t)
	users := authsvc.NewUserService(store, nil)
	reports := reportsvc.NewReportService(store)
	notes := notifsvc.NewNotificationService(store, nil, users)
	local, err := storage.NewLocal(t.TempDir(), "/uploads")
	require.NoError(t, err)
	svc := NewCampaignService(store, nil, Deps{
		Activities:    activitysvc.NewActivityService(store, nil, users, reports),
		Notifications: notes,
		Reports:       reports,
		Storage:       local,
	})
	return fixture{svc: svc, users: users, notes: notes, storage: local}
}

func (f fixture) user(t *testing.T, email, role string) authmodels.User {
	t.Helper()
	u, err := f.users.Create(context.Background(), authmodels.User{Name: email, Email: email, Password: "x", Role: role, Department: "Marketing"})
	require.NoError(t, err)
	return u
}

func (f fixture) campaign(t *testing.T, actor authmodels.User, kind, status string, budget float64) models.Campaign {
	t.Helper()
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	c, err := f.svc.Create(context.Background(), actor, dto.CreateCampaignInput{
		Title: "Campaign " + kind, Description: "d", Type: kind, Status: status,
		StartDate: start, EndDate: start.AddDate(0, 1, 0), Budget: budget, TargetAudience: "everyone",
	})
	require.NoError(t, err)
	return c
}

func TestCampaignService_CreateNotifiesMarketing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com", policy.RoleMarketing)
	peer := f.user(t, "peer@example.com", policy.RoleMarketing)
	outsider := f.user(t, "dev@example.com", policy.RoleEmployee)

	c := f.campaign(t, owner, models.TypeAwareness, "", 1000)
	assert.Equal(t, models.StatusDraft, c.Status)
	assert.NotNil(t, c.Channels)

	got, err := f.notes.List(ctx, peer.ID, notifdto.ListQuery{}, 1, 10)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "New Marketing Campaign", got.Items[0].Title)
	assert.Equal(t, "New campaign created: "+c.Title, got.Items[0].Message)

	got, err = f.notes.List(ctx, outsider.ID, notifdto.ListQuery{}, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, got.Items)
}

func TestCampaignService_UpdateRejectsInvertedDates(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@example.com", policy.RoleMarketing)
	c := f.campaign(t, owner, models.TypeEngagement, "", 10)

	before := c.StartDate.AddDate(0, 0, -1)
	_, err := f.svc.Update(context.Background(), owner, c.ID, dto.UpdateCampaignInput{EndDate: &before})
	assert.ErrorIs(t, err, ErrInvalidDates)

	_, err = f.svc.Update(context.Background(), owner, c.ID, dto.UpdateCampaignInput{})
	assert.ErrorIs(t, err, ErrNothingToSave)

	_, err = f.svc.Update(context.Background(), owner, primitive.NewObjectID(), dto.UpdateCampaignInput{Budget: f64(5)})
	assert.ErrorIs(t, err, ErrCampaignNotFound)
}

func TestCampaignService_SnapshotKeepsNewestMetric(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com", policy.RoleMarketing)
	c := f.campaign(t, owner, models.TypeAwareness, models.StatusActive, 100)

	newer := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	older := newer.AddDate(0, 0, -3)
	_, err := f.svc.RecordMetric(ctx, owner, c.ID, dto.RecordMetricInput{Timestamp: &newer, Reach: 500, ROI: 2})
	require.NoError(t, err)
	_, err = f.svc.RecordMetric(ctx, owner, c.ID, dto.RecordMetricInput{Timestamp: &older, Reach: 50, ROI: 1})
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(500), got.Metrics.Reach)
	assert.Equal(t, newer.UnixMilli(), got.MetricsUpdatedAt)

	metrics, err := f.svc.RecentMetrics(ctx, &c.ID)
	require.NoError(t, err)
	require.Len(t, metrics, 2)
	assert.Equal(t, newer.UnixMilli(), metrics[0].Timestamp)

	_, err = f.svc.RecordMetric(ctx, owner, primitive.NewObjectID(), dto.RecordMetricInput{})
	assert.ErrorIs(t, err, ErrCampaignNotFound)
}

func TestCampaignService_AnalyticsAndPerformance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com", policy.RoleMarketing)
	a := f.campaign(t, owner, models.TypeAwareness, models.StatusActive, 100)
	f.campaign(t, owner, models.TypeAwareness, models.StatusDraft, 50)
	f.campaign(t, owner, models.TypeConversion, models.StatusActive, 25)

	day := time.Now().UTC().Add(-time.Hour)
	_, err := f.svc.RecordMetric(ctx, owner, a.ID, dto.RecordMetricInput{Timestamp: &day, Reach: 400, Engagement: 10, ROI: 3})
	require.NoError(t, err)
	earlier := day.Add(-time.Minute)
	_, err = f.svc.RecordMetric(ctx, owner, a.ID, dto.RecordMetricInput{Timestamp: &earlier, Reach: 200, Engagement: 20, ROI: 1})
	require.NoError(t, err)

	an, err := f.svc.Analytics(ctx, reportsvc.TimeRange{})
	require.NoError(t, err)
	require.Len(t, an.ByStatus, 2)
	assert.Equal(t, StatusSummary{Status: models.StatusActive, Count: 2, TotalBudget: 125}, an.ByStatus[0])
	assert.Equal(t, StatusSummary{Status: models.StatusDraft, Count: 1, TotalBudget: 50}, an.ByStatus[1])
	require.Len(t, an.ByType, 2)
	assert.Equal(t, models.TypeAwareness, an.ByType[0].Type)
	assert.Equal(t, float64(400), an.ByType[0].TotalReach)
	assert.Equal(t, int64(2), an.ActiveTotals.Count)
	assert.Equal(t, float64(125), an.ActiveTotals.TotalBudget)
	assert.Equal(t, float64(400), an.ActiveTotals.TotalReach)

	perf, err := f.svc.Performance(ctx, a.ID, "week")
	require.NoError(t, err)
	assert.Equal(t, "week", perf.Timeframe)
	var samples int64
	for _, p := range perf.Daily {
		samples += p.Samples
	}
	assert.Equal(t, int64(2), samples)
}

func TestCampaignService_ShareReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com", policy.RoleMarketing)
	reader := f.user(t, "reader@example.com", policy.RoleEmployee)
	c := f.campaign(t, owner, models.TypeEngagement, models.StatusActive, 10)
	_, err := f.svc.RecordMetric(ctx, owner, c.ID, dto.RecordMetricInput{Reach: 5})
	require.NoError(t, err)

	res, err := f.svc.ShareReport(ctx, owner, dto.ShareReportInput{
		CampaignID: c.ID.Hex(), Recipients: []string{reader.ID.Hex()}, Format: "csv",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.ReportURL, "/uploads/reports/campaign-"+c.ID.Hex()+"-"))
	assert.True(t, strings.HasSuffix(res.ReportURL, ".csv"))

	stored := filepath.Join(f.storage.Root(), strings.TrimPrefix(res.ReportURL, "/uploads/"))
	body, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Contains(t, string(body), c.Title)

	got, err := f.notes.List(ctx, reader.ID, notifdto.ListQuery{}, 1, 10)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Campaign Report Shared", got.Items[0].Title)
	assert.Equal(t, res.ReportURL, got.Items[0].AdditionalData["reportUrl"])
}
