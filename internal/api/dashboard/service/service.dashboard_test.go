package dashboardsvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	activitysvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/activity/service"
	authmodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/models"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/policy"
	authsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/service"
	ideadto "github.com/mostafa12599/GreenFuture-Innovation/internal/api/idea/dto"
	ideamodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/idea/models"
	ideasvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/idea/service"
	notifsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/notification/service"
	reportsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/report/service"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/database/testhelper"
)

func TestStatisticsFrom(t *testing.T) {
	stats, err := StatisticsFrom([]reportsvc.Record{
		{"status": "implemented", "department": "Eng"},
		{"status": "pending", "department": "Eng"},
		{"status": "pending", "department": "HR"},
		{"status": "approved", "department": "Ops"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalIdeas)
	assert.Equal(t, float64(25), stats.ImplementationRate)
	assert.Equal(t, map[string]int64{"approved": 1, "implemented": 1, "pending": 2}, stats.IdeasByStatus)
	assert.Equal(t, []NameValue{{"Eng", 2}, {"HR", 1}, {"Ops", 1}}, stats.IdeasByDepartment)
	assert.Equal(t, []string{
		"Top performing department: Eng",
		"Implementation rate: 25.0%",
		"Total ideas submitted: 4",
	}, stats.Insights)
}

func TestStatisticsFrom_Empty(t *testing.T) {
	stats, err := StatisticsFrom(nil)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalIdeas)
	assert.Zero(t, stats.ImplementationRate)
	assert.Empty(t, stats.IdeasByDepartment)
	assert.Equal(t, "Top performing department: None", stats.Insights[0])
}

func TestDashboardService_Integration(t *testing.T) {
	store := testhelper.SetupTestStore(t)
	ctx := context.Background()
	users := authsvc.NewUserService(store, nil)
	reports := reportsvc.NewReportService(store)
	activities := activitysvc.NewActivityService(store, nil, users, reports)
	ideas := ideasvc.NewIdeaService(store, nil, ideasvc.Deps{
		Users:         users,
		Incentives:    authsvc.NewIncentiveService(store, nil, users),
		Activities:    activities,
		Notifications: notifsvc.NewNotificationService(store, nil, users),
		Reports:       reports,
	})
	svc := NewDashboardService(reports, ideas, activities)

	author, err := users.Create(ctx, authmodels.User{Name: "Ann", Email: "ann@example.com", Password: "x", Role: policy.RoleEmployee, Department: "Eng"})
	require.NoError(t, err)
	manager, err := users.Create(ctx, authmodels.User{Name: "Max", Email: "max@example.com", Password: "x", Role: policy.RoleInnovationManager, Department: "Ops"})
	require.NoError(t, err)

	var last ideamodels.Idea
	for _, title := range []string{"Solar roof", "Bike racks", "Paperless HR", "Rain water", "Green cloud", "LED offices"} {
		last, err = ideas.Create(ctx, author, ideadto.CreateIdeaInput{Title: title, Description: "A long enough description", Category: "energy"})
		require.NoError(t, err)
	}
	_, err = ideas.UpdateStatus(ctx, manager, last.ID, ideadto.UpdateStatusInput{Status: ideamodels.StatusImplemented})
	require.NoError(t, err)

	d, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), d.Statistics.TotalIdeas)
	assert.Equal(t, int64(1), d.Statistics.IdeasByStatus[ideamodels.StatusImplemented])
	assert.Len(t, d.RecentIdeas, recentIdeas)
	assert.Equal(t, "LED offices", d.RecentIdeas[0].Title)
	assert.Len(t, d.UserActivities, 7)

	perf, err := svc.Performance(ctx)
	require.NoError(t, err)
	assert.Equal(t, Performance{TotalIdeas: 6, ActiveUsers: 2, Activities: 7, Trainings: 0}, *perf)

	depts, err := svc.DepartmentStats(ctx, reportsvc.TimeRange{})
	require.NoError(t, err)
	require.Len(t, depts, 1)
	assert.Equal(t, "Eng", depts[0].Department)
	assert.Equal(t, int64(1), depts[0].ImplementedIdeas)
}
