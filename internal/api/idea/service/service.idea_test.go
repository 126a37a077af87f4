package ideasvc

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	activitysvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/activity/service"
	authmodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/models"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/policy"
	authsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/service"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/idea/dto"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/idea/models"
	notifsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/notification/service"
	reportsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/report/service"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/database/testhelper"
)

func TestDepartmentStatsFrom(t *testing.T) {
	avg := 2.5
	stats := DepartmentStatsFrom(
		[]reportsvc.ConditionalCount{{Key: "Eng", Total: 3, Matched: 1}, {Key: "Sales", Total: 0, Matched: 0}},
		[]reportsvc.GroupAverage{{Key: "Eng", Count: 3, Averages: map[string]*float64{"voteCount": &avg}}},
	)
	require.Len(t, stats, 2)
	assert.InDelta(t, 33.333, stats[0].ImplementationRate, 0.001)
	assert.Equal(t, &avg, stats[0].AvgVotes)
	assert.Zero(t, stats[1].ImplementationRate)
	assert.Nil(t, stats[1].AvgVotes)
}

func TestMonthlyTrendsFrom(t *testing.T) {
	trends := MonthlyTrendsFrom([]reportsvc.ConditionalCount{{Key: "2024-03", Total: 4, Matched: 2}})
	require.Len(t, trends, 1)
	assert.Equal(t, 2024, trends[0].Year)
	assert.Equal(t, 3, trends[0].Month)
	assert.EqualValues(t, 4, trends[0].Submissions)
	assert.EqualValues(t, 2, trends[0].Approvals)
}

type fixture struct {
	svc   *IdeaService
	users *authsvc.UserService
}

func newFixture(t *testing.T) fixture {
	store := testhelper.SetupTestStore(t)
	users := authsvc.NewUserService(store, nil)
	reports := reportsvc.NewReportService(store)
	svc := NewIdeaService(store, nil, Deps{
		Users:         users,
		Incentives:    authsvc.NewIncentiveService(store, nil, users),
		Activities:    activitysvc.NewActivityService(store, nil, users, reports),
		Notifications: notifsvc.NewNotificationService(store, nil, users),
		Reports:       reports,
	})
	return fixture{svc: svc, users: users}
}

func (f fixture) user(t *testing.T, email, role, dept string) authmodels.User {
	t.Helper()
	u, err := f.users.Create(context.Background(), authmodels.User{
		Name: email, Email: email, Password: "x", Role: role, Department: dept,
	})
	require.NoError(t, err)
	return u
}

func TestIdeaService_VoteIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "author@example.com", policy.RoleEmployee, "Eng")
	voter := f.user(t, "voter@example.com", policy.RoleEmployee, "Sales")

	idea, err := f.svc.Create(ctx, author, dto.CreateIdeaInput{Title: "Solar roof", Description: "Panels on every roof", Category: "energy"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, idea.Status)
	assert.Equal(t, "Eng", idea.Department)

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Vote(ctx, voter.ID, idea.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrAlreadyVoted)
		}
	}
	assert.Equal(t, 1, succeeded)

	got, err := f.svc.Get(ctx, idea.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.VoteCount)
	assert.Len(t, got.Votes, 1)
	require.NotNil(t, got.Submitter)
	assert.Equal(t, "author@example.com", got.Submitter.Name)

	_, err = f.svc.Vote(ctx, voter.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrIdeaNotFound)

	stored, err := f.users.FindByID(ctx, author.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stored.Statistics.IdeasSubmitted)
	assert.EqualValues(t, 1, stored.Statistics.VotesReceived)
}

func TestIdeaService_UpdateOnlyWhilePending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "a@example.com", policy.RoleEmployee, "Eng")
	other := f.user(t, "b@example.com", policy.RoleEmployee, "Eng")
	manager := f.user(t, "m@example.com", policy.RoleInnovationManager, "Ops")

	idea, err := f.svc.Create(ctx, author, dto.CreateIdeaInput{Title: "Bike racks", Description: "More bike racks downtown", Category: "transport"})
	require.NoError(t, err)

	title := "Bike racks everywhere"
	_, err = f.svc.Update(ctx, other, idea.ID, dto.UpdateIdeaInput{Title: &title})
	assert.ErrorIs(t, err, ErrNotSubmitter)

	updated, err := f.svc.Update(ctx, author, idea.ID, dto.UpdateIdeaInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)

	_, err = f.svc.UpdateStatus(ctx, manager, idea.ID, dto.UpdateStatusInput{Status: models.StatusImplemented})
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, author, idea.ID, dto.UpdateIdeaInput{Title: &title})
	assert.ErrorIs(t, err, ErrIdeaLocked)

	// implemented lần hai không thưởng thêm
	_, err = f.svc.UpdateStatus(ctx, manager, idea.ID, dto.UpdateStatusInput{Status: models.StatusImplemented})
	require.NoError(t, err)
	stored, err := f.users.FindByID(ctx, author.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stored.Statistics.IdeasImplemented)
	assert.EqualValues(t, authsvc.ImplementationPoints, stored.Statistics.PointsEarned)

	n, err := f.svc.Notifications.CountDocuments(ctx, bson.M{"user": author.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestIdeaService_ConcurrentImplementAwardsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "c@example.com", policy.RoleEmployee, "Eng")
	manager := f.user(t, "mgr@example.com", policy.RoleInnovationManager, "Ops")

	idea, err := f.svc.Create(ctx, author, dto.CreateIdeaInput{Title: "Rain tanks", Description: "Collect rain water on site", Category: "water"})
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(ctx, manager, idea.ID, dto.UpdateStatusInput{Status: models.StatusApproved})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.UpdateStatus(ctx, manager, idea.ID, dto.UpdateStatusInput{Status: models.StatusImplemented})
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	n, err := f.svc.Incentives.CountDocuments(ctx, bson.M{"idea": idea.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	stored, err := f.users.FindByID(ctx, author.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stored.Statistics.IdeasImplemented)
	assert.EqualValues(t, authsvc.ImplementationPoints, stored.Statistics.PointsEarned)
}

func TestIdeaService_Analytics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	eng := f.user(t, "eng@example.com", policy.RoleEmployee, "Eng")
	sales := f.user(t, "sales@example.com", policy.RoleEmployee, "Sales")
	manager := f.user(t, "m@example.com", policy.RoleInnovationManager, "Ops")

	create := func(u authmodels.User, status string) {
		idea, err := f.svc.Create(ctx, u, dto.CreateIdeaInput{Title: "Idea " + status, Description: "Some description", Category: "misc"})
		require.NoError(t, err)
		if status != models.StatusPending {
			_, err = f.svc.UpdateStatus(ctx, manager, idea.ID, dto.UpdateStatusInput{Status: status})
			require.NoError(t, err)
		}
	}
	create(eng, models.StatusApproved)
	create(eng, models.StatusImplemented)
	create(sales, models.StatusPending)

	a, err := f.svc.Analytics(ctx, reportsvc.TimeRange{})
	require.NoError(t, err)

	var total int64
	for _, s := range a.IdeaStats {
		total += s.Count
		require.NotNil(t, s.AvgVotes)
		assert.Zero(t, *s.AvgVotes)
	}
	assert.EqualValues(t, 3, total)

	require.Len(t, a.DepartmentStats, 2)
	assert.Equal(t, "Eng", a.DepartmentStats[0].Department)
	assert.EqualValues(t, 2, a.DepartmentStats[0].TotalIdeas)
	assert.EqualValues(t, 1, a.DepartmentStats[0].ImplementedIdeas)
	assert.InDelta(t, 50, a.DepartmentStats[0].ImplementationRate, 0.001)

	require.NotEmpty(t, a.MonthlyTrends)
	var subs, approvals int64
	for _, m := range a.MonthlyTrends {
		subs += m.Submissions
		approvals += m.Approvals
	}
	assert.EqualValues(t, 3, subs)
	assert.EqualValues(t, 1, approvals)

	tl, err := f.svc.TimelineStats(ctx, reportsvc.TimeRange{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, tl.Total)
	assert.EqualValues(t, 1, tl.Implemented)
}
