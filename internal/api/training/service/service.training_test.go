package trainingsvc

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	activitysvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/activity/service"
	authmodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/models"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/policy"
	authsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/service"
	notifsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/notification/service"
	reportsvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/report/service"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/training/dto"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/training/models"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/common"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/database/testhelper"
)

func TestTraining_EnrollmentOf(t *testing.T) {
	u := primitive.NewObjectID()
	tr := models.Training{Capacity: 1, EnrolledUsers: []models.Enrollment{{User: u, Status: models.EnrollmentEnrolled}}}
	require.NotNil(t, tr.EnrollmentOf(u))
	assert.Nil(t, tr.EnrollmentOf(primitive.NewObjectID()))
	assert.True(t, tr.IsFull())
}

func TestCertificateURL(t *testing.T) {
	tid, _ := primitive.ObjectIDFromHex("65a1b2c3d4e5f6a7b8c9d0e1")
	uid, _ := primitive.ObjectIDFromHex("65a1b2c3d4e5f6a7b8c9d0e2")
	assert.Equal(t, "/certificates/65a1b2c3d4e5f6a7b8c9d0e1_65a1b2c3d4e5f6a7b8c9d0e2.pdf", CertificateURL(tid, uid))
}

type fixture struct {
	svc   *TrainingService
	users *authsvc.UserService
	notes *notifsvc.NotificationService
}

func newFixture(t *testing.T) fixture {
	store := testhelper.SetupTestStore(t)
	users := authsvc.NewUserService(store, nil)
	reports := reportsvc.NewReportService(store)
	notes := notifsvc.NewNotificationService(store, nil, users)
	svc := NewTrainingService(store, nil, activitysvc.NewActivityService(store, nil, users, reports), notes, reports)
	return fixture{svc: svc, users: users, notes: notes}
}

func (f fixture) user(t *testing.T, email, role, dept string) authmodels.User {
	t.Helper()
	u, err := f.users.Create(context.Background(), authmodels.User{Name: email, Email: email, Password: "x", Role: role, Department: dept})
	require.NoError(t, err)
	return u
}

func (f fixture) training(t *testing.T, hr authmodels.User, capacity int64) models.Training {
	t.Helper()
	start := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	tr, err := f.svc.Create(context.Background(), hr, dto.CreateTrainingInput{
		Title: "Carbon accounting", Description: "Basics", Type: "workshop", Department: "Eng",
		StartDate: start, EndDate: start.Add(4 * time.Hour), Capacity: capacity,
	})
	require.NoError(t, err)
	return tr
}

func TestTrainingService_CapacityGuard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	hr := f.user(t, "hr@example.com", policy.RoleHR, "HR")
	first := f.user(t, "first@example.com", policy.RoleEmployee, "Eng")
	second := f.user(t, "second@example.com", policy.RoleEmployee, "Eng")

	tr := f.training(t, hr, 1)
	assert.Equal(t, models.StatusUpcoming, tr.Status)

	got, err := f.svc.Enroll(ctx, first.ID, tr.ID)
	require.NoError(t, err)
	assert.Len(t, got.EnrolledUsers, 1)

	_, err = f.svc.Enroll(ctx, first.ID, tr.ID)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)

	_, err = f.svc.Enroll(ctx, second.ID, tr.ID)
	assert.ErrorIs(t, err, ErrTrainingFull)

	_, err = f.svc.Enroll(ctx, second.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrTrainingNotFound)

	stored, err := f.svc.Get(ctx, tr.ID)
	require.NoError(t, err)
	assert.Len(t, stored.EnrolledUsers, 1)

	zero := int64(0)
	_, err = f.svc.Update(ctx, tr.ID, dto.UpdateTrainingInput{Capacity: &zero})
	assert.ErrorIs(t, err, ErrCapacityTooLow)
}

func TestTrainingService_ConcurrentEnrollNeverExceedsCapacity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	hr := f.user(t, "hr@example.com", policy.RoleHR, "HR")
	tr := f.training(t, hr, 3)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.svc.Enroll(ctx, primitive.NewObjectID(), tr.ID)
		}()
	}
	wg.Wait()

	stored, err := f.svc.Get(ctx, tr.ID)
	require.NoError(t, err)
	assert.Len(t, stored.EnrolledUsers, 3)
}

func TestTrainingService_CompleteAndCertificate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	hr := f.user(t, "hr@example.com", policy.RoleHR, "HR")
	learner := f.user(t, "learner@example.com", policy.RoleEmployee, "Eng")
	tr := f.training(t, hr, 5)

	_, err := f.svc.Complete(ctx, learner.ID, tr.ID)
	assert.ErrorIs(t, err, ErrNotEnrolled)

	_, err = f.svc.Enroll(ctx, learner.ID, tr.ID)
	require.NoError(t, err)

	_, err = f.svc.Certificate(ctx, learner.ID, tr.ID)
	assert.ErrorIs(t, err, ErrNotCompleted)

	done, err := f.svc.Complete(ctx, learner.ID, tr.ID)
	require.NoError(t, err)
	e := done.EnrollmentOf(learner.ID)
	require.NotNil(t, e)
	assert.Equal(t, models.EnrollmentCompleted, e.Status)
	assert.NotZero(t, e.CompletionDate)

	_, err = f.svc.Complete(ctx, learner.ID, tr.ID)
	require.NoError(t, err)

	cert, err := f.svc.Certificate(ctx, learner.ID, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, CertificateURL(tr.ID, learner.ID), cert.CertificateURL)
	assert.Equal(t, e.CompletionDate, cert.CompletionDate)

	status, err := f.svc.EnrollmentStatus(ctx, learner.ID, tr.ID)
	require.NoError(t, err)
	assert.True(t, status.Enrolled)
	assert.EqualValues(t, 4, status.SeatsLeft)

	stats, err := f.svc.Statistics(ctx)
	require.NoError(t, err)
	require.Len(t, stats.ByDepartment, 1)
	assert.EqualValues(t, 1, stats.ByDepartment[0].TotalEnrolled)
	require.NotNil(t, stats.ByDepartment[0].AvgCapacity)
	assert.InDelta(t, 5, *stats.ByDepartment[0].AvgCapacity, 0.001)
	require.Len(t, stats.CompletionRates, 1)
	assert.InDelta(t, 100, stats.CompletionRates[0].CompletionRate, 0.001)
	assert.Equal(t, []reportsvc.GroupCount{{Key: models.StatusUpcoming, Count: 1}}, stats.ByStatus)

	// phòng Eng có learner nên nhận thông báo khoá học mới
	n, err := f.notes.CountDocuments(ctx, map[string]interface{}{"user": learner.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	require.NoError(t, f.svc.Remove(ctx, tr.ID))
	assert.True(t, common.IsNotFound(f.svc.Remove(ctx, tr.ID)))
}
