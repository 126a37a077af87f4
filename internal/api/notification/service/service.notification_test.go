package notifsvc

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	authmodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/models"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/events"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/notification/dto"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/notification/models"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/common"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/database/testhelper"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/mailer"
)

type fakeAudience struct {
	users map[primitive.ObjectID]authmodels.User
}

func (a *fakeAudience) IDsByRole(_ context.Context, role string) ([]primitive.ObjectID, error) {
	var ids []primitive.ObjectID
	for id, u := range a.users {
		if u.Role == role {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (a *fakeAudience) IDsByDepartment(_ context.Context, dept string) ([]primitive.ObjectID, error) {
	var ids []primitive.ObjectID
	for id, u := range a.users {
		if u.Department == dept {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (a *fakeAudience) AllIDs(context.Context) ([]primitive.ObjectID, error) {
	var ids []primitive.ObjectID
	for id := range a.users {
		ids = append(ids, id)
	}
	return ids, nil
}

func (a *fakeAudience) FindByID(_ context.Context, id primitive.ObjectID) (authmodels.User, error) {
	u, ok := a.users[id]
	if !ok {
		return u, common.ErrUserNotFound
	}
	return u, nil
}

type captureMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (m *captureMailer) Enabled() bool { return true }

func (m *captureMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func newAudience() (*fakeAudience, primitive.ObjectID, primitive.ObjectID) {
	ann, bob := primitive.NewObjectID(), primitive.NewObjectID()
	optOut := authmodels.DefaultSettings()
	optOut.EmailNotifications = false
	return &fakeAudience{users: map[primitive.ObjectID]authmodels.User{
		ann: {ID: ann, Email: "ann@example.com", Role: "it_support", Department: "IT", Settings: authmodels.DefaultSettings()},
		bob: {ID: bob, Email: "bob@example.com", Role: "employee", Department: "IT", Settings: optOut},
	}}, ann, bob
}

func TestDispatch_CollapsesDuplicatesAndSendsEmail(t *testing.T) {
	store := testhelper.SetupTestStore(t)
	bus := events.NewBus()
	audience, ann, bob := newAudience()
	mail := &captureMailer{}
	RegisterEmailHook(bus, audience, mail)
	svc := NewNotificationService(store, bus, audience)
	ctx := context.Background()

	created, err := svc.Dispatch(ctx, []primitive.ObjectID{ann, bob, ann, primitive.NilObjectID}, Input{
		Title: "Idea status updated", Message: "Your idea is now approved", Type: models.TypeIdea,
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, models.PriorityNormal, created[0].Priority)
	assert.False(t, created[0].Read)

	bus.Wait()
	require.Len(t, mail.sent, 1)
	assert.Equal(t, "ann@example.com", mail.sent[0].To)
	assert.Equal(t, "Idea status updated", mail.sent[0].Subject)
}

func TestToDepartment(t *testing.T) {
	store := testhelper.SetupTestStore(t)
	audience, _, _ := newAudience()
	svc := NewNotificationService(store, nil, audience)

	n, err := svc.ToDepartment(context.Background(), "IT", Input{Title: "New training", Type: models.TypeAnnouncement})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = svc.ToRole(context.Background(), "admin", Input{Title: "x", Type: models.TypeSystem})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestListMarkReadAndDelete(t *testing.T) {
	store := testhelper.SetupTestStore(t)
	audience, ann, bob := newAudience()
	svc := NewNotificationService(store, nil, audience)
	ctx := context.Background()

	for _, typ := range []string{models.TypeIdea, models.TypeIdea, models.TypeSupport} {
		_, err := svc.Dispatch(ctx, []primitive.ObjectID{ann}, Input{Title: "t", Type: typ})
		require.NoError(t, err)
	}

	list, err := svc.List(ctx, ann, dto.ListQuery{}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, list.Total)
	assert.EqualValues(t, 3, list.UnreadCount)
	assert.Equal(t, models.TypeSupport, list.Items[0].Type)

	first := list.Items[0].ID
	_, err = svc.MarkRead(ctx, bob, first)
	assert.ErrorIs(t, err, ErrNotificationNotFound)

	read, err := svc.MarkRead(ctx, ann, first)
	require.NoError(t, err)
	assert.True(t, read.Read)

	list, err = svc.List(ctx, ann, dto.ListQuery{Type: models.TypeIdea, Read: "false"}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, list.Total)
	assert.EqualValues(t, 2, list.UnreadCount)

	changed, err := svc.MarkAllRead(ctx, ann)
	require.NoError(t, err)
	assert.EqualValues(t, 2, changed)

	assert.ErrorIs(t, svc.Remove(ctx, bob, first), ErrNotificationNotFound)
	require.NoError(t, svc.Remove(ctx, ann, first))
	list, err = svc.List(ctx, ann, dto.ListQuery{}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, list.Total)
	assert.Zero(t, list.UnreadCount)
}
