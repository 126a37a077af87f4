package authsvc

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/dto"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/models"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/policy"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/common"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/database/testhelper"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/mailer"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/session"
)

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

func tokenFromLink(t *testing.T, html string) string {
	t.Helper()
	i := strings.Index(html, "token=")
	require.GreaterOrEqual(t, i, 0)
	rest := html[i+len("token="):]
	return rest[:strings.Index(rest, `"`)]
}

func newAuthService(t *testing.T) (*AuthService, *captureMailer) {
	store := testhelper.SetupTestStore(t)
	mail := &captureMailer{}
	users := NewUserService(store, nil)
	svc := NewAuthService(users, NewTokenManager("secret", "greenfuture", time.Hour), session.NewMemoryStore(), mail, "http://app.local/")
	return svc, mail
}

func TestAuthService_RegisterLoginLogout(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, dto.RegisterInput{Name: "Ann", Email: " Ann@Example.com ", Password: "Passw0rd!", Department: "Eng"})
	require.NoError(t, err)
	assert.Equal(t, policy.RoleEmployee, reg.User.Role)
	assert.Equal(t, "ann@example.com", reg.User.Email)
	assert.True(t, reg.User.Settings.EmailNotifications)

	_, err = svc.Register(ctx, dto.RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "Passw0rd!", Department: "Eng"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Login(ctx, dto.LoginInput{Email: "ann@example.com", Password: "nope"})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	_, err = svc.Login(ctx, dto.LoginInput{Email: "ghost@example.com", Password: "Passw0rd!"})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	login, err := svc.Login(ctx, dto.LoginInput{Email: "ANN@example.com", Password: "Passw0rd!"})
	require.NoError(t, err)

	claims, user, err := svc.Authenticate(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, user.ID)

	require.NoError(t, svc.Logout(ctx, claims))
	_, _, err = svc.Authenticate(ctx, login.Token)
	assert.ErrorIs(t, err, common.ErrTokenInvalid)
}

func TestAuthService_ResetPasswordOnce(t *testing.T) {
	svc, mail := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, dto.RegisterInput{Name: "Bob", Email: "bob@example.com", Password: "Passw0rd!", Department: "Ops"})
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(ctx, "nobody@example.com"))
	assert.Empty(t, mail.sent)

	require.NoError(t, svc.ForgotPassword(ctx, "bob@example.com"))
	require.Len(t, mail.sent, 1)
	assert.Contains(t, mail.sent[0].HTML, "http://app.local/reset-password?token=")
	raw := tokenFromLink(t, mail.sent[0].HTML)

	require.NoError(t, svc.ResetPassword(ctx, dto.ResetPasswordInput{Token: raw, Password: "N3wPassword!"}))
	err = svc.ResetPassword(ctx, dto.ResetPasswordInput{Token: raw, Password: "Other0ne!!"})
	assert.ErrorIs(t, err, ErrResetTokenInvalid)

	_, err = svc.Login(ctx, dto.LoginInput{Email: "bob@example.com", Password: "N3wPassword!"})
	assert.NoError(t, err)
}

func TestAuthService_ChangePasswordAndAdminSeed(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	created, err := svc.EnsureAdmin(ctx, "admin@example.com", "Adm1nPass!")
	require.NoError(t, err)
	assert.True(t, created)
	created, err = svc.EnsureAdmin(ctx, "admin@example.com", "Adm1nPass!")
	require.NoError(t, err)
	assert.False(t, created)

	admin, err := svc.Users().FindByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, policy.RoleAdmin, admin.Role)

	err = svc.ChangePassword(ctx, admin, dto.ChangePasswordInput{CurrentPassword: "wrong", NewPassword: "N3wAdmin!!"})
	assert.ErrorIs(t, err, ErrWrongPassword)
	require.NoError(t, svc.ChangePassword(ctx, admin, dto.ChangePasswordInput{CurrentPassword: "Adm1nPass!", NewPassword: "N3wAdmin!!"}))
}

func TestUserService_PushActivityKeepsLatest(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	reg, err := svc.Register(ctx, dto.RegisterInput{Name: "Cat", Email: "cat@example.com", Password: "Passw0rd!", Department: "Eng"})
	require.NoError(t, err)

	users := svc.Users()
	for i := 0; i < 55; i++ {
		require.NoError(t, users.PushActivity(ctx, reg.User.ID, userActivity(int64(i))))
	}
	require.NoError(t, users.IncStatistics(ctx, reg.User.ID, map[string]int64{"votesReceived": 2}))

	u, err := users.FindByID(ctx, reg.User.ID)
	require.NoError(t, err)
	require.Len(t, u.Activities, 50)
	assert.Equal(t, int64(5), u.Activities[0].Timestamp)
	assert.Equal(t, int64(54), u.Activities[49].Timestamp)
	assert.Equal(t, int64(2), u.Statistics.VotesReceived)
}

func userActivity(ts int64) models.UserActivity {
	return models.UserActivity{Action: "Voted on an idea", Timestamp: ts}
}
