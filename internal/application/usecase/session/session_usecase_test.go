package session

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/honors-hub/adapters/event"
	"github.com/khoahotran/honors-hub/adapters/memory/profilerepo"
	"github.com/khoahotran/honors-hub/adapters/notify"
	profileUC "github.com/khoahotran/honors-hub/internal/application/usecase/profile"
	"github.com/khoahotran/honors-hub/internal/domain/identity"
	"github.com/khoahotran/honors-hub/pkg/apperror"
	"github.com/khoahotran/honors-hub/pkg/auth"
	"github.com/khoahotran/honors-hub/pkg/clock"
	"github.com/khoahotran/honors-hub/pkg/logger"
	"github.com/khoahotran/honors-hub/pkg/metrics"
)

type sessionFixture struct {
	uc       *SessionUseCase
	provider *fakeProvider
	notifier *notify.MemoryNotifier
	jwt      *auth.JWTService
	profiles *profilerepo.Repo
}

func newSessionFixture(p *fakeProvider, timeout time.Duration) *sessionFixture {
	log := logger.NewNopLogger()
	m := metrics.NewUnregistered()
	repo := profilerepo.NewRepo()
	profiles := profileUC.NewProfileUseCase(repo, nil, nil, event.NewLogPublisher(log),
		clock.Fixed(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)), m, log)
	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	n := notify.NewMemoryNotifier()
	isAdmin := func(email string) bool { return strings.EqualFold(email, "admin@example.org") }

	return &sessionFixture{
		uc:       NewSessionUseCase(p, n, profiles, jwtSvc, isAdmin, timeout, m, log),
		provider: p,
		notifier: n,
		jwt:      jwtSvc,
		profiles: repo,
	}
}

func TestResolveAnonymous(t *testing.T) {
	f := newSessionFixture(newFakeProvider(true, nil), time.Second)

	out, err := f.uc.Resolve(context.Background(), "sid-1")
	require.NoError(t, err)
	assert.Equal(t, StatusAnonymous, out.Status)
	assert.Empty(t, out.AccessToken)
	assert.Nil(t, out.Profile)
	assert.Zero(t, f.provider.subscribers())
}

func TestResolveBootstrapsProfileOnce(t *testing.T) {
	f := newSessionFixture(newFakeProvider(true, ada), time.Second)
	ctx := context.Background()

	first, err := f.uc.Resolve(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, StatusAuthenticated, first.Status)
	require.NotNil(t, first.Profile)
	assert.Equal(t, 115, first.Profile.HonorsPoints)
	assert.Equal(t, auth.RoleMember, first.Role)

	claims, err := f.jwt.ValidateToken(first.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "g-ada", claims.UserID)

	second, err := f.uc.Resolve(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, first.Profile.HonorsPoints, second.Profile.HonorsPoints)

	es, err := f.profiles.ListEngagements(ctx, "g-ada")
	require.NoError(t, err)
	assert.Len(t, es, 4)
}

func TestResolveAdminRole(t *testing.T) {
	admin := &identity.Identity{UID: "g-admin", DisplayName: "Admin", Email: "Admin@Example.org"}
	f := newSessionFixture(newFakeProvider(true, admin), time.Second)

	out, err := f.uc.Resolve(context.Background(), "sid-1")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, out.Role)
}

func TestResolveNeverReportsBeforeIdentityIsKnown(t *testing.T) {
	f := newSessionFixture(newFakeProvider(false, nil), 30*time.Millisecond)

	out, err := f.uc.Resolve(context.Background(), "sid-1")
	require.Error(t, err)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, apperror.ErrInternal)
	assert.Zero(t, f.provider.subscribers())
}

func TestSignInReturnsURLOrNotifies(t *testing.T) {
	p := newFakeProvider(true, nil)
	f := newSessionFixture(p, time.Second)
	ctx := context.Background()

	assert.Equal(t, p.signInURL, f.uc.SignIn(ctx, "sid-1"))

	p.signInErr = identity.NewProviderError("popup_blocked", nil)
	assert.Empty(t, f.uc.SignIn(ctx, "sid-1"))

	notes, err := f.uc.Notifications(ctx, "sid-1")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Popup Blocked", notes[0].Title)
}

func TestCallbackRequiresCompleter(t *testing.T) {
	f := newSessionFixture(newFakeProvider(true, nil), time.Second)

	_, err := f.uc.ExecuteCallback(context.Background(), CallbackInput{State: "s", Code: "c"})
	assert.ErrorIs(t, err, apperror.ErrMisconfigured)
}

type completingProvider struct {
	*fakeProvider
	sessions map[string]string
}

func (p *completingProvider) CompleteSignIn(_ context.Context, state, code string) (string, error) {
	sid, ok := p.sessions[state]
	if !ok {
		return "", identity.NewProviderError("invalid_state", nil)
	}
	if code != "ok" {
		return sid, identity.NewProviderError("access_denied", nil)
	}
	p.emit(ada)
	return sid, nil
}

func (p *completingProvider) AbandonSignIn(_ context.Context, state string) (string, error) {
	sid, ok := p.sessions[state]
	if !ok {
		return "", identity.NewProviderError("invalid_state", nil)
	}
	return sid, nil
}

func TestCallbackOutcomes(t *testing.T) {
	p := &completingProvider{fakeProvider: newFakeProvider(true, nil), sessions: map[string]string{"st": "sid-9"}}
	log := logger.NewNopLogger()
	n := notify.NewMemoryNotifier()
	uc := NewSessionUseCase(p, n, nil, auth.NewJWTService("s", time.Hour), nil, time.Second, metrics.NewUnregistered(), log)
	ctx := context.Background()

	out, err := uc.ExecuteCallback(ctx, CallbackInput{State: "st", ErrorCode: "popup_closed_by_user"})
	require.NoError(t, err)
	assert.False(t, out.SignedIn)

	out, err = uc.ExecuteCallback(ctx, CallbackInput{State: "st", Code: "denied"})
	require.NoError(t, err)
	assert.False(t, out.SignedIn)

	out, err = uc.ExecuteCallback(ctx, CallbackInput{State: "st", Code: "ok"})
	require.NoError(t, err)
	assert.True(t, out.SignedIn)
	assert.Equal(t, "sid-9", out.SessionID)

	_, err = uc.ExecuteCallback(ctx, CallbackInput{State: "unknown", Code: "ok"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	notes, err := n.Drain(ctx, "sid-9")
	require.NoError(t, err)
	require.Len(t, notes, 3)
	assert.Equal(t, "Sign-in Cancelled", notes[0].Title)
	assert.Equal(t, "Sign-in Cancelled", notes[1].Title)
	assert.Equal(t, "Signed In", notes[2].Title)
}
