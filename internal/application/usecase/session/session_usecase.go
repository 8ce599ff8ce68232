package session

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khoahotran/honors-hub/internal/application/service"
	"github.com/khoahotran/honors-hub/internal/domain/identity"
	"github.com/khoahotran/honors-hub/internal/domain/notification"
	"github.com/khoahotran/honors-hub/internal/domain/profile"
	"github.com/khoahotran/honors-hub/pkg/apperror"
	"github.com/khoahotran/honors-hub/pkg/auth"
	"github.com/khoahotran/honors-hub/pkg/logger"
	"github.com/khoahotran/honors-hub/pkg/metrics"
)

var tracer = otel.Tracer("session_usecase")

type Status string

const (
	StatusAnonymous     Status = "anonymous"
	StatusAuthenticated Status = "authenticated"
)

// ProfileLoader is satisfied by the profile use case.
type ProfileLoader interface {
	LoadOrCreate(ctx context.Context, id *identity.Identity) (*profile.Profile, error)
}

type SessionUseCase struct {
	provider    service.IdentityProvider
	notifier    service.Notifier
	profiles    ProfileLoader
	jwtSvc      *auth.JWTService
	isAdmin     func(email string) bool
	gateTimeout time.Duration
	metrics     *metrics.Metrics
	logger      logger.Logger
}

func NewSessionUseCase(
	provider service.IdentityProvider,
	notifier service.Notifier,
	profiles ProfileLoader,
	jwtSvc *auth.JWTService,
	isAdmin func(email string) bool,
	gateTimeout time.Duration,
	m *metrics.Metrics,
	log logger.Logger,
) *SessionUseCase {
	if gateTimeout <= 0 {
		gateTimeout = 5 * time.Second
	}
	return &SessionUseCase{
		provider:    provider,
		notifier:    notifier,
		profiles:    profiles,
		jwtSvc:      jwtSvc,
		isAdmin:     isAdmin,
		gateTimeout: gateTimeout,
		metrics:     m,
		logger:      log,
	}
}

// OpenGate subscribes a new gate to the session. Callers must Close it.
func (uc *SessionUseCase) OpenGate(ctx context.Context, sessionID string) (*Gate, error) {
	g := newGate(sessionID, uc.provider, uc.notifier, uc.metrics, uc.logger)
	if err := g.subscribe(ctx); err != nil {
		return nil, apperror.NewInternal("failed to subscribe to identity provider", err)
	}
	return g, nil
}

type ResolveOutput struct {
	Status      Status
	Identity    *identity.Identity
	Profile     *profile.Profile
	Role        string
	AccessToken string
}

// Resolve waits for the session's identity to be known and, for a signed-in user,
// loads or creates the profile and issues an access token. It never reports a
// status before the identity is final.
func (uc *SessionUseCase) Resolve(ctx context.Context, sessionID string) (*ResolveOutput, error) {
	ctx, span := tracer.Start(ctx, "Resolve")
	defer span.End()

	g, err := uc.OpenGate(ctx, sessionID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	defer g.Close()

	return uc.resolveGate(ctx, g)
}

func (uc *SessionUseCase) resolveGate(ctx context.Context, g *Gate) (*ResolveOutput, error) {
	waitCtx, cancel := context.WithTimeout(ctx, uc.gateTimeout)
	defer cancel()

	id, err := g.Wait(waitCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, apperror.NewAppError(apperror.ErrInternal, "An internal server error occurred",
				"identity provider did not report the session state in time", err)
		}
		return nil, err
	}
	return uc.Authenticate(ctx, id)
}

// Authenticate turns a resolved identity into session state.
func (uc *SessionUseCase) Authenticate(ctx context.Context, id *identity.Identity) (*ResolveOutput, error) {
	if id == nil {
		return &ResolveOutput{Status: StatusAnonymous}, nil
	}

	p, err := uc.profiles.LoadOrCreate(ctx, id)
	if err != nil {
		return nil, err
	}

	role := auth.RoleMember
	if uc.isAdmin != nil && uc.isAdmin(id.Email) {
		role = auth.RoleAdmin
	}

	token, err := uc.jwtSvc.GenerateToken(id.UID, p.Name, role)
	if err != nil {
		uc.logger.Error("Failed to generate token", err, zap.String("uid", id.UID))
		return nil, apperror.NewInternal("failed to generate token", err)
	}

	return &ResolveOutput{
		Status:      StatusAuthenticated,
		Identity:    id,
		Profile:     p,
		Role:        role,
		AccessToken: token,
	}, nil
}

// SignIn returns the popup URL, or "" when the provider refused. The reason is
// posted to the session's notifications.
func (uc *SessionUseCase) SignIn(ctx context.Context, sessionID string) string {
	g := newGate(sessionID, uc.provider, uc.notifier, uc.metrics, uc.logger)
	return g.SignIn(ctx)
}

func (uc *SessionUseCase) SignOut(ctx context.Context, sessionID string) {
	g := newGate(sessionID, uc.provider, uc.notifier, uc.metrics, uc.logger)
	g.SignOut(ctx)
}

// Notifications drains the notifications queued for the session.
func (uc *SessionUseCase) Notifications(ctx context.Context, sessionID string) ([]notification.Notification, error) {
	notes, err := uc.notifier.Drain(ctx, sessionID)
	if err != nil {
		return nil, apperror.NewInternal("failed to read notifications", err)
	}
	return notes, nil
}
