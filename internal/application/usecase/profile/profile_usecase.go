package profile

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/khoahotran/honors-hub/internal/application/service"
	"github.com/khoahotran/honors-hub/internal/domain/honors"
	"github.com/khoahotran/honors-hub/internal/domain/identity"
	"github.com/khoahotran/honors-hub/internal/domain/profile"
	"github.com/khoahotran/honors-hub/pkg/apperror"
	"github.com/khoahotran/honors-hub/pkg/clock"
	"github.com/khoahotran/honors-hub/pkg/logger"
	"github.com/khoahotran/honors-hub/pkg/metrics"
)

var tracer = otel.Tracer("profile_usecase")

type ProfileUseCase struct {
	profileRepo profile.Repository
	cache       profile.Cache
	uploader    service.Uploader
	publisher   service.EventPublisher
	clock       clock.Clock
	metrics     *metrics.Metrics
	logger      logger.Logger

	bootstraps singleflight.Group
}

func NewProfileUseCase(repo profile.Repository, cache profile.Cache, uploader service.Uploader, pub service.EventPublisher, clk clock.Clock, m *metrics.Metrics, log logger.Logger) *ProfileUseCase {
	if cache == nil {
		cache = nopCache{}
	}
	return &ProfileUseCase{
		profileRepo: repo,
		cache:       cache,
		uploader:    uploader,
		publisher:   pub,
		clock:       clk,
		metrics:     m,
		logger:      log,
	}
}

// LoadOrCreate returns the profile for id, creating it with the starter engagements
// on first sign-in. Concurrent calls for one identity share a single storage round.
func (uc *ProfileUseCase) LoadOrCreate(ctx context.Context, id *identity.Identity) (*profile.Profile, error) {
	if id == nil || id.UID == "" {
		return nil, apperror.NewInvalidInput("identity is required to load a profile", nil)
	}

	ctx, span := tracer.Start(ctx, "LoadOrCreate")
	defer span.End()
	span.SetAttributes(attribute.String("profile_id", id.UID))

	// Detached so one caller giving up does not fail the others sharing the call.
	shareCtx := context.WithoutCancel(ctx)
	v, err, shared := uc.bootstraps.Do(id.UID, func() (any, error) {
		return uc.loadOrCreate(shareCtx, id)
	})
	if shared {
		uc.metrics.BootstrapsShared.Inc()
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	p := *v.(*profile.Profile)
	return &p, nil
}

func (uc *ProfileUseCase) loadOrCreate(ctx context.Context, id *identity.Identity) (*profile.Profile, error) {
	if p := uc.cached(ctx, id.UID); p != nil {
		return p, nil
	}

	p, err := uc.profileRepo.FindByID(ctx, id.UID)
	if err == nil {
		uc.store(ctx, p)
		return p, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	now := uc.clock.Now()
	starters := profile.StarterEngagements(id.UID, now)
	created, stored, err := uc.profileRepo.CreateIfAbsent(ctx, profile.NewFromIdentity(id, now), starters)
	if err != nil {
		return nil, err
	}
	if created {
		uc.metrics.ProfilesCreated.Inc()
		uc.metrics.PointsAwarded.Add(float64(profile.SumPoints(starters)))
		uc.logger.Info("Created profile on first sign-in",
			zap.String("profile_id", id.UID), zap.Int("honors_points", stored.HonorsPoints))
	}
	uc.store(ctx, stored)
	return stored, nil
}

type GetProfileInput struct {
	ProfileID string
}

type GetProfileOutput struct {
	Profile *profile.Profile
}

func (uc *ProfileUseCase) ExecuteGetProfile(ctx context.Context, input GetProfileInput) (*GetProfileOutput, error) {
	if p := uc.cached(ctx, input.ProfileID); p != nil {
		return &GetProfileOutput{Profile: p}, nil
	}
	p, err := uc.profileRepo.FindByID(ctx, input.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("get profile failed: %w", err)
	}
	uc.store(ctx, p)
	return &GetProfileOutput{Profile: p}, nil
}

type UpdateProfileInput struct {
	ProfileID string
	Name      *string
	Email     *string
}

type UpdateProfileOutput struct {
	Profile *profile.Profile
}

func (uc *ProfileUseCase) ExecuteUpdateProfile(ctx context.Context, input UpdateProfileInput) (*UpdateProfileOutput, error) {
	upd := profile.Update{Name: input.Name, Email: input.Email}
	if upd.Empty() {
		return nil, apperror.NewInvalidInput("nothing to update", nil)
	}
	if err := upd.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("validation failed", err)
	}

	p, err := uc.profileRepo.Update(ctx, input.ProfileID, upd, uc.clock.Now())
	uc.invalidate(ctx, input.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("update profile failed: %w", err)
	}
	return &UpdateProfileOutput{Profile: p}, nil
}

type ListEngagementsOutput struct {
	Engagements []profile.Engagement
}

func (uc *ProfileUseCase) ExecuteListEngagements(ctx context.Context, profileID string) (*ListEngagementsOutput, error) {
	es, err := uc.profileRepo.ListEngagements(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("list engagements failed: %w", err)
	}
	return &ListEngagementsOutput{Engagements: es}, nil
}

type StandingOutput struct {
	Points   int
	Standing honors.Standing
}

func (uc *ProfileUseCase) ExecuteStanding(ctx context.Context, profileID string) (*StandingOutput, error) {
	out, err := uc.ExecuteGetProfile(ctx, GetProfileInput{ProfileID: profileID})
	if err != nil {
		return nil, err
	}
	return &StandingOutput{
		Points:   out.Profile.HonorsPoints,
		Standing: honors.Compute(out.Profile.HonorsPoints),
	}, nil
}

func (uc *ProfileUseCase) cached(ctx context.Context, id string) *profile.Profile {
	p, err := uc.cache.Get(ctx, id)
	if err != nil {
		uc.logger.Warn("Profile cache read failed", zap.String("profile_id", id), zap.Error(err))
		return nil
	}
	return p
}

func (uc *ProfileUseCase) store(ctx context.Context, p *profile.Profile) {
	if err := uc.cache.Set(ctx, p); err != nil {
		uc.logger.Warn("Profile cache write failed", zap.String("profile_id", p.ID), zap.Error(err))
	}
}

func (uc *ProfileUseCase) invalidate(ctx context.Context, id string) {
	if err := uc.cache.Invalidate(ctx, id); err != nil {
		uc.logger.Warn("Profile cache invalidation failed", zap.String("profile_id", id), zap.Error(err))
	}
}

type nopCache struct{}

func (nopCache) Get(context.Context, string) (*profile.Profile, error) { return nil, nil }
func (nopCache) Set(context.Context, *profile.Profile) error           { return nil }
func (nopCache) Invalidate(context.Context, string) error              { return nil }
