package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/honors-hub/adapters/event"
	"github.com/khoahotran/honors-hub/internal/domain/profile"
	"github.com/khoahotran/honors-hub/internal/domain/proposal"
	"github.com/khoahotran/honors-hub/pkg/apperror"
)

const (
	ApprovedProposalPoints  = 50
	CompletedProposalPoints = 75
)

type AwardInput struct {
	ProfileID string
	Title     string
	Type      profile.EngagementType
	Points    int
	Details   string
	SourceRef string
}

type AwardOutput struct {
	Added   bool
	Profile *profile.Profile
}

// ExecuteAward records an engagement and adds its points. Awarding the same
// SourceRef twice leaves the profile unchanged.
func (uc *ProfileUseCase) ExecuteAward(ctx context.Context, input AwardInput) (*AwardOutput, error) {
	ctx, span := tracer.Start(ctx, "ExecuteAward")
	defer span.End()

	e := profile.Engagement{
		ID:        uuid.New(),
		ProfileID: input.ProfileID,
		Title:     input.Title,
		Type:      input.Type,
		Points:    input.Points,
		Date:      uc.clock.Now(),
		Details:   input.Details,
		SourceRef: input.SourceRef,
	}
	if err := e.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("validation failed", err)
	}

	added, err := uc.profileRepo.AddEngagement(ctx, e)
	uc.invalidate(ctx, input.ProfileID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("award engagement failed: %w", err)
	}
	if added {
		uc.metrics.PointsAwarded.Add(float64(e.Points))
	}

	p, err := uc.profileRepo.FindByID(ctx, input.ProfileID)
	if err != nil {
		return nil, err
	}
	return &AwardOutput{Added: added, Profile: p}, nil
}

// ProcessProposalEvent awards the submitter when a proposal is approved or completed.
func (uc *ProfileUseCase) ProcessProposalEvent(ctx context.Context, payload event.ProposalEventPayload) error {
	l := uc.logger.With(zap.String("proposal_id", payload.ProposalID), zap.String("event_type", string(payload.EventType)))

	if payload.EventType != event.ProposalEventStatusChanged || payload.SubmitterID == "" {
		l.Debug("No award for proposal event")
		return nil
	}

	var input AwardInput
	switch proposal.Status(payload.ToStatus) {
	case proposal.StatusApproved:
		input = AwardInput{
			Title:   payload.Title,
			Type:    profile.EngagementProposalSubmission,
			Points:  ApprovedProposalPoints,
			Details: "Proposal approved by the review team.",
		}
	case proposal.StatusCompleted:
		input = AwardInput{
			Title:   payload.Title,
			Type:    profile.EngagementProjectContribution,
			Points:  CompletedProposalPoints,
			Details: "Led the proposal through to completion.",
		}
	default:
		return nil
	}
	input.ProfileID = payload.SubmitterID
	input.SourceRef = fmt.Sprintf("proposal:%s:%s", payload.ProposalID, payload.ToStatus)

	out, err := uc.ExecuteAward(ctx, input)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			l.Warn("Submitter profile not found, skipping award", zap.String("profile_id", payload.SubmitterID))
			return nil
		}
		return err
	}
	l.Info("Processed proposal award", zap.Bool("added", out.Added), zap.Int("honors_points", out.Profile.HonorsPoints))
	return nil
}
