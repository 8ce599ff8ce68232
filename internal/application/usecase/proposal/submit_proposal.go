package proposal

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/honors-hub/adapters/event"
	"github.com/khoahotran/honors-hub/internal/application/service"
	"github.com/khoahotran/honors-hub/internal/domain/profile"
	"github.com/khoahotran/honors-hub/internal/domain/proposal"
	"github.com/khoahotran/honors-hub/pkg/apperror"
	"github.com/khoahotran/honors-hub/pkg/clock"
	"github.com/khoahotran/honors-hub/pkg/logger"
	"github.com/khoahotran/honors-hub/pkg/metrics"
)

type SubmitProposalUseCase struct {
	proposalRepo proposal.Repository
	profileRepo  profile.Repository
	publisher    service.EventPublisher
	clock        clock.Clock
	metrics      *metrics.Metrics
	logger       logger.Logger
}

func NewSubmitProposalUseCase(repo proposal.Repository, profiles profile.Repository, pub service.EventPublisher, clk clock.Clock, m *metrics.Metrics, log logger.Logger) *SubmitProposalUseCase {
	return &SubmitProposalUseCase{
		proposalRepo: repo,
		profileRepo:  profiles,
		publisher:    pub,
		clock:        clk,
		metrics:      m,
		logger:       log,
	}
}

type SubmitProposalInput struct {
	SubmitterID string
	// SubmitterName is used only when the submitter has no stored profile.
	SubmitterName  string
	Title          string
	EventType      string
	Description    string
	Goals          string
	Resources      string
	TargetAudience string
}

type SubmitProposalOutput struct {
	Proposal *proposal.Proposal
}

func (uc *SubmitProposalUseCase) Execute(ctx context.Context, input SubmitProposalInput) (*SubmitProposalOutput, error) {
	ctx, span := tracer.Start(ctx, "SubmitProposal")
	defer span.End()

	submitter, err := uc.submitterName(ctx, input)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	now := uc.clock.Now()
	p := &proposal.Proposal{
		ID:             uuid.NewString(),
		Title:          strings.TrimSpace(input.Title),
		EventType:      proposal.EventType(input.EventType),
		Description:    strings.TrimSpace(input.Description),
		Goals:          strings.TrimSpace(input.Goals),
		Resources:      strings.TrimSpace(input.Resources),
		TargetAudience: strings.TrimSpace(input.TargetAudience),
		Status:         proposal.StatusUnderReview,
		SubmittedBy:    submitter,
		SubmitterID:    input.SubmitterID,
		SubmittedDate:  now.Format(proposal.DateLayout),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if p.SubmittedBy == "" {
		p.SubmittedBy = "Anonymous"
	}

	if err := p.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("validation failed", err)
	}

	if err := uc.proposalRepo.Save(ctx, p); err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("proposal_id", p.ID))
	uc.metrics.ProposalsSubmitted.Inc()

	go func() {
		err := uc.publisher.PublishProposalEvent(context.Background(), event.ProposalEventPayload{
			EventType:   event.ProposalEventSubmitted,
			ProposalID:  p.ID,
			Title:       p.Title,
			SubmitterID: p.SubmitterID,
			ToStatus:    string(p.Status),
			OccurredAt:  now,
		})
		if err != nil {
			uc.logger.Error("Failed to publish Kafka 'submitted' event", err, zap.String("proposal_id", p.ID))
		}
	}()

	return &SubmitProposalOutput{Proposal: p}, nil
}

// submitterName reads the current profile name so renames apply to new proposals
// without a fresh sign-in.
func (uc *SubmitProposalUseCase) submitterName(ctx context.Context, input SubmitProposalInput) (string, error) {
	if uc.profileRepo == nil || input.SubmitterID == "" {
		return input.SubmitterName, nil
	}
	p, err := uc.profileRepo.FindByID(ctx, input.SubmitterID)
	if errors.Is(err, apperror.ErrNotFound) {
		uc.logger.Warn("Submitter has no profile, using token name", zap.String("submitter_id", input.SubmitterID))
		return input.SubmitterName, nil
	}
	if err != nil {
		return "", err
	}
	return p.Name, nil
}
