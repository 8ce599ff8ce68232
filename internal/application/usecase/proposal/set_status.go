package proposal

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/honors-hub/adapters/event"
	"github.com/khoahotran/honors-hub/internal/application/service"
	"github.com/khoahotran/honors-hub/internal/domain/proposal"
	"github.com/khoahotran/honors-hub/pkg/apperror"
	"github.com/khoahotran/honors-hub/pkg/clock"
	"github.com/khoahotran/honors-hub/pkg/logger"
	"github.com/khoahotran/honors-hub/pkg/metrics"
)

type SetStatusUseCase struct {
	proposalRepo proposal.Repository
	publisher    service.EventPublisher
	clock        clock.Clock
	metrics      *metrics.Metrics
	logger       logger.Logger
}

func NewSetStatusUseCase(repo proposal.Repository, pub service.EventPublisher, clk clock.Clock, m *metrics.Metrics, log logger.Logger) *SetStatusUseCase {
	return &SetStatusUseCase{
		proposalRepo: repo,
		publisher:    pub,
		clock:        clk,
		metrics:      m,
		logger:       log,
	}
}

type SetStatusInput struct {
	ProposalID string
	Status     string
}

type SetStatusOutput struct {
	Proposal *proposal.Proposal
	Changed  bool
}

func (uc *SetStatusUseCase) Execute(ctx context.Context, input SetStatusInput) (*SetStatusOutput, error) {
	ctx, span := tracer.Start(ctx, "SetStatus")
	defer span.End()
	span.SetAttributes(attribute.String("proposal_id", input.ProposalID), attribute.String("to", input.Status))

	p, err := uc.proposalRepo.FindByID(ctx, input.ProposalID)
	if err != nil {
		return nil, err
	}

	from := p.Status
	to := proposal.Status(input.Status)
	now := uc.clock.Now()

	changed, err := p.TransitionTo(to, now)
	if err != nil {
		return nil, apperror.NewInvalidInput(
			fmt.Sprintf("cannot move proposal from %q to %q; allowed: %v", from, input.Status, from.AllowedNext()), err)
	}
	if !changed {
		return &SetStatusOutput{Proposal: p}, nil
	}

	err = uc.proposalRepo.UpdateStatus(ctx, p.ID, from, to, now)
	if errors.Is(err, proposal.ErrStatusChanged) {
		// Another writer got there first; same target is still a success.
		current, ferr := uc.proposalRepo.FindByID(ctx, p.ID)
		if ferr != nil {
			return nil, ferr
		}
		if current.Status == to {
			return &SetStatusOutput{Proposal: current}, nil
		}
		return nil, apperror.NewAppError(apperror.ErrConflict, "proposal conflict",
			fmt.Sprintf("proposal status changed to %q while updating", current.Status), err)
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	uc.metrics.StatusTransitions.WithLabelValues(string(from), string(to)).Inc()
	uc.logger.Info("Proposal status changed",
		zap.String("proposal_id", p.ID), zap.String("from", string(from)), zap.String("to", string(to)))

	go func() {
		err := uc.publisher.PublishProposalEvent(context.Background(), event.ProposalEventPayload{
			EventType:   event.ProposalEventStatusChanged,
			ProposalID:  p.ID,
			Title:       p.Title,
			SubmitterID: p.SubmitterID,
			FromStatus:  string(from),
			ToStatus:    string(to),
			OccurredAt:  now,
		})
		if err != nil {
			uc.logger.Error("Failed to publish Kafka 'status_changed' event", err, zap.String("proposal_id", p.ID))
		}
	}()

	return &SetStatusOutput{Proposal: p, Changed: true}, nil
}
