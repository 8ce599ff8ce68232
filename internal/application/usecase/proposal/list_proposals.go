package proposal

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khoahotran/honors-hub/internal/domain/proposal"
	"github.com/khoahotran/honors-hub/pkg/apperror"
	"github.com/khoahotran/honors-hub/pkg/logger"
)

var tracer = otel.Tracer("proposal_usecase")

type ListProposalsUseCase struct {
	proposalRepo proposal.Repository
	logger       logger.Logger
	seeded       atomic.Bool
}

func NewListProposalsUseCase(repo proposal.Repository, log logger.Logger) *ListProposalsUseCase {
	return &ListProposalsUseCase{proposalRepo: repo, logger: log}
}

type ListProposalsInput struct {
	Status string
	Page   int
	Limit  int
}

// ListProposalsOutput carries the page and limit actually applied after clamping.
type ListProposalsOutput struct {
	Proposals []*proposal.Proposal
	Page      int
	Limit     int
}

// Execute writes the demo proposals into an empty store before the first listing.
func (uc *ListProposalsUseCase) Execute(ctx context.Context, input ListProposalsInput) (*ListProposalsOutput, error) {
	ctx, span := tracer.Start(ctx, "ListProposals")
	defer span.End()

	filter := proposal.ListFilter{Status: proposal.Status(input.Status)}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("unknown status %q", input.Status), proposal.ErrInvalidStatus)
	}

	if input.Limit <= 0 || input.Limit > 100 {
		input.Limit = 50
	}
	if input.Page <= 0 {
		input.Page = 1
	}
	filter.Limit = input.Limit
	filter.Offset = (input.Page - 1) * input.Limit

	if !uc.seeded.Load() {
		wrote, err := uc.proposalRepo.SeedIfEmpty(ctx, proposal.DemoProposals())
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("seed demo proposals failed: %w", err)
		}
		if wrote {
			uc.logger.Info("Seeded demo proposals into empty store")
		}
		uc.seeded.Store(true)
	}

	proposals, err := uc.proposalRepo.List(ctx, filter)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("get proposal list failed: %w", err)
	}

	uc.logger.Debug("Listed proposals", zap.Int("count", len(proposals)), zap.String("status", input.Status))
	return &ListProposalsOutput{Proposals: proposals, Page: input.Page, Limit: input.Limit}, nil
}
