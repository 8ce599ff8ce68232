package proposal

import (
	"context"

	"github.com/khoahotran/honors-hub/internal/domain/proposal"
)

type GetProposalUseCase struct {
	proposalRepo proposal.Repository
}

func NewGetProposalUseCase(repo proposal.Repository) *GetProposalUseCase {
	return &GetProposalUseCase{proposalRepo: repo}
}

type GetProposalOutput struct {
	Proposal *proposal.Proposal
}

func (uc *GetProposalUseCase) Execute(ctx context.Context, id string) (*GetProposalOutput, error) {
	p, err := uc.proposalRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &GetProposalOutput{Proposal: p}, nil
}
