package suggestion

import "strings"

// Input is what the member submits to the optimizer. Lengths are counted in characters.
type Input struct {
	ProposalText       string `json:"proposal_text" validate:"required,min=50"`
	UserEngagementData string `json:"user_engagement_data" validate:"required,min=20"`
	CommunityNeeds     string `json:"community_needs" validate:"required,min=20"`
}

func (in Input) Normalize() Input {
	return Input{
		ProposalText:       strings.TrimSpace(in.ProposalText),
		UserEngagementData: strings.TrimSpace(in.UserEngagementData),
		CommunityNeeds:     strings.TrimSpace(in.CommunityNeeds),
	}
}

// Output is the model's structured reply.
type Output struct {
	Suggestions     string `json:"suggestions" validate:"required"`
	RevisedProposal string `json:"revised_proposal" validate:"required"`
}

func (out Output) Normalize() Output {
	return Output{
		Suggestions:     strings.TrimSpace(out.Suggestions),
		RevisedProposal: strings.TrimSpace(out.RevisedProposal),
	}
}
