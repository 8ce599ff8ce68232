package event

import "time"

type ProposalEventType string

const (
	ProposalEventSubmitted     ProposalEventType = "proposal.submitted"
	ProposalEventStatusChanged ProposalEventType = "proposal.status_changed"
)

type ProposalEventPayload struct {
	EventType   ProposalEventType `json:"event_type"`
	ProposalID  string            `json:"proposal_id"`
	Title       string            `json:"title"`
	SubmitterID string            `json:"submitter_id,omitempty"`
	FromStatus  string            `json:"from_status,omitempty"`
	ToStatus    string            `json:"to_status"`
	OccurredAt  time.Time         `json:"occurred_at"`
}

type AvatarEventPayload struct {
	ProfileID  string    `json:"profile_id"`
	PublicID   string    `json:"public_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
