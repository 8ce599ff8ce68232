package proposal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusUnderReview Status = "Under Review"
	StatusApproved    Status = "Approved"
	StatusInProgress  Status = "In Progress"
	StatusCompleted   Status = "Completed"
	StatusRejected    Status = "Rejected"
)

type EventType string

const (
	EventSocial     EventType = "Social Event"
	EventService    EventType = "Service Event"
	EventAcademic   EventType = "Academic Event"
	EventColloquium EventType = "Colloquium"
)

// DateLayout keeps submission dates lexically sortable.
const DateLayout = "2006-01-02"

var EventTypes = []EventType{EventSocial, EventService, EventAcademic, EventColloquium}

var transitions = map[Status][]Status{
	StatusUnderReview: {StatusApproved, StatusRejected},
	StatusApproved:    {StatusInProgress},
	StatusInProgress:  {StatusCompleted},
	StatusCompleted:   {},
	StatusRejected:    {},
}

var (
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidEventType   = errors.New("invalid event type")
	ErrIllegalTransition  = errors.New("illegal status transition")
	ErrMissingField       = errors.New("required field is empty")
	ErrInvalidSubmittedOn = errors.New("submitted date must be YYYY-MM-DD")
	ErrProposalNotFound   = errors.New("proposal not found")
	ErrStatusChanged      = errors.New("proposal status changed concurrently")
)

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (e EventType) Valid() bool {
	for _, t := range EventTypes {
		if t == e {
			return true
		}
	}
	return false
}

// AllowedNext returns the statuses reachable from s in one step.
func (s Status) AllowedNext() []Status {
	next := transitions[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Proposal struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	EventType      EventType `json:"event_type"`
	Description    string    `json:"description"`
	Goals          string    `json:"goals"`
	Resources      string    `json:"resources"`
	TargetAudience string    `json:"target_audience"`
	Status         Status    `json:"status"`
	SubmittedBy    string    `json:"submitted_by"`
	SubmitterID    string    `json:"submitter_id,omitempty"`
	SubmittedDate  string    `json:"submitted_date"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (p *Proposal) Validate() error {
	for name, v := range map[string]string{"title": p.Title, "description": p.Description, "goals": p.Goals} {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%s: %w", name, ErrMissingField)
		}
	}
	if !p.EventType.Valid() {
		return fmt.Errorf("%q: %w", p.EventType, ErrInvalidEventType)
	}
	if !p.Status.Valid() {
		return fmt.Errorf("%q: %w", p.Status, ErrInvalidStatus)
	}
	if _, err := time.Parse(DateLayout, p.SubmittedDate); err != nil {
		return ErrInvalidSubmittedOn
	}
	return nil
}

// TransitionTo applies a status change. Re-applying the current status is a no-op and
// reports changed=false.
func (p *Proposal) TransitionTo(to Status, at time.Time) (changed bool, err error) {
	if !to.Valid() {
		return false, fmt.Errorf("%q: %w", to, ErrInvalidStatus)
	}
	if p.Status == to {
		return false, nil
	}
	if !CanTransition(p.Status, to) {
		return false, fmt.Errorf("%s -> %s: %w", p.Status, to, ErrIllegalTransition)
	}
	p.Status = to
	p.UpdatedAt = at
	return true, nil
}

type ListFilter struct {
	Status Status
	Limit  int
	Offset int
}

type Repository interface {
	Save(ctx context.Context, p *Proposal) error
	FindByID(ctx context.Context, id string) (*Proposal, error)
	List(ctx context.Context, filter ListFilter) ([]*Proposal, error)
	// UpdateStatus writes to only if the stored status still equals from.
	UpdateStatus(ctx context.Context, id string, from, to Status, at time.Time) error
	// SeedIfEmpty inserts seeds only when the collection has no rows. It reports
	// whether anything was written.
	SeedIfEmpty(ctx context.Context, seeds []*Proposal) (bool, error)
}
