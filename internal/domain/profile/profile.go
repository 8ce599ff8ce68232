package profile

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/honors-hub/internal/domain/identity"
)

type EngagementType string

const (
	EngagementEventAttendance     EngagementType = "Event Attendance"
	EngagementProjectContribution EngagementType = "Project Contribution"
	EngagementProposalSubmission  EngagementType = "Proposal Submission"
)

func (t EngagementType) Valid() bool {
	switch t {
	case EngagementEventAttendance, EngagementProjectContribution, EngagementProposalSubmission:
		return true
	}
	return false
}

// Engagement is an achievement record. It is never modified after it is stored.
type Engagement struct {
	ID        uuid.UUID      `json:"id"`
	ProfileID string         `json:"profile_id"`
	Title     string         `json:"title"`
	Type      EngagementType `json:"type"`
	Points    int            `json:"points"`
	Date      time.Time      `json:"date"`
	Details   string         `json:"details"`
	SourceRef string         `json:"source_ref"`
}

type Profile struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	PhotoURL     string       `json:"photo_url"`
	JoinedAt     time.Time    `json:"joined_at"`
	HonorsPoints int          `json:"honors_points"`
	Engagements  []Engagement `json:"engagements,omitempty"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

type Update struct {
	Name     *string
	Email    *string
	PhotoURL *string
}

var (
	ErrNameTooShort     = errors.New("name must be at least 2 characters")
	ErrInvalidEmail     = errors.New("email is not a valid address")
	ErrInvalidPoints    = errors.New("engagement points must be positive")
	ErrInvalidType      = errors.New("invalid engagement type")
	ErrMissingSourceRef = errors.New("engagement source reference is required")
)

const defaultName = "New User"

func NewFromIdentity(id *identity.Identity, now time.Time) *Profile {
	name := strings.TrimSpace(id.DisplayName)
	if name == "" {
		name = defaultName
	}
	return &Profile{
		ID:        id.UID,
		Name:      name,
		Email:     id.Email,
		PhotoURL:  id.PhotoURL,
		JoinedAt:  now,
		UpdatedAt: now,
	}
}

func (u Update) Validate() error {
	if u.Name != nil && len([]rune(strings.TrimSpace(*u.Name))) < 2 {
		return ErrNameTooShort
	}
	if u.Email != nil && *u.Email != "" {
		if _, err := mail.ParseAddress(*u.Email); err != nil {
			return ErrInvalidEmail
		}
	}
	return nil
}

func (u Update) Empty() bool {
	return u.Name == nil && u.Email == nil && u.PhotoURL == nil
}

func (p *Profile) Apply(u Update, at time.Time) {
	if u.Name != nil {
		p.Name = strings.TrimSpace(*u.Name)
	}
	if u.Email != nil {
		p.Email = strings.TrimSpace(*u.Email)
	}
	if u.PhotoURL != nil {
		p.PhotoURL = *u.PhotoURL
	}
	p.UpdatedAt = at
}

func (e *Engagement) Validate() error {
	if !e.Type.Valid() {
		return ErrInvalidType
	}
	if e.Points <= 0 {
		return ErrInvalidPoints
	}
	if e.SourceRef == "" {
		return ErrMissingSourceRef
	}
	return nil
}

func SumPoints(es []Engagement) int {
	total := 0
	for _, e := range es {
		total += e.Points
	}
	return total
}

type Repository interface {
	FindByID(ctx context.Context, id string) (*Profile, error)
	// CreateIfAbsent stores p together with starter in one transaction when no profile
	// with p.ID exists. It returns the stored profile either way.
	CreateIfAbsent(ctx context.Context, p *Profile, starter []Engagement) (created bool, stored *Profile, err error)
	Update(ctx context.Context, id string, u Update, at time.Time) (*Profile, error)
	ListEngagements(ctx context.Context, profileID string) ([]Engagement, error)
	// AddEngagement stores e and adds its points to the profile atomically. A repeated
	// SourceRef for the same profile is ignored and reports added=false.
	AddEngagement(ctx context.Context, e Engagement) (added bool, err error)
}

// Cache holds recently loaded profiles. Misses are reported as (nil, nil).
type Cache interface {
	Get(ctx context.Context, id string) (*Profile, error)
	Set(ctx context.Context, p *Profile) error
	Invalidate(ctx context.Context, id string) error
}
