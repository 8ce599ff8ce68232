package http

import (
	"time"

	"github.com/khoahotran/honors-hub/internal/application/usecase/session"
	"github.com/khoahotran/honors-hub/internal/domain/honors"
	"github.com/khoahotran/honors-hub/internal/domain/identity"
	"github.com/khoahotran/honors-hub/internal/domain/profile"
	"github.com/khoahotran/honors-hub/internal/domain/proposal"
)

// Session DTOs

type IdentityDTO struct {
	UID         string `json:"uid"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photo_url"`
}

type SessionDTO struct {
	Status      string       `json:"status"`
	AccessToken string       `json:"access_token,omitempty"`
	Role        string       `json:"role,omitempty"`
	User        *IdentityDTO `json:"user"`
	Profile     *ProfileDTO  `json:"profile"`
}

func ToSessionDTO(out *session.ResolveOutput) SessionDTO {
	dto := SessionDTO{
		Status:      string(out.Status),
		AccessToken: out.AccessToken,
		Role:        out.Role,
	}
	if out.Identity != nil {
		dto.User = toIdentityDTO(out.Identity)
	}
	if out.Profile != nil {
		p := ToProfileDTO(out.Profile)
		dto.Profile = &p
	}
	return dto
}

func toIdentityDTO(id *identity.Identity) *IdentityDTO {
	return &IdentityDTO{
		UID:         id.UID,
		DisplayName: id.DisplayName,
		Email:       id.Email,
		PhotoURL:    id.PhotoURL,
	}
}

// Profile DTOs

type ProfileDTO struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PhotoURL     string    `json:"photo_url"`
	JoinedAt     time.Time `json:"joined_at"`
	HonorsPoints int       `json:"honors_points"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

func ToProfileDTO(p *profile.Profile) ProfileDTO {
	return ProfileDTO{
		ID:           p.ID,
		Name:         p.Name,
		Email:        p.Email,
		PhotoURL:     p.PhotoURL,
		JoinedAt:     p.JoinedAt,
		HonorsPoints: p.HonorsPoints,
		UpdatedAt:    p.UpdatedAt,
	}
}

type EngagementDTO struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Type    string `json:"type"`
	Points  int    `json:"points"`
	Date    string `json:"date"`
	Details string `json:"details"`
}

func ToEngagementDTOs(list []profile.Engagement) []EngagementDTO {
	dtos := make([]EngagementDTO, len(list))
	for i, e := range list {
		dtos[i] = EngagementDTO{
			ID:      e.ID.String(),
			Title:   e.Title,
			Type:    string(e.Type),
			Points:  e.Points,
			Date:    e.Date.Format(proposal.DateLayout),
			Details: e.Details,
		}
	}
	return dtos
}

type StandingDTO struct {
	Points   int         `json:"points"`
	Current  honors.Tier `json:"current"`
	Next     honors.Tier `json:"next"`
	Progress float64     `json:"progress"`
}

func ToStandingDTO(s honors.Standing) StandingDTO {
	return StandingDTO{Points: s.Points, Current: s.Current, Next: s.Next, Progress: s.Progress}
}

// Proposal DTOs

type CreateProposalRequest struct {
	Title          string `json:"title" binding:"required"`
	EventType      string `json:"event_type" binding:"required"`
	Description    string `json:"description" binding:"required"`
	Goals          string `json:"goals" binding:"required"`
	Resources      string `json:"resources"`
	TargetAudience string `json:"target_audience"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ProposalDTO struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	EventType      string `json:"event_type"`
	Description    string `json:"description"`
	Goals          string `json:"goals"`
	Resources      string `json:"resources"`
	TargetAudience string `json:"target_audience"`
	Status         string `json:"status"`
	SubmittedBy    string `json:"submitted_by"`
	SubmittedDate  string `json:"submitted_date"`
}

func ToProposalDTO(p *proposal.Proposal) ProposalDTO {
	return ProposalDTO{
		ID:             p.ID,
		Title:          p.Title,
		EventType:      string(p.EventType),
		Description:    p.Description,
		Goals:          p.Goals,
		Resources:      p.Resources,
		TargetAudience: p.TargetAudience,
		Status:         string(p.Status),
		SubmittedBy:    p.SubmittedBy,
		SubmittedDate:  p.SubmittedDate,
	}
}

func ToProposalDTOs(list []*proposal.Proposal) []ProposalDTO {
	dtos := make([]ProposalDTO, len(list))
	for i, p := range list {
		dtos[i] = ToProposalDTO(p)
	}
	return dtos
}
