package profile

import (
	"time"

	"github.com/google/uuid"
)

// starterNamespace derives stable engagement IDs so reseeding cannot mint new rows.
var starterNamespace = uuid.MustParse("8f0c2f0e-52a4-4f8e-9c55-0a6c8b3c51d2")

type starterTemplate struct {
	ref     string
	title   string
	typ     EngagementType
	points  int
	details string
	daysAgo int
}

var starterTemplates = []starterTemplate{
	{"starter:mural", "Neighborhood Mural Painting", EngagementProjectContribution, 40, "Contributed 4 hours of painting and design work.", 90},
	{"starter:techfair", "Summer Tech Fair", EngagementEventAttendance, 20, "Attended workshops on AI and Web Development.", 60},
	{"starter:yoga", "Weekly Yoga in the Park", EngagementProposalSubmission, 30, "Submitted the initial proposal which was later approved.", 30},
	{"starter:garden", "Community Garden Initiative", EngagementProjectContribution, 25, "Helped with planting and weekly maintenance.", 7},
}

// StarterEngagements is the fixed set seeded into a profile when it is first created.
func StarterEngagements(profileID string, now time.Time) []Engagement {
	out := make([]Engagement, 0, len(starterTemplates))
	for _, t := range starterTemplates {
		out = append(out, Engagement{
			ID:        uuid.NewSHA1(starterNamespace, []byte(profileID+"/"+t.ref)),
			ProfileID: profileID,
			Title:     t.title,
			Type:      t.typ,
			Points:    t.points,
			Date:      now.AddDate(0, 0, -t.daysAgo).Truncate(24 * time.Hour),
			Details:   t.details,
			SourceRef: t.ref,
		})
	}
	return out
}
