package proposal

import "time"

// DemoProposals is the fixed set written to an empty store on first listing.
func DemoProposals() []*Proposal {
	at := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	demo := []*Proposal{
		{
			ID:             "p1",
			Title:          "Weekly Yoga in the Park",
			EventType:      EventSocial,
			Description:    "A proposal for free weekly yoga sessions to promote health and wellness.",
			Goals:          "Improve community health, foster connections.",
			Resources:      "Yoga mats, certified instructor.",
			TargetAudience: "All ages and fitness levels.",
			Status:         StatusApproved,
			SubmittedDate:  "2024-06-01",
		},
		{
			ID:             "p2",
			Title:          "Coding Bootcamp for Teens",
			EventType:      EventAcademic,
			Description:    "An intensive coding bootcamp to equip teenagers with valuable tech skills.",
			Goals:          "Provide tech education, prepare for future careers.",
			Resources:      "Laptops, classroom space, experienced instructors.",
			TargetAudience: "Ages 13-18.",
			Status:         StatusInProgress,
			SubmittedDate:  "2024-05-20",
		},
		{
			ID:             "p3",
			Title:          "Community-wide Book Swap",
			EventType:      EventSocial,
			Description:    "An event for residents to exchange books and promote reading.",
			Goals:          "Encourage reading, build a literary community.",
			Resources:      "Collection bins, event space.",
			TargetAudience: "All residents.",
			Status:         StatusUnderReview,
			SubmittedDate:  "2024-07-02",
		},
		{
			ID:             "p4",
			Title:          "Senior Companion Program",
			EventType:      EventService,
			Description:    "A program to pair volunteers with seniors for companionship and support.",
			Goals:          "Combat loneliness among seniors, foster intergenerational bonds.",
			Resources:      "Volunteer coordination, background checks.",
			TargetAudience: "Seniors and volunteers.",
			Status:         StatusCompleted,
			SubmittedDate:  "2024-03-15",
		},
		{
			ID:             "p5",
			Title:          "Expand Public Wi-Fi",
			EventType:      EventColloquium,
			Description:    "Proposal to expand free public Wi-Fi to more parks and public spaces.",
			Goals:          "Increase digital equity.",
			Resources:      "Network hardware, installation services.",
			TargetAudience: "All residents.",
			Status:         StatusRejected,
			SubmittedDate:  "2024-04-10",
		},
	}
	for _, p := range demo {
		p.SubmittedBy = "Community Team"
		p.CreatedAt = at
		p.UpdatedAt = at
	}
	return demo
}
