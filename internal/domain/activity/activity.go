package activity

type Kind string

const (
	KindEvent   Kind = "Event"
	KindProject Kind = "Project"
)

type Activity struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Kind          Kind    `json:"type"`
	Description   string  `json:"description"`
	Attendance    int     `json:"attendance,omitempty"`
	Participation int     `json:"participation,omitempty"`
	FeedbackScore float64 `json:"feedback_score"`
	ImageURL      string  `json:"image"`
	Date          string  `json:"date"`
}

// Turnout is attendance for events and participation for projects.
func (a Activity) Turnout() int {
	if a.Kind == KindEvent {
		return a.Attendance
	}
	return a.Participation
}

var catalog = []Activity{
	{
		ID:            "1",
		Title:         "Community Garden Initiative",
		Kind:          KindProject,
		Description:   "Join us in creating a beautiful community garden. No experience necessary!",
		Participation: 75,
		FeedbackScore: 4.8,
		ImageURL:      "https://placehold.co/600x400.png",
		Date:          "Ongoing",
	},
	{
		ID:            "2",
		Title:         "Summer Tech Fair 2024",
		Kind:          KindEvent,
		Description:   "Explore the latest in technology with hands-on workshops and demos.",
		Attendance:    250,
		FeedbackScore: 4.5,
		ImageURL:      "https://placehold.co/600x400.png",
		Date:          "August 15, 2024",
	},
	{
		ID:            "3",
		Title:         "Neighborhood Mural Painting",
		Kind:          KindProject,
		Description:   "Help us paint a vibrant mural that reflects our community spirit.",
		Participation: 45,
		FeedbackScore: 4.9,
		ImageURL:      "https://placehold.co/600x400.png",
		Date:          "July 20, 2024",
	},
	{
		ID:            "4",
		Title:         "Annual Charity Run",
		Kind:          KindEvent,
		Description:   "Run for a cause! All proceeds go to local shelters.",
		Attendance:    500,
		FeedbackScore: 4.7,
		ImageURL:      "https://placehold.co/600x400.png",
		Date:          "September 5, 2024",
	},
}

// All returns a copy of the catalog.
func All() []Activity {
	out := make([]Activity, len(catalog))
	copy(out, catalog)
	return out
}

func Find(id string) (Activity, bool) {
	for _, a := range catalog {
		if a.ID == id {
			return a, true
		}
	}
	return Activity{}, false
}
