package honors

type Tier struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

var (
	Beginner = Tier{Name: "Beginner", Points: 0}
	Bronze   = Tier{Name: "Bronze", Points: 100}
	Silver   = Tier{Name: "Silver", Points: 250}
	Gold     = Tier{Name: "Gold", Points: 500}
	Platinum = Tier{Name: "Platinum", Points: 1000}
)

// Tiers is ordered by threshold.
var Tiers = []Tier{Bronze, Silver, Gold, Platinum}

const maxLevelName = "Max Level"

type Standing struct {
	Points   int     `json:"points"`
	Current  Tier    `json:"current"`
	Next     Tier    `json:"next"`
	Progress float64 `json:"progress"`
}

func Compute(points int) Standing {
	current := Beginner
	next := Tiers[0]

	for i := len(Tiers) - 1; i >= 0; i-- {
		if points >= Tiers[i].Points {
			current = Tiers[i]
			if i+1 < len(Tiers) {
				next = Tiers[i+1]
			} else {
				next = Tier{Name: maxLevelName, Points: current.Points}
			}
			break
		}
	}

	span := next.Points - current.Points
	progress := 100.0
	if span > 0 {
		progress = float64(points-current.Points) / float64(span) * 100
	}
	if progress < 0 {
		progress = 0
	}

	return Standing{Points: points, Current: current, Next: next, Progress: progress}
}

func (s Standing) IsMaxLevel() bool {
	return s.Next.Name == maxLevelName
}
