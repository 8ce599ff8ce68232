package profilerepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/khoahotran/honors-hub/internal/domain/profile"
	"github.com/khoahotran/honors-hub/pkg/apperror"
)

// Repo is an in-memory implementation of profile.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byID        map[string]profile.Profile
	engagements map[string][]profile.Engagement
}

func NewRepo() *Repo {
	return &Repo{
		byID:        make(map[string]profile.Profile),
		engagements: make(map[string][]profile.Engagement),
	}
}

func (r *Repo) FindByID(_ context.Context, id string) (*profile.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, apperror.NewNotFound("profile", id)
	}
	return &p, nil
}

func (r *Repo) CreateIfAbsent(_ context.Context, p *profile.Profile, starter []profile.Engagement) (bool, *profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byID[p.ID]; ok {
		return false, &existing, nil
	}

	stored := *p
	stored.Engagements = nil
	stored.HonorsPoints = 0
	seen := make(map[string]bool, len(starter))
	for _, e := range starter {
		if seen[e.SourceRef] {
			continue
		}
		seen[e.SourceRef] = true
		e.ProfileID = p.ID
		r.engagements[p.ID] = append(r.engagements[p.ID], e)
		stored.HonorsPoints += e.Points
	}
	r.byID[p.ID] = stored
	return true, &stored, nil
}

func (r *Repo) Update(_ context.Context, id string, u profile.Update, at time.Time) (*profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, apperror.NewNotFound("profile", id)
	}
	p.Apply(u, at)
	r.byID[id] = p
	return &p, nil
}

func (r *Repo) ListEngagements(_ context.Context, profileID string) ([]profile.Engagement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]profile.Engagement, len(r.engagements[profileID]))
	copy(out, r.engagements[profileID])
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].Title < out[j].Title
	})
	return out, nil
}

func (r *Repo) AddEngagement(_ context.Context, e profile.Engagement) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[e.ProfileID]
	if !ok {
		return false, apperror.NewNotFound("profile", e.ProfileID)
	}
	for _, existing := range r.engagements[e.ProfileID] {
		if existing.SourceRef == e.SourceRef {
			return false, nil
		}
	}

	r.engagements[e.ProfileID] = append(r.engagements[e.ProfileID], e)
	p.HonorsPoints += e.Points
	p.UpdatedAt = e.Date
	r.byID[e.ProfileID] = p
	return true, nil
}
