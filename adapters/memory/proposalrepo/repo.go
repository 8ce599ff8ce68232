package proposalrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/khoahotran/honors-hub/internal/domain/proposal"
	"github.com/khoahotran/honors-hub/pkg/apperror"
)

// Repo is an in-memory implementation of proposal.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[string]proposal.Proposal
}

func NewRepo() *Repo {
	return &Repo{byID: make(map[string]proposal.Proposal)}
}

func (r *Repo) Save(_ context.Context, p *proposal.Proposal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[p.ID]; ok {
		return apperror.NewConflict("proposal", "id", p.ID)
	}
	r.byID[p.ID] = *p
	return nil
}

func (r *Repo) FindByID(_ context.Context, id string) (*proposal.Proposal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, apperror.NewNotFound("proposal", id)
	}
	return &p, nil
}

func (r *Repo) List(_ context.Context, filter proposal.ListFilter) ([]*proposal.Proposal, error) {
	r.mu.RLock()
	all := make([]proposal.Proposal, 0, len(r.byID))
	for _, p := range r.byID {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		all = append(all, p)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].SubmittedDate != all[j].SubmittedDate {
			return all[i].SubmittedDate > all[j].SubmittedDate
		}
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(all) {
			all = all[:0]
		} else {
			all = all[filter.Offset:]
		}
	}
	if filter.Limit > 0 && filter.Limit < len(all) {
		all = all[:filter.Limit]
	}

	out := make([]*proposal.Proposal, len(all))
	for i := range all {
		out[i] = &all[i]
	}
	return out, nil
}

func (r *Repo) UpdateStatus(_ context.Context, id string, from, to proposal.Status, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return apperror.NewNotFound("proposal", id)
	}
	if p.Status != from {
		return proposal.ErrStatusChanged
	}
	p.Status = to
	p.UpdatedAt = at
	r.byID[id] = p
	return nil
}

func (r *Repo) SeedIfEmpty(_ context.Context, seeds []*proposal.Proposal) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.byID) > 0 || len(seeds) == 0 {
		return false, nil
	}
	for _, p := range seeds {
		r.byID[p.ID] = *p
	}
	return true, nil
}
