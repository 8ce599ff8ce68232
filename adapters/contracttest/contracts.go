package contracttest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/honors-hub/internal/domain/identity"
	"github.com/khoahotran/honors-hub/internal/domain/profile"
	"github.com/khoahotran/honors-hub/internal/domain/proposal"
	"github.com/khoahotran/honors-hub/pkg/apperror"
)

type CleanupFunc = func()

type ProfileRepoFactory func(t *testing.T) (profile.Repository, CleanupFunc)
type ProposalRepoFactory func(t *testing.T) (proposal.Repository, CleanupFunc)

var baseTime = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

func RunProfileRepo(t *testing.T, newRepo ProfileRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	uid := "uid-" + uuid.NewString()
	p := profile.NewFromIdentity(&identity.Identity{UID: uid, DisplayName: "Ada", Email: "ada@example.org"}, baseTime)
	starters := profile.StarterEngagements(uid, baseTime)

	_, err := repo.FindByID(ctx, uid)
	require.ErrorIs(t, err, apperror.ErrNotFound)

	created, stored, err := repo.CreateIfAbsent(ctx, p, starters)
	require.NoError(t, err)
	require.True(t, created)
	assert.Equal(t, profile.SumPoints(starters), stored.HonorsPoints)
	assert.Equal(t, "Ada", stored.Name)

	created, again, err := repo.CreateIfAbsent(ctx, p, starters)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, stored.HonorsPoints, again.HonorsPoints)

	es, err := repo.ListEngagements(ctx, uid)
	require.NoError(t, err)
	require.Len(t, es, len(starters))
	for i := 1; i < len(es); i++ {
		assert.False(t, es[i].Date.After(es[i-1].Date), "engagements must be newest first")
	}

	award := profile.Engagement{
		ID:        uuid.New(),
		ProfileID: uid,
		Title:     "Book Swap",
		Type:      profile.EngagementEventAttendance,
		Points:    15,
		Date:      baseTime.Add(time.Hour),
		SourceRef: "event:book-swap",
	}
	added, err := repo.AddEngagement(ctx, award)
	require.NoError(t, err)
	assert.True(t, added)

	award.ID = uuid.New()
	added, err = repo.AddEngagement(ctx, award)
	require.NoError(t, err)
	assert.False(t, added, "same source must not be awarded twice")

	got, err := repo.FindByID(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, profile.SumPoints(starters)+15, got.HonorsPoints)

	es, err = repo.ListEngagements(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, got.HonorsPoints, profile.SumPoints(es))

	name := "Ada Lovelace"
	updated, err := repo.Update(ctx, uid, profile.Update{Name: &name}, baseTime.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, got.HonorsPoints, updated.HonorsPoints)

	_, err = repo.Update(ctx, "missing-"+uid, profile.Update{Name: &name}, baseTime)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	award.ProfileID = "missing-" + uid
	_, err = repo.AddEngagement(ctx, award)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func RunProfileRepoConcurrentCreate(t *testing.T, newRepo ProfileRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	uid := "uid-" + uuid.NewString()
	starters := profile.StarterEngagements(uid, baseTime)

	const callers = 8
	var wg sync.WaitGroup
	results := make(chan bool, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := profile.NewFromIdentity(&identity.Identity{UID: uid, DisplayName: "Grace"}, baseTime)
			created, _, err := repo.CreateIfAbsent(ctx, p, starters)
			assert.NoError(t, err)
			results <- created
		}()
	}
	wg.Wait()
	close(results)

	creations := 0
	for created := range results {
		if created {
			creations++
		}
	}
	assert.Equal(t, 1, creations)

	es, err := repo.ListEngagements(ctx, uid)
	require.NoError(t, err)
	assert.Len(t, es, len(starters))
}

func RunProposalRepo(t *testing.T, newRepo ProposalRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	wrote, err := repo.SeedIfEmpty(ctx, proposal.DemoProposals())
	require.NoError(t, err)
	assert.True(t, wrote)

	wrote, err = repo.SeedIfEmpty(ctx, proposal.DemoProposals())
	require.NoError(t, err)
	assert.False(t, wrote)

	all, err := repo.List(ctx, proposal.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, len(proposal.DemoProposals()))
	for i := 1; i < len(all); i++ {
		assert.GreaterOrEqual(t, all[i-1].SubmittedDate, all[i].SubmittedDate)
	}

	p := &proposal.Proposal{
		ID:            "prop-" + uuid.NewString(),
		Title:         "Park Cleanup",
		EventType:     proposal.EventService,
		Description:   "Monthly cleanup of the riverside park.",
		Goals:         "Cleaner park.",
		Status:        proposal.StatusUnderReview,
		SubmittedBy:   "Ada",
		SubmitterID:   "uid-ada",
		SubmittedDate: "2099-01-02",
		CreatedAt:     baseTime,
		UpdatedAt:     baseTime,
	}
	require.NoError(t, repo.Save(ctx, p))
	assert.ErrorIs(t, repo.Save(ctx, p), apperror.ErrConflict)

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Title, got.Title)
	assert.Equal(t, "2099-01-02", got.SubmittedDate)
	assert.Equal(t, proposal.StatusUnderReview, got.Status)

	first, err := repo.List(ctx, proposal.ListFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, p.ID, first[0].ID)

	underReview, err := repo.List(ctx, proposal.ListFilter{Status: proposal.StatusUnderReview})
	require.NoError(t, err)
	for _, q := range underReview {
		assert.Equal(t, proposal.StatusUnderReview, q.Status)
	}

	require.NoError(t, repo.UpdateStatus(ctx, p.ID, proposal.StatusUnderReview, proposal.StatusApproved, baseTime.Add(time.Hour)))
	err = repo.UpdateStatus(ctx, p.ID, proposal.StatusUnderReview, proposal.StatusRejected, baseTime.Add(time.Hour))
	assert.ErrorIs(t, err, proposal.ErrStatusChanged)

	got, err = repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, proposal.StatusApproved, got.Status)
	assert.Equal(t, p.Description, got.Description)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.ErrorIs(t, repo.UpdateStatus(ctx, "missing", proposal.StatusUnderReview, proposal.StatusApproved, baseTime), apperror.ErrNotFound)
}
