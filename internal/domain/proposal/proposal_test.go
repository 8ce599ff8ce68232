package proposal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProposal() *Proposal {
	return &Proposal{
		ID:            "x",
		Title:         "Robotics Night",
		EventType:     EventAcademic,
		Description:   "Build small robots.",
		Goals:         "Teach basics.",
		Status:        StatusUnderReview,
		SubmittedDate: "2025-01-02",
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validProposal().Validate())

	p := validProposal()
	p.Goals = "  "
	assert.ErrorIs(t, p.Validate(), ErrMissingField)

	p = validProposal()
	p.EventType = "Party"
	assert.ErrorIs(t, p.Validate(), ErrInvalidEventType)

	p = validProposal()
	p.Status = "Pending"
	assert.ErrorIs(t, p.Validate(), ErrInvalidStatus)

	p = validProposal()
	p.SubmittedDate = "January 2, 2025"
	assert.ErrorIs(t, p.Validate(), ErrInvalidSubmittedOn)
}

func TestTransitionTable(t *testing.T) {
	allowed := [][2]Status{
		{StatusUnderReview, StatusApproved},
		{StatusUnderReview, StatusRejected},
		{StatusApproved, StatusInProgress},
		{StatusInProgress, StatusCompleted},
	}
	for _, tr := range allowed {
		assert.True(t, CanTransition(tr[0], tr[1]), "%s -> %s", tr[0], tr[1])
	}

	forbidden := [][2]Status{
		{StatusUnderReview, StatusCompleted},
		{StatusApproved, StatusRejected},
		{StatusRejected, StatusApproved},
		{StatusCompleted, StatusUnderReview},
		{StatusInProgress, StatusApproved},
	}
	for _, tr := range forbidden {
		assert.False(t, CanTransition(tr[0], tr[1]), "%s -> %s", tr[0], tr[1])
	}
}

func TestTransitionTo(t *testing.T) {
	at := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	p := validProposal()

	changed, err := p.TransitionTo(StatusApproved, at)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, StatusApproved, p.Status)
	assert.Equal(t, at, p.UpdatedAt)

	changed, err = p.TransitionTo(StatusApproved, at.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, at, p.UpdatedAt)

	_, err = p.TransitionTo(StatusRejected, at)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	_, err = p.TransitionTo("Archived", at)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestDemoProposalsAreValid(t *testing.T) {
	seen := map[string]bool{}
	for _, p := range DemoProposals() {
		require.NoError(t, p.Validate(), p.ID)
		assert.False(t, seen[p.ID])
		seen[p.ID] = true
	}
	assert.Len(t, seen, 5)
}
