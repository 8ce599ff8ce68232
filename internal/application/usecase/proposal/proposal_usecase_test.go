package proposal

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/honors-hub/adapters/event"
	"github.com/khoahotran/honors-hub/adapters/memory/profilerepo"
	"github.com/khoahotran/honors-hub/adapters/memory/proposalrepo"
	"github.com/khoahotran/honors-hub/internal/domain/identity"
	"github.com/khoahotran/honors-hub/internal/domain/profile"
	"github.com/khoahotran/honors-hub/internal/domain/proposal"
	"github.com/khoahotran/honors-hub/pkg/apperror"
	"github.com/khoahotran/honors-hub/pkg/clock"
	"github.com/khoahotran/honors-hub/pkg/logger"
	"github.com/khoahotran/honors-hub/pkg/metrics"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.ProposalEventPayload
}

func (p *recordingPublisher) PublishProposalEvent(_ context.Context, payload event.ProposalEventPayload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, payload)
	return nil
}

func (p *recordingPublisher) PublishAvatarEvent(context.Context, event.AvatarEventPayload) error {
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func (p *recordingPublisher) last() event.ProposalEventPayload {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.events[len(p.events)-1]
}

type ProposalUseCaseTestSuite struct {
	suite.Suite
	repo      *proposalrepo.Repo
	profiles  *profilerepo.Repo
	publisher *recordingPublisher
	now       time.Time

	list   *ListProposalsUseCase
	get    *GetProposalUseCase
	submit *SubmitProposalUseCase
	status *SetStatusUseCase
	rss    *RSSUseCase
}

func (s *ProposalUseCaseTestSuite) SetupTest() {
	log := logger.NewNopLogger()
	m := metrics.NewUnregistered()
	s.now = time.Date(2025, 7, 4, 15, 30, 0, 0, time.UTC)
	s.repo = proposalrepo.NewRepo()
	s.profiles = profilerepo.NewRepo()
	s.publisher = &recordingPublisher{}
	clk := clock.Fixed(s.now)

	s.list = NewListProposalsUseCase(s.repo, log)
	s.get = NewGetProposalUseCase(s.repo)
	s.submit = NewSubmitProposalUseCase(s.repo, s.profiles, s.publisher, clk, m, log)
	s.status = NewSetStatusUseCase(s.repo, s.publisher, clk, m, log)
	s.rss = NewRSSUseCase(s.repo, "http://localhost:3000/", log)
}

func (s *ProposalUseCaseTestSuite) validInput() SubmitProposalInput {
	return SubmitProposalInput{
		SubmitterID:   "g-ada",
		SubmitterName: "Ada Lovelace",
		Title:         "Riverside Cleanup",
		EventType:     string(proposal.EventService),
		Description:   "Monthly volunteer cleanup along the river path.",
		Goals:         "Cleaner river, more volunteers.",
	}
}

func (s *ProposalUseCaseTestSuite) TestListSeedsDemoDataOnce() {
	ctx := context.Background()

	out, err := s.list.Execute(ctx, ListProposalsInput{})
	s.Require().NoError(err)
	s.Len(out.Proposals, len(proposal.DemoProposals()))

	_, err = s.submit.Execute(ctx, s.validInput())
	s.Require().NoError(err)

	out, err = s.list.Execute(ctx, ListProposalsInput{})
	s.Require().NoError(err)
	s.Len(out.Proposals, len(proposal.DemoProposals())+1)
	s.Equal("Riverside Cleanup", out.Proposals[0].Title, "newest submission first")
}

func (s *ProposalUseCaseTestSuite) TestListFiltersByStatus() {
	out, err := s.list.Execute(context.Background(), ListProposalsInput{Status: string(proposal.StatusUnderReview)})
	s.Require().NoError(err)
	s.NotEmpty(out.Proposals)
	for _, p := range out.Proposals {
		s.Equal(proposal.StatusUnderReview, p.Status)
	}

	_, err = s.list.Execute(context.Background(), ListProposalsInput{Status: "Pending"})
	s.ErrorIs(err, apperror.ErrInvalidInput)
}

func (s *ProposalUseCaseTestSuite) TestSubmitStartsUnderReview() {
	out, err := s.submit.Execute(context.Background(), s.validInput())
	s.Require().NoError(err)

	p := out.Proposal
	s.Equal(proposal.StatusUnderReview, p.Status)
	s.Equal("2025-07-04", p.SubmittedDate)
	s.Equal("Ada Lovelace", p.SubmittedBy)
	s.Equal("g-ada", p.SubmitterID)
	s.NotEmpty(p.ID)

	s.Eventually(func() bool { return s.publisher.count() == 1 }, time.Second, 5*time.Millisecond)
	s.Equal(event.ProposalEventSubmitted, s.publisher.last().EventType)
}

func (s *ProposalUseCaseTestSuite) TestSubmitUsesCurrentProfileName() {
	ctx := context.Background()
	p := profile.NewFromIdentity(&identity.Identity{UID: "g-ada", DisplayName: "Ada", Email: "ada@example.org"}, s.now)
	_, _, err := s.profiles.CreateIfAbsent(ctx, p, nil)
	s.Require().NoError(err)

	renamed := "Countess Ada"
	_, err = s.profiles.Update(ctx, "g-ada", profile.Update{Name: &renamed}, s.now)
	s.Require().NoError(err)

	in := s.validInput()
	in.SubmitterName = "Ada"
	out, err := s.submit.Execute(ctx, in)
	s.Require().NoError(err)
	s.Equal("Countess Ada", out.Proposal.SubmittedBy)
}

func (s *ProposalUseCaseTestSuite) TestListClampsPaging() {
	out, err := s.list.Execute(context.Background(), ListProposalsInput{Page: -3, Limit: 1000})
	s.Require().NoError(err)
	s.Equal(1, out.Page)
	s.Equal(50, out.Limit)
}

func (s *ProposalUseCaseTestSuite) TestSubmitValidation() {
	in := s.validInput()
	in.Goals = "   "
	_, err := s.submit.Execute(context.Background(), in)
	s.ErrorIs(err, apperror.ErrInvalidInput)

	in = s.validInput()
	in.EventType = "Party"
	_, err = s.submit.Execute(context.Background(), in)
	s.ErrorIs(err, apperror.ErrInvalidInput)
}

func (s *ProposalUseCaseTestSuite) TestApproveKeepsOtherFields() {
	ctx := context.Background()
	created, err := s.submit.Execute(ctx, s.validInput())
	s.Require().NoError(err)
	before := *created.Proposal

	out, err := s.status.Execute(ctx, SetStatusInput{ProposalID: before.ID, Status: string(proposal.StatusApproved)})
	s.Require().NoError(err)
	s.True(out.Changed)

	got, err := s.get.Execute(ctx, before.ID)
	s.Require().NoError(err)
	s.Equal(proposal.StatusApproved, got.Proposal.Status)
	s.Equal(before.Title, got.Proposal.Title)
	s.Equal(before.Description, got.Proposal.Description)
	s.Equal(before.SubmittedDate, got.Proposal.SubmittedDate)
	s.Equal(before.SubmitterID, got.Proposal.SubmitterID)

	s.Eventually(func() bool { return s.publisher.count() == 2 }, time.Second, 5*time.Millisecond)
	last := s.publisher.last()
	s.Equal(event.ProposalEventStatusChanged, last.EventType)
	s.Equal(string(proposal.StatusUnderReview), last.FromStatus)
	s.Equal(string(proposal.StatusApproved), last.ToStatus)
}

func (s *ProposalUseCaseTestSuite) TestSetSameStatusTwiceIsNoOp() {
	ctx := context.Background()
	created, err := s.submit.Execute(ctx, s.validInput())
	s.Require().NoError(err)
	id := created.Proposal.ID

	first, err := s.status.Execute(ctx, SetStatusInput{ProposalID: id, Status: string(proposal.StatusApproved)})
	s.Require().NoError(err)
	s.True(first.Changed)

	second, err := s.status.Execute(ctx, SetStatusInput{ProposalID: id, Status: string(proposal.StatusApproved)})
	s.Require().NoError(err)
	s.False(second.Changed)
	s.Equal(proposal.StatusApproved, second.Proposal.Status)

	s.Eventually(func() bool { return s.publisher.count() == 2 }, time.Second, 5*time.Millisecond)
	s.Never(func() bool { return s.publisher.count() > 2 }, 50*time.Millisecond, 5*time.Millisecond)
}

func (s *ProposalUseCaseTestSuite) TestIllegalTransitionsAreRejected() {
	ctx := context.Background()
	created, err := s.submit.Execute(ctx, s.validInput())
	s.Require().NoError(err)
	id := created.Proposal.ID

	_, err = s.status.Execute(ctx, SetStatusInput{ProposalID: id, Status: string(proposal.StatusCompleted)})
	s.ErrorIs(err, apperror.ErrInvalidInput)

	_, err = s.status.Execute(ctx, SetStatusInput{ProposalID: id, Status: "Archived"})
	s.ErrorIs(err, apperror.ErrInvalidInput)

	_, err = s.status.Execute(ctx, SetStatusInput{ProposalID: id, Status: string(proposal.StatusRejected)})
	s.Require().NoError(err)
	_, err = s.status.Execute(ctx, SetStatusInput{ProposalID: id, Status: string(proposal.StatusApproved)})
	s.ErrorIs(err, apperror.ErrInvalidInput)

	_, err = s.status.Execute(ctx, SetStatusInput{ProposalID: "missing", Status: string(proposal.StatusApproved)})
	s.ErrorIs(err, apperror.ErrNotFound)
}

func (s *ProposalUseCaseTestSuite) TestFeedListsReviewedProposals() {
	ctx := context.Background()
	_, err := s.list.Execute(ctx, ListProposalsInput{})
	s.Require().NoError(err)

	feed, err := s.rss.Execute(ctx)
	s.Require().NoError(err)
	for _, item := range feed.Items {
		s.NotContains(item.Title, string(proposal.StatusUnderReview))
		s.NotContains(item.Title, string(proposal.StatusRejected))
	}
	s.NotEmpty(feed.Items)

	var buf bytes.Buffer
	s.Require().NoError(feed.WriteRss(&buf))
	s.Contains(buf.String(), "http://localhost:3000/proposals/")
}

func TestProposalUseCaseTestSuite(t *testing.T) {
	suite.Run(t, new(ProposalUseCaseTestSuite))
}
