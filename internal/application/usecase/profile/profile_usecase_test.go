package profile

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/khoahotran/honors-hub/adapters/event"
	"github.com/khoahotran/honors-hub/adapters/memory/profilerepo"
	"github.com/khoahotran/honors-hub/internal/domain/identity"
	"github.com/khoahotran/honors-hub/internal/domain/profile"
	"github.com/khoahotran/honors-hub/internal/domain/proposal"
	"github.com/khoahotran/honors-hub/pkg/apperror"
	"github.com/khoahotran/honors-hub/pkg/clock"
	"github.com/khoahotran/honors-hub/pkg/logger"
	"github.com/khoahotran/honors-hub/pkg/metrics"
)

type recordingPublisher struct {
	mu      sync.Mutex
	avatars []event.AvatarEventPayload
}

func (p *recordingPublisher) PublishProposalEvent(context.Context, event.ProposalEventPayload) error {
	return nil
}

func (p *recordingPublisher) PublishAvatarEvent(_ context.Context, payload event.AvatarEventPayload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.avatars = append(p.avatars, payload)
	return nil
}

func (p *recordingPublisher) avatarEvents() []event.AvatarEventPayload {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]event.AvatarEventPayload(nil), p.avatars...)
}

type fakeUploader struct {
	uploads   []string
	failURL   bool
	deleteErr error

	mu      sync.Mutex
	deleted []string
}

func (u *fakeUploader) Upload(_ context.Context, _ io.Reader, folder, publicID string) (string, error) {
	u.uploads = append(u.uploads, folder+"/"+publicID)
	return "https://cdn.example/" + folder + "/" + publicID + ".png", nil
}

func (u *fakeUploader) Delete(_ context.Context, publicID string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.deleted = append(u.deleted, publicID)
	return u.deleteErr
}

func (u *fakeUploader) deletedIDs() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.deleted...)
}

func (u *fakeUploader) FaceCropURL(publicID string) (string, error) {
	if u.failURL {
		return "", errors.New("bad asset")
	}
	return "https://cdn.example/c_thumb,g_face/" + publicID, nil
}

// countingRepo counts storage-level creations to observe singleflight.
type countingRepo struct {
	*profilerepo.Repo
	mu      sync.Mutex
	creates int
	gate    chan struct{}
}

func (r *countingRepo) CreateIfAbsent(ctx context.Context, p *profile.Profile, starter []profile.Engagement) (bool, *profile.Profile, error) {
	r.mu.Lock()
	r.creates++
	r.mu.Unlock()
	if r.gate != nil {
		<-r.gate
	}
	return r.Repo.CreateIfAbsent(ctx, p, starter)
}

type ProfileUseCaseTestSuite struct {
	suite.Suite
	repo      *profilerepo.Repo
	publisher *recordingPublisher
	uploader  *fakeUploader
	uc        *ProfileUseCase
	now       time.Time
}

func (s *ProfileUseCaseTestSuite) SetupTest() {
	s.now = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	s.repo = profilerepo.NewRepo()
	s.publisher = &recordingPublisher{}
	s.uploader = &fakeUploader{}
	s.uc = NewProfileUseCase(s.repo, nil, s.uploader, s.publisher, clock.Fixed(s.now), metrics.NewUnregistered(), logger.NewNopLogger())
}

var grace = &identity.Identity{UID: "g-grace", DisplayName: "Grace Hopper", Email: "grace@example.org"}

func (s *ProfileUseCaseTestSuite) TestLoadOrCreateIsIdempotent() {
	ctx := context.Background()

	first, err := s.uc.LoadOrCreate(ctx, grace)
	s.Require().NoError(err)
	s.Equal("Grace Hopper", first.Name)
	s.Equal(115, first.HonorsPoints)
	s.Equal(s.now, first.JoinedAt)

	second, err := s.uc.LoadOrCreate(ctx, grace)
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID)
	s.Equal(first.HonorsPoints, second.HonorsPoints)

	out, err := s.uc.ExecuteListEngagements(ctx, grace.UID)
	s.Require().NoError(err)
	s.Len(out.Engagements, 4)
}

func (s *ProfileUseCaseTestSuite) TestLoadOrCreateRejectsMissingIdentity() {
	_, err := s.uc.LoadOrCreate(context.Background(), nil)
	s.ErrorIs(err, apperror.ErrInvalidInput)
}

func (s *ProfileUseCaseTestSuite) TestUpdateProfile() {
	ctx := context.Background()
	_, err := s.uc.LoadOrCreate(ctx, grace)
	s.Require().NoError(err)

	name := "Rear Admiral Hopper"
	out, err := s.uc.ExecuteUpdateProfile(ctx, UpdateProfileInput{ProfileID: grace.UID, Name: &name})
	s.Require().NoError(err)
	s.Equal(name, out.Profile.Name)
	s.Equal(115, out.Profile.HonorsPoints)

	short := "G"
	_, err = s.uc.ExecuteUpdateProfile(ctx, UpdateProfileInput{ProfileID: grace.UID, Name: &short})
	s.ErrorIs(err, apperror.ErrInvalidInput)

	_, err = s.uc.ExecuteUpdateProfile(ctx, UpdateProfileInput{ProfileID: grace.UID})
	s.ErrorIs(err, apperror.ErrInvalidInput)

	_, err = s.uc.ExecuteUpdateProfile(ctx, UpdateProfileInput{ProfileID: "nobody", Name: &name})
	s.ErrorIs(err, apperror.ErrNotFound)
}

func (s *ProfileUseCaseTestSuite) TestStanding() {
	ctx := context.Background()
	_, err := s.uc.LoadOrCreate(ctx, grace)
	s.Require().NoError(err)

	out, err := s.uc.ExecuteStanding(ctx, grace.UID)
	s.Require().NoError(err)
	s.Equal(115, out.Points)
	s.Equal("Bronze", out.Standing.Current.Name)
	s.Equal("Silver", out.Standing.Next.Name)
}

func (s *ProfileUseCaseTestSuite) TestAwardIsIdempotentPerSource() {
	ctx := context.Background()
	_, err := s.uc.LoadOrCreate(ctx, grace)
	s.Require().NoError(err)

	in := AwardInput{
		ProfileID: grace.UID,
		Title:     "Harbor Cleanup",
		Type:      profile.EngagementEventAttendance,
		Points:    35,
		SourceRef: "event:harbor",
	}
	out, err := s.uc.ExecuteAward(ctx, in)
	s.Require().NoError(err)
	s.True(out.Added)
	s.Equal(150, out.Profile.HonorsPoints)

	out, err = s.uc.ExecuteAward(ctx, in)
	s.Require().NoError(err)
	s.False(out.Added)
	s.Equal(150, out.Profile.HonorsPoints)

	in.Points = 0
	in.SourceRef = "event:other"
	_, err = s.uc.ExecuteAward(ctx, in)
	s.ErrorIs(err, apperror.ErrInvalidInput)
}

func (s *ProfileUseCaseTestSuite) TestProcessProposalEventAwardsSubmitter() {
	ctx := context.Background()
	_, err := s.uc.LoadOrCreate(ctx, grace)
	s.Require().NoError(err)

	approved := event.ProposalEventPayload{
		EventType:   event.ProposalEventStatusChanged,
		ProposalID:  "prop-1",
		Title:       "Park Cleanup",
		SubmitterID: grace.UID,
		FromStatus:  string(proposal.StatusUnderReview),
		ToStatus:    string(proposal.StatusApproved),
	}
	s.Require().NoError(s.uc.ProcessProposalEvent(ctx, approved))
	s.Require().NoError(s.uc.ProcessProposalEvent(ctx, approved))

	p, err := s.repo.FindByID(ctx, grace.UID)
	s.Require().NoError(err)
	s.Equal(115+ApprovedProposalPoints, p.HonorsPoints)

	rejected := approved
	rejected.ProposalID = "prop-2"
	rejected.ToStatus = string(proposal.StatusRejected)
	s.Require().NoError(s.uc.ProcessProposalEvent(ctx, rejected))

	unknownSubmitter := approved
	unknownSubmitter.SubmitterID = "nobody"
	s.Require().NoError(s.uc.ProcessProposalEvent(ctx, unknownSubmitter))

	p, err = s.repo.FindByID(ctx, grace.UID)
	s.Require().NoError(err)
	s.Equal(115+ApprovedProposalPoints, p.HonorsPoints)
}

func (s *ProfileUseCaseTestSuite) TestUploadAndProcessAvatar() {
	ctx := context.Background()
	_, err := s.uc.LoadOrCreate(ctx, grace)
	s.Require().NoError(err)

	out, err := s.uc.ExecuteUploadAvatar(ctx, UploadAvatarInput{ProfileID: grace.UID, File: strings.NewReader("png")})
	s.Require().NoError(err)
	s.True(strings.HasPrefix(out.Profile.PhotoURL, "https://cdn.example/profiles/g-grace/"))

	s.Eventually(func() bool { return len(s.publisher.avatarEvents()) == 1 }, time.Second, 5*time.Millisecond)
	ev := s.publisher.avatarEvents()[0]
	s.Equal(grace.UID, ev.ProfileID)
	s.Equal(s.uploader.uploads[0], ev.PublicID)

	s.Require().NoError(s.uc.ProcessAvatar(ctx, ev))
	p, err := s.repo.FindByID(ctx, grace.UID)
	s.Require().NoError(err)
	s.Equal("https://cdn.example/c_thumb,g_face/"+ev.PublicID, p.PhotoURL)
}

func (s *ProfileUseCaseTestSuite) TestUploadAvatarWithoutStorage() {
	uc := NewProfileUseCase(s.repo, nil, nil, s.publisher, clock.Fixed(s.now), metrics.NewUnregistered(), logger.NewNopLogger())
	_, err := uc.ExecuteUploadAvatar(context.Background(), UploadAvatarInput{ProfileID: grace.UID, File: strings.NewReader("x")})
	s.ErrorIs(err, apperror.ErrMisconfigured)
}

func (s *ProfileUseCaseTestSuite) TestUploadAvatarForMissingProfileLogsCleanupFailure() {
	core, logs := observer.New(zap.ErrorLevel)
	uploader := &fakeUploader{deleteErr: errors.New("cdn unavailable")}
	uc := NewProfileUseCase(s.repo, nil, uploader, s.publisher, clock.Fixed(s.now), metrics.NewUnregistered(), logger.FromZap(zap.New(core)))

	_, err := uc.ExecuteUploadAvatar(context.Background(), UploadAvatarInput{ProfileID: "g-nobody", File: strings.NewReader("png")})
	s.ErrorIs(err, apperror.ErrNotFound)

	s.Require().Len(uploader.uploads, 1)
	s.Eventually(func() bool {
		return logs.FilterMessage("Failed to delete orphaned avatar").Len() == 1
	}, time.Second, 5*time.Millisecond)
	s.Equal(uploader.uploads, uploader.deletedIDs())

	entry := logs.FilterMessage("Failed to delete orphaned avatar").All()[0]
	s.Equal(uploader.uploads[0], entry.ContextMap()["public_id"])
	s.Equal("cdn unavailable", entry.ContextMap()["error"])
	s.Empty(s.publisher.avatarEvents())
}

func TestProfileUseCaseTestSuite(t *testing.T) {
	suite.Run(t, new(ProfileUseCaseTestSuite))
}

func TestConcurrentBootstrapsShareOneCreation(t *testing.T) {
	repo := &countingRepo{Repo: profilerepo.NewRepo(), gate: make(chan struct{})}
	uc := NewProfileUseCase(repo, nil, nil, &recordingPublisher{}, clock.Fixed(time.Now().UTC()), metrics.NewUnregistered(), logger.NewNopLogger())

	const callers = 10
	var wg sync.WaitGroup
	results := make([]int, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := uc.LoadOrCreate(context.Background(), grace)
			if assert.NoError(t, err) {
				results[i] = p.HonorsPoints
			}
		}(i)
	}

	// Let every caller reach the shared call before storage answers.
	time.Sleep(50 * time.Millisecond)
	close(repo.gate)
	wg.Wait()

	for _, pts := range results {
		assert.Equal(t, 115, pts)
	}
	es, err := repo.ListEngagements(context.Background(), grace.UID)
	require.NoError(t, err)
	assert.Len(t, es, 4)
	repo.mu.Lock()
	assert.LessOrEqual(t, repo.creates, callers)
	repo.mu.Unlock()
}
