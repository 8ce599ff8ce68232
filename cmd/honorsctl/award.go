package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/khoahotran/honors-hub/adapters/cache"
	"github.com/khoahotran/honors-hub/adapters/event"
	"github.com/khoahotran/honors-hub/adapters/persistence"
	profileUC "github.com/khoahotran/honors-hub/internal/application/usecase/profile"
	"github.com/khoahotran/honors-hub/internal/domain/profile"
	"github.com/khoahotran/honors-hub/pkg/clock"
	"github.com/khoahotran/honors-hub/pkg/metrics"
)

var awardFlags = struct {
	profileID string
	title     string
	kind      string
	points    int
	details   string
	ref       string
}{}

func newAwardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "award",
		Short: "Record an engagement and add its points to a profile",
		Long: `Record an engagement for a member by hand, for example after an event
that was tracked on paper. Re-running with the same --ref is a no-op.`,
		Args: cobra.NoArgs,
		RunE: runAward,
	}
	f := cmd.Flags()
	f.StringVar(&awardFlags.profileID, "profile", "", "profile id (the identity uid)")
	f.StringVar(&awardFlags.title, "title", "", "engagement title")
	f.StringVar(&awardFlags.kind, "type", string(profile.EngagementEventAttendance), "engagement type")
	f.IntVar(&awardFlags.points, "points", 0, "points to add")
	f.StringVar(&awardFlags.details, "details", "", "free-form details")
	f.StringVar(&awardFlags.ref, "ref", "", "unique source reference for this award")
	_ = cmd.MarkFlagRequired("profile")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("points")
	_ = cmd.MarkFlagRequired("ref")
	return cmd
}

func runAward(cmd *cobra.Command, _ []string) error {
	if !profile.EngagementType(awardFlags.kind).Valid() {
		return fmt.Errorf("unknown engagement type %q", awardFlags.kind)
	}

	cfg, log, err := commonRun()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	pool, err := persistence.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	var profileCache profile.Cache
	if cfg.Redis.Addr != "" {
		redisClient, err := persistence.NewRedisClient(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		profileCache = cache.NewRedisProfileCache(redisClient, cfg.Cache.ProfileTTL)
	}

	uc := profileUC.NewProfileUseCase(persistence.NewPostgresProfileRepo(pool, log), profileCache, nil,
		event.NewLogPublisher(log), clock.NewSystemClock(), metrics.New(prometheus.NewRegistry()), log)

	out, err := uc.ExecuteAward(ctx, profileUC.AwardInput{
		ProfileID: awardFlags.profileID,
		Title:     awardFlags.title,
		Type:      profile.EngagementType(awardFlags.kind),
		Points:    awardFlags.points,
		Details:   awardFlags.details,
		SourceRef: "manual:" + awardFlags.ref,
	})
	if err != nil {
		return err
	}

	if !out.Added {
		fmt.Fprintf(cmd.OutOrStdout(), "already awarded, %s has %d points\n", out.Profile.ID, out.Profile.HonorsPoints)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "awarded %d points, %s now has %d points\n", awardFlags.points, out.Profile.ID, out.Profile.HonorsPoints)
	return nil
}
