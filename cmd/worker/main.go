package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/khoahotran/honors-hub/adapters/cache"
	"github.com/khoahotran/honors-hub/adapters/event"
	"github.com/khoahotran/honors-hub/adapters/media_storage"
	"github.com/khoahotran/honors-hub/adapters/persistence"
	profileUC "github.com/khoahotran/honors-hub/internal/application/usecase/profile"
	"github.com/khoahotran/honors-hub/internal/config"
	"github.com/khoahotran/honors-hub/internal/domain/profile"
	"github.com/khoahotran/honors-hub/pkg/clock"
	"github.com/khoahotran/honors-hub/pkg/logger"
	"github.com/khoahotran/honors-hub/pkg/metrics"
	"github.com/khoahotran/honors-hub/pkg/tracing"
)

const (
	proposalGroupID = "honors-award-group"
	avatarGroupID   = "avatar-processor-group"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("FATAL: cannot load config: " + err.Error())
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	appLogger.Info("Starting Honors Hub Worker...")

	if len(cfg.Kafka.Brokers) == 0 {
		appLogger.Fatal("Worker needs Kafka", nil, zap.String("missing_key", "KAFKA_BROKERS"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.NewTracerProvider(cfg, appLogger, "honors-hub-worker")
	if err != nil {
		appLogger.Fatal("Failed to initialize tracer", err)
	}
	if tp != nil {
		defer tp.Shutdown(context.Background())
	}

	// Database
	dbPool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Postgres", err)
	}
	defer dbPool.Close()

	var profileCache profile.Cache
	if cfg.Redis.Addr != "" {
		redisClient, err := persistence.NewRedisClient(ctx, cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Cannot connect Redis", err)
		}
		defer redisClient.Close()
		profileCache = cache.NewRedisProfileCache(redisClient, cfg.Cache.ProfileTTL)
	}

	uploader, err := media_storage.NewCloudinaryAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Warn("Avatar events will fail, media storage is not configured", zap.Error(err))
	}

	// Repositories
	profileRepo := persistence.NewPostgresProfileRepo(dbPool, appLogger)

	// Worker Use Case
	profileUseCase := profileUC.NewProfileUseCase(profileRepo, profileCache, uploader, event.NewLogPublisher(appLogger),
		clock.NewSystemClock(), metrics.New(prometheus.DefaultRegisterer), appLogger)

	// Kafka Consumers
	consumers := []*event.Consumer{
		event.NewConsumer(
			event.NewKafkaReader(cfg, event.TopicProposalEvents, proposalGroupID),
			event.JSONHandler(profileUseCase.ProcessProposalEvent),
			appLogger.With(zap.String("consumer", "proposal-awards")),
		),
		event.NewConsumer(
			event.NewKafkaReader(cfg, event.TopicAvatarEvents, avatarGroupID),
			event.JSONHandler(profileUseCase.ProcessAvatar),
			appLogger.With(zap.String("consumer", "avatars")),
		),
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range consumers {
		g.Go(func() error {
			defer c.Close()
			return c.Run(gctx)
		})
	}

	appLogger.Info("Worker listening", zap.Strings("topics", []string{event.TopicProposalEvents, event.TopicAvatarEvents}))
	if err := g.Wait(); err != nil {
		appLogger.Error("Worker stopped with error", err)
	}
	appLogger.Info("Worker stopped")
}
