package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/khoahotran/honors-hub/adapters/cache"
	"github.com/khoahotran/honors-hub/adapters/event"
	httpAdapter "github.com/khoahotran/honors-hub/adapters/http"
	identityAdapter "github.com/khoahotran/honors-hub/adapters/identity"
	"github.com/khoahotran/honors-hub/adapters/llm"
	"github.com/khoahotran/honors-hub/adapters/media_storage"
	"github.com/khoahotran/honors-hub/adapters/memory/profilerepo"
	"github.com/khoahotran/honors-hub/adapters/memory/proposalrepo"
	"github.com/khoahotran/honors-hub/adapters/notify"
	"github.com/khoahotran/honors-hub/adapters/persistence"
	"github.com/khoahotran/honors-hub/internal/application/service"
	profileUC "github.com/khoahotran/honors-hub/internal/application/usecase/profile"
	proposalUC "github.com/khoahotran/honors-hub/internal/application/usecase/proposal"
	"github.com/khoahotran/honors-hub/internal/application/usecase/session"
	suggestionUC "github.com/khoahotran/honors-hub/internal/application/usecase/suggestion"
	"github.com/khoahotran/honors-hub/internal/config"
	"github.com/khoahotran/honors-hub/internal/domain/profile"
	"github.com/khoahotran/honors-hub/internal/domain/proposal"
	"github.com/khoahotran/honors-hub/pkg/auth"
	"github.com/khoahotran/honors-hub/pkg/clock"
	"github.com/khoahotran/honors-hub/pkg/logger"
	"github.com/khoahotran/honors-hub/pkg/metrics"
	"github.com/khoahotran/honors-hub/pkg/tracing"
)

const notificationTTL = time.Hour

// backends are the stores the use cases run on. In offline mode every one of them
// is in memory.
type backends struct {
	profiles  profile.Repository
	proposals proposal.Repository
	cache     profile.Cache
	provider  service.IdentityProvider
	notifier  service.Notifier
	jwtSecret string
	closers   []func()
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("FATAL: cannot load config: " + err.Error())
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	appLogger.Info("Start Honors Hub API Server...")

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.NewTracerProvider(cfg, appLogger, "honors-hub-api")
	if err != nil {
		appLogger.Fatal("Failed to initialize tracer", err)
	}
	if tp != nil {
		defer tp.Shutdown(context.Background())
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	missing := cfg.MissingKeys()
	var b backends
	if len(missing) > 0 {
		appLogger.Warn("Backend credentials missing, starting in offline mode", zap.Strings("missing_keys", missing))
		b = offlineBackends()
	} else {
		b = onlineBackends(ctx, cfg, appLogger)
	}
	defer func() {
		for _, c := range b.closers {
			c()
		}
	}()

	var publisher service.EventPublisher = event.NewLogPublisher(appLogger)
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaClient, err := event.NewKafkaProducerClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Cannot init Kafka", err)
		}
		defer kafkaClient.Close()
		publisher = kafkaClient
	}

	uploader, err := media_storage.NewCloudinaryAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Warn("Avatar uploads disabled", zap.Error(err))
	}

	llmService, err := llm.New(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize language model", err)
	}
	if llmService == nil {
		appLogger.Warn("AI suggestions disabled, no language model credentials configured")
	}

	clk := clock.NewSystemClock()
	jwtSvc := auth.NewJWTService(b.jwtSecret, cfg.Auth.TokenLifespan)

	// Use Cases
	profileUseCase := profileUC.NewProfileUseCase(b.profiles, b.cache, uploader, publisher, clk, appMetrics, appLogger)
	sessionUseCase := session.NewSessionUseCase(b.provider, b.notifier, profileUseCase, jwtSvc, cfg.IsAdminEmail, cfg.Auth.GateTimeout, appMetrics, appLogger)
	listProposalsUseCase := proposalUC.NewListProposalsUseCase(b.proposals, appLogger)
	getProposalUseCase := proposalUC.NewGetProposalUseCase(b.proposals)
	submitProposalUseCase := proposalUC.NewSubmitProposalUseCase(b.proposals, b.profiles, publisher, clk, appMetrics, appLogger)
	setStatusUseCase := proposalUC.NewSetStatusUseCase(b.proposals, publisher, clk, appMetrics, appLogger)
	rssUseCase := proposalUC.NewRSSUseCase(b.proposals, cfg.App.FrontendOrigin, appLogger)
	optimizeUseCase := suggestionUC.NewOptimizeUseCase(llmService, appMetrics, appLogger)

	// HTTP Handlers
	handlers := httpAdapter.Handlers{
		Auth:     httpAdapter.NewAuthHandler(sessionUseCase, cfg.App.FrontendOrigin, appLogger),
		Session:  httpAdapter.NewSessionHandler(sessionUseCase, appLogger),
		Proposal: httpAdapter.NewProposalHandler(listProposalsUseCase, getProposalUseCase, submitProposalUseCase, setStatusUseCase),
		Profile:  httpAdapter.NewProfileHandler(profileUseCase, appLogger),
		Activity: httpAdapter.NewActivityHandler(),
		Optimize: httpAdapter.NewOptimizeHandler(optimizeUseCase),
		RSS:      httpAdapter.NewRSSHandler(rssUseCase, appLogger),
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		FrontendOrigin: cfg.App.FrontendOrigin,
		SecureCookies:  cfg.App.Env == "production",
		MissingKeys:    missing,
	}, handlers, jwtSvc, appMetrics, appLogger)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Cannot run server", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
}

func onlineBackends(ctx context.Context, cfg config.Config, log logger.Logger) backends {
	dbPool, err := persistence.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal("Cannot connect Postgres", err)
	}

	redisClient, err := persistence.NewRedisClient(ctx, cfg, log)
	if err != nil {
		dbPool.Close()
		log.Fatal("Cannot connect Redis", err)
	}

	return backends{
		profiles:  persistence.NewPostgresProfileRepo(dbPool, log),
		proposals: persistence.NewPostgresProposalRepo(dbPool, log),
		cache:     cache.NewRedisProfileCache(redisClient, cfg.Cache.ProfileTTL),
		provider:  identityAdapter.NewGoogleProvider(cfg, redisClient, log),
		notifier:  notify.NewRedisNotifier(redisClient, notificationTTL),
		jwtSecret: cfg.Auth.JWTSecret,
		closers: []func(){
			dbPool.Close,
			func() { redisClient.Close() },
		},
	}
}

// offlineBackends serves the demo data read-only. Nobody can sign in, so the
// signing key only has to be unguessable.
func offlineBackends() backends {
	return backends{
		profiles:  profilerepo.NewRepo(),
		proposals: proposalrepo.NewRepo(),
		provider:  identityAdapter.NewDisabledProvider(),
		notifier:  notify.NewMemoryNotifier(),
		jwtSecret: uuid.NewString(),
	}
}
