package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/honors-hub/pkg/auth"
	"github.com/khoahotran/honors-hub/pkg/logger"
	"github.com/khoahotran/honors-hub/pkg/metrics"
)

type RouterConfig struct {
	FrontendOrigin string
	SecureCookies  bool
	// MissingKeys is non-empty in offline mode; every write is then rejected.
	MissingKeys []string
}

type Handlers struct {
	Auth     *AuthHandler
	Session  *SessionHandler
	Proposal *ProposalHandler
	Profile  *ProfileHandler
	Activity *ActivityHandler
	Optimize *OptimizeHandler
	RSS      *RSSHandler
}

func NewRouter(cfg RouterConfig, h Handlers, jwtSvc *auth.JWTService, m *metrics.Metrics, log logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(log))
	router.Use(MetricsMiddleware(m))
	router.Use(CORSMiddleware(cfg.FrontendOrigin))
	router.Use(ErrorMiddleware(log))

	authMiddleware := AuthMiddleware(jwtSvc, log)
	offlineGuard := OfflineGuard(cfg.MissingKeys)

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			status := "UP"
			if len(cfg.MissingKeys) > 0 {
				status = "OFFLINE"
			}
			c.JSON(http.StatusOK, gin.H{"status": status, "missing_keys": cfg.MissingKeys})
		})

		api.GET("/activities", h.Activity.ListActivities)
		api.GET("/activities/:id", h.Activity.GetActivity)

		api.GET("/proposals", h.Proposal.ListProposals)
		api.GET("/proposals/:id", h.Proposal.GetProposal)
		api.GET("/feed/proposals.rss", h.RSS.GenerateRSS)

		sessions := api.Group("/")
		sessions.Use(SessionMiddleware(cfg.SecureCookies))
		{
			sessions.GET("/session", h.Session.GetSession)
			sessions.GET("/session/events", h.Session.Events)
			sessions.GET("/notifications", h.Session.Notifications)

			sessions.GET("/auth/login", offlineGuard, h.Auth.Login)
			sessions.POST("/auth/logout", h.Auth.Logout)
		}
		api.GET("/auth/callback", offlineGuard, h.Auth.Callback)

		private := api.Group("/")
		private.Use(offlineGuard, authMiddleware)
		{
			private.POST("/proposals", h.Proposal.SubmitProposal)
			private.POST("/optimize", h.Optimize.Optimize)

			me := private.Group("/me")
			{
				me.GET("", h.Profile.GetProfile)
				me.PATCH("", h.Profile.UpdateProfile)
				me.GET("/engagements", h.Profile.ListEngagements)
				me.GET("/standing", h.Profile.GetStanding)
				me.PUT("/avatar", h.Profile.UploadAvatar)
			}

			admin := private.Group("/admin")
			admin.Use(AdminMiddleware())
			{
				admin.GET("/proposals", h.Proposal.ListProposals)
				admin.PATCH("/proposals/:id/status", h.Proposal.SetStatus)
			}
		}
	}

	return router
}
