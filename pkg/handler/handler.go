package handler

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"betwallet_client/pkg/auth"
	"betwallet_client/pkg/cache"
	"betwallet_client/pkg/client"
	"betwallet_client/pkg/clock"
	"betwallet_client/pkg/flow"
	"betwallet_client/pkg/middleware"
	"betwallet_client/pkg/repository"
	"betwallet_client/pkg/service"
)

type Options struct {
	AllowOrigins       []string
	NavigateDelay      time.Duration
	SettlementInterval time.Duration
	SettlementTimeout  time.Duration
	LookupTTL          time.Duration
	Clock              clock.Clock
}

type Handler struct {
	auth    *auth.Manager
	service *service.Service
	api     *client.API
	store   repository.Store
	flows   *flow.Registry
	lookups *cache.TTL[int]
	opts    Options
	log     logrus.FieldLogger
}

func NewHandler(a *auth.Manager, s *service.Service, api *client.API, store repository.Store, opts Options, log logrus.FieldLogger) *Handler {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.SettlementInterval <= 0 {
		opts.SettlementInterval = flow.DefaultPollInterval
	}
	if opts.SettlementTimeout <= 0 {
		opts.SettlementTimeout = 2 * time.Minute
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	h := &Handler{
		auth:    a,
		service: s,
		api:     api,
		store:   store,
		flows:   flow.NewRegistry(),
		lookups: cache.NewTTL[int](opts.Clock, opts.LookupTTL),
		opts:    opts,
		log:     log.WithField("component", "gateway"),
	}
	a.OnLogout(h.flows.Clear)
	a.OnLogout(h.lookups.Purge)
	return h
}

func (h *Handler) InitRoute() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	corsCfg := cors.Config{
		AllowOrigins:     h.opts.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowOrigins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(corsCfg))

	session := middleware.RequireSession(h.auth)

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
		authGroup.POST("/logout", h.Logout)
		authGroup.GET("/remembered", h.Remembered)
		authGroup.POST("/password/otp", h.SendOTP)
		authGroup.POST("/password/reset", h.ResetPassword)
		authGroup.POST("/password/update", session, h.UpdatePassword)
	}

	api := router.Group("/api", session)
	{
		api.GET("/dashboard", h.Dashboard)
		api.POST("/dashboard/refresh", h.RefreshDashboard)
		api.GET("/networks", h.Networks)
		api.GET("/users/search", h.SearchUsers)

		betting := api.Group("/betting")
		{
			betting.GET("/platforms", h.Platforms)
			betting.GET("/commissions", h.Commissions)
			betting.POST("/verify", h.VerifyBettingUser)
		}

		flows := api.Group("/flows")
		{
			// :id is either a flow kind (starts a new flow) or an existing flow id.
			flows.POST("/:id", h.PrepareFlow)
			flows.GET("/:id", h.GetFlow)
			flows.DELETE("/:id", h.CancelFlow)
			flows.POST("/:id/confirm", h.ConfirmFlow)
			flows.GET("/:id/settlement", h.FlowSettlement)
		}

		api.GET("/preferences", h.GetPreferences)
		api.PUT("/preferences", h.PutPreferences)
	}
	return router
}
