package app

import (
	"net/http"

	authhandler "hiring-service/internal/auth/handler"
	"hiring-service/internal/auth/provider"
	"hiring-service/internal/auth/state"
	"hiring-service/internal/config"
	"hiring-service/internal/discord"
	"hiring-service/internal/hiring"
	hiringhandler "hiring-service/internal/hiring/handler"
	"hiring-service/internal/logger"
	"hiring-service/internal/metrics"
	"hiring-service/internal/middleware"
	"hiring-service/internal/post"
	"hiring-service/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func setupHTTP(cfg config.Config, infra *Infra) (*gin.Engine, error) {

	// ----------------------------
	// Dependencies
	// ----------------------------

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(infra.DB.DB, "hiring"),
	)
	m := metrics.New(reg)

	sessionStore := session.NewPostgresStore(infra.DB, cfg.SessionSalt, cfg.SessionTTL)
	postStore := post.NewPostgresStore(infra.DB)
	channel := discord.NewClient(infra.Discord, cfg.DiscordChannelID)

	service := hiring.NewService(sessionStore, postStore, channel, m)

	var (
		oauthProvider provider.OAuthProvider
		stateStore    state.Store
	)
	if cfg.OAuthEnabled() {
		p, err := discord.NewOAuthProvider(
			cfg.DiscordClientID,
			cfg.DiscordClientSecret,
			cfg.DiscordRedirectURL,
		)
		if err != nil {
			return nil, err
		}
		oauthProvider = p
		stateStore = state.NewRedisStore(infra.Redis.Client)
	}

	authHandler := authhandler.NewHandler(
		oauthProvider,
		stateStore,
		service,
		session.CookieOptions{
			Secure:   true,
			SameSite: http.SameSiteLaxMode,
		},
	)
	hiringHandler := hiringhandler.NewHandler(service)

	// ----------------------------
	// Router
	// ----------------------------

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.AccessLog(),
		middleware.Metrics(m),
	)

	authHandler.RegisterRoutes(router)
	hiringHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	for _, route := range router.Routes() {
		logger.Debug("route registered", map[string]any{
			"method": route.Method,
			"path":   route.Path,
		})
	}

	return router, nil
}
