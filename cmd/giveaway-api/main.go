package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/adventio/giveaway-api/api/swagger"
	"github.com/adventio/giveaway-api/internal/handler"
	"github.com/adventio/giveaway-api/internal/middleware"
	"github.com/adventio/giveaway-api/internal/models"
	"github.com/adventio/giveaway-api/internal/repository"
	"github.com/adventio/giveaway-api/internal/service"
	rediscache "github.com/adventio/giveaway-api/pkg/cache"
	"github.com/adventio/giveaway-api/pkg/config"
	"github.com/adventio/giveaway-api/pkg/database"
	"github.com/adventio/giveaway-api/pkg/logger"
	corsmiddleware "github.com/adventio/giveaway-api/pkg/middleware/cors"
	reqidmiddleware "github.com/adventio/giveaway-api/pkg/middleware/requestid"
)

// @title Giveaway Calendar API
// @version 1.0.0
// @description Time-boxed giveaway campaigns with sequentially unlocking doors.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = rediscache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, public cache disabled", "error", err)
			redisClient = nil
		}
	}

	validate := validator.New()

	calendarRepo := repository.NewCalendarRepository(db)
	doorRepo := repository.NewDoorRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	productRepo := repository.NewProductRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	entryRepo := repository.NewEntryRepository(db)
	winnerRepo := repository.NewWinnerRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration, cfg.JWT.Issuer, validate, logr)
	calendarSvc := service.NewCalendarService(calendarRepo, doorRepo, questionRepo, productRepo, winnerRepo, cacheRepo, cfg.Cache.TTL, validate, logr)
	doorSvc := service.NewDoorService(doorRepo, questionRepo, calendarRepo, cacheRepo, validate, logr)
	productSvc := service.NewProductService(productRepo, calendarRepo, validate, logr)
	entrySvc := service.NewEntryService(calendarRepo, doorRepo, questionRepo, leadRepo, entryRepo, winnerRepo, validate, logr)
	winnerSvc := service.NewWinnerService(doorRepo, winnerRepo, calendarRepo, cacheRepo, logr)
	leadSvc := service.NewLeadService(leadRepo, calendarRepo, logr)
	exportSvc := service.NewExportService(calendarRepo, leadRepo, winnerRepo, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	calendarHandler := handler.NewCalendarHandler(calendarSvc)
	doorHandler := handler.NewDoorHandler(doorSvc)
	productHandler := handler.NewProductHandler(productSvc)
	publicHandler := handler.NewPublicHandler(calendarSvc, entrySvc, metricsSvc)
	winnerHandler := handler.NewWinnerHandler(winnerSvc, metricsSvc, cfg.Draws.SelectedBySystem)
	leadHandler := handler.NewLeadHandler(leadSvc, exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	if !cfg.Entries.TrustProxyHeaders {
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	public := api.Group("/public")
	{
		public.GET("/calendars/:slug", publicHandler.GetCalendar)
		public.POST("/entries", publicHandler.SubmitEntry)
	}

	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))
	{
		protected.GET("/auth/me", authHandler.Me)
		protected.POST("/auth/change-password", authHandler.ChangePassword)

		protected.GET("/calendars", calendarHandler.List)
		protected.POST("/calendars", calendarHandler.Create)
		protected.GET("/calendars/:id", calendarHandler.Get)
		protected.PUT("/calendars/:id", calendarHandler.Update)
		protected.PATCH("/calendars/:id/status", calendarHandler.UpdateStatus)
		protected.DELETE("/calendars/:id", middleware.RequireRoles(models.RoleAdmin), calendarHandler.Delete)
		protected.GET("/calendars/:id/stats", calendarHandler.Stats)

		protected.GET("/calendars/:id/doors", doorHandler.ListByCalendar)
		protected.GET("/doors/:id", doorHandler.Get)
		protected.PUT("/doors/:id", doorHandler.Update)
		protected.GET("/doors/:id/questions", doorHandler.ListQuestions)
		protected.PUT("/doors/:id/questions", doorHandler.ReplaceQuestions)

		protected.GET("/calendars/:id/products", productHandler.ListByCalendar)
		protected.POST("/calendars/:id/products", productHandler.Create)
		protected.GET("/products/:id", productHandler.Get)
		protected.PUT("/products/:id", productHandler.Update)
		protected.DELETE("/products/:id", productHandler.Delete)

		protected.POST("/doors/:id/winner", winnerHandler.Draw)
		protected.DELETE("/doors/:id/winner", middleware.RequireRoles(models.RoleAdmin), winnerHandler.Remove)
		protected.POST("/doors/:id/winner/notify", winnerHandler.MarkNotified)
		protected.GET("/calendars/:id/winners", winnerHandler.ListByCalendar)

		protected.GET("/calendars/:id/leads", leadHandler.ListByCalendar)
		if cfg.Exports.Enabled {
			protected.GET("/calendars/:id/leads/export", leadHandler.ExportCSV)
			protected.GET("/calendars/:id/winners/export", leadHandler.ExportWinnersPDF)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
