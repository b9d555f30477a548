package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/mentorhub/mentorhub-api/api/swagger"
	"github.com/mentorhub/mentorhub-api/internal/handler"
	"github.com/mentorhub/mentorhub-api/internal/middleware"
	"github.com/mentorhub/mentorhub-api/internal/models"
	"github.com/mentorhub/mentorhub-api/internal/repository"
	"github.com/mentorhub/mentorhub-api/internal/service"
	"github.com/mentorhub/mentorhub-api/pkg/cache"
	"github.com/mentorhub/mentorhub-api/pkg/config"
	"github.com/mentorhub/mentorhub-api/pkg/database"
	"github.com/mentorhub/mentorhub-api/pkg/logger"
	corsmiddleware "github.com/mentorhub/mentorhub-api/pkg/middleware/cors"
	reqidmiddleware "github.com/mentorhub/mentorhub-api/pkg/middleware/requestid"
	"github.com/mentorhub/mentorhub-api/pkg/storage"
)

// @title MentorHub API
// @version 1.0.0
// @description Mentorship matching, community blogs and engagement points
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	cvStorage, err := storage.NewLocalStorage(cfg.CV.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init cv storage", "error", err)
	}
	exportStorage, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}

	cvSigner := storage.NewSignedURLSigner(cfg.CV.SignedURLSecret, cfg.CV.SignedURLTTL)
	exportSigner := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	mentorRepo := repository.NewMentorRepository(db)
	pointsRepo := repository.NewPointsRepository(db)
	blogRepo := repository.NewBlogRepository(db)
	cvRepo := repository.NewCVRepository(db)
	exportRepo := repository.NewExportRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "mentorhub-api",
		Audience:           []string{"mentorhub"},
	})
	userService := service.NewUserService(userRepo, validate, logr)
	leaderboardService := service.NewLeaderboardService(pointsRepo, cacheRepo, logr, cfg.Leaderboard.CacheTTL)
	pointsService := service.NewPointsService(pointsRepo, userRepo, leaderboardService, validate, logr, cfg.Points.WindowDuration)
	mentorService := service.NewMentorService(mentorRepo, validate, logr)
	matchService := service.NewMatchService(matchRepo, mentorRepo, cvRepo, userRepo, validate, logr)
	blogService := service.NewBlogService(blogRepo, pointsService, userRepo, validate, logr)
	cvService := service.NewCVService(cvRepo, cvStorage, cvSigner, logr, cfg.CV.MaxFileSizeBytes)
	exportService := service.NewExportService(exportRepo, pointsRepo, exportStorage, exportSigner, logr, service.ExportServiceConfig{
		Enabled:     cfg.Exports.Enabled,
		Concurrency: cfg.Exports.WorkerConcurrency,
		Retries:     cfg.Exports.WorkerRetries,
	})
	metricsService := service.NewMetricsService()

	exportService.Start(ctx)
	defer exportService.Stop()

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	matchHandler := handler.NewMatchHandler(matchService)
	mentorHandler := handler.NewMentorHandler(mentorService)
	pointsHandler := handler.NewPointsHandler(pointsService, leaderboardService)
	blogHandler := handler.NewBlogHandler(blogService)
	cvHandler := handler.NewCVHandler(cvService)
	exportHandler := handler.NewExportHandler(exportService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

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

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authService), authHandler.Logout)
		auth.POST("/change-password", middleware.JWT(authService), authHandler.ChangePassword)
		auth.GET("/me", middleware.JWT(authService), authHandler.Me)
	}

	users := api.Group("/users", middleware.JWT(authService))
	{
		users.GET("", middleware.RequireRoles(models.RoleAdmin), userHandler.List)
		users.GET("/:id", middleware.RBAC(string(models.RoleAdmin), "SELF"), userHandler.Get)
		users.PUT("/:id", middleware.RBAC(string(models.RoleAdmin), "SELF"), userHandler.Update)
		users.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), userHandler.Delete)
		users.GET("/:id/points", pointsHandler.ForUser)
		users.PATCH("/:id/points", middleware.RequireRoles(models.RoleAdmin), pointsHandler.Adjust)
		users.GET("/:id/cv", cvHandler.Get)
		users.GET("/:id/cv/link", cvHandler.Link)
		users.POST("/:id/cv", middleware.RBAC(string(models.RoleAdmin), "SELF"), cvHandler.Upload)
		users.DELETE("/:id/cv", middleware.RBAC(string(models.RoleAdmin), "SELF"), cvHandler.Delete)
	}

	mentors := api.Group("/mentors")
	{
		mentors.GET("/search", middleware.OptionalJWT(authService), mentorHandler.Search)

		profiles := mentors.Group("/profiles")
		{
			profiles.GET("/me", middleware.JWT(authService), mentorHandler.GetMine)
			profiles.GET("/by-user/:userId", middleware.OptionalJWT(authService), mentorHandler.GetByUser)
			profiles.GET("/:id", middleware.OptionalJWT(authService), mentorHandler.Get)
			profiles.POST("", middleware.JWT(authService), mentorHandler.Create)
			profiles.PUT("/:id", middleware.JWT(authService), mentorHandler.Update)
			profiles.DELETE("/:id", middleware.JWT(authService), mentorHandler.Delete)
		}
	}

	matches := api.Group("/matches", middleware.JWT(authService))
	{
		matches.POST("", matchHandler.Create)
		matches.GET("", matchHandler.List)
		matches.GET("/:id", matchHandler.Get)
		matches.POST("/:id/respond", matchHandler.Respond)
		matches.PATCH("/:id/complete", matchHandler.Complete)
		matches.DELETE("/:id", matchHandler.Cancel)
	}

	blogs := api.Group("/blogs")
	{
		blogs.GET("", middleware.OptionalJWT(authService), blogHandler.List)
		blogs.GET("/:id", middleware.OptionalJWT(authService), blogHandler.Get)
		blogs.GET("/:id/comments", middleware.OptionalJWT(authService), blogHandler.ListComments)
		blogs.POST("", middleware.JWT(authService), blogHandler.Create)
		blogs.PUT("/:id", middleware.JWT(authService), blogHandler.Update)
		blogs.DELETE("/:id", middleware.JWT(authService), blogHandler.Delete)
		blogs.PATCH("/:id/feature", middleware.JWT(authService), middleware.RequireRoles(models.RoleAdmin), blogHandler.Feature)
		blogs.POST("/:id/comments", middleware.JWT(authService), blogHandler.Comment)
		blogs.DELETE("/:id/comments/:commentId", middleware.JWT(authService), blogHandler.DeleteComment)
		blogs.POST("/:id/like", middleware.JWT(authService), blogHandler.Like)
		blogs.DELETE("/:id/like", middleware.JWT(authService), blogHandler.Unlike)
	}

	points := api.Group("/points", middleware.JWT(authService))
	{
		points.GET("/me", pointsHandler.Mine)
	}

	api.GET("/leaderboard", pointsHandler.Leaderboard)
	api.GET("/cv/download", cvHandler.Download)

	exports := api.Group("/exports")
	{
		exports.POST("", middleware.JWT(authService), middleware.RequireRoles(models.RoleAdmin),
			middleware.Audit(userRepo, models.AuditActionExportCreate, "export"), exportHandler.Create)
		exports.GET("/:id", middleware.JWT(authService), exportHandler.Get)
		exports.GET("/:id/link", middleware.JWT(authService), exportHandler.Link)
		exports.GET("/download", exportHandler.Download)
	}

	api.GET("/admin/stats", middleware.JWT(authService), middleware.RequireRoles(models.RoleAdmin),
		middleware.Audit(userRepo, models.AuditActionStatsView, "system"), metricsHandler.Stats)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)

	srv := &http.Server{Addr: addr, Handler: r}
	go func() {
		<-ctx.Done()
		logr.Sugar().Infow("shutting down")
		_ = srv.Shutdown(context.Background())
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
