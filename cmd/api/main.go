package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/heartbeatpleasure/user-directory-api/api/swagger"
	"github.com/heartbeatpleasure/user-directory-api/internal/handler"
	"github.com/heartbeatpleasure/user-directory-api/internal/middleware"
	"github.com/heartbeatpleasure/user-directory-api/internal/repository"
	"github.com/heartbeatpleasure/user-directory-api/internal/service"
	"github.com/heartbeatpleasure/user-directory-api/pkg/cache"
	"github.com/heartbeatpleasure/user-directory-api/pkg/config"
	"github.com/heartbeatpleasure/user-directory-api/pkg/database"
	"github.com/heartbeatpleasure/user-directory-api/pkg/logger"
	corsmiddleware "github.com/heartbeatpleasure/user-directory-api/pkg/middleware/cors"
	reqidmiddleware "github.com/heartbeatpleasure/user-directory-api/pkg/middleware/requestid"
)

// @title User Directory API
// @version 1.0.0
// @description Server-side filtering, ordering and search for the community user directory
// @BasePath /
// @schemes http

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	var cacheRepo *repository.CacheRepository
	if redisClient, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Sugar().Warnw("redis unavailable, option caching disabled", "error", err)
	} else {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
		defer cacheRepo.Close()
	}

	fieldRepo := repository.NewFieldRepository(db)
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	directoryRepo := repository.NewDirectoryRepository(db)

	validate := validator.New()
	composer := service.NewFilterComposer(cfg.Search)

	authSvc := service.NewAuthService(cfg.JWT)
	metricsSvc := service.NewMetricsService()
	directorySvc := service.NewDirectoryService(directoryRepo, groupRepo, userRepo, fieldRepo, composer, metricsSvc, cfg.Directory, validate, logr)
	searchSvc := service.NewSearchService(userRepo, fieldRepo, composer, cfg.Search, logr)
	optionsSvc := service.NewOptionsService(fieldRepo, cacheRepo, cfg.Search, logr)

	directoryHandler := handler.NewDirectoryHandler(directorySvc)
	searchHandler := handler.NewSearchHandler(searchSvc)
	optionsHandler := handler.NewOptionsHandler(optionsSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	// The directory is viewable anonymously; a token only unlocks
	// viewer-specific behavior such as pinning and group visibility.
	api.GET("/directory_items", middleware.OptionalJWT(authSvc), directoryHandler.Index)

	authorized := api.Group("")
	authorized.Use(middleware.JWT(authSvc))
	{
		authorized.GET("/user-search", searchHandler.Index)
		authorized.GET("/user-search/options", optionsHandler.Index)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
