package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketSearch/app/echo-server/router"
	"marketSearch/business/boost"
	"marketSearch/business/decay"
	"marketSearch/business/experiment"
	"marketSearch/business/preference"
	"marketSearch/business/session"
	"marketSearch/internal/repository/analytics"
	psqlRepo "marketSearch/internal/repository/postgres"
	redisRepo "marketSearch/internal/repository/redis"
	"marketSearch/internal/repository/searchindex"
	"marketSearch/internal/rest"
	"marketSearch/pkg/config"
	"marketSearch/pkg/database"
	redisdb "marketSearch/pkg/database/redis"
	"marketSearch/pkg/logger"
	"marketSearch/pkg/metrics"
	"marketSearch/pkg/utils"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	defer logger.Sync()
	logger.Info("Starting Market Search Personalization", "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey)
	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	logger.Info("Database connected successfully")

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to redis", "error", err)
	}
	defer redisdb.CloseRedisClient(redisClient)

	// Init repo
	preferenceRepo := psqlRepo.NewPreferenceRepository(db)
	experimentRepo := psqlRepo.NewExperimentRepository(db)
	interactionRepo := psqlRepo.NewInteractionRepository(db)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.Personalization.SessionTTL)
	analyticsRepo := analytics.NewRepository(cfg.Analytics)
	indexRepo := searchindex.NewRepository(cfg.SearchIndex)

	// In-process caches
	preferenceCache := gocache.New(cfg.Personalization.PreferenceCacheTTL, 2*cfg.Personalization.PreferenceCacheTTL)
	assignmentCache := gocache.New(cfg.Personalization.AssignmentCacheTTL, 2*cfg.Personalization.AssignmentCacheTTL)

	// Init service
	preferenceService := preference.NewService(
		preferenceRepo, interactionRepo, sessionRepo, preferenceCache, preference.DefaultConfig(),
	)

	decayCfg := decay.DefaultConfig()
	decayCfg.Enabled = cfg.Personalization.DecayEnabled
	decayCfg.CategoryHalfLife = time.Duration(cfg.Personalization.CategoryHalfLifeDays * 24 * float64(time.Hour))
	decayCfg.BrandHalfLife = time.Duration(cfg.Personalization.BrandHalfLifeDays * 24 * float64(time.Hour))
	decayCfg.ValueHalfLife = time.Duration(cfg.Personalization.ValueHalfLifeDays * 24 * float64(time.Hour))
	decayCfg.PriceRangeHalfLife = time.Duration(cfg.Personalization.PriceRangeHalfLifeDays * 24 * float64(time.Hour))
	decayCfg.MaxPreferenceAge = time.Duration(cfg.Personalization.MaxPreferenceAgeDays * 24 * float64(time.Hour))
	decayCfg.BatchSize = cfg.Personalization.DecayBatchSize
	decayEngine := decay.NewEngine(preferenceRepo, preferenceService, decayCfg)

	sessionCalculator := session.NewCalculator(sessionRepo)
	experimentService := experiment.NewService(experimentRepo, analyticsRepo, assignmentCache)

	profileCatalog := boost.NewProfileCatalog(cfg.Personalization.PreferenceCacheTTL)
	composerCfg := boost.DefaultConfig()
	composerCfg.SimilarityThreshold = cfg.Personalization.SimilarityThreshold
	composerCfg.MaxSimilarCategories = cfg.Personalization.MaxSimilarCategories
	composer := boost.NewComposer(profileCatalog, preferenceService, sessionCalculator, experimentService, composerCfg)

	// Init handler
	interactionHandler := rest.NewInteractionHandler(preferenceService, interactionRepo)
	preferenceHandler := rest.NewPreferenceHandler(preferenceService)
	sessionHandler := rest.NewSessionHandler(sessionCalculator)
	searchHandler := rest.NewSearchHandler(composer, indexRepo)
	experimentHandler := rest.NewExperimentHandler(experimentService)
	decayHandler := rest.NewDecayAdminHandler(decayEngine)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupInteractionRoutes(api, interactionHandler)
	router.SetupSearchRoutes(api, searchHandler)
	router.SetupPreferenceRoutes(api, preferenceHandler)
	router.SetupSessionRoutes(api, sessionHandler)
	router.SetupExperimentRoutes(api, experimentHandler)
	router.SetupAdminRoutes(api, experimentHandler, decayHandler, interactionHandler)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Background decay sweeps
	sweepCtx, stopSweeps := context.WithCancel(context.Background())
	defer stopSweeps()
	if decayCfg.Enabled {
		go decayEngine.StartScheduler(sweepCtx, cfg.Personalization.DecaySweepInterval)
	}

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stopSweeps()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
