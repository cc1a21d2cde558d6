package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/campus-gpa-api/api/swagger"
	"github.com/noah-isme/campus-gpa-api/internal/handler"
	internalmiddleware "github.com/noah-isme/campus-gpa-api/internal/middleware"
	"github.com/noah-isme/campus-gpa-api/internal/repository"
	"github.com/noah-isme/campus-gpa-api/internal/service"
	"github.com/noah-isme/campus-gpa-api/pkg/cache"
	"github.com/noah-isme/campus-gpa-api/pkg/config"
	"github.com/noah-isme/campus-gpa-api/pkg/database"
	"github.com/noah-isme/campus-gpa-api/pkg/export"
	"github.com/noah-isme/campus-gpa-api/pkg/jobs"
	"github.com/noah-isme/campus-gpa-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/campus-gpa-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/campus-gpa-api/pkg/middleware/requestid"
)

// @title Campus GPA API
// @version 1.0.0
// @description Semester GPA, CGPA and cohort batch averages for campus students
// @BasePath /api
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(ctx, cfg.Redis, cfg.GPA.CacheEnabled)
	if err != nil {
		logr.Warn("redis unavailable, gpa cache disabled", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	semesterRepo := repository.NewSemesterGPARepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.GPA.CacheTTL, logr, redisClient != nil)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	userSvc := service.NewUserService(userRepo, cacheSvc, validate, logr)
	semesterSvc := service.NewSemesterGPAService(semesterRepo, userRepo, cacheSvc, metricsSvc, validate, logr, service.SemesterGPAOptions{
		BatchStrategy: cfg.GPA.BatchStrategy,
		CacheTTL:      cfg.GPA.CacheTTL,
	})
	if redisClient != nil && cfg.GPA.WarmWorkers > 0 {
		warmer := service.NewBatchWarmer(semesterSvc, jobs.QueueConfig{Workers: cfg.GPA.WarmWorkers, Logger: logr})
		warmer.Start(ctx)
		defer warmer.Stop()
		semesterSvc.SetBatchWarmer(warmer)
	}
	transcriptSvc := service.NewTranscriptService(semesterSvc, userSvc, cfg.Transcript.Enabled, logr, export.NewCSVExporter(), export.NewPDFExporter())

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.WithResponseMeta())
	if cfg.Metrics.Enabled {
		r.Use(internalmiddleware.Metrics(metricsSvc))
	}

	handler.RegisterRoutes(r, handler.RouterDeps{
		Auth:           handler.NewAuthHandler(authSvc),
		Users:          handler.NewUserHandler(userSvc),
		SemesterGPA:    handler.NewSemesterGPAHandler(semesterSvc, transcriptSvc),
		Metrics:        handler.NewMetricsHandler(metricsSvc, db),
		Tokens:         authSvc,
		Audit:          userRepo,
		Logger:         logr,
		APIPrefix:      cfg.APIPrefix,
		MetricsEnabled: cfg.Metrics.Enabled,
		DocsEnabled:    cfg.Docs.Enabled || cfg.Env != config.EnvProduction,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.String("batch_strategy", cfg.GPA.BatchStrategy),
			zap.Bool("gpa_cache", redisClient != nil),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
