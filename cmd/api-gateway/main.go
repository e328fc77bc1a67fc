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
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-timetable-api/api/swagger"
	"github.com/noah-isme/sma-timetable-api/internal/handler"
	"github.com/noah-isme/sma-timetable-api/internal/middleware"
	"github.com/noah-isme/sma-timetable-api/internal/repository"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	"github.com/noah-isme/sma-timetable-api/pkg/cache"
	"github.com/noah-isme/sma-timetable-api/pkg/config"
	"github.com/noah-isme/sma-timetable-api/pkg/database"
	"github.com/noah-isme/sma-timetable-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-timetable-api/pkg/middleware/requestid"
)

const shutdownTimeout = 10 * time.Second

// @title SMA Timetable API
// @version 1.0.0
// @description Weekly timetable generation for grade classes.
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
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}

	cacheRepo, redisClient := newCacheRepository(cfg, logr)
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Scheduler.CacheTTL, logr)

	validate := validator.New()
	authSvc := service.NewAuthService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Leeway)

	gradeClassRepo := repository.NewGradeClassRepository(db)
	timeConfigRepo := repository.NewTimeConfigRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	subjectHoursRepo := repository.NewSubjectHoursRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	teacherSubjectRepo := repository.NewTeacherSubjectRepository(db)
	preferenceRepo := repository.NewTeacherPreferenceRepository(db)

	timetableSvc := service.NewTimetableService(
		gradeClassRepo, timeConfigRepo, subjectRepo, subjectHoursRepo, scheduleRepo, db,
		cacheSvc, metrics, validate, logr,
		service.TimetableServiceConfig{DefaultDays: cfg.Scheduler.DefaultDays, CacheTTL: cfg.Scheduler.CacheTTL},
	)
	timeConfigSvc := service.NewTimeConfigService(timeConfigRepo, validate, logr)
	subjectHoursSvc := service.NewSubjectHoursService(subjectRepo, gradeClassRepo, subjectHoursRepo, validate, logr)
	preferenceSvc := service.NewTeacherPreferenceService(teacherRepo, preferenceRepo, validate, logr)
	subjectTeacherSvc := service.NewSubjectTeacherService(subjectRepo, teacherRepo, teacherSubjectRepo, validate, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	metricsHandler := handler.NewMetricsHandler(metrics, readinessChecks(db, redisClient)...)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if metrics != nil {
		r.GET("/metrics", metricsHandler.Prometheus)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handler.Handlers{
		Timetable:         handler.NewTimetableHandler(timetableSvc),
		TimeConfig:        handler.NewTimeConfigHandler(timeConfigSvc),
		SubjectHours:      handler.NewSubjectHoursHandler(subjectHoursSvc),
		TeacherPreference: handler.NewTeacherPreferenceHandler(preferenceSvc),
		SubjectTeacher:    handler.NewSubjectTeacherHandler(subjectTeacherSvc),
	}, authSvc)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "cache", cacheBackend(redisClient))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}

type closableCache interface {
	service.CacheRepository
	Close() error
}

// newCacheRepository prefers Redis and falls back to process memory when Redis
// is disabled or unreachable.
func newCacheRepository(cfg *config.Config, logr *zap.Logger) (closableCache, *redis.Client) {
	if cfg.Redis.Enabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err == nil {
			return repository.NewCacheRepository(client, logr), client
		}
		logr.Warn("redis unavailable, using in-memory cache", zap.Error(err))
	}
	return repository.NewMemoryCacheRepository(cache.NewMemory(cfg.Scheduler.CacheTTL)), nil
}

func readinessChecks(db *sqlx.DB, client *redis.Client) []handler.ReadinessCheck {
	checks := []handler.ReadinessCheck{{Name: "postgres", Check: db.PingContext}}
	if client != nil {
		checks = append(checks, handler.ReadinessCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return client.Ping(ctx).Err() },
		})
	}
	return checks
}

func cacheBackend(client *redis.Client) string {
	if client != nil {
		return "redis"
	}
	return "memory"
}
