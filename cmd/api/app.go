package main

import (
	"net/http"

	"careboard/internal/cache"
	"careboard/internal/config"
	"careboard/internal/database"
	"careboard/internal/middleware"
	"careboard/internal/modules/auth"
	"careboard/internal/modules/care"
	"careboard/internal/modules/dashboard"
	"careboard/internal/notification"
	jwtsvc "careboard/internal/pkg/jwt"
	"careboard/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type app struct {
	cfg       *config.Config
	db        *gorm.DB
	redis     *redis.Client
	dashboard *dashboard.Service
	care      *care.Service
	auth      *auth.Service
	jwt       *jwtsvc.Service
	log       logrus.FieldLogger
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	return cfg, nil
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Connect(cfg.Database.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, errors.Wrap(err, "failed to run migrations")
	}
	return db, nil
}

func filterParams(cfg config.EligibilityConfig) dashboard.FilterParams {
	return dashboard.FilterParams{
		ReferenceDate: cfg.ReferenceDate,
		WindowMonths:  cfg.WindowMonths,
		RecencyDays:   cfg.RecencyDays,
		TopCustomers:  cfg.TopCustomers,
	}
}

func newDashboard(db *gorm.DB, cfg *config.Config, log logrus.FieldLogger) *dashboard.Service {
	return dashboard.NewService(
		repository.NewHierarchyRepository(db),
		repository.NewUnitRepository(db),
		repository.NewContractRepository(db),
		filterParams(cfg.Eligibility),
		log,
	)
}

func newApp(cfg *config.Config, log logrus.FieldLogger) (*app, error) {
	db, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, db: db, log: log}

	var (
		cacheClient cache.Client
		locker      cache.Locker
	)
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize Redis, continuing without cache and approval locks")
		} else {
			a.redis = rdb
			cacheClient = cache.NewClient(rdb)
			locker = cache.NewLocker(rdb, cfg.Redis.LockTTL)
		}
	}

	var notifier notification.Notifier = notification.NewLogNotifier(log)
	if cfg.Notification.Mode == notification.ChannelWebhook {
		notifier = notification.NewWebhookNotifier(cfg.Notification.WebhookURL)
	}

	directory := auth.NewDirectory(repository.NewRVPRepository(db), cacheClient, cfg.Redis.RVPTTL, log)
	a.jwt = jwtsvc.New(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)
	a.auth = auth.NewService(directory, a.jwt)
	a.dashboard = newDashboard(db, cfg, log)
	a.care = care.NewService(
		repository.NewSubmissionRepository(db),
		a.dashboard,
		directory,
		notifier,
		locker,
		care.Options{FormBaseURL: cfg.Notification.FormBaseURL, Subject: cfg.Notification.Subject},
		log,
	)
	return a, nil
}

func (a *app) router() *gin.Engine {
	gin.SetMode(a.cfg.Server.Mode)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(a.log),
		middleware.ErrorLogger(a.log),
		middleware.CORS(a.cfg.CORS.AllowedOrigins),
	)

	r.GET("/health", a.health)

	authHandler := auth.NewHandler(a.auth)
	dashboardHandler := dashboard.NewHandler(a.dashboard)
	careHandler := care.NewHandler(a.care)

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(a.jwt))
		{
			dashboardHandler.RegisterProtectedRoutes(protected)
			careHandler.RegisterProtectedRoutes(protected)
		}
	}
	return r
}

func (a *app) health(c *gin.Context) {
	status := gin.H{"status": "ok", "database": "ok"}
	code := http.StatusOK

	if sqlDB, err := a.db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		status["status"] = "degraded"
		status["database"] = "unreachable"
		code = http.StatusServiceUnavailable
	}
	if a.redis != nil {
		status["redis"] = "ok"
		if err := a.redis.Ping(c.Request.Context()).Err(); err != nil {
			status["redis"] = "unreachable"
		}
	}
	c.JSON(code, status)
}

func (a *app) close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
