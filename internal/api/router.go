package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taishoku-agency/consultation-system/internal/api/handler"
	"github.com/taishoku-agency/consultation-system/internal/api/middleware"
	"github.com/taishoku-agency/consultation-system/internal/core/domain"
	"github.com/taishoku-agency/consultation-system/internal/core/service"
	"github.com/taishoku-agency/consultation-system/internal/infrastructure/config"
	mongodb "github.com/taishoku-agency/consultation-system/internal/infrastructure/db/mongo"
	redisdb "github.com/taishoku-agency/consultation-system/internal/infrastructure/db/redis"
	"github.com/taishoku-agency/consultation-system/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("consultation"))

	// --- Dependencies ---
	profileRepo := mongodb.NewProfileRepository(db)
	caseRepo := mongodb.NewCaseRepository(db)
	resultRepo := mongodb.NewCallResultRepository(db)
	listCache := redisdb.NewCaseListCache(rdb)

	authService := service.NewAuthService(profileRepo, cfg.JWTSecret, cfg.TokenTTL)
	caseService := service.NewCaseService(caseRepo, listCache, log)
	callService := service.NewCallService(caseRepo, resultRepo, listCache, service.RoomTokenConfig{
		APIKey:    cfg.LiveKit.APIKey,
		APISecret: cfg.LiveKit.APISecret,
		ServerURL: cfg.LiveKit.WSURL,
		TokenTTL:  cfg.LiveKit.TokenTTL,
	}, log)
	statsService := service.NewStatsService(caseRepo)

	authHandler := handler.NewAuthHandler(authService)
	caseHandler := handler.NewCaseHandler(caseService)
	callHandler := handler.NewCallHandler(callService)
	statsHandler := handler.NewStatsHandler(statsService)

	authMiddleware := middleware.Auth(cfg.JWTSecret, authService)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/signup", authHandler.Signup)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/me", authHandler.Me, authMiddleware)
	e.PATCH("/me", authHandler.UpdateMe, authMiddleware)

	// --- Case routes ---
	v1 := e.Group("/v1", authMiddleware)
	v1.GET("/cases", caseHandler.List)
	v1.POST("/cases", caseHandler.Create)
	v1.GET("/cases/:id", caseHandler.Get)
	v1.PATCH("/cases/:id", caseHandler.Update)
	v1.DELETE("/cases/:id", caseHandler.Delete, adminOnly)

	// --- Call routes ---
	v1.POST("/cases/:id/call", callHandler.Start)
	v1.GET("/cases/:id/results", callHandler.ListResults)
	v1.POST("/cases/:id/results", callHandler.RecordResult, adminOnly)

	// --- Admin routes ---
	v1.GET("/profiles", authHandler.ListProfiles, adminOnly)
	v1.GET("/stats/cases", statsHandler.Cases, adminOnly)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
