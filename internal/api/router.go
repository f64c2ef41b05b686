package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/ecoride/auth-service/docs"
	"github.com/ecoride/auth-service/internal/api/handler"
	"github.com/ecoride/auth-service/internal/api/middleware"
	"github.com/ecoride/auth-service/internal/core/domain"
	"github.com/ecoride/auth-service/internal/core/ports"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// Services are constructed by the caller so their lifecycle (audit workers)
// stays outside the router.
func NewRouter(
	authService ports.AuthService,
	tokens ports.TokenService,
	db *mongo.Database,
	rdb *redis.Client,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("ecoride_auth_http"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	profileHandler := handler.NewProfileHandler(authService)
	authenticated := middleware.Auth(tokens)
	anyRole := middleware.RequireRole(domain.RoleCustomer, domain.RoleRider)

	// --- Auth routes ---
	e.GET("/auth", authHandler.Test)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/signin", authHandler.LegacyAuth) // legacy phone flow
	e.POST("/auth/refresh-token", authHandler.Refresh)
	e.GET("/auth/profile", profileHandler.Get, authenticated, anyRole)
	e.PUT("/auth/profile", profileHandler.Update, authenticated, anyRole)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
