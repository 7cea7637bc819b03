package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadpop/popup-service/internal/api/handler"
	"github.com/leadpop/popup-service/internal/api/middleware"
	"github.com/leadpop/popup-service/internal/core/domain"
	"github.com/leadpop/popup-service/internal/core/ports"
)

// Deps carries everything the router wires together. Mongo and Redis may
// be nil when the memory backend is active; the readiness probe skips
// them.
type Deps struct {
	Gate      ports.GateService
	Auth      ports.AuthService
	Clients   ports.ClientRepository
	Leads     ports.LeadRepository
	Directory ports.ClientDirectory

	Mongo *mongo.Database
	Redis *redis.Client

	JWTSecret string
	RateRPS   float64
	RateBurst int
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("popup"))

	// --- Handlers ---
	verifyHandler := handler.NewVerifyHandler(deps.Gate)
	popupHandler := handler.NewPopupHandler(deps.Gate)
	leadHandler := handler.NewLeadHandler(deps.Gate)
	authHandler := handler.NewAuthHandler(deps.Auth)
	adminHandler := handler.NewAdminHandler(deps.Clients, deps.Leads, deps.Directory)

	// --- Public widget surface ---
	// Storefront pages call these cross-origin, so CORS is permissive
	// here and only here.
	public := e.Group("",
		echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{echo.GET, echo.POST, echo.OPTIONS},
		}),
		middleware.RateLimit(deps.RateRPS, deps.RateBurst),
	)
	public.GET("/api/verify", verifyHandler.Verify)
	public.GET("/api/popup", popupHandler.Config)
	public.POST("/api/leads", leadHandler.Submit)
	public.GET("/widget.js", popupHandler.Script)

	// --- Auth ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Admin surface ---
	admin := e.Group("/v1/admin",
		middleware.Auth(deps.JWTSecret),
		middleware.RBAC(domain.RoleAdmin),
	)
	admin.GET("/clients", adminHandler.ListClients)
	admin.POST("/clients", adminHandler.CreateClient)
	admin.GET("/clients/:id/leads", adminHandler.ListLeads)

	// --- Health probes and metrics ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)          // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
