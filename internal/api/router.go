package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/taskconnect/marketplace-api/internal/api/handler"
	"github.com/taskconnect/marketplace-api/internal/api/middleware"
	"github.com/taskconnect/marketplace-api/internal/core/domain"
	"github.com/taskconnect/marketplace-api/internal/core/ports"
	"github.com/taskconnect/marketplace-api/internal/infrastructure/files"
)

// Services are the use cases the router exposes.
type Services struct {
	Registration ports.RegistrationService
	Auth         ports.AuthService
	Approvals    ports.ApprovalService
	Directory    ports.ProviderDirectory
	Bookings     ports.BookingService
	Reports      ports.ReportService
}

// Options configures the router. Nil Registerer and Gatherer fall back to the
// Prometheus defaults.
type Options struct {
	Log        zerolog.Logger
	ImageDir   string
	Readiness  map[string]handler.PingFunc
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(opts.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:                 "marketplace",
		Subsystem:                 "http",
		Registerer:                opts.Registerer,
		DoNotUseRequestPathFor404: true,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(svc.Registration, svc.Auth)
	adminHandler := handler.NewAdminHandler(svc.Approvals, svc.Reports)
	providerHandler := handler.NewProviderHandler(svc.Directory)
	bookingHandler := handler.NewBookingHandler(svc.Bookings)
	reportHandler := handler.NewReportHandler(svc.Reports)

	authMiddleware := middleware.Auth(svc.Auth)

	api := e.Group("/api")

	// --- Auth routes ---
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.POST("/logout", authHandler.Logout, authMiddleware)

	// --- Admin routes ---
	admin := api.Group("/admin", authMiddleware, middleware.RBAC(domain.RoleAdmin))
	admin.GET("/pending-providers", adminHandler.PendingProviders)
	admin.POST("/approve-provider/:id", adminHandler.ApproveProvider)
	admin.GET("/reports", adminHandler.Reports)

	// --- Provider directory (public) ---
	api.GET("/providers", providerHandler.List)
	api.GET("/service-providers", providerHandler.List)
	if opts.ImageDir != "" {
		e.Static(files.ImageRoute, opts.ImageDir)
	}

	// --- Booking routes ---
	bookings := api.Group("/bookings", authMiddleware)
	bookings.POST("", bookingHandler.Create, middleware.RBAC(domain.RoleUser))
	bookings.GET("", bookingHandler.List)
	bookings.GET("/:id", bookingHandler.Get)
	bookings.POST("/:id/accept", bookingHandler.Accept, middleware.RBAC(domain.RoleServiceProvider))
	bookings.POST("/:id/decline", bookingHandler.Decline, middleware.RBAC(domain.RoleServiceProvider))
	bookings.POST("/:id/complete", bookingHandler.Complete)
	bookings.POST("/:id/cancel", bookingHandler.Cancel, middleware.RBAC(domain.RoleUser, domain.RoleAdmin))
	bookings.DELETE("/:id", bookingHandler.Delete)

	// --- Reports ---
	api.POST("/reports", reportHandler.Submit, authMiddleware)

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(opts.Readiness)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: opts.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger emits one structured line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
