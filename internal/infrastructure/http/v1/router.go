// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Stiliyan26/Ticket-Master/internal/domain/booking"
	"github.com/Stiliyan26/Ticket-Master/internal/domain/event"
	"github.com/Stiliyan26/Ticket-Master/internal/domain/seat"
	"github.com/Stiliyan26/Ticket-Master/internal/domain/ticket"
	"github.com/Stiliyan26/Ticket-Master/internal/domain/venue"
	"github.com/Stiliyan26/Ticket-Master/internal/infrastructure/http/v1/handlers"
	"github.com/Stiliyan26/Ticket-Master/internal/infrastructure/http/v1/middleware"
	"github.com/Stiliyan26/Ticket-Master/internal/infrastructure/storage/postgres"
	"github.com/Stiliyan26/Ticket-Master/pkg/logger"
)

// RouterConfig holds everything the router needs wired up.
type RouterConfig struct {
	// Pool is the database pool (for health checks).
	Pool *postgres.Pool

	// Logger for request logging.
	Logger *logger.Logger

	// TokenValidator for bearer token validation.
	TokenValidator middleware.TokenValidator

	// Audit serves entity history lookups.
	Audit handlers.AuditHistory

	VenueService   *venue.Service
	SeatService    *seat.Service
	EventService   *event.Service
	TicketService  *ticket.Service
	BookingService *booking.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.Metrics())
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	base := handlers.NewBaseHandler()

	// API v1
	apiV1 := router.Group("/api/v1")
	{
		// Every v1 endpoint requires a valid bearer token.
		protected := apiV1.Group("")
		protected.Use(middleware.Auth(cfg.TokenValidator))

		handlers.NewVenueHandler(base, cfg.VenueService).RegisterRoutes(protected)
		handlers.NewSeatHandler(base, cfg.SeatService).RegisterRoutes(protected)
		handlers.NewEventHandler(base, cfg.EventService, cfg.TicketService).RegisterRoutes(protected)
		handlers.NewBookingHandler(base, cfg.BookingService).RegisterRoutes(protected)
		handlers.NewAuditHandler(base, cfg.Audit).RegisterRoutes(protected)
	}

	return router
}
