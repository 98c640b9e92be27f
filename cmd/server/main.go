// Package main is the entry point for the ticketing API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Stiliyan26/Ticket-Master/internal/domain/booking"
	"github.com/Stiliyan26/Ticket-Master/internal/domain/event"
	"github.com/Stiliyan26/Ticket-Master/internal/domain/seat"
	"github.com/Stiliyan26/Ticket-Master/internal/domain/ticket"
	"github.com/Stiliyan26/Ticket-Master/internal/domain/venue"
	v1 "github.com/Stiliyan26/Ticket-Master/internal/infrastructure/http/v1"
	"github.com/Stiliyan26/Ticket-Master/internal/infrastructure/http/v1/middleware"
	"github.com/Stiliyan26/Ticket-Master/internal/infrastructure/storage/postgres"
	"github.com/Stiliyan26/Ticket-Master/internal/infrastructure/storage/postgres/booking_repo"
	"github.com/Stiliyan26/Ticket-Master/internal/infrastructure/storage/postgres/event_repo"
	"github.com/Stiliyan26/Ticket-Master/internal/infrastructure/storage/postgres/seat_repo"
	"github.com/Stiliyan26/Ticket-Master/internal/infrastructure/storage/postgres/ticket_repo"
	"github.com/Stiliyan26/Ticket-Master/internal/infrastructure/storage/postgres/venue_repo"
	"github.com/Stiliyan26/Ticket-Master/pkg/logger"
)

func main() {
	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting ticketmaster server")

	// --- Database connection ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")
	postgres.LogPoolStats(ctx, pool.Unwrap())

	middleware.RegisterPoolStats(pool.Unwrap())

	// --- Transaction manager and audit trail ---
	txManager := postgres.NewTxManager(pool)

	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	// --- Repositories ---
	venueRepo := venue_repo.New(txManager)
	seatRepo := seat_repo.New(txManager)
	eventRepo := event_repo.New(txManager)
	ticketRepo := ticket_repo.New(txManager)
	bookingRepo := booking_repo.New(txManager)

	// --- Domain services ---
	venueService := venue.NewService(venueRepo, txManager)
	seatService := seat.NewService(seatRepo, venueRepo, txManager)
	ticketService := ticket.NewService(ticketRepo, eventRepo, txManager, auditService)
	eventService := event.NewService(eventRepo, ticketService, venueRepo, seatRepo, txManager, auditService)
	bookingService := booking.NewService(bookingRepo, ticketService, txManager, auditService)

	// --- Token validation ---
	validator := middleware.NewHMACValidator(mustEnv("JWT_SECRET"))

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:           pool,
		Logger:         log,
		TokenValidator: validator,
		Audit:          auditService,
		VenueService:   venueService,
		SeatService:    seatService,
		EventService:   eventService,
		TicketService:  ticketService,
		BookingService: bookingService,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
