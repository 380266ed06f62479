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

	"github.com/statuspulse/statuspulse/internal/api"
	"github.com/statuspulse/statuspulse/internal/config"
	"github.com/statuspulse/statuspulse/internal/database"
	"github.com/statuspulse/statuspulse/internal/jobs"
	"github.com/statuspulse/statuspulse/internal/status"
	"github.com/statuspulse/statuspulse/internal/store"
	"github.com/statuspulse/statuspulse/internal/websocket"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database connection: %v", err)
	}
	defer sqlDB.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.Database); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize WebSocket hub
	hub := websocket.NewHub(cfg.CORSOrigins)
	go hub.Run()

	// Initialize aggregation engine
	engine := status.NewEngine(
		store.NewHeartbeatStore(db),
		store.NewReference(db),
		status.Config{
			DefaultWarningMs:  cfg.Engine.DefaultWarningMs,
			DefaultCriticalMs: cfg.Engine.DefaultCriticalMs,
			DownFloorPercent:  cfg.Engine.DownFloorPercent,
			SeriesBuckets:     cfg.Engine.SeriesBuckets,
			QueryTimeout:      cfg.Engine.QueryTimeout,
		},
	)

	// Initialize job scheduler
	scheduler := jobs.NewScheduler(db, cfg.Retention)
	scheduler.Start()
	defer scheduler.Stop()

	// Setup API router
	router := api.NewRouter(cfg, db, engine, hub)

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %d", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
