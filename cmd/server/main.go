package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sujalbistaa/inkpost/internal/app"
	"github.com/sujalbistaa/inkpost/internal/config"
	"github.com/sujalbistaa/inkpost/internal/db"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 1. Initialize Database
	database, err := db.Open(cfg.DatabaseURL, cfg.DBLog)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// 2. Run Migrations
	log.Println("Running database migrations...")
	if err := db.Migrate(database); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations complete.")

	// 3. Build the router; background workers stop with ctx
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	router, err := app.New(ctx, cfg, database)
	if err != nil {
		log.Fatalf("Failed to build server: %v", err)
	}

	// 4. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
	stop()

	if sqlDB, err := database.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Println("Server exiting")
}
