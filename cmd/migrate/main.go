// Command migrate applies the database schema to the configured cloud
// database without starting the API server.
package main

import (
	"context"
	"log"
	"time"

	"github.com/vitashifa/backend/config"
	"github.com/vitashifa/backend/internal/database"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if !cfg.CloudEnabled() {
		log.Fatal("DB_HOST is not set; nothing to migrate")
	}

	// Verify connectivity with the plain driver before opening GORM; the
	// ping gives a clearer error when credentials or networking are wrong.
	probe, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := probe.HealthCheck(ctx); err != nil {
		log.Fatalf("Database health check failed: %v", err)
	}
	probe.Close()

	db, err := database.NewGorm(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migrations applied successfully")
}
