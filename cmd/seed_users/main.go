// Command seed_users inserts demo accounts for local development.
package main

import (
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vitashifa/backend/config"
	"github.com/vitashifa/backend/internal/database"
	"github.com/vitashifa/backend/internal/models"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if !cfg.CloudEnabled() {
		log.Fatal("DB_HOST is not set; users require the cloud database")
	}

	db, err := database.NewGorm(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("testpassword123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	demo := []struct {
		email       string
		displayName string
		language    string
	}{
		{"john.doe@example.com", "John Doe", "en"},
		{"maria.garcia@example.com", "Maria Garcia", "es"},
		{"amina.khan@example.com", "Amina Khan", "en"},
	}

	now := time.Now()
	for _, d := range demo {
		var existing models.User
		if err := db.Where("email = ?", d.email).First(&existing).Error; err == nil {
			log.Printf("user %s already exists, skipping", d.email)
			continue
		}

		user := models.User{
			ID:           uuid.New(),
			Email:        d.email,
			DisplayName:  d.displayName,
			PasswordHash: string(hashed),
			LastLoginAt:  &now,
		}
		if err := db.Create(&user).Error; err != nil {
			log.Fatalf("Failed to create user %s: %v", d.email, err)
		}

		profile := models.UserProfile{
			ID:       uuid.New(),
			UserID:   user.ID,
			Language: d.language,
		}
		if err := db.Create(&profile).Error; err != nil {
			log.Fatalf("Failed to create profile for %s: %v", d.email, err)
		}
		log.Printf("created user %s (password: testpassword123)", d.email)
	}
}
