// Package server assembles the application: configuration, stores, the AI
// gateway and the Gin router, with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/vitashifa/backend/config"
	"github.com/vitashifa/backend/internal/api"
	"github.com/vitashifa/backend/internal/database"
	"github.com/vitashifa/backend/internal/middleware"
	"github.com/vitashifa/backend/internal/service"
	"github.com/vitashifa/backend/internal/store"
)

// Server represents the HTTP server
type Server struct {
	cfg    *config.Config
	router *gin.Engine
	http   *http.Server
	db     *gorm.DB
	redis  *redis.Client
}

// New builds the full dependency graph. Missing AI credentials or cloud
// database settings degrade the corresponding features instead of failing
// startup; Redis is required since it backs the local chat store.
func New(cfg *config.Config) (*Server, error) {
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	var db *gorm.DB
	if cfg.CloudEnabled() {
		db, err = database.NewGorm(cfg)
		if err != nil {
			log.Printf("cloud database unavailable, continuing local-only: %v", err)
			db = nil
		} else if err := database.Migrate(db); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	} else {
		log.Println("no DB_HOST configured, chat history is local-only")
	}

	provider, err := buildProvider(cfg)
	if err != nil {
		log.Printf("AI provider unavailable: %v", err)
		provider = nil
	}
	gateway := service.NewGateway(provider, cfg.ProviderTimeout)
	if !gateway.Enabled() {
		log.Println("no AI credential configured, AI endpoints will return configuration errors")
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	facade := store.NewFacade(store.NewLocalStore(redisClient), cloudStore(db))
	authService.SetSyncer(facade)

	s3, err := config.NewS3Config(context.Background(), cfg)
	if err != nil {
		log.Printf("S3 image archive unavailable: %v", err)
		s3 = nil
	}

	router := gin.Default()
	router.Use(middleware.CORS(cfg.CORSOrigins))
	api.RegisterRoutes(router, api.Deps{
		DB:      db,
		Redis:   redisClient,
		Gateway: gateway,
		Auth:    authService,
		Chats:   facade,
		S3:      s3,
		Config:  cfg,
	})

	return &Server{
		cfg:    cfg,
		router: router,
		db:     db,
		redis:  redisClient,
	}, nil
}

func buildProvider(cfg *config.Config) (service.Provider, error) {
	if !cfg.AIEnabled() {
		return nil, fmt.Errorf("no API key configured for provider %q", cfg.AIProvider)
	}
	if cfg.AIProvider == "openai" {
		return service.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}
	return service.NewGeminiProvider(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
}

func cloudStore(db *gorm.DB) *store.CloudStore {
	if db == nil {
		return nil
	}
	return store.NewCloudStore(db)
}

// Start begins serving and blocks until the listener stops.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:    s.cfg.ServerHost + ":" + s.cfg.ServerPort,
		Handler: s.router,
	}

	log.Printf("listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and closes the backing connections.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if s.http != nil {
		if err := s.http.Shutdown(ctx); err != nil {
			return err
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			log.Printf("failed to close Redis connection: %v", err)
		}
	}
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Printf("failed to close database connection: %v", err)
			}
		}
	}
	return nil
}
