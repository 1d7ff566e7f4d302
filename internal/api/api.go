// Package api wires the HTTP surface: AI query endpoints, chat history,
// authentication and email validation, all under /api/v1.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/vitashifa/backend/config"
	"github.com/vitashifa/backend/internal/middleware"
	"github.com/vitashifa/backend/internal/service"
	"github.com/vitashifa/backend/internal/store"
)

// Deps carries everything the handlers need. DB and Redis may be nil when
// the corresponding feature is not configured.
type Deps struct {
	DB      *gorm.DB
	Redis   *redis.Client
	Gateway service.AIGateway
	Auth    *service.AuthService
	Chats   *store.Facade
	S3      *config.S3Config
	Config  *config.Config
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps Deps) {
	router.GET("/health", HealthCheckHandler(deps))
	router.GET("/api/health", HealthCheckHandler(deps))

	v1 := router.Group("/api/v1")
	{
		var aiLimiter *middleware.RateLimiter
		if deps.Redis != nil {
			aiLimiter = middleware.NewAIQueryRateLimiter(deps.Redis)
		}

		aiHandler := NewAIHandler(deps.Gateway, deps.Chats, deps.Auth, deps.S3, aiLimiter)
		authHandler := NewAuthHandler(deps.Auth)
		chatsHandler := NewChatsHandler(deps.Chats, deps.Auth)

		aiHandler.RegisterRoutes(v1)
		authHandler.RegisterRoutes(v1)
		chatsHandler.RegisterRoutes(v1)
	}
}

// HealthCheckHandler reports service health plus the state of the optional
// backing stores.
func HealthCheckHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := gin.H{
			"status":  "healthy",
			"message": "VitaShifa API is running",
			"version": "v1.0.0",
			"ai":      deps.Gateway != nil && deps.Gateway.Enabled(),
		}

		if deps.DB != nil {
			sqlDB, err := deps.DB.DB()
			if err == nil {
				err = sqlDB.PingContext(c.Request.Context())
			}
			if err != nil {
				status["database"] = "unreachable"
				status["status"] = "degraded"
			} else {
				status["database"] = "ok"
			}
		} else {
			status["database"] = "not configured"
		}

		if deps.Redis != nil {
			if err := deps.Redis.Ping(c.Request.Context()).Err(); err != nil {
				status["redis"] = "unreachable"
				status["status"] = "degraded"
			} else {
				status["redis"] = "ok"
			}
		} else {
			status["redis"] = "not configured"
		}

		c.JSON(http.StatusOK, status)
	}
}
