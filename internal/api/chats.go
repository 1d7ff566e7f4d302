package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vitashifa/backend/internal/middleware"
	"github.com/vitashifa/backend/internal/service"
	"github.com/vitashifa/backend/internal/store"
	"github.com/vitashifa/backend/internal/types"
)

const defaultHistoryLimit = 50

// ChatsHandler serves the chat-history listing.
type ChatsHandler struct {
	chats *store.Facade
	auth  *service.AuthService
}

func NewChatsHandler(chats *store.Facade, auth *service.AuthService) *ChatsHandler {
	return &ChatsHandler{chats: chats, auth: auth}
}

// RegisterRoutes registers the chat routes
func (h *ChatsHandler) RegisterRoutes(router *gin.RouterGroup) {
	chats := router.Group("/chats")
	chats.Use(middleware.OptionalAuthMiddleware(h.auth))
	{
		chats.GET("", h.List)
	}
}

// List returns history newest first, optionally filtered by category and a
// free-text match against the query and response title.
func (h *ChatsHandler) List(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	filter := store.Filter{SearchText: c.Query("search")}
	if category := c.Query("category"); category != "" {
		if !types.ValidCategory(category) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
			return
		}
		filter.Category = types.ChatCategory(category)
	}

	session := middleware.SessionFromContext(c)
	records, err := h.chats.List(c.Request.Context(), session, limit, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load chat history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"chats": records, "count": len(records)})
}
