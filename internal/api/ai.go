package api

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vitashifa/backend/config"
	"github.com/vitashifa/backend/internal/formatter"
	"github.com/vitashifa/backend/internal/middleware"
	"github.com/vitashifa/backend/internal/service"
	"github.com/vitashifa/backend/internal/store"
	"github.com/vitashifa/backend/internal/types"
)

// maxImageBytes bounds uploaded medical images.
const maxImageBytes = 10 << 20

// AIHandler serves the AI query endpoints. All of them accept guests; a
// bearer token only changes where the resulting chat record is persisted.
type AIHandler struct {
	gateway service.AIGateway
	chats   *store.Facade
	auth    *service.AuthService
	s3      *config.S3Config
	limiter *middleware.RateLimiter
}

func NewAIHandler(gateway service.AIGateway, chats *store.Facade, auth *service.AuthService, s3 *config.S3Config, limiter *middleware.RateLimiter) *AIHandler {
	return &AIHandler{
		gateway: gateway,
		chats:   chats,
		auth:    auth,
		s3:      s3,
		limiter: limiter,
	}
}

// RegisterRoutes registers the AI routes
func (h *AIHandler) RegisterRoutes(router *gin.RouterGroup) {
	ai := router.Group("/ai")
	ai.Use(middleware.OptionalAuthMiddleware(h.auth))
	if h.limiter != nil {
		ai.Use(h.limiter.Middleware())
	}
	{
		ai.POST("/consult", h.Consult)
		ai.POST("/drug-info", h.DrugInfo)
		ai.POST("/image-analysis", h.ImageAnalysis)
		ai.POST("/wellness-plan", h.WellnessPlan)
		ai.POST("/emergency", h.Emergency)
	}
}

type queryRequest struct {
	Query    string `json:"query" binding:"required"`
	Language string `json:"language"`
}

// Consult handles general medical consultation queries.
func (h *AIHandler) Consult(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.gateway.Consult(c.Request.Context(), req.Query, req.Language)
	h.respond(c, result, types.CategoryConsultation, req.Query)
}

// DrugInfo handles medication information queries.
func (h *AIHandler) DrugInfo(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.gateway.DrugInfo(c.Request.Context(), req.Query, req.Language)
	h.respond(c, result, types.CategoryConsultation, req.Query)
}

// ImageAnalysis handles multipart medical-image submissions.
func (h *AIHandler) ImageAnalysis(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	if fileHeader.Size > maxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds the 10MB limit"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	instructions := c.PostForm("instructions")
	if instructions == "" {
		instructions = "Describe this medical image and any visible abnormalities."
	}
	language := c.PostForm("language")

	result := h.gateway.AnalyzeImage(c.Request.Context(), data, mimeType, instructions, language)
	if result.Err() == nil {
		h.archiveImage(c, data, mimeType)
	}

	query := fmt.Sprintf("Image analysis (%s): %s", fileHeader.Filename, instructions)
	h.respond(c, result, types.CategoryImageAnalysis, query)
}

type wellnessRequest struct {
	Conditions []string `json:"conditions"`
	Symptoms   string   `json:"symptoms"`
	Lifestyle  string   `json:"lifestyle"`
	Goals      string   `json:"goals"`
	Language   string   `json:"language"`
}

// WellnessPlan handles personalized health-plan requests.
func (h *AIHandler) WellnessPlan(c *gin.Context) {
	var req wellnessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := types.WellnessInput{
		Conditions: req.Conditions,
		Symptoms:   req.Symptoms,
		Lifestyle:  req.Lifestyle,
		Goals:      req.Goals,
	}
	result := h.gateway.PlanWellness(c.Request.Context(), input, req.Language)

	query := fmt.Sprintf("Wellness plan: conditions=%v symptoms=%q goals=%q", req.Conditions, req.Symptoms, req.Goals)
	h.respond(c, result, types.CategoryWellness, query)
}

type emergencyRequest struct {
	Situation string `json:"situation" binding:"required"`
	Language  string `json:"language"`
}

// Emergency handles first-aid guidance requests.
func (h *AIHandler) Emergency(c *gin.Context) {
	var req emergencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.gateway.GuideEmergency(c.Request.Context(), req.Situation, req.Language)
	h.respond(c, result, types.CategoryEmergency, req.Situation)
}

// respond converts the provider result to the canonical shape, persists it,
// and writes the HTTP response. Gateway failures arrive in-band and become
// a 502; persistence failures never mask a successful answer.
func (h *AIHandler) respond(c *gin.Context, result service.ProviderResult, category types.ChatCategory, query string) {
	if err := result.Err(); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	formatted := formatter.FormatResult(result)
	session := middleware.SessionFromContext(c)

	rec := types.ChatRecord{
		Category:  category,
		Timestamp: time.Now(),
		Query:     query,
		Response:  formatted,
		Metadata: types.ChatMetadata{
			ClientInfo: c.Request.UserAgent(),
			SourceURL:  c.Request.Referer(),
		},
	}
	recordID, saveStatus := h.chats.Save(c.Request.Context(), session, rec)

	c.JSON(http.StatusOK, gin.H{
		"record_id":   recordID,
		"save_status": saveStatus,
		"response":    formatted,
	})
}

// archiveImage uploads the original bytes to S3 when a bucket is
// configured. Failures are logged and ignored.
func (h *AIHandler) archiveImage(c *gin.Context, data []byte, mimeType string) {
	if h.s3 == nil {
		return
	}
	key := fmt.Sprintf("medical-images/%s", uuid.New().String())
	if _, err := h.s3.UploadImage(c.Request.Context(), data, key, mimeType); err != nil {
		log.Printf("image archive upload failed: %v", err)
	}
}
