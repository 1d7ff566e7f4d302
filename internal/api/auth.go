package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vitashifa/backend/internal/middleware"
	"github.com/vitashifa/backend/internal/service"
	"github.com/vitashifa/backend/internal/validation"
)

// AuthHandler serves sign-up, sign-in, sign-out and session lookup, plus
// the server-side email validation used for live feedback.
type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterRoutes registers the auth routes
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/logout", middleware.AuthMiddleware(h.auth), h.Logout)
		auth.GET("/session", middleware.AuthMiddleware(h.auth), h.Session)
		auth.POST("/validate-email", h.ValidateEmail)
	}
}

type registerRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
}

// Register creates an account after server-side email validation.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	emailCheck := validation.ValidateEmail(req.Email)
	if !emailCheck.IsValid {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      validation.ValidationMessage(emailCheck),
			"validation": emailCheck,
		})
		return
	}

	session, token, err := h.auth.SignUp(c.Request.Context(), validation.NormalizeEmail(req.Email), req.Password, req.DisplayName)
	if err != nil {
		status, msg := authErrorResponse(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"session": session, "token": token})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and returns a token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, token, err := h.auth.SignIn(c.Request.Context(), validation.NormalizeEmail(req.Email), req.Password)
	if err != nil {
		status, msg := authErrorResponse(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": session, "token": token})
}

// Logout records the sign-out; the client discards its token.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.auth.SignOut(c.Request.Context(), session.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}

// Session returns the session for the presented token.
func (h *AuthHandler) Session(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

type validateEmailRequest struct {
	Email string `json:"email"`
}

// ValidateEmail scores an address for live sign-up feedback.
func (h *AuthHandler) ValidateEmail(c *gin.Context) {
	var req validateEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := validation.ValidateEmail(req.Email)
	c.JSON(http.StatusOK, gin.H{
		"validation":              result,
		"message":                 validation.ValidationMessage(result),
		"normalized":              validation.NormalizeEmail(req.Email),
		"supports_plus_addressing": validation.SupportsPlusAddressing(req.Email),
	})
}

func authErrorResponse(err error) (int, string) {
	var authErr *service.AuthError
	if !errors.As(err, &authErr) {
		return http.StatusInternalServerError, err.Error()
	}

	switch authErr.Code {
	case service.CodeInvalidCredentials:
		return http.StatusUnauthorized, authErr.Message
	case service.CodeEmailExists:
		return http.StatusConflict, authErr.Message
	case service.CodeWeakPassword:
		return http.StatusBadRequest, authErr.Message
	case service.CodeRateLimited:
		return http.StatusTooManyRequests, authErr.Message
	case service.CodeNetworkError:
		return http.StatusServiceUnavailable, authErr.Message
	default:
		return http.StatusInternalServerError, authErr.Message
	}
}
