package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/vitashifa/backend/internal/models"
	"github.com/vitashifa/backend/internal/types"
)

// Backend error codes and the fixed user-facing messages they map to.
// Unmapped codes fall through to a generic message carrying the code.
const (
	CodeInvalidCredentials = "invalid_credentials"
	CodeEmailExists        = "email_exists"
	CodeWeakPassword       = "weak_password"
	CodeRateLimited        = "rate_limited"
	CodeNetworkError       = "network_error"
)

var authErrorMessages = map[string]string{
	CodeInvalidCredentials: "Invalid email or password. Please check your credentials and try again.",
	CodeEmailExists:        "An account with this email already exists. Please sign in instead.",
	CodeWeakPassword:       "Password is too weak. Use at least 8 characters.",
	CodeRateLimited:        "Too many attempts. Please wait a moment and try again.",
	CodeNetworkError:       "Could not reach the authentication service. Please check your connection.",
}

// AuthError is a backend failure translated to a user-facing message.
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string { return e.Message }

func authError(code string) *AuthError {
	if msg, ok := authErrorMessages[code]; ok {
		return &AuthError{Code: code, Message: msg}
	}
	return &AuthError{Code: code, Message: fmt.Sprintf("authentication error (%s)", code)}
}

// ChatSyncer uploads locally stored chat history after authentication.
// Implemented by the persistence facade.
type ChatSyncer interface {
	SyncLocalToCloud(ctx context.Context, session *types.UserSession) error
}

// AuthService wraps the user table, password hashing and token issuance, and
// triggers local-history sync after a successful sign-up or sign-in.
type AuthService struct {
	db        *gorm.DB
	jwtSecret string
	syncer    ChatSyncer
}

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
	}
}

// SetSyncer wires the persistence facade in after both are constructed.
func (s *AuthService) SetSyncer(sy ChatSyncer) { s.syncer = sy }

// SignUp creates a user and profile, returning the session and a signed token.
func (s *AuthService) SignUp(ctx context.Context, email, password, displayName string) (*types.UserSession, string, error) {
	if s.db == nil {
		return nil, "", authError(CodeNetworkError)
	}
	if len(password) < 8 {
		return nil, "", authError(CodeWeakPassword)
	}

	var existing models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, "", authError(CodeEmailExists)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", translateBackendError(err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := models.User{
		ID:           uuid.New(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: string(hashed),
		LastLoginAt:  &now,
	}
	if user.DisplayName == "" {
		user.DisplayName = strings.Split(email, "@")[0]
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, "", translateBackendError(err)
	}
	profile := models.UserProfile{ID: uuid.New(), UserID: user.ID}
	if err := s.db.WithContext(ctx).Create(&profile).Error; err != nil {
		return nil, "", translateBackendError(err)
	}

	session := sessionFor(&user)
	token, err := s.generateToken(&user)
	if err != nil {
		return nil, "", err
	}

	s.syncAfterAuth(ctx, session)
	return session, token, nil
}

// SignIn verifies credentials and returns the session and a signed token.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*types.UserSession, string, error) {
	if s.db == nil {
		return nil, "", authError(CodeNetworkError)
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", authError(CodeInvalidCredentials)
		}
		return nil, "", translateBackendError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", authError(CodeInvalidCredentials)
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login_at", &now).Error; err != nil {
		log.Printf("failed to update last login for %s: %v", user.ID, err)
	}

	session := sessionFor(&user)
	token, err := s.generateToken(&user)
	if err != nil {
		return nil, "", err
	}

	s.syncAfterAuth(ctx, session)
	return session, token, nil
}

// SignOut ends a session. Tokens are stateless, so this only records the
// event; clients discard the token.
func (s *AuthService) SignOut(ctx context.Context, userID string) error {
	log.Printf("user %s signed out", userID)
	return nil
}

// CurrentSession resolves a bearer token into the session it represents.
func (s *AuthService) CurrentSession(tokenString string) (*types.UserSession, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &types.UserSession{
		ID:          claims.UserID.String(),
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
	}, nil
}

// GuestSession fabricates an unauthenticated session so the chat log can be
// scoped without an account. It never touches the database.
func GuestSession() *types.UserSession {
	return &types.UserSession{
		ID:      fmt.Sprintf("guest_%d", time.Now().UnixNano()),
		IsGuest: true,
	}
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	claims := types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a bearer token.
func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func (s *AuthService) syncAfterAuth(ctx context.Context, session *types.UserSession) {
	if s.syncer == nil {
		return
	}
	if err := s.syncer.SyncLocalToCloud(ctx, session); err != nil {
		log.Printf("local history sync for %s failed: %v", session.ID, err)
	}
}

func sessionFor(user *models.User) *types.UserSession {
	return &types.UserSession{
		ID:          user.ID.String(),
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}
}

// translateBackendError maps raw database failures onto the fixed error
// table. Anything unrecognized keeps its code visible in the message.
func translateBackendError(err error) *AuthError {
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return authError(CodeRateLimited)
		}
		return authError(CodeNetworkError)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "duplicate key"), strings.Contains(msg, "unique constraint"):
		return authError(CodeEmailExists)
	case strings.Contains(msg, "connection refused"), strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "no such host"):
		return authError(CodeNetworkError)
	case strings.Contains(msg, "too many"):
		return authError(CodeRateLimited)
	default:
		return authError("backend_error")
	}
}
