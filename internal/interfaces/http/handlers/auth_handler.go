package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"collabriss.backend/internal/domain/entities"
	domainerrors "collabriss.backend/internal/domain/errors"
	"collabriss.backend/internal/interfaces/http/middleware"
	"collabriss.backend/internal/interfaces/http/response"
	"collabriss.backend/pkg/jwt"
	"collabriss.backend/pkg/logger"
)

const (
	refreshTokenCookie = "refresh_token"
	sessionCookie      = "session_id"
	sessionHeader      = "X-Session-Id"
)

type AuthService interface {
	Register(ctx context.Context, input *entities.RegisterInput) (*entities.AuthResponse, error)
	Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*jwt.TokenPair, error)
	RefreshSession(ctx context.Context, sessionID string) (*jwt.TokenPair, error)
	Me(ctx context.Context, userID uuid.UUID) (*entities.SessionContext, error)
	Logout(ctx context.Context, sessionID string) error
}

// CookieConfig controls the auth cookies set for browser clients.
type CookieConfig struct {
	Domain        string
	Secure        bool
	AccessMaxAge  time.Duration
	RefreshMaxAge time.Duration
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authUsecase AuthService
	cookies     CookieConfig
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUsecase AuthService, cookies CookieConfig) *AuthHandler {
	if cookies.AccessMaxAge <= 0 {
		cookies.AccessMaxAge = 24 * time.Hour
	}
	if cookies.RefreshMaxAge <= 0 {
		cookies.RefreshMaxAge = 7 * 24 * time.Hour
	}
	return &AuthHandler{authUsecase: authUsecase, cookies: cookies}
}

// Register handles merchant signup
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var input entities.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	authResponse, err := h.authUsecase.Register(c.Request.Context(), &input)
	if err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			response.Error(c, domainerrors.Conflict("Email already registered"))
			return
		}
		response.Error(c, err)
		return
	}

	h.setTokenCookies(c, authResponse.AccessToken, authResponse.RefreshToken, "")
	response.Success(c, http.StatusCreated, authResponse)
}

// Login handles user login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input entities.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	authResponse, err := h.authUsecase.Login(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setTokenCookies(c, authResponse.AccessToken, authResponse.RefreshToken, authResponse.SessionID)
	response.Success(c, http.StatusOK, authResponse)
}

// RefreshToken rotates tokens. The refresh token is read from the JSON body,
// then the refresh cookie; a session id from the header or cookie is used when
// neither is present.
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var refreshToken string
	if c.Request.ContentLength > 0 {
		var input struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := c.ShouldBindJSON(&input); err == nil {
			refreshToken = input.RefreshToken
		}
	}
	if refreshToken == "" {
		if cookie, err := c.Cookie(refreshTokenCookie); err == nil {
			refreshToken = cookie
		}
	}

	var (
		pair *jwt.TokenPair
		err  error
	)
	switch sessionID := h.sessionID(c); {
	case refreshToken != "":
		pair, err = h.authUsecase.RefreshToken(c.Request.Context(), refreshToken)
	case sessionID != "":
		pair, err = h.authUsecase.RefreshSession(c.Request.Context(), sessionID)
	default:
		response.Error(c, domainerrors.BadRequest("Refresh token is required"))
		return
	}
	if err != nil {
		if errors.Is(err, domainerrors.ErrUnauthorized) {
			response.Error(c, domainerrors.NewAppError(http.StatusUnauthorized, domainerrors.CodeUnauthorized, "Invalid or expired refresh token", err))
			return
		}
		response.Error(c, err)
		return
	}

	h.setTokenCookies(c, pair.AccessToken, pair.RefreshToken, pair.SessionID)
	response.Success(c, http.StatusOK, pair)
}

// Me returns the session context of the authenticated user
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	session, err := h.authUsecase.Me(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("User not found"))
			return
		}
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, session)
}

// Logout clears the server-side session and the auth cookies
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authUsecase.Logout(c.Request.Context(), h.sessionID(c)); err != nil {
		logger.Warn(c.Request.Context(), "Failed to delete session on logout", zap.Error(err))
	}

	for _, name := range []string{middleware.AccessTokenCookie, refreshTokenCookie, sessionCookie} {
		c.SetCookie(name, "", -1, "/", h.cookies.Domain, h.cookies.Secure, true)
	}
	response.Success(c, http.StatusOK, gin.H{"success": true})
}

func (h *AuthHandler) sessionID(c *gin.Context) string {
	if id := c.GetHeader(sessionHeader); id != "" {
		return id
	}
	if id, err := c.Cookie(sessionCookie); err == nil {
		return id
	}
	return ""
}

func (h *AuthHandler) setTokenCookies(c *gin.Context, accessToken, refreshToken, sessionID string) {
	access := int(h.cookies.AccessMaxAge.Seconds())
	refresh := int(h.cookies.RefreshMaxAge.Seconds())
	if accessToken != "" {
		c.SetCookie(middleware.AccessTokenCookie, accessToken, access, "/", h.cookies.Domain, h.cookies.Secure, true)
	}
	if refreshToken != "" {
		c.SetCookie(refreshTokenCookie, refreshToken, refresh, "/", h.cookies.Domain, h.cookies.Secure, true)
	}
	if sessionID != "" {
		c.SetCookie(sessionCookie, sessionID, refresh, "/", h.cookies.Domain, h.cookies.Secure, true)
	}
}
