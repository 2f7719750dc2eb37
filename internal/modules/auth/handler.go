package auth

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"hotelbooking/internal/config"
	"hotelbooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	AccessCookie  = "token"
	RefreshCookie = "refreshToken"
)

type Handler struct {
	service *Service
	cfg     config.AuthConfig
}

func NewHandler(service *Service, cfg config.AuthConfig) *Handler {
	return &Handler{service: service, cfg: cfg}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/register", h.Register)
	rg.POST("/auth/login", h.Login)
	rg.POST("/auth/refresh-token", h.Refresh)
	rg.POST("/auth/logout", h.Logout)
	rg.POST("/auth/forgot-password", h.ForgotPassword)
	rg.POST("/auth/reset-password", h.ResetPassword)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/me", h.Me)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "Email is already registered")
			return
		}
		h.internal(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"user": user})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	result, err := h.service.Login(c.Request.Context(), req, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
			return
		}
		h.internal(c, err)
		return
	}

	h.setSessionCookies(c, result.AccessToken, result.AccessExpiresAt, result.RefreshToken)
	response.Success(c, http.StatusOK, gin.H{
		"user":         result.User,
		"access_token": result.AccessToken,
		"expires_at":   result.AccessExpiresAt,
	})
}

func (h *Handler) Refresh(c *gin.Context) {
	refreshRaw := h.refreshTokenFromRequest(c)
	if refreshRaw == "" {
		response.Error(c, http.StatusUnauthorized, "MISSING_REFRESH_TOKEN", "No refresh token provided")
		return
	}

	result, err := h.service.RefreshSession(c.Request.Context(), refreshRaw, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidToken):
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Refresh token is not recognized")
		case errors.Is(err, ErrTokenExpired):
			response.Error(c, http.StatusUnauthorized, "TOKEN_EXPIRED", "Refresh token has expired")
		case errors.Is(err, ErrTokenRevoked):
			response.Error(c, http.StatusUnauthorized, "TOKEN_REVOKED", "Refresh token was revoked")
		default:
			h.internal(c, err)
		}
		return
	}

	h.setSessionCookies(c, result.AccessToken, result.AccessExpiresAt, result.RefreshToken)
	response.Success(c, http.StatusOK, gin.H{
		"access_token": result.AccessToken,
		"expires_at":   result.AccessExpiresAt,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	if raw := h.refreshTokenFromRequest(c); raw != "" {
		if err := h.service.Logout(c.Request.Context(), raw); err != nil {
			log.Printf("auth handler: logout revoke failed: %v", err)
		}
	}

	h.clearSessionCookies(c)
	response.Success(c, http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *Handler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		h.internal(c, err)
		return
	}

	// Same answer whether or not the account exists.
	response.Success(c, http.StatusOK, gin.H{"message": "If the account exists, a reset link has been sent"})
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	err := h.service.ConfirmPasswordReset(c.Request.Context(), req.Token, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Password does not meet requirements")
		case errors.Is(err, ErrInvalidToken):
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Reset token is not recognized")
		case errors.Is(err, ErrTokenExpired):
			response.Error(c, http.StatusUnauthorized, "TOKEN_EXPIRED", "Reset token has expired")
		default:
			h.internal(c, err)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Password updated"})
}

func (h *Handler) Me(c *gin.Context) {
	user, err := h.service.GetCurrentUser(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User no longer exists")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}

func (h *Handler) refreshTokenFromRequest(c *gin.Context) string {
	if raw, err := c.Cookie(RefreshCookie); err == nil && strings.TrimSpace(raw) != "" {
		return strings.TrimSpace(raw)
	}
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err == nil {
		return strings.TrimSpace(req.RefreshToken)
	}
	return ""
}

func (h *Handler) setSessionCookies(c *gin.Context, accessToken string, accessExpiresAt time.Time, refreshToken string) {
	accessMaxAge := int(time.Until(accessExpiresAt).Seconds())
	c.SetCookie(AccessCookie, accessToken, accessMaxAge, "/", "", h.cfg.CookieSecure, true)
	c.SetCookie(RefreshCookie, refreshToken, int(h.cfg.RefreshTTL.Seconds()), h.cfg.CookiePath, "", h.cfg.CookieSecure, true)
}

func (h *Handler) clearSessionCookies(c *gin.Context) {
	c.SetCookie(AccessCookie, "", -1, "/", "", h.cfg.CookieSecure, true)
	c.SetCookie(RefreshCookie, "", -1, h.cfg.CookiePath, "", h.cfg.CookieSecure, true)
}

func (h *Handler) internal(c *gin.Context, err error) {
	log.Printf("auth handler: internal error: %v", err)
	response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
}
