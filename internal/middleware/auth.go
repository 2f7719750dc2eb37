package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/modules/auth"
	jwtsvc "hotelbooking/internal/pkg/jwt"
	"hotelbooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type UserLoader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type SessionRefresher interface {
	RefreshSession(ctx context.Context, refreshRaw, userAgent, ip string) (*auth.RefreshResult, error)
}

// Authenticator resolves the caller from a bearer header or the access
// cookie, reloads the user row to catch accounts deleted after token
// issuance, and optionally rotates sessions nearing expiry.
type Authenticator struct {
	jwt      *jwtsvc.Service
	users    UserLoader
	sessions SessionRefresher // nil disables proactive refresh

	refreshMargin time.Duration
	refreshTTL    time.Duration
	cookieSecure  bool
	cookiePath    string
}

func NewAuthenticator(jwt *jwtsvc.Service, users UserLoader) *Authenticator {
	return &Authenticator{jwt: jwt, users: users}
}

// WithProactiveRefresh enables silent rotation of sessions whose access
// token expires within margin. Rotation failures never fail the request.
func (a *Authenticator) WithProactiveRefresh(sessions SessionRefresher, margin, refreshTTL time.Duration, cookieSecure bool, cookiePath string) *Authenticator {
	a.sessions = sessions
	a.refreshMargin = margin
	a.refreshTTL = refreshTTL
	a.cookieSecure = cookieSecure
	a.cookiePath = cookiePath
	return a
}

func (a *Authenticator) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractAccessToken(c)
		if tokenStr == "" {
			response.AbortError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing access token")
			return
		}

		claims, err := a.jwt.ValidateToken(tokenStr)
		if err != nil {
			code := "INVALID_TOKEN"
			if err == jwtsvc.ErrTokenExpired {
				code = "TOKEN_EXPIRED"
			}
			response.AbortError(c, http.StatusUnauthorized, code, "Invalid or expired token")
			return
		}

		user, err := a.users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "UNAUTHORIZED", "User no longer exists")
			return
		}

		a.maybeRefresh(c, claims)

		c.Set("user_id", user.ID)
		c.Set("role", string(user.Role))
		c.Next()
	}
}

// maybeRefresh rotates the session when the access token is close to
// expiry and a refresh cookie is present. Failure is logged, never
// surfaced: the access token the caller presented is still valid.
func (a *Authenticator) maybeRefresh(c *gin.Context, claims *jwtsvc.Claims) {
	if a.sessions == nil || claims.ExpiresAt == nil {
		return
	}
	if time.Until(claims.ExpiresAt.Time) > a.refreshMargin {
		return
	}

	refreshRaw, err := c.Cookie(auth.RefreshCookie)
	if err != nil || strings.TrimSpace(refreshRaw) == "" {
		return
	}

	result, err := a.sessions.RefreshSession(c.Request.Context(), refreshRaw, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		log.Printf("auth middleware: proactive refresh failed for user %d: %v", claims.UserID, err)
		return
	}

	accessMaxAge := int(time.Until(result.AccessExpiresAt).Seconds())
	c.SetCookie(auth.AccessCookie, result.AccessToken, accessMaxAge, "/", "", a.cookieSecure, true)
	c.SetCookie(auth.RefreshCookie, result.RefreshToken, int(a.refreshTTL.Seconds()), a.cookiePath, "", a.cookieSecure, true)
}

// extractAccessToken prefers the Authorization header over the access
// cookie.
func extractAccessToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := c.Cookie(auth.AccessCookie); err == nil {
		return strings.TrimSpace(cookie)
	}
	return ""
}
