package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hotelbooking/internal/domain"
	jwtsvc "hotelbooking/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type staticUserLoader struct {
	users map[int64]*domain.User
}

func (l staticUserLoader) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, ok := l.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func testLoader() staticUserLoader {
	return staticUserLoader{users: map[int64]*domain.User{
		42: {ID: 42, Email: "ann@example.com", Role: domain.RoleUser},
		7:  {ID: 7, Email: "root@example.com", Role: domain.RoleAdmin},
	}}
}

func protectedRouter(jwtService *jwtsvc.Service, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(NewAuthenticator(jwtService, testLoader()).Handler())
	router.Use(extra...)

	router.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetInt64("user_id"),
			"role":    c.GetString("role"),
		})
	})
	return router
}

func TestAuthenticator_ValidBearerToken(t *testing.T) {
	jwtService := jwtsvc.New("test-secret-123", time.Hour)
	validToken, _, _ := jwtService.GenerateToken(42, "user")

	router := protectedRouter(jwtService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+validToken)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "42")
	assert.Contains(t, w.Body.String(), "user")
}

func TestAuthenticator_CookieFallback(t *testing.T) {
	jwtService := jwtsvc.New("test-secret-123", time.Hour)
	validToken, _, _ := jwtService.GenerateToken(42, "user")

	router := protectedRouter(jwtService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: validToken})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "42")
}

func TestAuthenticator_BearerTakesPriorityOverCookie(t *testing.T) {
	jwtService := jwtsvc.New("test-secret-123", time.Hour)
	userToken, _, _ := jwtService.GenerateToken(42, "user")
	adminToken, _, _ := jwtService.GenerateToken(7, "admin")

	router := protectedRouter(jwtService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	req.AddCookie(&http.Cookie{Name: "token", Value: userToken})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin")
}

func TestAuthenticator_NoToken(t *testing.T) {
	router := protectedRouter(jwtsvc.New("secret", time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestAuthenticator_InvalidToken(t *testing.T) {
	router := protectedRouter(jwtsvc.New("secret", time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestAuthenticator_ExpiredToken(t *testing.T) {
	jwtService := jwtsvc.New("secret", -time.Minute)
	expired, _, _ := jwtService.GenerateToken(42, "user")

	router := protectedRouter(jwtsvc.New("secret", time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
}

func TestAuthenticator_WrongScheme(t *testing.T) {
	router := protectedRouter(jwtsvc.New("secret", time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Basic dGVzdA==")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticator_DeletedUserRejected(t *testing.T) {
	jwtService := jwtsvc.New("secret", time.Hour)
	// User 99 has a valid token but no row anymore.
	orphanToken, _, _ := jwtService.GenerateToken(99, "user")

	router := protectedRouter(jwtService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+orphanToken)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "User no longer exists")
}

func TestRequireRole_Forbidden(t *testing.T) {
	jwtService := jwtsvc.New("secret", time.Hour)
	userToken, _, _ := jwtService.GenerateToken(42, "user")

	router := protectedRouter(jwtService, AdminOnly())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")
}

func TestRequireRole_AdminAllowed(t *testing.T) {
	jwtService := jwtsvc.New("secret", time.Hour)
	adminToken, _, _ := jwtService.GenerateToken(7, "admin")

	router := protectedRouter(jwtService, AdminOnly())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
