package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartbeatpleasure/user-directory-api/internal/models"
	"github.com/heartbeatpleasure/user-directory-api/internal/service"
	"github.com/heartbeatpleasure/user-directory-api/pkg/config"
)

const testSecret = "middleware-secret"

func signToken(t *testing.T, secret string) string {
	t.Helper()
	claims := models.JWTClaims{
		UserID:   42,
		Username: "viewer",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newAuthRouter(t *testing.T, optional bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	authSvc := service.NewAuthService(config.JWTConfig{Secret: testSecret})

	r := gin.New()
	guard := JWT(authSvc)
	if optional {
		guard = OptionalJWT(authSvc)
	}
	r.GET("/protected", guard, func(c *gin.Context) {
		value, exists := c.Get(ContextUserKey)
		if !exists {
			c.JSON(http.StatusOK, gin.H{"viewer": nil})
			return
		}
		claims := value.(*models.JWTClaims)
		c.JSON(http.StatusOK, gin.H{"viewer": claims.UserID})
	})
	return r
}

func TestJWTRequiresToken(t *testing.T) {
	r := newAuthRouter(t, false)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTRejectsMalformedHeader(t *testing.T) {
	r := newAuthRouter(t, false)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAcceptsValidToken(t *testing.T) {
	r := newAuthRouter(t, false)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "42")
}

func TestOptionalJWTAllowsAnonymous(t *testing.T) {
	r := newAuthRouter(t, true)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "null")
}

func TestOptionalJWTAttachesClaims(t *testing.T) {
	r := newAuthRouter(t, true)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "42")
}

func TestOptionalJWTRejectsInvalidToken(t *testing.T) {
	r := newAuthRouter(t, true)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "wrong-secret"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
