package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func adminProbe(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(Logger(zerolog.Nop()))
	r.Use(mw...)
	r.GET("/probe", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"admin": IsAdmin(c)})
	})
	return r
}

func get(r http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminSessionDisabled(t *testing.T) {
	w := get(adminProbe(AdminSession(nil)), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"admin":true}`, w.Body.String())
}

func TestAdminSession(t *testing.T) {
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	r := adminProbe(AdminSession(issuer))

	w := get(r, "")
	assert.JSONEq(t, `{"admin":false}`, w.Body.String())

	token, err := issuer.Issue("admin")
	require.NoError(t, err)
	w = get(r, "Bearer "+token)
	assert.JSONEq(t, `{"admin":true}`, w.Body.String())

	w = get(r, "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(r, "Basic abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	other, err := auth.NewTokenIssuer("other-secret", time.Hour).Issue("admin")
	require.NoError(t, err)
	w = get(r, "Bearer "+other)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRateLimit(t *testing.T) {
	rl := NewIPRateLimiter(2)
	r := adminProbe(rl.Limit())

	assert.Equal(t, http.StatusOK, get(r, "").Code)
	assert.Equal(t, http.StatusOK, get(r, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "").Code)
}
