package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChubiniShato/pku-diet-app-sub001/utils"
)

func performRequest(authHeader string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	w := performRequest("")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareWrongScheme(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	w := performRequest("Token abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareGarbageToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	w := performRequest("Bearer not.a.jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareMissingSecretIsServerError(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	w := performRequest("Bearer whatever")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAuthMiddlewareRejectsForeignSignature(t *testing.T) {
	t.Setenv("JWT_SECRET", "signing-secret")
	token, err := utils.GenerateJWT("patient@example.com")
	require.NoError(t, err)

	// token was signed under a different secret than the verifier uses
	t.Setenv("JWT_SECRET", "rotated-secret")
	w := performRequest("Bearer " + token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
