package identity

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

func signFor(t *testing.T, role string, gymID int64, userID int64) string {
	t.Helper()
	claims := Claims{Role: role, GymID: gymID}
	if userID != 0 {
		claims.Subject = strconv.FormatInt(userID, 10)
	}
	token, err := SignToken(testSecret, claims, time.Minute)
	assert.NoError(t, err)
	return token
}

func newRouter(guard gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(testSecret))
	r.GET("/probe", guard, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func request(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMiddleware_MissingToken(t *testing.T) {
	r := newRouter(RequirePlatform())
	w := request(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_BadSignature(t *testing.T) {
	claims := Claims{Role: "OWNER"}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, _ := token.SignedString([]byte("wrong-secret"))

	r := newRouter(RequirePlatform())
	w := request(r, signed)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequirePlatform(t *testing.T) {
	r := newRouter(RequirePlatform())

	assert.Equal(t, http.StatusOK, request(r, signFor(t, "OWNER", 0, 0)).Code)
	assert.Equal(t, http.StatusForbidden, request(r, signFor(t, "GYM_SUPERVISOR", 7, 0)).Code)
	assert.Equal(t, http.StatusForbidden, request(r, signFor(t, "USER", 0, 3)).Code)
}

func TestRequireGymScope(t *testing.T) {
	guard := RequireGymScope(func(*gin.Context) int64 { return 7 })
	r := newRouter(guard)

	assert.Equal(t, http.StatusOK, request(r, signFor(t, "MANAGER", 0, 0)).Code)
	assert.Equal(t, http.StatusOK, request(r, signFor(t, "GYM_SUPERVISOR", 7, 0)).Code)
	assert.Equal(t, http.StatusForbidden, request(r, signFor(t, "GYM_SUPERVISOR", 8, 0)).Code)
	assert.Equal(t, http.StatusForbidden, request(r, signFor(t, "USER", 0, 3)).Code)
}

func TestRequireSelf(t *testing.T) {
	guard := RequireSelf(func(*gin.Context) int64 { return 3 })
	r := newRouter(guard)

	assert.Equal(t, http.StatusOK, request(r, signFor(t, "USER", 0, 3)).Code)
	assert.Equal(t, http.StatusForbidden, request(r, signFor(t, "USER", 0, 4)).Code)
	assert.Equal(t, http.StatusOK, request(r, signFor(t, "OWNER", 0, 0)).Code)
	assert.Equal(t, http.StatusOK, request(r, signFor(t, "RECEPTIONIST", 7, 0)).Code)
}

func TestResolve_UnknownRole(t *testing.T) {
	r := newRouter(RequirePlatform())
	w := request(r, signFor(t, "JANITOR", 0, 0))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
