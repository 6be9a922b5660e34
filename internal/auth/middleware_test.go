package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("unit-test-secret")

func mintToken(t *testing.T, secret []byte, sub, role string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"exp":  exp.Unix(),
	})
	signed, err := token.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(testSecret))
	r.GET("/whoami", func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"user_id": claims.UserID.String(),
			"role":    string(claims.Role),
			"token":   TokenFrom(c),
		})
	})
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMiddleware_ValidToken(t *testing.T) {
	userID := uuid.New()
	token := mintToken(t, testSecret, userID.String(), "MANAGER", time.Now().Add(time.Hour))

	w := doRequest(testRouter(), "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
	assert.Contains(t, w.Body.String(), "MANAGER")
	assert.Contains(t, w.Body.String(), token, "raw token is kept for forwarding")
}

func TestMiddleware_MissingHeader(t *testing.T) {
	w := doRequest(testRouter(), "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestMiddleware_NotBearer(t *testing.T) {
	w := doRequest(testRouter(), "Basic dXNlcjpwYXNz")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_WrongSecret(t *testing.T) {
	token := mintToken(t, []byte("other-secret"), uuid.NewString(), "ADMIN", time.Now().Add(time.Hour))

	w := doRequest(testRouter(), "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid token")
}

func TestMiddleware_ExpiredToken(t *testing.T) {
	token := mintToken(t, testSecret, uuid.NewString(), "ADMIN", time.Now().Add(-time.Minute))

	w := doRequest(testRouter(), "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token has expired")
}

func TestMiddleware_UnknownRole(t *testing.T) {
	token := mintToken(t, testSecret, uuid.NewString(), "ENGINEER", time.Now().Add(time.Hour))

	w := doRequest(testRouter(), "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "unknown role")
}

func TestMiddleware_NonUUIDSubject(t *testing.T) {
	token := mintToken(t, testSecret, "not-a-uuid", "MANAGER", time.Now().Add(time.Hour))

	w := doRequest(testRouter(), "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleManager, RoleAdmin, RoleSupervisor, RoleCustomer} {
		assert.True(t, r.Valid())
	}
	assert.False(t, Role("ENGINEER").Valid())
	assert.False(t, Role("manager").Valid())
	assert.False(t, Role("").Valid())
}
