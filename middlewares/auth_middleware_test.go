package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanphatnh/thptapp/models"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, role models.Role, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  uint(7),
		"role": role,
		"name": "Test User",
		"exp":  time.Now().Add(ttl).Unix(),
		"iat":  time.Now().Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func doRequest(t *testing.T, auth string, mw ...echo.MiddlewareFunc) int {
	t.Helper()
	e := echo.New()
	handler := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	for i := len(mw) - 1; i >= 0; i-- {
		handler = mw[i](handler)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := handler(c); err != nil {
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok, "unexpected error: %v", err)
		return he.Code
	}
	return rec.Code
}

func TestRequireAuth(t *testing.T) {
	mw := RequireAuth(testSecret)

	assert.Equal(t, http.StatusUnauthorized, doRequest(t, "", mw))
	assert.Equal(t, http.StatusUnauthorized, doRequest(t, "Basic abc", mw))
	assert.Equal(t, http.StatusUnauthorized, doRequest(t, "Bearer garbage", mw))

	wrong := signToken(t, "other-secret", models.RoleTeacher, time.Hour)
	assert.Equal(t, http.StatusUnauthorized, doRequest(t, "Bearer "+wrong, mw))

	expired := signToken(t, testSecret, models.RoleTeacher, -time.Hour)
	assert.Equal(t, http.StatusUnauthorized, doRequest(t, "Bearer "+expired, mw))

	valid := signToken(t, testSecret, models.RoleTeacher, time.Hour)
	assert.Equal(t, http.StatusOK, doRequest(t, "Bearer "+valid, mw))
}

func TestRequireRole(t *testing.T) {
	authMW := RequireAuth(testSecret)
	unionOnly := RequireRole(models.RoleUnion, models.RoleAdmin)

	teacher := signToken(t, testSecret, models.RoleTeacher, time.Hour)
	assert.Equal(t, http.StatusForbidden, doRequest(t, "Bearer "+teacher, authMW, unionOnly))

	union := signToken(t, testSecret, models.RoleUnion, time.Hour)
	assert.Equal(t, http.StatusOK, doRequest(t, "Bearer "+union, authMW, unionOnly))

	admin := signToken(t, testSecret, models.RoleAdmin, time.Hour)
	assert.Equal(t, http.StatusOK, doRequest(t, "Bearer "+admin, authMW, unionOnly))
}
