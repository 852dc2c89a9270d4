package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/discuss/config"
	"github.com/cppla/discuss/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setConfig(t *testing.T) {
	t.Helper()
	config.Set(config.AppConfig{
		JWTSecret:          "middleware-secret",
		ModeratorUsernames: []string{"Root"},
		RateLimitPerMinute: 2,
	})
}

func token(t *testing.T, user string, moderator bool) string {
	t.Helper()
	tok, err := utils.GenerateToken(user, moderator, time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

func whoami(c *gin.Context) {
	user, _ := Username(c)
	utils.Success(c, gin.H{"user": user, "moderator": c.GetBool(ContextModeratorKey)})
}

func do(r http.Handler, method, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	setConfig(t)
	r := gin.New()
	r.GET("/me", AuthRequired(), whoami)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", "Bearer ").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", "Bearer junk").Code)

	w := do(r, http.MethodGet, "/me", token(t, "alice", false))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":0,"message":"success","data":{"user":"alice","moderator":false}}`, w.Body.String())
}

func TestModeratorRequired(t *testing.T) {
	setConfig(t)
	r := gin.New()
	r.GET("/mod", AuthRequired(), ModeratorRequired(), whoami)

	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/mod", token(t, "alice", false)).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/mod", token(t, "alice", true)).Code)
	// listed in config, matched case-insensitively
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/mod", token(t, "root", false)).Code)
}

func TestRateLimitPerCaller(t *testing.T) {
	setConfig(t)
	r := gin.New()
	r.GET("/open", RateLimit(2), whoami)
	r.GET("/user", AuthRequired(), RateLimitMiddleware(), whoami)

	// burst is perMinute/2, so one request passes and the next is throttled
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/open", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodGet, "/open", "").Code)

	alice := token(t, "alice", false)
	bob := token(t, "bob", false)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/user", alice).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodGet, "/user", alice).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/user", bob).Code)
}

func TestLimiterSetForgetsIdleCallers(t *testing.T) {
	s := newLimiterSet(60)
	now := time.Now()

	assert.True(t, s.allow("a", now))
	assert.Len(t, s.limiters, 1)

	assert.True(t, s.allow("b", now.Add(limiterIdleTTL+time.Second)))
	assert.Len(t, s.limiters, 1)
	_, ok := s.limiters["a"]
	assert.False(t, ok)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/id", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(utils.RequestIDKey)) })

	w := do(r, http.MethodGet, "/id", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, w.Body.String(), 36)
	assert.Equal(t, w.Body.String(), w.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
}
