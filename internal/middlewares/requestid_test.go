package middlewares

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func requestIDRouter() *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})
	return r
}

func TestRequestIDGenerated(t *testing.T) {
	r := requestIDRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	rid := w.Header().Get("X-Request-Id")
	require.NotEmpty(t, rid)
	// Context 与响应头必须是同一个标识
	require.Equal(t, rid, w.Body.String())
}

func TestRequestIDPropagatesInbound(t *testing.T) {
	r := requestIDRouter()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "upstream-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, "upstream-42", w.Header().Get("X-Request-Id"))
	require.Equal(t, "upstream-42", w.Body.String())
}

func TestRequestIDRejectsOversized(t *testing.T) {
	r := requestIDRouter()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	huge := strings.Repeat("x", 200)
	req.Header.Set("X-Request-Id", huge)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	rid := w.Header().Get("X-Request-Id")
	require.NotEmpty(t, rid)
	require.NotEqual(t, huge, rid)
}

// Redis 不可用时限流必须放行。
func TestRateLimitFailsOpen(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond})
	r := gin.New()
	r.GET("/", RateLimit(rdb, "test", 1, time.Minute, func(c *gin.Context) string { return "caller" }), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
}

// limit<=0 视为未配置限流，直接放行且不触达 Redis。
func TestRateLimitDisabledWhenZero(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimit(nil, "test", 0, time.Minute, func(c *gin.Context) string { return "caller" }), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
}
