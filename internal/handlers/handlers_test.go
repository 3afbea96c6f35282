package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"

	"memoboard/internal/config"
	"memoboard/internal/services"
)

func init() { gin.SetMode(gin.TestMode) }

// fakeSessionStore 以内存 map 替代 Redis 会话存储。
type fakeSessionStore struct{ data map[string]string }

func (f *fakeSessionStore) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeSessionStore) Get(ctx context.Context, key string) *redis.StringCmd {
	if v, ok := f.data[key]; ok {
		return redis.NewStringResult(v, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (f *fakeSessionStore) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

// newTestRouter 组装仅依赖会话存储的路由。
// 限流中间件拿到的是一个连不上的 Redis 客户端，命令报错时直接放行，
// 因此这里只能覆盖进入数据库之前的校验路径。
func newTestRouter(t *testing.T) (*gin.Engine, *services.SessionService) {
	t.Helper()

	var cfg config.Config
	cfg.Session.CookieName = "memo_session"
	cfg.Session.TTL = time.Hour
	cfg.Limits = config.LimitConfig{SigninPerMinute: 100, SignupPerMinute: 100, Window: time.Minute}
	cfg.Feed.PageSize = 6

	sessionSvc := services.NewSessionService(&fakeSessionStore{data: map[string]string{}}, cfg)
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond})

	h := New(cfg, services.NewAccountService(nil), services.NewMemoService(nil, cfg), sessionSvc, services.NewLogService(nil), rdb)
	r := gin.New()
	h.RegisterRoutes(r)
	return r, sessionSvc
}

func doJSON(r *gin.Engine, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// signInAs 直接在会话存储中伪造登录态，返回对应 Cookie。
func signInAs(t *testing.T, svc *services.SessionService, id uint64, username string) *http.Cookie {
	t.Helper()
	sess, err := svc.New(context.Background(), id, username)
	require.NoError(t, err)
	return &http.Cookie{Name: "memo_session", Value: sess.SID}
}

func requireErrorBody(t *testing.T, w *httptest.ResponseRecorder, status, code int, msg string) {
	t.Helper()
	require.Equal(t, status, w.Code, "body: %s", w.Body.String())
	require.JSONEq(t, `{"error":"`+msg+`","code":`+strconv.Itoa(code)+`}`, w.Body.String())
}

func TestHealthz(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(r, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
