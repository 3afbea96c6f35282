package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"memoboard/internal/config"
	"memoboard/internal/metrics"
	"memoboard/internal/middlewares"
	"memoboard/internal/services"
)

// Handler 聚合所有依赖（配置、存储、服务）并注册所有 HTTP 路由。
type Handler struct {
	cfg        config.Config
	accountSvc *services.AccountService
	memoSvc    *services.MemoService
	sessionSvc *services.SessionService
	logSvc     *services.LogService
	rdb        *redis.Client
}

// New 构造 Handler，将各领域服务注入，用于后续路由注册与处理。
func New(cfg config.Config, as *services.AccountService, ms *services.MemoService, ss *services.SessionService, ls *services.LogService, rdb *redis.Client) *Handler {
	return &Handler{cfg: cfg, accountSvc: as, memoSvc: ms, sessionSvc: ss, logSvc: ls, rdb: rdb}
}

// RegisterRoutes 在 Gin 路由上挂载账户与备忘录的全部端点。
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	window := h.cfg.Limits.Window
	if window <= 0 {
		window = time.Minute
	}
	byIP := func(c *gin.Context) string { return c.ClientIP() }

	account := r.Group("/api/account")
	account.POST("/signup", middlewares.RateLimit(h.rdb, "signup", h.cfg.Limits.SignupPerMinute, window, byIP), h.signup)
	account.POST("/signin", middlewares.RateLimit(h.rdb, "signin", h.cfg.Limits.SigninPerMinute, window, byIP), h.signin)
	account.GET("/getinfo", h.getInfo)
	account.POST("/logout", h.logout)
	account.GET("/search", h.searchEmpty)
	account.GET("/search/:username", h.search)

	memo := r.Group("/api/memo")
	memo.POST("", h.createMemo)
	memo.GET("", h.listGlobal)
	memo.PUT("/:id", h.editMemo)
	memo.DELETE("/:id", h.deleteMemo)
	memo.POST("/star/:id", h.toggleStar)
	// GET 路由按段数分派（与既有客户端的路径布局一致）：
	//   一段 = 指定作者的首屏；两段 = 全局分页（实际是 /<listType>/<cursor>）；
	//   三段 = 指定作者的分页。gin 要求同一位置的参数名一致，
	//   两段路由因此复用 :writer/:listType 的名字，语义在 handler 内换位。
	memo.GET("/:writer", h.listByWriter)
	memo.GET("/:writer/:listType", h.listGlobalPage)
	memo.GET("/:writer/:listType/:id", h.listByWriterPage)

	// 运维端点
	r.GET("/metrics", h.metrics)
	r.GET("/healthz", h.healthz)
}

func (h *Handler) metrics(c *gin.Context) { metrics.Exposer()(c) }

func (h *Handler) healthz(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) }
