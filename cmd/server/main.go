package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"memoboard/internal/config"
	"memoboard/internal/handlers"
	"memoboard/internal/metrics"
	"memoboard/internal/middlewares"
	"memoboard/internal/services"
	"memoboard/internal/storage"
)

// main 为服务入口：加载配置、初始化日志/存储/服务、注册路由并启动 HTTP 服务。
func main() {
	// 配置结构化日志格式
	log.SetFormatter(&log.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)

	// 加载配置（以配置文件为主，配合内置默认值）
	cfg := config.Load()
	// 生产环境基线检查：禁止默认数据库密码进入生产。
	if cfg.Env == "prod" {
		if cfg.MySQL.Password == "123456" || cfg.MySQL.Password == "password" || cfg.MySQL.Password == "" {
			log.Fatal("insecure mysql password in prod; configure mysql.password in config.yaml")
		}
		if strings.Contains(cfg.MySQL.User, "root") {
			log.Warn("using MySQL root in prod is discouraged")
		}
		if !cfg.Session.CookieSecure {
			log.Warn("session.cookie_secure is disabled in prod")
		}
	}
	log.WithFields(log.Fields{
		"env":        cfg.Env,
		"http_addr":  cfg.HTTPAddr,
		"mysql_dsn":  cfg.MySQL.DSNMasked(),
		"redis_addr": cfg.Redis.Addr,
		"page_size":  cfg.Feed.PageSize,
	}).Info("configuration loaded")

	// 初始化存储（MySQL + Redis）
	db, err := storage.InitMySQL(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to connect mysql")
	}
	defer storage.CloseMySQL(db)

	rdb, err := storage.InitRedis(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to connect redis")
	}
	defer func() { _ = rdb.Close() }()

	// 初始化核心服务
	accountSvc := services.NewAccountService(db)
	memoSvc := services.NewMemoService(db, cfg)
	sessionSvc := services.NewSessionService(rdb, cfg)
	logSvc := services.NewLogService(db)

	// HTTP 路由与中间件
	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middlewares.RequestID())
	router.Use(middlewares.RequestLogger())
	router.Use(middlewares.SecurityHeaders(cfg))
	router.Use(metrics.Handler())

	// 装载 HTTP 处理器
	h := handlers.New(cfg, accountSvc, memoSvc, sessionSvc, logSvc, rdb)
	h.RegisterRoutes(router)

	// 前端构建产物（存在时）作为静态资源挂载；前端本身不在本服务职责内
	if p := config.FirstExisting("web/app/index.html", "../web/app/index.html"); p != "" {
		base := strings.TrimSuffix(p, "/index.html")
		router.Static("/app/assets", base+"/assets")
		router.GET("/app", func(c *gin.Context) { c.File(p) })
		// 使用 NoRoute 处理 /app/* 的前端路由，避免与 /app/assets 冲突
		router.NoRoute(func(c *gin.Context) {
			path := c.Request.URL.Path
			if path == "/app" || strings.HasPrefix(path, "/app/") {
				c.File(p)
				return
			}
		})
	}

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("starting http server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("listen")
		}
	}()

	// 优雅退出
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server shutdown")
	} else {
		log.Info("server stopped")
	}
}
