package metrics

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 指标定义：
// - http_requests_total：按路径与方法统计请求次数（附带状态码标签）
// - http_request_duration_seconds：按路径与方法统计请求耗时分布
// - memos_created_total / stars_toggled_total：备忘录领域事件计数
// - signin_failures_total：登录失败计数
var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "HTTP 请求计数（按路径/方法/状态）"},
		[]string{"path", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP 请求耗时（秒）", Buckets: prometheus.DefBuckets},
		[]string{"path", "method"},
	)
	MemosCreated = prometheus.NewCounter(prometheus.CounterOpts{Name: "memos_created_total", Help: "创建的备忘录总数"})
	StarsToggled = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "stars_toggled_total", Help: "星标切换计数（按加星/取消）"},
		[]string{"action"},
	)
	SigninFailures = prometheus.NewCounter(prometheus.CounterOpts{Name: "signin_failures_total", Help: "登录失败总数"})
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPLatency, MemosCreated, StarsToggled, SigninFailures)
}

// Handler 返回记录基础 HTTP 指标的中间件（QPS/耗时）。
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		dur := time.Since(start).Seconds()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		HTTPLatency.WithLabelValues(path, c.Request.Method).Observe(dur)
		HTTPRequests.WithLabelValues(path, c.Request.Method, fmt.Sprintf("%d", c.Writer.Status())).Inc()
	}
}

// Exposer 返回标准 Prometheus 暴露处理器。
func Exposer() gin.HandlerFunc { return gin.WrapH(promhttp.Handler()) }
