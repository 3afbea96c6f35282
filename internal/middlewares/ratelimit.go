package middlewares

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// RateLimit 对敏感端点按调用方限流（如注册/登录按客户端 IP）。
// 计数器存 Redis，窗口内第 limit+1 次请求起返回 429。
// Redis 不可用时放行：限流是防滥用手段，不充当可用性的单点。
func RateLimit(rdb *redis.Client, name string, limit int, window time.Duration, keyFn func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}
		caller := keyFn(c)
		if caller == "" {
			c.Next()
			return
		}
		key := fmt.Sprintf("ratelimit:%s:%s", name, caller)
		cnt, err := rdb.Incr(c, key).Result()
		if err != nil {
			c.Next()
			return
		}
		if cnt == 1 {
			// 窗口随首次计数建立
			_ = rdb.Expire(c, key, window).Err()
		}
		if cnt > int64(limit) {
			c.Header("Retry-After", strconv.Itoa(int(window/time.Second)))
			c.AbortWithStatusJSON(429, gin.H{"error": "rate_limited"})
			return
		}
		c.Next()
	}
}
