package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// RequestID 为每个请求确定一个请求标识并写入 Gin Context（键 request_id），
// 供访问日志与审计日志关联同一请求。上游携带的标识在长度合理时沿用，
// 超长的丢弃以免污染日志；最终值总会回写到响应头。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" || len(rid) > 64 {
			rid = uuid.NewString()
		}
		c.Set("request_id", rid)
		c.Header(requestIDHeader, rid)
		c.Next()
	}
}
