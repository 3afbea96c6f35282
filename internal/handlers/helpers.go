package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"memoboard/internal/services"
)

// fail 输出文档化的 { error, code } 错误响应并中止后续处理。
func fail(c *gin.Context, status, code int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg, "code": code})
}

// serverError 处理存储层故障：不重试、不吞掉，记录后以 500 终止请求。
func (h *Handler) serverError(c *gin.Context, err error) {
	log.WithError(err).WithFields(log.Fields{
		"path":       c.Request.URL.Path,
		"request_id": c.GetString("request_id"),
	}).Error("storage failure")
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
}

// asString 把 JSON 原始字段解释为字符串。
// 字段缺失或类型不是字符串时返回 false，用于复现按类型区分的校验错误。
func asString(raw json.RawMessage) (string, bool) {
	// 字面量 null 解码进 string 是 no-op，需单独判定
	if raw == nil || string(raw) == "null" {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// readSessionCookie 读取指定名称的会话 Cookie。
func readSessionCookie(c *gin.Context, name string) string {
	if ck, err := c.Request.Cookie(name); err == nil {
		return ck.Value
	}
	return ""
}

// currentSession 按请求 Cookie 解析当前会话。
// 未携带 Cookie 或会话不存在返回 ErrNoSession；Redis 故障原样上抛。
func (h *Handler) currentSession(c *gin.Context) (*services.Session, error) {
	sid := readSessionCookie(c, h.cfg.Session.CookieName)
	if sid == "" {
		return nil, services.ErrNoSession
	}
	return h.sessionSvc.Get(c, sid)
}

// setSessionCookie 按配置下发会话 Cookie。
func (h *Handler) setSessionCookie(c *gin.Context, sid string) {
	ck := &http.Cookie{Name: h.cfg.Session.CookieName, Value: sid, Path: "/", HttpOnly: true, Secure: h.cfg.Session.CookieSecure}
	switch strings.ToLower(h.cfg.Session.CookieSameSite) {
	case "strict":
		ck.SameSite = http.SameSiteStrictMode
	case "none":
		ck.SameSite = http.SameSiteNoneMode
	default:
		ck.SameSite = http.SameSiteLaxMode
	}
	if h.cfg.Session.CookieDomain != "" {
		ck.Domain = h.cfg.Session.CookieDomain
	}
	http.SetCookie(c.Writer, ck)
}

// clearSessionCookie 注销时使客户端 Cookie 立即过期。
func (h *Handler) clearSessionCookie(c *gin.Context) {
	ck := &http.Cookie{Name: h.cfg.Session.CookieName, Value: "", Path: "/", HttpOnly: true, Secure: h.cfg.Session.CookieSecure, MaxAge: -1}
	if h.cfg.Session.CookieDomain != "" {
		ck.Domain = h.cfg.Session.CookieDomain
	}
	http.SetCookie(c.Writer, ck)
}

// accountIDPtr 用于审计日志的可空账户 ID 字段。
func accountIDPtr(id uint64) *uint64 { return &id }
