package handlers

// 账户端点：注册、登录、会话身份、注销与用户名前缀检索。
// 各端点的错误码编号与校验顺序为既有客户端所依赖，逐一与文档对齐。

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"

	"memoboard/internal/metrics"
	"memoboard/internal/services"
)

// 用户名仅允许小写英文与数字。
var usernameRe = regexp.MustCompile(`^[a-z0-9]+$`)

// 口令字段以 RawMessage 接收：既有协议区分"不是字符串"与"太短"两种失败，
// 绑定为 string 会把前者掩盖成解码错误。
type credentialsRequest struct {
	Username string          `json:"username"`
	Password json.RawMessage `json:"password"`
}

// signup 注册新账户。
// 错误码：1=BAD USERNAME，2=BAD PASSWORD，3=USERNAME EXISTS。
// 成功不建立会话。
func (h *Handler) signup(c *gin.Context) {
	var req credentialsRequest
	// 解码失败按零值继续：缺失字段会落入下方对应的校验分支
	_ = c.ShouldBindJSON(&req)

	if !usernameRe.MatchString(req.Username) {
		fail(c, http.StatusBadRequest, 1, "BAD USERNAME")
		return
	}
	password, ok := asString(req.Password)
	if !ok || len(password) < 4 {
		fail(c, http.StatusBadRequest, 2, "BAD PASSWORD")
		return
	}

	a, err := h.accountSvc.Register(c, req.Username, password)
	if err != nil {
		if errors.Is(err, services.ErrUsernameExists) {
			fail(c, http.StatusConflict, 3, "USERNAME EXISTS")
			return
		}
		h.serverError(c, err)
		return
	}
	h.logSvc.Write(c, "INFO", "USER_SIGNUP", accountIDPtr(a.ID), "account created", c.ClientIP(), c.GetString("request_id"))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// signin 校验凭据并建立服务端会话。
// 错误码：1=PASSWORD IS NOT STRING，2=THERE IS NO USER，3=PASSWORD IS NOT CORRECT。
func (h *Handler) signin(c *gin.Context) {
	var req credentialsRequest
	_ = c.ShouldBindJSON(&req)

	password, ok := asString(req.Password)
	if !ok {
		fail(c, http.StatusUnauthorized, 1, "PASSWORD IS NOT STRING")
		return
	}

	a, err := h.accountSvc.Authenticate(c, req.Username, password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoSuchUser):
			fail(c, http.StatusUnauthorized, 2, "THERE IS NO USER")
		case errors.Is(err, services.ErrPasswordIncorrect):
			metrics.SigninFailures.Inc()
			h.logSvc.Write(c, "WARN", "USER_SIGNIN_FAILED", nil, "bad credentials", c.ClientIP(), c.GetString("request_id"))
			fail(c, http.StatusUnauthorized, 3, "PASSWORD IS NOT CORRECT")
		default:
			h.serverError(c, err)
		}
		return
	}

	sess, err := h.sessionSvc.New(c, a.ID, a.Username)
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.setSessionCookie(c, sess.SID)
	h.logSvc.Write(c, "INFO", "USER_SIGNIN", accountIDPtr(a.ID), "signin success", c.ClientIP(), c.GetString("request_id"))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// getInfo 返回当前会话的身份信息。
// 错误码：1=THERE IS NO LOGIN DATA。
func (h *Handler) getInfo(c *gin.Context) {
	sess, err := h.currentSession(c)
	if err != nil {
		if errors.Is(err, services.ErrNoSession) {
			fail(c, http.StatusUnauthorized, 1, "THERE IS NO LOGIN DATA")
			return
		}
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"info": gin.H{
		"id":       strconv.FormatUint(sess.AccountID, 10),
		"username": sess.Username,
	}})
}

// logout 无条件销毁当前会话。销毁失败按存储故障终止请求。
func (h *Handler) logout(c *gin.Context) {
	sid := readSessionCookie(c, h.cfg.Session.CookieName)
	if sid != "" {
		if err := h.sessionSvc.Delete(c, sid); err != nil {
			h.serverError(c, err)
			return
		}
	}
	h.clearSessionCookie(c)
	h.logSvc.Write(c, "INFO", "USER_LOGOUT", nil, "logout", c.ClientIP(), c.GetString("request_id"))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// search 前缀检索用户名：区分大小写、锚定开头、升序、至多 5 条。
func (h *Handler) search(c *gin.Context) {
	names, err := h.accountSvc.SearchByPrefix(c, c.Param("username"))
	if err != nil {
		h.serverError(c, err)
		return
	}
	out := make([]gin.H, 0, len(names))
	for _, n := range names {
		out = append(out, gin.H{"username": n})
	}
	c.JSON(http.StatusOK, out)
}

// searchEmpty 处理空前缀：直接返回空列表，不触达存储。
func (h *Handler) searchEmpty(c *gin.Context) {
	c.JSON(http.StatusOK, []gin.H{})
}
