package handlers

// 备忘录端点：创建、编辑、删除、星标切换与信息流查询。
// 每个端点的校验顺序与错误码编号都对齐既有客户端的约定。

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"memoboard/internal/metrics"
	"memoboard/internal/services"
)

type memoRequest struct {
	// 内容以 RawMessage 接收，以便区分"不是字符串"与"空字符串"
	Contents json.RawMessage `json:"contents"`
}

// createMemo 创建备忘录。
// 错误码：1=NOT LOGGED IN，2=CONTENTS IS NOT STRING，3=EMPTY CONTENTS。
func (h *Handler) createMemo(c *gin.Context) {
	sess, err := h.currentSession(c)
	if err != nil {
		if errors.Is(err, services.ErrNoSession) {
			fail(c, http.StatusForbidden, 1, "NOT LOGGED IN")
			return
		}
		h.serverError(c, err)
		return
	}

	var req memoRequest
	_ = c.ShouldBindJSON(&req)
	contents, ok := asString(req.Contents)
	if !ok {
		fail(c, http.StatusBadRequest, 2, "CONTENTS IS NOT STRING")
		return
	}
	if contents == "" {
		fail(c, http.StatusBadRequest, 3, "EMPTY CONTENTS")
		return
	}

	if _, err := h.memoSvc.Create(c, sess.Username, contents); err != nil {
		h.serverError(c, err)
		return
	}
	metrics.MemosCreated.Inc()
	h.logSvc.Write(c, "INFO", "MEMO_CREATED", accountIDPtr(sess.AccountID), "memo created", c.ClientIP(), c.GetString("request_id"))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// editMemo 修改备忘录内容，仅原作者可操作。
// 错误码：1=INVALID ID，2=CONTENTS IS NOT STRING，3=EMPTY CONTENTS，
// 4=NOT LOGGED IN，5=NO RESOURCE，6=PERMISSION FAILURE。
// 校验顺序对客户端可见：标识符 → 内容类型 → 内容非空 → 会话 → 存在性 → 所有权。
func (h *Handler) editMemo(c *gin.Context) {
	id, err := services.ParseMemoID(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, 1, "INVALID ID")
		return
	}

	var req memoRequest
	_ = c.ShouldBindJSON(&req)
	contents, ok := asString(req.Contents)
	if !ok {
		fail(c, http.StatusBadRequest, 2, "CONTENTS IS NOT STRING")
		return
	}
	if contents == "" {
		fail(c, http.StatusBadRequest, 3, "EMPTY CONTENTS")
		return
	}

	sess, err := h.currentSession(c)
	if err != nil {
		if errors.Is(err, services.ErrNoSession) {
			fail(c, http.StatusForbidden, 4, "NOT LOGGED IN")
			return
		}
		h.serverError(c, err)
		return
	}

	m, err := h.memoSvc.Edit(c, id, sess.Username, contents)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			fail(c, http.StatusNotFound, 5, "NO RESOURCE")
		case errors.Is(err, services.ErrPermissionDenied):
			fail(c, http.StatusForbidden, 6, "PERMISSION FAILURE")
		default:
			h.serverError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "memo": m})
}

// deleteMemo 永久删除备忘录，仅原作者可操作。
// 错误码：1=INVALID ID，2=NOT LOGGED IN，3=NO RESOURCE，4=PERMISSION FAILURE。
func (h *Handler) deleteMemo(c *gin.Context) {
	id, err := services.ParseMemoID(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, 1, "INVALID ID")
		return
	}

	sess, err := h.currentSession(c)
	if err != nil {
		if errors.Is(err, services.ErrNoSession) {
			fail(c, http.StatusForbidden, 2, "NOT LOGGED IN")
			return
		}
		h.serverError(c, err)
		return
	}

	if err := h.memoSvc.Delete(c, id, sess.Username); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			fail(c, http.StatusNotFound, 3, "NO RESOURCE")
		case errors.Is(err, services.ErrPermissionDenied):
			fail(c, http.StatusForbidden, 4, "PERMISSION FAILURE")
		default:
			h.serverError(c, err)
		}
		return
	}
	h.logSvc.Write(c, "INFO", "MEMO_DELETED", accountIDPtr(sess.AccountID), "memo deleted", c.ClientIP(), c.GetString("request_id"))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// toggleStar 切换当前用户对备忘录的星标；任何已登录用户（含作者）都可操作。
// 错误码：1=INVALID ID，2=NOT LOGGED IN，3=NO RESOURCE。
func (h *Handler) toggleStar(c *gin.Context) {
	id, err := services.ParseMemoID(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, 1, "INVALID ID")
		return
	}

	sess, err := h.currentSession(c)
	if err != nil {
		if errors.Is(err, services.ErrNoSession) {
			fail(c, http.StatusForbidden, 2, "NOT LOGGED IN")
			return
		}
		h.serverError(c, err)
		return
	}

	m, starred, err := h.memoSvc.ToggleStar(c, id, sess.Username)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			fail(c, http.StatusNotFound, 3, "NO RESOURCE")
			return
		}
		h.serverError(c, err)
		return
	}
	if starred {
		metrics.StarsToggled.WithLabelValues("starred").Inc()
	} else {
		metrics.StarsToggled.WithLabelValues("unstarred").Inc()
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "has_starred": starred, "memo": m})
}

// listGlobal 返回全局信息流的首屏：最新备忘录，ID 降序。
func (h *Handler) listGlobal(c *gin.Context) {
	memos, err := h.memoSvc.Latest(c, "")
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, memos)
}

// listGlobalPage 处理全局信息流的游标分页。
// 路由形如 /api/memo/<listType>/<cursor>；受 gin 同位置参数名约束，
// 这里的 :writer 实为 listType，:listType 实为游标。
// 错误码：1=INVALID LISTTYPE，2=INVALID ID。
func (h *Handler) listGlobalPage(c *gin.Context) {
	lt, err := services.ParseListType(c.Param("writer"))
	if err != nil {
		fail(c, http.StatusBadRequest, 1, "INVALID LISTTYPE")
		return
	}
	cursor, err := services.ParseMemoID(c.Param("listType"))
	if err != nil {
		fail(c, http.StatusBadRequest, 2, "INVALID ID")
		return
	}
	memos, err := h.memoSvc.Page(c, "", cursor, lt)
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, memos)
}

// listByWriter 返回指定作者信息流的首屏。
func (h *Handler) listByWriter(c *gin.Context) {
	memos, err := h.memoSvc.Latest(c, c.Param("writer"))
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, memos)
}

// listByWriterPage 处理指定作者信息流的游标分页。
// 错误码：1=INVALID LISTTYPE，2=INVALID ID。
func (h *Handler) listByWriterPage(c *gin.Context) {
	lt, err := services.ParseListType(c.Param("listType"))
	if err != nil {
		fail(c, http.StatusBadRequest, 1, "INVALID LISTTYPE")
		return
	}
	cursor, err := services.ParseMemoID(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, 2, "INVALID ID")
		return
	}
	memos, err := h.memoSvc.Page(c, c.Param("writer"), cursor, lt)
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, memos)
}
