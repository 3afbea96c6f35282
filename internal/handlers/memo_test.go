package handlers

import (
	"net/http"
	"testing"
)

func TestCreateMemoRequiresLogin(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(r, http.MethodPost, "/api/memo", `{"contents":"hello"}`)
	requireErrorBody(t, w, http.StatusForbidden, 1, "NOT LOGGED IN")
}

func TestCreateMemoContentsNotString(t *testing.T) {
	r, sessions := newTestRouter(t)
	ck := signInAs(t, sessions, 1, "alice")
	for _, body := range []string{
		`{"contents":123}`,
		`{"contents":null}`,
		`{"contents":["a"]}`,
		`{}`,
	} {
		w := doJSON(r, http.MethodPost, "/api/memo", body, ck)
		requireErrorBody(t, w, http.StatusBadRequest, 2, "CONTENTS IS NOT STRING")
	}
}

func TestCreateMemoEmptyContents(t *testing.T) {
	r, sessions := newTestRouter(t)
	ck := signInAs(t, sessions, 1, "alice")
	w := doJSON(r, http.MethodPost, "/api/memo", `{"contents":""}`, ck)
	requireErrorBody(t, w, http.StatusBadRequest, 3, "EMPTY CONTENTS")
}

func TestEditMemoInvalidID(t *testing.T) {
	r, _ := newTestRouter(t)
	for _, id := range []string{"abc", "0", "-1", "1.5"} {
		w := doJSON(r, http.MethodPut, "/api/memo/"+id, `{"contents":"x"}`)
		requireErrorBody(t, w, http.StatusBadRequest, 1, "INVALID ID")
	}
}

// 标识符与内容在会话之前校验：未登录也会先收到 400。
func TestEditMemoContentsCheckedBeforeSession(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPut, "/api/memo/5", `{"contents":7}`)
	requireErrorBody(t, w, http.StatusBadRequest, 2, "CONTENTS IS NOT STRING")

	w = doJSON(r, http.MethodPut, "/api/memo/5", `{"contents":""}`)
	requireErrorBody(t, w, http.StatusBadRequest, 3, "EMPTY CONTENTS")
}

func TestEditMemoRequiresLogin(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(r, http.MethodPut, "/api/memo/5", `{"contents":"updated"}`)
	requireErrorBody(t, w, http.StatusForbidden, 4, "NOT LOGGED IN")
}

func TestDeleteMemoInvalidID(t *testing.T) {
	r, sessions := newTestRouter(t)
	ck := signInAs(t, sessions, 1, "alice")
	w := doJSON(r, http.MethodDelete, "/api/memo/xyz", "", ck)
	requireErrorBody(t, w, http.StatusBadRequest, 1, "INVALID ID")
}

func TestDeleteMemoRequiresLogin(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(r, http.MethodDelete, "/api/memo/5", "")
	requireErrorBody(t, w, http.StatusForbidden, 2, "NOT LOGGED IN")
}

func TestToggleStarInvalidID(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(r, http.MethodPost, "/api/memo/star/none", "")
	requireErrorBody(t, w, http.StatusBadRequest, 1, "INVALID ID")
}

func TestToggleStarRequiresLogin(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(r, http.MethodPost, "/api/memo/star/5", "")
	requireErrorBody(t, w, http.StatusForbidden, 2, "NOT LOGGED IN")
}

func TestGlobalPageInvalidListType(t *testing.T) {
	r, _ := newTestRouter(t)
	for _, lt := range []string{"oldest", "OLD", "newer"} {
		w := doJSON(r, http.MethodGet, "/api/memo/"+lt+"/10", "")
		requireErrorBody(t, w, http.StatusBadRequest, 1, "INVALID LISTTYPE")
	}
}

func TestGlobalPageInvalidCursor(t *testing.T) {
	r, _ := newTestRouter(t)
	for _, cur := range []string{"abc", "0", "-3"} {
		w := doJSON(r, http.MethodGet, "/api/memo/old/"+cur, "")
		requireErrorBody(t, w, http.StatusBadRequest, 2, "INVALID ID")
	}
}

func TestWriterPageInvalidListType(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(r, http.MethodGet, "/api/memo/alice/latest/10", "")
	requireErrorBody(t, w, http.StatusBadRequest, 1, "INVALID LISTTYPE")
}

func TestWriterPageInvalidCursor(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(r, http.MethodGet, "/api/memo/alice/new/abc", "")
	requireErrorBody(t, w, http.StatusBadRequest, 2, "INVALID ID")
}
