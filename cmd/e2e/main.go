package main

// 端到端巡检客户端：对一个运行中的服务实例依次走完
// 注册、登录、发布、信息流、编辑、星标、检索、删除与注销的全部流程，
// 同时验证关键的失败路径（错误码与状态码）。

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var verbose bool
var baseURL *url.URL

// scenario 封装一次巡检过程中共享的 HTTP 客户端（携带会话 Cookie）。
type scenario struct {
	client *http.Client
}

func banner(title string) {
	log.Printf("\n=== %s ===", title)
}

func step(format string, args ...interface{}) {
	log.Printf(" • "+format, args...)
}

type memoInfo struct {
	ID       string   `json:"id"`
	Writer   string   `json:"writer"`
	Contents string   `json:"contents"`
	Starred  []string `json:"starred"`
	IsEdited bool     `json:"is_edited"`
}

func main() {
	var (
		base     string
		username string
		password string
		timeout  time.Duration
	)

	flag.StringVar(&base, "base", "http://127.0.0.1:8080", "Base URL of the memo server")
	flag.StringVar(&username, "username", "e2euser", "Username prefix to create for the run")
	flag.StringVar(&password, "password", "P@ssw0rd9", "Password for the e2e user")
	flag.DurationVar(&timeout, "timeout", 20*time.Second, "HTTP timeout for requests")
	flag.BoolVar(&verbose, "v", true, "Verbose logging")
	flag.Parse()

	var err error
	baseURL, err = url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		log.Fatalf("parse base url: %v", err)
	}

	jar, _ := cookiejar.New(nil)
	sc := &scenario{client: &http.Client{Jar: jar, Timeout: timeout}}
	sc.run(username, password)
}

func (s *scenario) run(usernamePrefix, password string) {
	must := func(err error, msg string) {
		if err != nil {
			log.Fatalf("%s: %v", msg, err)
		}
	}

	log.Printf("E2E start -> %s", baseURL)

	banner("Bootstrap & Health Checks")
	step("Probe /healthz")
	must(expectStatus(s.client, "GET", "/healthz", nil, 200), "healthz")
	step("Probe /metrics")
	must(expectStatus(s.client, "GET", "/metrics", nil, 200), "metrics")

	banner("Account Lifecycle")
	// 用户名仅允许小写字母与数字，时间戳后缀保证每轮唯一
	uname := fmt.Sprintf("%s%d", usernamePrefix, time.Now().UnixNano())
	creds := map[string]any{"username": uname, "password": password}

	step("Signup %s", uname)
	must(doJSON(s.client, "POST", "/api/account/signup", creds, 200, nil), "signup")
	step("Signup duplicate (expect 409 code=3)")
	must(expectError(s.client, "POST", "/api/account/signup", creds, 409, 3, "USERNAME EXISTS"), "signup duplicate")
	step("Signup with bad username (expect 400 code=1)")
	must(expectError(s.client, "POST", "/api/account/signup", map[string]any{"username": "Bad Name", "password": password}, 400, 1, "BAD USERNAME"), "signup bad username")

	step("Getinfo before signin (expect 401 code=1)")
	must(expectError(s.client, "GET", "/api/account/getinfo", nil, 401, 1, "THERE IS NO LOGIN DATA"), "getinfo anonymous")
	step("Signin with wrong password (expect 401 code=3)")
	must(expectError(s.client, "POST", "/api/account/signin", map[string]any{"username": uname, "password": "wrong-pass"}, 401, 3, "PASSWORD IS NOT CORRECT"), "signin wrong password")
	step("Signin")
	must(doJSON(s.client, "POST", "/api/account/signin", creds, 200, nil), "signin")

	step("Getinfo (expect username %s)", uname)
	var info struct {
		Info struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"info"`
	}
	must(doJSON(s.client, "GET", "/api/account/getinfo", nil, 200, &info), "getinfo")
	if info.Info.Username != uname || info.Info.ID == "" {
		log.Fatalf("getinfo mismatch: %+v", info)
	}

	step("Search by prefix")
	var found []map[string]string
	must(doJSON(s.client, "GET", "/api/account/search/"+uname[:8], nil, 200, &found), "search")

	banner("Memo Lifecycle")
	step("Create memo")
	must(doJSON(s.client, "POST", "/api/memo", map[string]any{"contents": "hello from e2e"}, 200, nil), "create memo")
	step("Create with non-string contents (expect 400 code=2)")
	must(expectError(s.client, "POST", "/api/memo", map[string]any{"contents": 42}, 400, 2, "CONTENTS IS NOT STRING"), "create bad contents")

	// 再写满一页以上，供下方分页检查使用
	step("Create filler memos")
	for i := 0; i < 7; i++ {
		must(doJSON(s.client, "POST", "/api/memo", map[string]any{"contents": fmt.Sprintf("filler %d", i)}, 200, nil), "create filler")
	}

	step("List global feed, locate own memo")
	var feed []memoInfo
	must(doJSON(s.client, "GET", "/api/memo", nil, 200, &feed), "list global")
	if len(feed) > 6 {
		log.Fatalf("global feed exceeds page size: %d entries", len(feed))
	}
	assertDescending(feed, "global feed")
	var mine *memoInfo
	for i := range feed {
		if feed[i].Writer == uname {
			mine = &feed[i]
			break
		}
	}
	if mine == nil {
		log.Fatalf("own memo not found in global feed")
	}

	step("Edit memo %s", mine.ID)
	var edited struct {
		Success bool     `json:"success"`
		Memo    memoInfo `json:"memo"`
	}
	must(doJSON(s.client, "PUT", "/api/memo/"+mine.ID, map[string]any{"contents": "edited by e2e"}, 200, &edited), "edit memo")
	if !edited.Memo.IsEdited || edited.Memo.Contents != "edited by e2e" {
		log.Fatalf("edit not reflected: %+v", edited.Memo)
	}

	step("Toggle star on, then off")
	var starResp struct {
		HasStarred bool     `json:"has_starred"`
		Memo       memoInfo `json:"memo"`
	}
	must(doJSON(s.client, "POST", "/api/memo/star/"+mine.ID, nil, 200, &starResp), "star on")
	if !starResp.HasStarred {
		log.Fatalf("first toggle should star: %+v", starResp)
	}
	must(doJSON(s.client, "POST", "/api/memo/star/"+mine.ID, nil, 200, &starResp), "star off")
	if starResp.HasStarred || len(starResp.Memo.Starred) != 0 {
		log.Fatalf("second toggle should unstar: %+v", starResp)
	}

	step("Cursor pagination: bounded, descending, no revisits")
	seen := map[string]bool{}
	for _, m := range feed {
		seen[m.ID] = true
	}
	cursor := feed[len(feed)-1].ID
	for hop := 0; hop < 2; hop++ {
		var page []memoInfo
		must(doJSON(s.client, "GET", "/api/memo/old/"+cursor, nil, 200, &page), "page old")
		if len(page) > 6 {
			log.Fatalf("old page exceeds page size: %d entries", len(page))
		}
		assertDescending(page, "old page")
		for _, m := range page {
			if mustID(m.ID) >= mustID(cursor) {
				log.Fatalf("old page returned id %s not below cursor %s", m.ID, cursor)
			}
			if seen[m.ID] {
				log.Fatalf("old paging revisited id %s", m.ID)
			}
			seen[m.ID] = true
		}
		if len(page) == 0 {
			break
		}
		cursor = page[len(page)-1].ID
	}
	step("Pagination with bad list type (expect 400 code=1)")
	must(expectError(s.client, "GET", "/api/memo/oldest/"+mine.ID, nil, 400, 1, "INVALID LISTTYPE"), "bad list type")

	step("List by writer %s", uname)
	var byWriter []memoInfo
	must(doJSON(s.client, "GET", "/api/memo/"+uname, nil, 200, &byWriter), "list by writer")
	if len(byWriter) == 0 || byWriter[0].Writer != uname {
		log.Fatalf("writer feed mismatch: %+v", byWriter)
	}

	step("Delete memo %s", mine.ID)
	must(doJSON(s.client, "DELETE", "/api/memo/"+mine.ID, nil, 200, nil), "delete memo")
	step("Delete again (expect 404 code=3)")
	must(expectError(s.client, "DELETE", "/api/memo/"+mine.ID, nil, 404, 3, "NO RESOURCE"), "delete missing")

	banner("Logout & Completion")
	step("Logout, then getinfo (expect 401)")
	must(doJSON(s.client, "POST", "/api/account/logout", nil, 200, nil), "logout")
	must(expectError(s.client, "GET", "/api/account/getinfo", nil, 401, 1, "THERE IS NO LOGIN DATA"), "getinfo after logout")

	log.Printf("\nE2E OK — 全链路检查通过 (user=%s)\n", uname)
}

func doJSON(client *http.Client, method, path string, body any, want int, out any) error {
	urlStr := baseURL.ResolveReference(mustURL(path)).String()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(b)
		if verbose {
			log.Printf("%s %s\n请求体: %s", method, urlStr, prettyJSON(b))
		}
	}
	req, err := http.NewRequest(method, urlStr, r)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode != want {
		return fmt.Errorf("%s %s: status %d, want %d, body: %s", method, urlStr, resp.StatusCode, want, safeTrunc(string(b), 800))
	}
	if verbose {
		log.Printf("%s %s -> %d\n响应体: %s", method, urlStr, resp.StatusCode, prettyJSON(b))
	}
	if out != nil {
		if err := json.Unmarshal(b, out); err != nil {
			return err
		}
	}
	return nil
}

// expectError 校验失败路径：HTTP 状态、错误码与错误消息三者都要匹配。
func expectError(client *http.Client, method, path string, body any, wantStatus, wantCode int, wantMsg string) error {
	urlStr := baseURL.ResolveReference(mustURL(path)).String()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, urlStr, r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode != wantStatus {
		return fmt.Errorf("%s %s: status %d want %d body: %s", method, urlStr, resp.StatusCode, wantStatus, string(b))
	}
	var e struct {
		Error string `json:"error"`
		Code  int    `json:"code"`
	}
	if err := json.Unmarshal(b, &e); err != nil {
		return fmt.Errorf("%s %s: decode error body: %v", method, urlStr, err)
	}
	if e.Code != wantCode || e.Error != wantMsg {
		return fmt.Errorf("%s %s: error {%d %q} want {%d %q}", method, urlStr, e.Code, e.Error, wantCode, wantMsg)
	}
	if verbose {
		log.Printf("%s %s -> %d code=%d %q (as expected)", method, urlStr, resp.StatusCode, e.Code, e.Error)
	}
	return nil
}

func expectStatus(client *http.Client, method, path string, body io.Reader, want int) error {
	urlStr := baseURL.ResolveReference(mustURL(path)).String()
	req, _ := http.NewRequest(method, urlStr, body)
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode != want {
		return fmt.Errorf("%s %s: status %d want %d body: %s", method, urlStr, resp.StatusCode, want, safeTrunc(string(b), 800))
	}
	if verbose {
		log.Printf("%s %s -> %d", method, urlStr, resp.StatusCode)
	}
	return nil
}

func mustURL(p string) *url.URL { u, _ := url.Parse(p); return u }

func mustID(s string) uint64 {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		log.Fatalf("non-numeric memo id %q: %v", s, err)
	}
	return id
}

// assertDescending 校验列表按标识符严格降序（信息流的固定展示顺序）。
func assertDescending(memos []memoInfo, what string) {
	for i := 1; i < len(memos); i++ {
		if mustID(memos[i].ID) >= mustID(memos[i-1].ID) {
			log.Fatalf("%s not strictly descending: %s then %s", what, memos[i-1].ID, memos[i].ID)
		}
	}
}

func prettyJSON(b []byte) string {
	var js any
	if err := json.Unmarshal(b, &js); err != nil {
		return safeTrunc(string(b), 1200)
	}
	pb, _ := json.MarshalIndent(js, "", "  ")
	return string(pb)
}

func safeTrunc(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
