package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoadFromFileMalformed(t *testing.T) {
	p := writeFile(t, "config.yaml", "mysql: [unclosed\n")
	var cfg Config
	if err := loadFromFile(p, &cfg); err == nil {
		t.Fatalf("malformed yaml must return an error")
	}
}

func TestLoadFromFileOverrides(t *testing.T) {
	p := writeFile(t, "config.yaml", `
env: prod
http_addr: ":9090"
session:
  cookie_name: custom_session
  ttl: 2h
feed:
  page_size: 10
`)
	cfg := Config{Env: "dev", HTTPAddr: ":8080"}
	cfg.Session.CookieName = "memo_session"
	cfg.Session.TTL = 24 * time.Hour
	cfg.Feed.PageSize = 6
	cfg.MySQL.User = "root"

	if err := loadFromFile(p, &cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Env != "prod" || cfg.HTTPAddr != ":9090" {
		t.Fatalf("top-level overrides not applied: %+v", cfg)
	}
	if cfg.Session.CookieName != "custom_session" || cfg.Session.TTL != 2*time.Hour {
		t.Fatalf("session overrides not applied: %+v", cfg.Session)
	}
	if cfg.Feed.PageSize != 10 {
		t.Fatalf("feed override not applied: %+v", cfg.Feed)
	}
	// 文件未提及的字段保持原值
	if cfg.MySQL.User != "root" {
		t.Fatalf("unrelated field clobbered: %+v", cfg.MySQL)
	}
}

func TestDSNMasked(t *testing.T) {
	m := MySQLConfig{Host: "db", Port: 3306, User: "app", Password: "secret", DBName: "memoboard"}
	masked := m.DSNMasked()
	if masked == m.DSN() {
		t.Fatalf("masked DSN equals raw DSN")
	}
	for _, want := range []string{"******", "app", "memoboard"} {
		if !strings.Contains(masked, want) {
			t.Fatalf("masked DSN missing %q: %s", want, masked)
		}
	}
	if strings.Contains(masked, "secret") {
		t.Fatalf("masked DSN leaks password: %s", masked)
	}
}
