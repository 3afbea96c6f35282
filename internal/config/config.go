package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	yaml "gopkg.in/yaml.v3"
)

// Config 保存进程级配置（仅使用配置文件或内置默认值）。
// 字段提供开发友好的默认值；生产环境请在 config.yaml 中覆盖。
type Config struct {
	Env      string
	HTTPAddr string
	MySQL    MySQLConfig
	Redis    RedisConfig
	Session  SessionConfig
	Feed     FeedConfig
	Limits   LimitConfig
	Security SecurityConfig
}

type MySQLConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	Params   string
}

func (m MySQLConfig) DSN() string {
	port := m.Port
	if port == 0 {
		port = 3306
	}
	host := m.Host
	if host == "" {
		host = "127.0.0.1"
	}
	db := m.DBName
	if db == "" {
		db = "memoboard"
	}
	params := m.Params
	if params == "" {
		params = "parseTime=true&loc=Local&charset=utf8mb4,utf8"
	}
	// 注意：Password 可能为空（本地无密码开发），生产强烈建议设置强密码
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s", m.User, m.Password, host, port, db, params)
}

func (m MySQLConfig) DSNMasked() string {
	masked := m
	if masked.Password != "" {
		masked.Password = "******"
	}
	return masked.DSN()
}

type RedisConfig struct {
	Addr     string
	DB       int
	Password string
}

type SessionConfig struct {
	CookieName     string
	CookieDomain   string
	CookieSecure   bool
	CookieSameSite string // 取值：lax、strict、none
	TTL            time.Duration
}

// FeedConfig 控制备忘录信息流的分页行为。
type FeedConfig struct {
	// 每页返回的备忘录条数；首屏列表与游标分页共用该值
	PageSize int
}

type LimitConfig struct {
	SigninPerMinute int
	SignupPerMinute int
	// 时间窗口（默认 1m）
	Window time.Duration
}

type SecurityConfig struct {
	HSTS struct {
		Enabled           bool
		MaxAgeSeconds     int
		IncludeSubdomains bool
	}
}

// Load 生成配置：先使用内置默认值，再用同目录的配置文件（config.yaml/yml/json）覆盖。
// 默认：MySQL 127.0.0.1:3306 用户 root/123456；Redis 127.0.0.1:6379 无密码。
func Load() Config {
	// 1) 默认值（本地开发可直接运行）
	cfg := Config{
		Env:      "dev",
		HTTPAddr: ":8080",
		MySQL:    MySQLConfig{Host: "127.0.0.1", Port: 3306, User: "root", Password: "123456", DBName: "memoboard", Params: "parseTime=true&loc=Local&charset=utf8mb4,utf8"},
		Redis:    RedisConfig{Addr: "127.0.0.1:6379", DB: 0, Password: ""},
		Session:  SessionConfig{CookieName: "memo_session", CookieDomain: "", CookieSecure: false, CookieSameSite: "lax", TTL: 24 * time.Hour},
		Feed:     FeedConfig{PageSize: 6},
		Limits:   LimitConfig{SigninPerMinute: 10, SignupPerMinute: 10, Window: time.Minute},
		Security: func() SecurityConfig {
			var s SecurityConfig
			s.HSTS.Enabled = true
			s.HSTS.MaxAgeSeconds = 31536000
			s.HSTS.IncludeSubdomains = true
			return s
		}(),
	}

	// 2) 配置文件覆盖（若存在）。解析失败时继续用默认值启动，但必须可见
	if path := FirstExisting("config.yaml", "config.yml", "config.json"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			log.WithError(err).WithField("path", path).Warn("config file ignored, falling back to defaults")
		}
	}
	return cfg
}

// 配置文件格式：YAML 或 JSON。仅非零值会覆盖现有字段。
func loadFromFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	ext := strings.ToLower(filepath.Ext(path))
	var fm fileModel
	if ext == ".yaml" || ext == ".yml" {
		if err := yaml.Unmarshal(b, &fm); err != nil {
			return err
		}
	} else if ext == ".json" || ext == "" {
		if err := json.Unmarshal(b, &fm); err != nil {
			return err
		}
	} else {
		return errors.New("unsupported config file format")
	}
	fm.apply(cfg)
	return nil
}

// --- 配置文件模型与合并逻辑 ---

type fileModel struct {
	Env      string        `yaml:"env" json:"env"`
	HTTPAddr string        `yaml:"http_addr" json:"http_addr"`
	MySQL    *fileMySQL    `yaml:"mysql" json:"mysql"`
	Redis    *fileRedis    `yaml:"redis" json:"redis"`
	Session  *fileSession  `yaml:"session" json:"session"`
	Feed     *fileFeed     `yaml:"feed" json:"feed"`
	Limits   *fileLimits   `yaml:"limits" json:"limits"`
	Security *fileSecurity `yaml:"security" json:"security"`
}

type fileMySQL struct {
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	User     string `yaml:"user" json:"user"`
	Password string `yaml:"password" json:"password"`
	DBName   string `yaml:"db" json:"db"`
	Params   string `yaml:"params" json:"params"`
}
type fileRedis struct {
	Addr     string `yaml:"addr" json:"addr"`
	DB       int    `yaml:"db" json:"db"`
	Password string `yaml:"password" json:"password"`
}
type fileSession struct {
	CookieName     string `yaml:"cookie_name" json:"cookie_name"`
	CookieDomain   string `yaml:"cookie_domain" json:"cookie_domain"`
	CookieSecure   *bool  `yaml:"cookie_secure" json:"cookie_secure"`
	CookieSameSite string `yaml:"cookie_samesite" json:"cookie_samesite"`
	TTL            string `yaml:"ttl" json:"ttl"`
}
type fileFeed struct {
	PageSize int `yaml:"page_size" json:"page_size"`
}
type fileLimits struct {
	SigninPerMinute int    `yaml:"signin_per_minute" json:"signin_per_minute"`
	SignupPerMinute int    `yaml:"signup_per_minute" json:"signup_per_minute"`
	Window          string `yaml:"window" json:"window"`
}
type fileSecurity struct {
	HSTS struct {
		Enabled           *bool `yaml:"enabled" json:"enabled"`
		MaxAge            int   `yaml:"max_age" json:"max_age"`
		IncludeSubdomains *bool `yaml:"include_subdomains" json:"include_subdomains"`
	} `yaml:"hsts" json:"hsts"`
}

func (fm *fileModel) apply(cfg *Config) {
	if fm.Env != "" {
		cfg.Env = fm.Env
	}
	if fm.HTTPAddr != "" {
		cfg.HTTPAddr = fm.HTTPAddr
	}
	if fm.MySQL != nil {
		if fm.MySQL.Host != "" {
			cfg.MySQL.Host = fm.MySQL.Host
		}
		if fm.MySQL.Port != 0 {
			cfg.MySQL.Port = fm.MySQL.Port
		}
		if fm.MySQL.User != "" {
			cfg.MySQL.User = fm.MySQL.User
		}
		if fm.MySQL.Password != "" {
			cfg.MySQL.Password = fm.MySQL.Password
		}
		if fm.MySQL.DBName != "" {
			cfg.MySQL.DBName = fm.MySQL.DBName
		}
		if fm.MySQL.Params != "" {
			cfg.MySQL.Params = fm.MySQL.Params
		}
	}
	if fm.Redis != nil {
		if fm.Redis.Addr != "" {
			cfg.Redis.Addr = fm.Redis.Addr
		}
		if fm.Redis.DB != 0 {
			cfg.Redis.DB = fm.Redis.DB
		}
		if fm.Redis.Password != "" {
			cfg.Redis.Password = fm.Redis.Password
		}
	}
	if fm.Session != nil {
		if fm.Session.CookieName != "" {
			cfg.Session.CookieName = fm.Session.CookieName
		}
		if fm.Session.CookieDomain != "" {
			cfg.Session.CookieDomain = fm.Session.CookieDomain
		}
		if fm.Session.CookieSecure != nil {
			cfg.Session.CookieSecure = *fm.Session.CookieSecure
		}
		if fm.Session.CookieSameSite != "" {
			cfg.Session.CookieSameSite = fm.Session.CookieSameSite
		}
		if fm.Session.TTL != "" {
			if d, err := time.ParseDuration(fm.Session.TTL); err == nil {
				cfg.Session.TTL = d
			}
		}
	}
	if fm.Feed != nil {
		if fm.Feed.PageSize > 0 {
			cfg.Feed.PageSize = fm.Feed.PageSize
		}
	}
	if fm.Limits != nil {
		if fm.Limits.SigninPerMinute != 0 {
			cfg.Limits.SigninPerMinute = fm.Limits.SigninPerMinute
		}
		if fm.Limits.SignupPerMinute != 0 {
			cfg.Limits.SignupPerMinute = fm.Limits.SignupPerMinute
		}
		if fm.Limits.Window != "" {
			if d, err := time.ParseDuration(fm.Limits.Window); err == nil {
				cfg.Limits.Window = d
			}
		}
	}
	if fm.Security != nil {
		if fm.Security.HSTS.Enabled != nil {
			cfg.Security.HSTS.Enabled = *fm.Security.HSTS.Enabled
		}
		if fm.Security.HSTS.MaxAge != 0 {
			cfg.Security.HSTS.MaxAgeSeconds = fm.Security.HSTS.MaxAge
		}
		if fm.Security.HSTS.IncludeSubdomains != nil {
			cfg.Security.HSTS.IncludeSubdomains = *fm.Security.HSTS.IncludeSubdomains
		}
	}
}

// FirstExisting 按顺序返回第一个存在的文件路径；若都不存在则返回空字符串。
// 注意：该函数用于在多路径间进行容错查找，如配置文件或静态资源位置。
func FirstExisting(paths ...string) string {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
