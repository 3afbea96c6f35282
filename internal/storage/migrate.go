package storage

import (
	"time"

	"gorm.io/gorm"
)

// 本文件定义服务使用的所有 GORM 模型，集中管理数据结构。

// Account 为注册用户。用户名创建后不可变；口令以盐值派生哈希存储，
// 任何查询都不得把哈希或盐值带出 storage/services 层。
type Account struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id,string"`
	// 二进制排序规则：用户名的等值匹配与前缀检索都区分大小写，
	// MySQL 默认的 *_ci 排序规则会破坏这一点
	Username     string    `gorm:"type:varchar(190) COLLATE utf8mb4_bin;uniqueIndex" json:"username"`
	PasswordHash string    `gorm:"size:255" json:"-"` // PBKDF2 派生哈希
	Salt         string    `gorm:"size:64" json:"-"`  // 每账户随机盐值
	CreatedAt    time.Time `json:"created_at"`
}

// Memo 为一条备忘录。主键自增，同时充当信息流的分页游标：
// 新备忘录的 ID 一定排在旧备忘录之后。
type Memo struct {
	ID        uint64     `gorm:"primaryKey;autoIncrement" json:"id,string"`
	Writer    string     `gorm:"type:varchar(190) COLLATE utf8mb4_bin;index" json:"writer"` // 作者用户名，创建后不可变；匹配区分大小写
	Contents  string     `gorm:"type:text" json:"contents"`
	Starred   StarSet    `gorm:"type:text" json:"starred"` // JSON 数组字符串
	IsEdited  bool       `json:"is_edited"`
	CreatedAt time.Time  `json:"created_at"`
	EditedAt  *time.Time `json:"edited_at,omitempty"` // 首次编辑前为 NULL
}

// LogRecord 为审计日志行：记录登录、注册、备忘录写操作等事件。
type LogRecord struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	Timestamp   time.Time `gorm:"index"`
	Level       string    `gorm:"size:16;index"`
	Event       string    `gorm:"size:64;index"`
	AccountID   *uint64   `gorm:"index"`
	Description string    `gorm:"type:longtext"`
	IPAddress   string    `gorm:"size:64"`
	RequestID   string    `gorm:"size:64;index"`
}

// autoMigrate 执行数据库自动迁移。
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Account{}, &Memo{}, &LogRecord{})
}
