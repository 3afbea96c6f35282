package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"memoboard/internal/storage"
)

// LogService 将审计日志持久化到数据库。
type LogService struct{ db *gorm.DB }

func NewLogService(db *gorm.DB) *LogService { return &LogService{db: db} }

// Write 写入一条审计日志。写入失败不影响在途请求。
func (s *LogService) Write(ctx context.Context, level, event string, accountID *uint64, desc, ip, requestID string) {
	_ = s.db.WithContext(ctx).Create(&storage.LogRecord{
		Timestamp:   time.Now(),
		Level:       level,
		Event:       event,
		AccountID:   accountID,
		Description: desc,
		IPAddress:   ip,
		RequestID:   requestID,
	}).Error
}
