package services

// 会话服务：在 Redis 中创建、读取与删除登录会话。
// 会话是服务端唯一的跨请求状态；客户端仅持有不透明的 sid。

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"memoboard/internal/config"
)

// Session 表示一次已登录的浏览器会话。
// 存储在 Redis：key=session:<sid>，值为 JSON。
type Session struct {
	SID       string    `json:"sid"`
	AccountID uint64    `json:"account_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// sessionStore 抽象所需的 Redis 命令，便于测试替换。
type sessionStore interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// SessionService 提供会话的创建/读取/删除能力。
type SessionService struct {
	store sessionStore
	cfg   config.Config
}

// NewSessionService 构造会话服务，传入 Redis 客户端（或兼容接口）。
func NewSessionService(store sessionStore, cfg config.Config) *SessionService {
	return &SessionService{store: store, cfg: cfg}
}

// New 为指定账户创建新会话并写入 Redis。
func (s *SessionService) New(ctx context.Context, accountID uint64, username string) (*Session, error) {
	sid := uuid.NewString()
	sess := &Session{SID: sid, AccountID: accountID, Username: username, CreatedAt: time.Now()}
	b, _ := json.Marshal(sess)
	key := fmt.Sprintf("session:%s", sid)
	if err := s.store.Set(ctx, key, b, s.cfg.Session.TTL).Err(); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get 按 sid 读取会话；不存在时返回 ErrNoSession，其它错误原样上抛。
func (s *SessionService) Get(ctx context.Context, sid string) (*Session, error) {
	key := fmt.Sprintf("session:%s", sid)
	cmd := s.store.Get(ctx, key)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal([]byte(cmd.Val()), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Delete 无条件销毁会话；删除失败由调用方按存储故障处理。
func (s *SessionService) Delete(ctx context.Context, sid string) error {
	key := fmt.Sprintf("session:%s", sid)
	return s.store.Del(ctx, key).Err()
}
