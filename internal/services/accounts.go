package services

// 账户服务：注册、口令校验与用户名前缀检索。

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"memoboard/internal/storage"
	"memoboard/internal/utils"
)

// searchLimit 为用户名前缀检索的最大返回条数。
const searchLimit = 5

// AccountService 提供账户查询、创建与口令校验。
type AccountService struct{ db *gorm.DB }

func NewAccountService(db *gorm.DB) *AccountService { return &AccountService{db: db} }

// Register 在确认用户名未被占用后创建账户。
// 口令以账户级随机盐值派生哈希后落库；不建立会话。
func (s *AccountService) Register(ctx context.Context, username, password string) (*storage.Account, error) {
	var existing storage.Account
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil, ErrUsernameExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	salt, err := utils.GenerateSalt()
	if err != nil {
		return nil, err
	}
	a := &storage.Account{
		Username:     username,
		PasswordHash: utils.HashPassword(password, salt),
		Salt:         salt,
	}
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

// Authenticate 按用户名查找账户并校验口令。
// 账户不存在返回 ErrNoSuchUser，口令不匹配返回 ErrPasswordIncorrect。
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*storage.Account, error) {
	var a storage.Account
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSuchUser
		}
		return nil, err
	}
	if !utils.VerifyPassword(password, a.Salt, a.PasswordHash) {
		return nil, ErrPasswordIncorrect
	}
	return &a, nil
}

// SearchByPrefix 返回以 prefix 开头的用户名，字典序升序，至多 searchLimit 条。
// 只选取 username 列，口令字段永远不出库。空前缀由调用方短路，不触达存储。
func (s *AccountService) SearchByPrefix(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	pattern := escapeLike(prefix) + "%"
	err := s.db.WithContext(ctx).
		Model(&storage.Account{}).
		Where("username LIKE ?", pattern).
		Order("username ASC").
		Limit(searchLimit).
		Pluck("username", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

// escapeLike 转义 LIKE 模式中的通配符，使前缀按字面量匹配。
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
