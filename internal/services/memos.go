package services

// 备忘录服务：创建、编辑、删除、星标切换与基于 ID 游标的信息流查询。
// 所有权校验在此层完成；输入格式校验（ID/内容类型）由 handlers 层负责。

import (
	"context"
	"errors"
	"strconv"
	"time"

	"gorm.io/gorm"

	"memoboard/internal/config"
	"memoboard/internal/storage"
)

// ListType 表示分页方向的 URL 记号。两个方向的结果都按 ID 降序返回：
// 信息流始终以最新在前的顺序渲染，与滚动方向无关。
type ListType string

const (
	// ListOlder 取 ID 严格小于游标的更旧备忘录。
	ListOlder ListType = "old"
	// ListNewer 取 ID 严格大于游标的更新备忘录。
	ListNewer ListType = "new"
)

// ParseListType 校验分页方向记号。
func ParseListType(s string) (ListType, error) {
	switch ListType(s) {
	case ListOlder, ListNewer:
		return ListType(s), nil
	}
	return "", ErrInvalidListType
}

// ParseMemoID 校验并解析备忘录标识符。对外 ID 是不透明字符串，
// 内部为自增主键；仅接受正十进制整数。
func ParseMemoID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// MemoService 提供备忘录的读写与信息流查询。
type MemoService struct {
	db       *gorm.DB
	pageSize int
}

func NewMemoService(db *gorm.DB, cfg config.Config) *MemoService {
	size := cfg.Feed.PageSize
	if size <= 0 {
		size = 6
	}
	return &MemoService{db: db, pageSize: size}
}

// Create 以会话用户为作者持久化新备忘录。
func (s *MemoService) Create(ctx context.Context, writer, contents string) (*storage.Memo, error) {
	m := &storage.Memo{
		Writer:   writer,
		Contents: contents,
		Starred:  storage.StarSet{},
		IsEdited: false,
	}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// Get 按 ID 取备忘录；不存在时返回 ErrNotFound。
func (s *MemoService) Get(ctx context.Context, id uint64) (*storage.Memo, error) {
	var m storage.Memo
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// Edit 更新备忘录内容。仅原作者可编辑；成功后 is_edited 置位、
// edited_at 记录本次编辑时间。
func (s *MemoService) Edit(ctx context.Context, id uint64, username, contents string) (*storage.Memo, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Writer != username {
		return nil, ErrPermissionDenied
	}
	now := time.Now()
	m.Contents = contents
	m.EditedAt = &now
	m.IsEdited = true
	if err := s.db.WithContext(ctx).Save(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// Delete 永久删除备忘录。仅原作者可删除。
func (s *MemoService) Delete(ctx context.Context, id uint64, username string) error {
	m, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if m.Writer != username {
		return ErrPermissionDenied
	}
	return s.db.WithContext(ctx).Delete(&storage.Memo{}, "id = ?", id).Error
}

// ToggleStar 切换用户对备忘录的星标：已有则移除，没有则加入。
// 返回更新后的备忘录与本次是否为加星。
// 该读-改-写未加并发保护，同一备忘录的并发切换以后写为准。
func (s *MemoService) ToggleStar(ctx context.Context, id uint64, username string) (*storage.Memo, bool, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	starred := !m.Starred.Has(username)
	if starred {
		m.Starred = m.Starred.Add(username)
	} else {
		m.Starred = m.Starred.Remove(username)
	}
	if err := s.db.WithContext(ctx).Save(m).Error; err != nil {
		return nil, false, err
	}
	return m, starred, nil
}

// Latest 返回最新一页备忘录，ID 降序。writer 非空时仅取该作者的。
func (s *MemoService) Latest(ctx context.Context, writer string) ([]storage.Memo, error) {
	q := s.db.WithContext(ctx).Model(&storage.Memo{})
	if writer != "" {
		q = q.Where("writer = ?", writer)
	}
	var memos []storage.Memo
	if err := q.Order("id DESC").Limit(s.pageSize).Find(&memos).Error; err != nil {
		return nil, err
	}
	return memos, nil
}

// Page 从游标出发取下一页：old 方向取 ID 严格小于游标的，new 方向取
// 严格大于游标的；两者都按 ID 降序，保证展示顺序一致。
func (s *MemoService) Page(ctx context.Context, writer string, cursor uint64, lt ListType) ([]storage.Memo, error) {
	q := s.db.WithContext(ctx).Model(&storage.Memo{})
	if writer != "" {
		q = q.Where("writer = ?", writer)
	}
	switch lt {
	case ListNewer:
		q = q.Where("id > ?", cursor)
	case ListOlder:
		q = q.Where("id < ?", cursor)
	default:
		return nil, ErrInvalidListType
	}
	var memos []storage.Memo
	if err := q.Order("id DESC").Limit(s.pageSize).Find(&memos).Error; err != nil {
		return nil, err
	}
	return memos, nil
}
