package services

import "errors"

// 领域哨兵错误。handlers 层据此映射 HTTP 状态码与各端点文档化的数字错误码
// （错误码按端点独立编号，不在此处全局定义）。
// 其它任何错误均视为存储层故障：不重试、不吞掉，按请求级 500 处理。
var (
	// ErrNoSession 表示请求未携带有效会话（未登录或会话已过期/注销）。
	ErrNoSession = errors.New("no session")
	// ErrNotFound 表示引用的备忘录不存在。
	ErrNotFound = errors.New("no resource")
	// ErrPermissionDenied 表示已登录用户不是目标资源的作者。
	ErrPermissionDenied = errors.New("permission failure")
	// ErrUsernameExists 表示注册时用户名已被占用。
	ErrUsernameExists = errors.New("username exists")
	// ErrNoSuchUser 表示按用户名找不到账户。
	ErrNoSuchUser = errors.New("there is no user")
	// ErrPasswordIncorrect 表示口令校验失败。
	ErrPasswordIncorrect = errors.New("password is not correct")
	// ErrInvalidID 表示传入的标识符不是合法的游标/主键格式。
	ErrInvalidID = errors.New("invalid id")
	// ErrInvalidListType 表示分页方向既不是 old 也不是 new。
	ErrInvalidListType = errors.New("invalid list type")
)
