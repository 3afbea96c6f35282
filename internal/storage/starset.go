package storage

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StarSet 保存为某条备忘录点过星标的用户名集合。
// 底层以 JSON 数组字符串落库（text 列），读写两侧都保证无重复元素；
// JSON 输出同样是数组，保持与既有客户端的兼容。
type StarSet []string

// Has 报告用户名是否已在集合中。
func (s StarSet) Has(username string) bool {
	for _, v := range s {
		if v == username {
			return true
		}
	}
	return false
}

// Add 返回加入指定用户名后的集合；已存在时原样返回。
func (s StarSet) Add(username string) StarSet {
	if s.Has(username) {
		return s
	}
	return append(s, username)
}

// Remove 返回移除指定用户名后的集合。
func (s StarSet) Remove(username string) StarSet {
	out := s[:0]
	for _, v := range s {
		if v != username {
			out = append(out, v)
		}
	}
	return out
}

// Value 实现 driver.Valuer，序列化为 JSON 数组字符串。
func (s StarSet) Value() (driver.Value, error) {
	if s == nil {
		s = StarSet{}
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan 实现 sql.Scanner，从 text 列反序列化；空列视为空集合。
func (s *StarSet) Scan(src interface{}) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		*s = StarSet{}
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("starset: unsupported column type %T", src)
	}
	if len(b) == 0 {
		*s = StarSet{}
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	// 去重以防旧数据中混入重复项
	set := StarSet{}
	for _, v := range list {
		set = set.Add(v)
	}
	*s = set
	return nil
}

// MarshalJSON 保证 nil 集合也输出 []，而不是 null。
func (s StarSet) MarshalJSON() ([]byte, error) {
	if s == nil {
		s = StarSet{}
	}
	return json.Marshal([]string(s))
}
