package storage

import (
	"reflect"
	"strings"
	"testing"
)

// 用户名的等值匹配与前缀检索必须区分大小写，两个用户名列都要求
// 二进制排序规则建列，避免落回 MySQL 默认的大小写不敏感匹配。
func TestUsernameColumnsCaseSensitive(t *testing.T) {
	cases := []struct {
		model interface{}
		field string
	}{
		{Account{}, "Username"},
		{Memo{}, "Writer"},
	}
	for _, c := range cases {
		f, ok := reflect.TypeOf(c.model).FieldByName(c.field)
		if !ok {
			t.Fatalf("%T has no field %s", c.model, c.field)
		}
		tag := f.Tag.Get("gorm")
		if !strings.Contains(tag, "COLLATE utf8mb4_bin") {
			t.Fatalf("%T.%s must declare binary collation, gorm tag: %q", c.model, c.field, tag)
		}
	}
}
