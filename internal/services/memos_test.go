package services

import "testing"

func TestParseMemoID(t *testing.T) {
	id, err := ParseMemoID("123")
	if err != nil || id != 123 {
		t.Fatalf("valid id rejected: %v %v", id, err)
	}
	for _, bad := range []string{"", "0", "-1", "abc", "12x", "1.5", " 1", "18446744073709551616"} {
		if _, err := ParseMemoID(bad); err == nil {
			t.Fatalf("invalid id %q accepted", bad)
		}
	}
}

func TestParseListType(t *testing.T) {
	lt, err := ParseListType("old")
	if err != nil || lt != ListOlder {
		t.Fatalf("old rejected: %v %v", lt, err)
	}
	lt, err = ParseListType("new")
	if err != nil || lt != ListNewer {
		t.Fatalf("new rejected: %v %v", lt, err)
	}
	for _, bad := range []string{"", "OLD", "New", "oldest", "older"} {
		if _, err := ParseListType(bad); err == nil {
			t.Fatalf("invalid list type %q accepted", bad)
		}
	}
}
