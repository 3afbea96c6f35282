package storage

import "testing"

func TestStarSetToggleSemantics(t *testing.T) {
	s := StarSet{}
	if s.Has("alice") {
		t.Fatalf("empty set should not contain alice")
	}
	s = s.Add("alice")
	if !s.Has("alice") {
		t.Fatalf("alice missing after Add")
	}
	// 重复加入不得产生重复元素
	s = s.Add("alice")
	if len(s) != 1 {
		t.Fatalf("duplicate entry after double Add: %v", s)
	}
	s = s.Add("bob")
	s = s.Remove("alice")
	if s.Has("alice") {
		t.Fatalf("alice still present after Remove")
	}
	if !s.Has("bob") {
		t.Fatalf("bob lost by Remove of alice")
	}
}

func TestStarSetAddRemovePairRestores(t *testing.T) {
	s := StarSet{"bob"}
	s = s.Add("alice")
	s = s.Remove("alice")
	if len(s) != 1 || !s.Has("bob") {
		t.Fatalf("add/remove pair did not restore set: %v", s)
	}
}

func TestStarSetColumnRoundtrip(t *testing.T) {
	s := StarSet{"alice", "bob"}
	v, err := s.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	var out StarSet
	if err := out.Scan(v); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !out.Has("alice") || !out.Has("bob") || len(out) != 2 {
		t.Fatalf("roundtrip mismatch: %v", out)
	}
}

func TestStarSetScanEdgeCases(t *testing.T) {
	var s StarSet
	if err := s.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if len(s) != 0 {
		t.Fatalf("nil column should scan to empty set")
	}
	if err := s.Scan(""); err != nil {
		t.Fatalf("scan empty string: %v", err)
	}
	// 旧数据中的重复项在读取时去重
	if err := s.Scan(`["alice","alice","bob"]`); err != nil {
		t.Fatalf("scan duplicates: %v", err)
	}
	if len(s) != 2 {
		t.Fatalf("duplicates not collapsed: %v", s)
	}
}

func TestStarSetMarshalNilAsEmptyArray(t *testing.T) {
	var s StarSet
	b, err := s.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "[]" {
		t.Fatalf("nil set should marshal to [], got %s", b)
	}
}
