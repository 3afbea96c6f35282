package services

import "testing"

func TestEscapeLike(t *testing.T) {
	cases := map[string]string{
		"alice":   "alice",
		"a_b":     `a\_b`,
		"100%":    `100\%`,
		`back\sl`: `back\\sl`,
		"":        "",
	}
	for in, want := range cases {
		if got := escapeLike(in); got != want {
			t.Fatalf("escapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}
