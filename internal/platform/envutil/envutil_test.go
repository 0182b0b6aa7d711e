package envutil

import (
	"testing"
	"time"
)

func TestDuration(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want time.Duration
	}{
		{name: "go syntax", raw: "45s", want: 45 * time.Second},
		{name: "bare seconds", raw: "120", want: 120 * time.Second},
		{name: "garbage", raw: "soon", want: 7 * time.Second},
		{name: "empty", raw: "", want: 7 * time.Second},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("ENVUTIL_TEST_DURATION", tc.raw)
			got := Duration("ENVUTIL_TEST_DURATION", 7*time.Second)
			if got != tc.want {
				t.Fatalf("Duration(%q): want=%v got=%v", tc.raw, tc.want, got)
			}
		})
	}
}

func TestBoolAndList(t *testing.T) {
	t.Setenv("ENVUTIL_TEST_BOOL", "off")
	if Bool("ENVUTIL_TEST_BOOL", true) {
		t.Fatalf("Bool(off): want=false got=true")
	}
	t.Setenv("ENVUTIL_TEST_LIST", " a, ,b ")
	got := List("ENVUTIL_TEST_LIST", nil)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("List: want=[a b] got=%v", got)
	}
}
