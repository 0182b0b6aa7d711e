package practice

import (
	"encoding/json"
	"math"
	"testing"
)

func TestScoreFromFloat(t *testing.T) {
	cases := []struct {
		in   float64
		want Score
	}{
		{in: 6.5, want: 65},
		{in: 6.54, want: 65},
		{in: 6.56, want: 66},
		{in: 7.25, want: 73},
		{in: -1, want: 0},
		{in: 12, want: 90},
		{in: math.NaN(), want: 0},
	}
	for _, tc := range cases {
		if got := ScoreFromFloat(tc.in); got != tc.want {
			t.Fatalf("ScoreFromFloat(%v): want=%d got=%d", tc.in, tc.want, got)
		}
	}
}

func TestScoreJSONUsesOneDecimal(t *testing.T) {
	b, err := json.Marshal(struct {
		S Score `json:"s"`
	}{S: 50})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"s":5.0}` {
		t.Fatalf("marshal: want=%s got=%s", `{"s":5.0}`, b)
	}
}

func TestScoreScan(t *testing.T) {
	cases := []struct {
		name string
		src  any
		want Score
	}{
		{name: "numeric string", src: "6.5", want: 65},
		{name: "bytes", src: []byte("7.0"), want: 70},
		{name: "float", src: 8.5, want: 85},
		{name: "whole band integer", src: int64(5), want: 50},
		{name: "null", src: nil, want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var s Score
			if err := s.Scan(tc.src); err != nil {
				t.Fatalf("Scan: %v", err)
			}
			if s != tc.want {
				t.Fatalf("Scan: want=%d got=%d", tc.want, s)
			}
		})
	}
}

func TestParseCategory(t *testing.T) {
	for _, raw := range []string{"2", "part2", "PART2"} {
		c, err := ParseCategory(raw)
		if err != nil || c != CategoryLongTurn {
			t.Fatalf("ParseCategory(%s): want=2 got=%d err=%v", raw, c, err)
		}
	}
	if _, err := ParseCategory("4"); err == nil {
		t.Fatalf("ParseCategory(4): want error")
	}
}
