package logger

import (
	"strings"
	"testing"
)

func TestSanitizeValueRedactsSecrets(t *testing.T) {
	cases := []struct {
		key  string
		val  any
		want any
	}{
		{key: "authorization", val: "Bearer abc", want: "[REDACTED]"},
		{key: "scoring_api_key", val: "sk-1", want: "[REDACTED]"},
		{key: "audio", val: []byte{1, 2, 3}, want: "[3 bytes]"},
		{key: "transcription", val: "I grew up near the sea", want: "[22 chars]"},
		{key: "user_transcript", val: "café", want: "[4 chars]"},
		{key: "category", val: 2, want: 2},
	}
	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			got := sanitizeValue(tc.key, tc.val)
			if got != tc.want {
				t.Fatalf("sanitizeValue(%s): want=%v got=%v", tc.key, tc.want, got)
			}
		})
	}
}

func TestSanitizeValueHashesUserID(t *testing.T) {
	got, ok := sanitizeValue("user_id", "0b7c1d7e-0000-4000-8000-000000000001").(string)
	if !ok {
		t.Fatalf("hashed user_id should be a string")
	}
	if !strings.HasPrefix(got, "hash:") || len(got) != len("hash:")+12 {
		t.Fatalf("hashed user_id: got=%q", got)
	}
	again := sanitizeValue("user_id", "0b7c1d7e-0000-4000-8000-000000000001")
	if again != got {
		t.Fatalf("hash must be stable: want=%v got=%v", got, again)
	}
}

func TestSanitizeKVsKeepsDanglingKey(t *testing.T) {
	out := sanitizeKVs([]any{"path", "/api", "orphan"})
	if len(out) != 3 {
		t.Fatalf("len: want=3 got=%d", len(out))
	}
	if out[2] != "orphan" {
		t.Fatalf("dangling key: want=orphan got=%v", out[2])
	}
}
