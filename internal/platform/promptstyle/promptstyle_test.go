package promptstyle

import (
	"strings"
	"testing"
)

func TestApplySystemIsIdempotent(t *testing.T) {
	once := ApplySystem("You are an examiner.", "json")
	if !strings.HasPrefix(once, marker) || !strings.HasSuffix(once, "You are an examiner.") {
		t.Fatalf("ApplySystem: got=%q", once)
	}
	if !strings.Contains(once, "single JSON object") {
		t.Fatalf("json mode guidance missing: %q", once)
	}
	if twice := ApplySystem(once, "json"); twice != once {
		t.Fatalf("ApplySystem twice: want=%q got=%q", once, twice)
	}
	if got := ApplySystem("   ", "json"); got != "" {
		t.Fatalf("blank: want empty got=%q", got)
	}
}
