package testutil

import (
	"testing"
	"time"
)

func TestHooksRecorderCapturesSignals(t *testing.T) {
	h := &HooksRecorder{}
	h.ObserveOperation("Progress.Ledger.RecordSubmission", "retryable", 10*time.Millisecond)
	h.ObserveOperation("Progress.Ledger.RecordSubmission", "success", 5*time.Millisecond)
	h.ObserveOperation("other", "success", time.Millisecond)
	h.IncConflict("Progress.Ledger.RecordSubmission")
	h.IncRetry("Progress.Ledger.RecordSubmission")

	got := h.Statuses("Progress.Ledger.RecordSubmission")
	if len(got) != 2 || got[0] != "retryable" || got[1] != "success" {
		t.Fatalf("statuses: want=[retryable success] got=%v", got)
	}
	if len(h.Conflicts) != 1 || len(h.Retries) != 1 {
		t.Fatalf("counters: conflicts=%v retries=%v", h.Conflicts, h.Retries)
	}
}
