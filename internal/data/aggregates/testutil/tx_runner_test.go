package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/speaking-practice-backend/internal/platform/dbctx"
)

func TestInjectedTxRunnerCommitsOnSuccess(t *testing.T) {
	r := &InjectedTxRunner{}
	called := false
	err := r.InTx(context.Background(), func(_ dbctx.Context) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("InTx: %v", err)
	}
	if !called {
		t.Fatalf("expected callback to run")
	}
	if r.BeginCalls != 1 || r.CommitCalls != 1 || r.RollbackCalls != 0 {
		t.Fatalf("counters: begin=%d commit=%d rollback=%d", r.BeginCalls, r.CommitCalls, r.RollbackCalls)
	}
}

func TestInjectedTxRunnerRollsBackOnBodyError(t *testing.T) {
	r := &InjectedTxRunner{}
	bodyErr := errors.New("boom")
	err := r.InTx(context.Background(), func(_ dbctx.Context) error { return bodyErr })
	if !errors.Is(err, bodyErr) {
		t.Fatalf("InTx: want=%v got=%v", bodyErr, err)
	}
	if r.BeginCalls != 1 || r.CommitCalls != 0 || r.RollbackCalls != 1 {
		t.Fatalf("counters: begin=%d commit=%d rollback=%d", r.BeginCalls, r.CommitCalls, r.RollbackCalls)
	}
}

func TestInjectedTxRunnerFailCommitTimes(t *testing.T) {
	commitErr := errors.New("database is locked")
	r := &InjectedTxRunner{FailCommit: commitErr, FailCommitTimes: 2}
	for i := 1; i <= 3; i++ {
		err := r.InTx(context.Background(), func(_ dbctx.Context) error { return nil })
		if i <= 2 && !errors.Is(err, commitErr) {
			t.Fatalf("attempt %d: want=%v got=%v", i, commitErr, err)
		}
		if i == 3 && err != nil {
			t.Fatalf("attempt 3: want=nil got=%v", err)
		}
	}
	if r.CommitCalls != 1 || r.RollbackCalls != 2 {
		t.Fatalf("counters: commit=%d rollback=%d", r.CommitCalls, r.RollbackCalls)
	}
}
