package testutil

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"github.com/yungbote/speaking-practice-backend/internal/data/aggregates"
	"github.com/yungbote/speaking-practice-backend/internal/platform/dbctx"
)

// InjectedTxRunner wraps a transaction boundary with failure injection.
// With DB set the body runs in a real gorm transaction; otherwise it runs
// without one.
type InjectedTxRunner struct {
	mu sync.Mutex

	DB *gorm.DB

	FailBegin error
	// FailCommit is returned after a successful body, rolling back the work,
	// for the first FailCommitTimes attempts (every attempt when zero).
	FailCommit      error
	FailCommitTimes int

	BeginCalls    int
	CommitCalls   int
	RollbackCalls int
}

var _ aggregates.TxRunner = (*InjectedTxRunner)(nil)

func (r *InjectedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.BeginCalls++
	attempt := r.BeginCalls
	failBegin := r.FailBegin
	failCommit := r.FailCommit
	if r.FailCommitTimes > 0 && attempt > r.FailCommitTimes {
		failCommit = nil
	}
	r.mu.Unlock()

	if failBegin != nil {
		return failBegin
	}
	body := func(dbc dbctx.Context) error {
		if fn != nil {
			if err := fn(dbc); err != nil {
				return err
			}
		}
		return failCommit
	}

	var err error
	if r.DB != nil {
		err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return body(dbctx.Context{Ctx: ctx, Tx: tx})
		})
	} else {
		err = body(dbctx.Context{Ctx: ctx})
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.RollbackCalls++
		return err
	}
	r.CommitCalls++
	return nil
}
