package aggregates

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	domainagg "github.com/yungbote/speaking-practice-backend/internal/domain/aggregates"
	"github.com/yungbote/speaking-practice-backend/internal/platform/dbctx"
	"github.com/yungbote/speaking-practice-backend/internal/platform/httpx"
	"github.com/yungbote/speaking-practice-backend/internal/platform/logger"
)

const defaultRetryBackoff = 25 * time.Millisecond

type BaseDeps struct {
	DB     *gorm.DB
	Log    *logger.Logger
	Runner TxRunner
	Hooks  Hooks

	// MaxAttempts bounds how many times a retryable unit of work runs. Zero means once.
	MaxAttempts int
	Backoff     time.Duration
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.MaxAttempts < 1 {
		d.MaxAttempts = 1
	}
	if d.Backoff <= 0 {
		d.Backoff = defaultRetryBackoff
	}
	return d
}

func executeWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	_, err := executeWriteAttempts(ctx, deps, op, fn)
	return err
}

// executeWriteAttempts runs fn in a fresh transaction, re-running the whole unit
// of work while the mapped failure is retryable or a conflict.
func executeWriteAttempts(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) (int, error) {
	deps = deps.withDefaults()
	op = strings.TrimSpace(op)
	if op == "" {
		op = "aggregate.write"
	}

	var mapped error
	attempt := 0
	for attempt < deps.MaxAttempts {
		attempt++
		if err := ctx.Err(); err != nil {
			mapped = MapError(op, err)
			deps.Hooks.ObserveOperation(op, aggregateErrorStatus(mapped), 0)
			return attempt, mapped
		}

		start := time.Now()
		mapped = MapError(op, deps.Runner.InTx(ctx, fn))

		status := "success"
		if mapped != nil {
			status = aggregateErrorStatus(mapped)
			if domainagg.IsCode(mapped, domainagg.CodeConflict) {
				deps.Hooks.IncConflict(op)
			}
			if domainagg.IsCode(mapped, domainagg.CodeRetryable) {
				deps.Hooks.IncRetry(op)
			}
		}
		deps.Hooks.ObserveOperation(op, status, time.Since(start))

		if mapped == nil || !domainagg.Retryable(mapped) || ctx.Err() != nil {
			return attempt, mapped
		}
		if attempt < deps.MaxAttempts {
			deps.Log.Warn("aggregate write retrying", "op", op, "attempt", attempt, "error", mapped)
			if err := httpx.Sleep(ctx, httpx.JitterSleep(deps.Backoff*time.Duration(attempt))); err != nil {
				return attempt, mapped
			}
		}
	}
	return attempt, mapped
}

func aggregateErrorStatus(err error) string {
	if err == nil {
		return "success"
	}
	code := strings.TrimSpace(string(domainagg.CodeOf(err)))
	if code == "" {
		code = strings.TrimSpace(string(domainagg.CodeOf(MapError("aggregate.status", err))))
	}
	if code == "" {
		return "failure"
	}
	return code
}
