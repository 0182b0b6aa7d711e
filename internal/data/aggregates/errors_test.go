package aggregates

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/speaking-practice-backend/internal/domain/aggregates"
)

func TestMapError_Validation(t *testing.T) {
	err := MapError("op", ValidationError("bad input"))
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_Conflict(t *testing.T) {
	err := MapError("op", ConflictError("stale"))
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("expected conflict code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_NotFound(t *testing.T) {
	err := MapError("op", gorm.ErrRecordNotFound)
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_PassthroughAggregateError(t *testing.T) {
	in := domainagg.NewError(domainagg.CodeRetryable, "op", "retry", errors.New("boom"))
	out := MapError("other", in)
	if out != in {
		t.Fatalf("expected passthrough aggregate error")
	}
}

func TestMapErrorDriverCodes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want domainagg.ErrorCode
	}{
		{name: "pg unique", err: &pgconn.PgError{Code: "23505"}, want: domainagg.CodeConflict},
		{name: "pg fk", err: &pgconn.PgError{Code: "23503"}, want: domainagg.CodePreconditionFailed},
		{name: "pg serialization", err: &pgconn.PgError{Code: "40001"}, want: domainagg.CodeRetryable},
		{name: "pg deadlock", err: &pgconn.PgError{Code: "40P01"}, want: domainagg.CodeRetryable},
		{name: "sqlite unique", err: errors.New("UNIQUE constraint failed: daily_count.user_id, daily_count.practice_date"), want: domainagg.CodeConflict},
		{name: "sqlite locked", err: errors.New("database is locked"), want: domainagg.CodeRetryable},
		{name: "gorm duplicated", err: gorm.ErrDuplicatedKey, want: domainagg.CodeConflict},
		{name: "unknown", err: errors.New("disk full"), want: domainagg.CodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := domainagg.CodeOf(MapError("op", tc.err))
			if got != tc.want {
				t.Fatalf("code: want=%s got=%s", tc.want, got)
			}
		})
	}
}

func TestRetryableCodes(t *testing.T) {
	if !domainagg.Retryable(MapError("op", errors.New("database is locked"))) {
		t.Fatalf("locked should be retryable")
	}
	if !domainagg.Retryable(MapError("op", ConflictError("x"))) {
		t.Fatalf("conflict should be retryable")
	}
	if domainagg.Retryable(MapError("op", ValidationError("x"))) {
		t.Fatalf("validation should not be retryable")
	}
}
