package aggregates

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/speaking-practice-backend/internal/domain/practice"
	"github.com/yungbote/speaking-practice-backend/internal/domain/progress"
	"github.com/yungbote/speaking-practice-backend/internal/platform/dbctx"
)

// ProgressLedgerAggregateContract: RecordSubmission owns its transaction,
// Commit joins the caller's.
var ProgressLedgerAggregateContract = Contract{
	Name:  "Progress.LedgerAggregate",
	Owns:  TxOwnedByAggregate,
	Joins: TxOwnedByCaller,
	Notes: "Owns the submission insert together with the daily count, activity log, category " +
		"progress and streak updates in one write boundary, serialized per user.",
}

// ProgressLedgerAggregate owns the progress counters derived from submissions.
//
// Write method failures should return *aggregates.Error with codes:
// CodeValidation, CodeConflict, CodeRetryable, CodeInternal.
type ProgressLedgerAggregate interface {
	Aggregate

	// Commit applies one completed practice to the four progress aggregates
	// inside the caller's transaction.
	Commit(dbc dbctx.Context, userID uuid.UUID, category practice.Category, day datatypes.Date) (LedgerOutcome, error)

	// RecordSubmission atomically inserts the submission and commits it to the ledger.
	RecordSubmission(ctx context.Context, in RecordSubmissionInput) (RecordSubmissionResult, error)
}

type RecordSubmissionInput struct {
	Submission *practice.Submission
	Day        datatypes.Date
}

type LedgerOutcome struct {
	DailyCount        int                 `json:"daily_count"`
	DailyTarget       int                 `json:"daily_target"`
	CategoryCompleted int                 `json:"category_completed"`
	CategoryTotal     int                 `json:"category_total"`
	CurrentStreak     int                 `json:"current_streak"`
	LongestStreak     int                 `json:"longest_streak"`
	StreakStep        progress.StreakStep `json:"streak_step"`
}

type RecordSubmissionResult struct {
	SubmissionID uuid.UUID
	Outcome      LedgerOutcome
	Attempts     int
}
