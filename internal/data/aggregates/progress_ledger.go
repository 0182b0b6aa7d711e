package aggregates

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/speaking-practice-backend/internal/data/repos"
	domainagg "github.com/yungbote/speaking-practice-backend/internal/domain/aggregates"
	"github.com/yungbote/speaking-practice-backend/internal/domain/practice"
	"github.com/yungbote/speaking-practice-backend/internal/domain/progress"
	"github.com/yungbote/speaking-practice-backend/internal/platform/dbctx"
	"github.com/yungbote/speaking-practice-backend/internal/platform/userlock"
)

// QuestionCounter reports the size of a category's question pool.
type QuestionCounter interface {
	CountByCategory(dbc dbctx.Context, category practice.Category) (int, error)
}

type ProgressLedgerAggregateDeps struct {
	Base BaseDeps

	Submissions repos.SubmissionRepo
	Daily       repos.DailyCountRepo
	Activity    repos.ActivityEntryRepo
	Categories  repos.CategoryProgressRepo
	Streaks     repos.StreakRepo
	Questions   QuestionCounter

	Locker      userlock.Locker
	DailyTarget int
}

type progressLedgerAggregate struct {
	deps ProgressLedgerAggregateDeps
}

func NewProgressLedgerAggregate(deps ProgressLedgerAggregateDeps) domainagg.ProgressLedgerAggregate {
	deps.Base = deps.Base.withDefaults()
	deps.Base.Log = deps.Base.Log.With("aggregate", "ProgressLedgerAggregate")
	if deps.Locker == nil {
		deps.Locker = userlock.NewLocal()
	}
	if deps.DailyTarget <= 0 {
		deps.DailyTarget = progress.DefaultDailyTarget
	}
	return &progressLedgerAggregate{deps: deps}
}

func (a *progressLedgerAggregate) Contract() domainagg.Contract {
	return domainagg.ProgressLedgerAggregateContract
}

func (a *progressLedgerAggregate) RecordSubmission(ctx context.Context, in domainagg.RecordSubmissionInput) (domainagg.RecordSubmissionResult, error) {
	const op = "Progress.Ledger.RecordSubmission"

	out := domainagg.RecordSubmissionResult{}
	sub := in.Submission
	if sub == nil {
		return out, MapError(op, ValidationError("submission is required"))
	}
	if sub.UserID == uuid.Nil {
		return out, MapError(op, ValidationError("submission user_id is required"))
	}
	if !sub.Category.Valid() {
		return out, MapError(op, ValidationError(fmt.Sprintf("invalid category %d", sub.Category)))
	}
	if a.deps.Submissions == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "submission repo not configured", nil)
	}

	unlock, err := a.deps.Locker.Lock(ctx, sub.UserID)
	if err != nil {
		return out, MapError(op, err)
	}
	defer unlock()

	// a retried attempt must insert a fresh row, so the id is assigned per attempt
	presetID := sub.ID
	contract := a.Contract()
	attempts, err := executeWriteAttempts(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		if err := contract.CheckTx(op, contract.Owns, dbc); err != nil {
			return err
		}
		sub.ID = presetID
		if err := a.deps.Submissions.Create(dbc, sub); err != nil {
			return fmt.Errorf("insert submission: %w", err)
		}
		outcome, err := a.commit(dbc, sub.UserID, sub.Category, in.Day)
		if err != nil {
			return err
		}
		out.Outcome = outcome
		return nil
	})
	out.Attempts = attempts
	if err != nil {
		return out, err
	}
	out.SubmissionID = sub.ID
	return out, nil
}

func (a *progressLedgerAggregate) Commit(dbc dbctx.Context, userID uuid.UUID, category practice.Category, day datatypes.Date) (domainagg.LedgerOutcome, error) {
	const op = "Progress.Ledger.Commit"
	contract := a.Contract()
	if err := contract.CheckTx(op, contract.Joins, dbc); err != nil {
		return domainagg.LedgerOutcome{}, err
	}
	out, err := a.commit(dbc, userID, category, day)
	return out, MapError(op, err)
}

func (a *progressLedgerAggregate) commit(dbc dbctx.Context, userID uuid.UUID, category practice.Category, day datatypes.Date) (domainagg.LedgerOutcome, error) {
	out := domainagg.LedgerOutcome{}
	if userID == uuid.Nil {
		return out, ValidationError("user_id is required")
	}
	if !category.Valid() {
		return out, ValidationError(fmt.Sprintf("invalid category %d", category))
	}
	day = progress.Day(progress.DayTime(day))

	daily, err := a.deps.Daily.Increment(dbc, userID, day, a.deps.DailyTarget)
	if err != nil {
		return out, fmt.Errorf("daily count: %w", err)
	}
	out.DailyCount = daily.PracticeCount
	out.DailyTarget = daily.TargetCount

	if _, err := a.deps.Activity.Increment(dbc, userID, day); err != nil {
		return out, fmt.Errorf("activity entry: %w", err)
	}

	cp, err := a.bumpCategory(dbc, userID, category)
	if err != nil {
		return out, fmt.Errorf("category progress: %w", err)
	}
	out.CategoryCompleted = cp.CompletedCount
	out.CategoryTotal = cp.TotalCount

	streak, step, err := a.advanceStreak(dbc, userID, day)
	if err != nil {
		return out, fmt.Errorf("streak: %w", err)
	}
	out.CurrentStreak = streak.CurrentStreak
	out.LongestStreak = streak.LongestStreak
	out.StreakStep = step
	return out, nil
}

func (a *progressLedgerAggregate) bumpCategory(dbc dbctx.Context, userID uuid.UUID, category practice.Category) (*progress.CategoryProgress, error) {
	ok, err := a.deps.Categories.IncrementExisting(dbc, userID, category)
	if err != nil {
		return nil, err
	}
	if !ok {
		// total is snapshotted here once and never refreshed
		total := 0
		if a.deps.Questions != nil {
			if total, err = a.deps.Questions.CountByCategory(dbc, category); err != nil {
				return nil, fmt.Errorf("count question pool: %w", err)
			}
		}
		if err := a.deps.Categories.CreateFirst(dbc, userID, category, total); err != nil {
			return nil, err
		}
	}
	cp, err := a.deps.Categories.Get(dbc, userID, category)
	if err != nil {
		return nil, err
	}
	if cp == nil {
		return nil, InvariantError("category progress row missing after upsert")
	}
	return cp, nil
}

func (a *progressLedgerAggregate) advanceStreak(dbc dbctx.Context, userID uuid.UUID, day datatypes.Date) (*progress.Streak, progress.StreakStep, error) {
	streak, err := a.deps.Streaks.GetForUpdate(dbc, userID)
	if err != nil {
		return nil, "", err
	}
	if streak == nil {
		streak = &progress.Streak{UserID: userID}
		step := streak.RecordActivity(day)
		if err := a.deps.Streaks.Create(dbc, streak); err != nil {
			return nil, "", err
		}
		return streak, step, nil
	}

	step := streak.RecordActivity(day)
	switch step {
	case progress.StreakBackdated:
		a.deps.Base.Log.Warn("activity dated before last streak day; streak unchanged",
			"user_id", userID,
			"day", progress.FormatDay(day),
			"last_activity_date", progress.FormatDay(*streak.LastActivityDate),
		)
		return streak, step, nil
	case progress.StreakSameDay:
		return streak, step, nil
	}
	if err := a.deps.Streaks.Save(dbc, streak); err != nil {
		return nil, "", err
	}
	return streak, step, nil
}
