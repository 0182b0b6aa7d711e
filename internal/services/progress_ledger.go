package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/speaking-practice-backend/internal/data/aggregates"
	"github.com/yungbote/speaking-practice-backend/internal/data/repos"
	domainagg "github.com/yungbote/speaking-practice-backend/internal/domain/aggregates"
	"github.com/yungbote/speaking-practice-backend/internal/observability"
	"github.com/yungbote/speaking-practice-backend/internal/platform/logger"
	"github.com/yungbote/speaking-practice-backend/internal/platform/userlock"
)

// ProgressLedger applies completed practices to the daily count, activity
// log, category progress and streak in one transaction.
type ProgressLedger = domainagg.ProgressLedgerAggregate

type ProgressLedgerConfig struct {
	MaxAttempts int
	Backoff     time.Duration
	DailyTarget int
}

type ProgressLedgerRepos struct {
	Submissions repos.SubmissionRepo
	Daily       repos.DailyCountRepo
	Activity    repos.ActivityEntryRepo
	Categories  repos.CategoryProgressRepo
	Streaks     repos.StreakRepo
	Questions   repos.QuestionRepo
}

func NewProgressLedger(db *gorm.DB, log *logger.Logger, r ProgressLedgerRepos, locker userlock.Locker, cfg ProgressLedgerConfig) ProgressLedger {
	return aggregates.NewProgressLedgerAggregate(aggregates.ProgressLedgerAggregateDeps{
		Base: aggregates.BaseDeps{
			DB:          db,
			Log:         log,
			Hooks:       aggregates.NewObservabilityHooks(observability.Current()),
			MaxAttempts: cfg.MaxAttempts,
			Backoff:     cfg.Backoff,
		},
		Submissions: r.Submissions,
		Daily:       r.Daily,
		Activity:    r.Activity,
		Categories:  r.Categories,
		Streaks:     r.Streaks,
		Questions:   r.Questions,
		Locker:      locker,
		DailyTarget: cfg.DailyTarget,
	})
}
