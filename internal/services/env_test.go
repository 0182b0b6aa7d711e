package services

import (
	"context"
	"testing"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/speaking-practice-backend/internal/data/repos"
	"github.com/yungbote/speaking-practice-backend/internal/data/repos/testutil"
	"github.com/yungbote/speaking-practice-backend/internal/domain/progress"
	"github.com/yungbote/speaking-practice-backend/internal/platform/logger"
)

type testEnv struct {
	db  *gorm.DB
	log *logger.Logger

	users         repos.UserRepo
	questions     repos.QuestionRepo
	userQuestions repos.UserQuestionRepo
	submissions   repos.SubmissionRepo
	mockTests     repos.MockTestRepo
	daily         repos.DailyCountRepo
	activity      repos.ActivityEntryRepo
	categories    repos.CategoryProgressRepo
	streaks       repos.StreakRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	return &testEnv{
		db:            db,
		log:           log,
		users:         repos.NewUserRepo(db, log),
		questions:     repos.NewQuestionRepo(db, log),
		userQuestions: repos.NewUserQuestionRepo(db, log),
		submissions:   repos.NewSubmissionRepo(db, log),
		mockTests:     repos.NewMockTestRepo(db, log),
		daily:         repos.NewDailyCountRepo(db, log),
		activity:      repos.NewActivityEntryRepo(db, log),
		categories:    repos.NewCategoryProgressRepo(db, log),
		streaks:       repos.NewStreakRepo(db, log),
	}
}

func (e *testEnv) ledger() ProgressLedger {
	return NewProgressLedger(e.db, e.log, ProgressLedgerRepos{
		Submissions: e.submissions,
		Daily:       e.daily,
		Activity:    e.activity,
		Categories:  e.categories,
		Streaks:     e.streaks,
		Questions:   e.questions,
	}, nil, ProgressLedgerConfig{MaxAttempts: 3, Backoff: 1})
}

func mustDay(t *testing.T, raw string) datatypes.Date {
	t.Helper()
	d, err := progress.ParseDay(raw)
	if err != nil {
		t.Fatalf("ParseDay(%s): %v", raw, err)
	}
	return d
}

var bg = context.Background()
