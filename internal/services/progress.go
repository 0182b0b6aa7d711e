package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/speaking-practice-backend/internal/data/repos"
	"github.com/yungbote/speaking-practice-backend/internal/domain/practice"
	"github.com/yungbote/speaking-practice-backend/internal/domain/progress"
	"github.com/yungbote/speaking-practice-backend/internal/platform/dbctx"
	"github.com/yungbote/speaking-practice-backend/internal/platform/logger"
)

const activityCalendarDays = 180

// ProgressService serves the read views over the ledger's counters. Views
// that find no row create an empty one, matching what a first submission
// would have produced minus the completion.
type ProgressService interface {
	Daily(ctx context.Context, userID uuid.UUID) (*progress.DailyCount, error)
	Streak(ctx context.Context, userID uuid.UUID) (*progress.Streak, error)
	ActivityCalendar(ctx context.Context, userID uuid.UUID) ([]*progress.ActivityEntry, error)
	CategoryProgress(ctx context.Context, userID uuid.UUID) ([]*progress.CategoryProgress, error)
}

type ProgressServiceDeps struct {
	Log         *logger.Logger
	Daily       repos.DailyCountRepo
	Activity    repos.ActivityEntryRepo
	Categories  repos.CategoryProgressRepo
	Streaks     repos.StreakRepo
	Questions   repos.QuestionRepo
	Clock       progress.Clock
	DailyTarget int
}

type progressService struct {
	deps ProgressServiceDeps
	log  *logger.Logger
}

func NewProgressService(deps ProgressServiceDeps) ProgressService {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	if deps.Clock == nil {
		deps.Clock = progress.NewClock(time.UTC)
	}
	if deps.DailyTarget <= 0 {
		deps.DailyTarget = progress.DefaultDailyTarget
	}
	return &progressService{deps: deps, log: log.With("service", "ProgressService")}
}

func (s *progressService) Daily(ctx context.Context, userID uuid.UUID) (*progress.DailyCount, error) {
	return s.deps.Daily.GetOrCreate(dbctx.Context{Ctx: ctx}, userID, s.deps.Clock.Today(), s.deps.DailyTarget)
}

func (s *progressService) Streak(ctx context.Context, userID uuid.UUID) (*progress.Streak, error) {
	return s.deps.Streaks.GetOrCreate(dbctx.Context{Ctx: ctx}, userID)
}

func (s *progressService) ActivityCalendar(ctx context.Context, userID uuid.UUID) ([]*progress.ActivityEntry, error) {
	today := s.deps.Clock.Today()
	return s.deps.Activity.ListRange(dbctx.Context{Ctx: ctx}, userID, progress.AddDays(today, -activityCalendarDays), today)
}

func (s *progressService) CategoryProgress(ctx context.Context, userID uuid.UUID) ([]*progress.CategoryProgress, error) {
	dbc := dbctx.Context{Ctx: ctx}
	rows, err := s.deps.Categories.ListByUser(dbc, userID)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		return rows, nil
	}
	for _, c := range practice.Categories {
		total, err := s.deps.Questions.CountByCategory(dbc, c)
		if err != nil {
			return nil, fmt.Errorf("count question pool: %w", err)
		}
		if err := s.deps.Categories.CreateEmpty(dbc, userID, c, total); err != nil {
			return nil, fmt.Errorf("init category progress: %w", err)
		}
	}
	return s.deps.Categories.ListByUser(dbc, userID)
}
