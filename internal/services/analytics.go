package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"gorm.io/datatypes"

	"github.com/yungbote/speaking-practice-backend/internal/analytics"
	"github.com/yungbote/speaking-practice-backend/internal/data/repos"
	"github.com/yungbote/speaking-practice-backend/internal/domain/progress"
	"github.com/yungbote/speaking-practice-backend/internal/platform/dbctx"
	"github.com/yungbote/speaking-practice-backend/internal/platform/logger"
)

var ErrInvalidPeriod = errors.New("invalid analytics period")

type StreakAnalyticsReport struct {
	Year             int `json:"year"`
	Month            int `json:"month"`
	CurrentStreak    int `json:"current_streak"`
	LongestStreak    int `json:"longest_streak"`
	OffDays          int `json:"off_days"`
	ThisMonth        int `json:"this_month"`
	TotalCompletions int `json:"total_completions"`

	CalendarDays    []analytics.CalendarDay     `json:"calendar_days"`
	YearlyHeatmap   []analytics.HeatmapEntry    `json:"yearly_heatmap"`
	StreakHistory   []analytics.StreakSegment   `json:"streak_history"`
	WeeklyPattern   []analytics.WeekdayTotal    `json:"weekly_pattern"`
	MonthlyProgress []analytics.MonthTotal      `json:"monthly_progress"`
	TimeOfDay       []analytics.TimeOfDayBucket `json:"time_of_day"`
}

type StreakAnalytics interface {
	// Report projects the analytics views for the requested month. A zero
	// year or month selects the current one.
	Report(ctx context.Context, userID uuid.UUID, year, month int) (*StreakAnalyticsReport, error)
}

type streakAnalytics struct {
	log      *logger.Logger
	activity repos.ActivityEntryRepo
	streaks  repos.StreakRepo
	clock    progress.Clock
	group    singleflight.Group
}

func NewStreakAnalytics(log *logger.Logger, activity repos.ActivityEntryRepo, streaks repos.StreakRepo, clock progress.Clock) StreakAnalytics {
	if log == nil {
		log = logger.Nop()
	}
	if clock == nil {
		clock = progress.NewClock(time.UTC)
	}
	return &streakAnalytics{
		log:      log.With("service", "StreakAnalytics"),
		activity: activity,
		streaks:  streaks,
		clock:    clock,
	}
}

func (s *streakAnalytics) Report(ctx context.Context, userID uuid.UUID, year, month int) (*StreakAnalyticsReport, error) {
	today := s.clock.Today()
	if year == 0 || month == 0 {
		t := progress.DayTime(today)
		year, month = t.Year(), int(t.Month())
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month %d", ErrInvalidPeriod, month)
	}
	if year < 1970 || year > 9999 {
		return nil, fmt.Errorf("%w: year %d", ErrInvalidPeriod, year)
	}

	key := fmt.Sprintf("%s:%04d-%02d:%s", userID, year, month, progress.FormatDay(today))
	v, err, _ := s.group.Do(key, func() (any, error) {
		// detached: the result is shared by every waiter on key
		return s.build(context.WithoutCancel(ctx), userID, year, time.Month(month), today)
	})
	if err != nil {
		return nil, err
	}
	return v.(*StreakAnalyticsReport), nil
}

func (s *streakAnalytics) build(ctx context.Context, userID uuid.UUID, year int, month time.Month, today datatypes.Date) (*StreakAnalyticsReport, error) {
	var (
		rows   []*progress.ActivityEntry
		streak *progress.Streak
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.activity.ListAll(dbctx.Context{Ctx: gctx}, userID)
		if err != nil {
			return fmt.Errorf("load activity: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		streak, err = s.streaks.Get(dbctx.Context{Ctx: gctx}, userID)
		if err != nil {
			return fmt.Errorf("load streak: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries := analytics.FromActivity(rows)
	out := &StreakAnalyticsReport{
		Year:             year,
		Month:            int(month),
		ThisMonth:        analytics.MonthTotalFor(entries, year, month),
		TotalCompletions: analytics.TotalCompletions(entries),
		CalendarDays:     analytics.CalendarDays(entries, year, month),
		YearlyHeatmap:    analytics.YearlyHeatmap(entries, today),
		StreakHistory:    analytics.StreakHistory(entries, today),
		WeeklyPattern:    analytics.WeeklyPattern(entries),
		MonthlyProgress:  analytics.MonthlyRollup(entries, today),
		TimeOfDay:        analytics.TimeOfDay(),
	}
	if streak != nil {
		out.CurrentStreak = streak.CurrentStreak
		out.LongestStreak = streak.LongestStreak
		out.OffDays = analytics.OffDays(entries, streak.LastActivityDate, today)
	}
	return out, nil
}
