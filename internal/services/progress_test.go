package services

import (
	"testing"

	"github.com/yungbote/speaking-practice-backend/internal/data/repos/testutil"
	"github.com/yungbote/speaking-practice-backend/internal/domain/practice"
	"github.com/yungbote/speaking-practice-backend/internal/domain/progress"
	"github.com/yungbote/speaking-practice-backend/internal/platform/dbctx"
)

func newTestProgressService(env *testEnv, today string, t *testing.T) ProgressService {
	return NewProgressService(ProgressServiceDeps{
		Log:        env.log,
		Daily:      env.daily,
		Activity:   env.activity,
		Categories: env.categories,
		Streaks:    env.streaks,
		Questions:  env.questions,
		Clock:      progress.FixedClock(mustDay(t, today)),
	})
}

func TestProgressViewsStartEmpty(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.SeedUser(t, bg, env.db, "p@example.com")
	testutil.SeedQuestions(t, bg, env.db, practice.CategoryInterview, "Home", 3)
	svc := newTestProgressService(env, "2024-03-10", t)

	daily, err := svc.Daily(bg, user.ID)
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	if daily.PracticeCount != 0 || daily.TargetCount != progress.DefaultDailyTarget {
		t.Fatalf("Daily: want=0/%d got=%d/%d", progress.DefaultDailyTarget, daily.PracticeCount, daily.TargetCount)
	}

	streak, err := svc.Streak(bg, user.ID)
	if err != nil {
		t.Fatalf("Streak: %v", err)
	}
	if streak.CurrentStreak != 0 || streak.LastActivityDate != nil {
		t.Fatalf("Streak: got=%+v", streak)
	}

	rows, err := svc.CategoryProgress(bg, user.ID)
	if err != nil {
		t.Fatalf("CategoryProgress: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("CategoryProgress: want=3 rows got=%d", len(rows))
	}
	for _, r := range rows {
		want := 0
		if r.Category == practice.CategoryInterview {
			want = 3
		}
		if r.CompletedCount != 0 || r.TotalCount != want {
			t.Fatalf("category %d: want=0/%d got=%d/%d", r.Category, want, r.CompletedCount, r.TotalCount)
		}
	}

	again, err := svc.CategoryProgress(bg, user.ID)
	if err != nil || len(again) != 3 {
		t.Fatalf("CategoryProgress second call: len=%d err=%v", len(again), err)
	}
}

func TestActivityCalendarWindow(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.SeedUser(t, bg, env.db, "q@example.com")
	dbc := dbctx.Context{Ctx: bg}
	for _, day := range []string{"2023-01-01", "2023-09-13", "2024-03-09", "2024-03-10"} {
		if _, err := env.activity.Increment(dbc, user.ID, mustDay(t, day)); err != nil {
			t.Fatalf("Increment(%s): %v", day, err)
		}
	}
	svc := newTestProgressService(env, "2024-03-10", t)

	rows, err := svc.ActivityCalendar(bg, user.ID)
	if err != nil {
		t.Fatalf("ActivityCalendar: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("ActivityCalendar: want=3 got=%d", len(rows))
	}
	if got := progress.FormatDay(rows[0].PracticeDate); got != "2023-09-13" {
		t.Fatalf("first row: want=2023-09-13 got=%s", got)
	}
}
