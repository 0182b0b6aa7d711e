package progress

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/speaking-practice-backend/internal/data/repos/testutil"
	"github.com/yungbote/speaking-practice-backend/internal/domain/practice"
	domainprogress "github.com/yungbote/speaking-practice-backend/internal/domain/progress"
	"github.com/yungbote/speaking-practice-backend/internal/platform/dbctx"
)

func TestDailyCountIncrementUpserts(t *testing.T) {
	db := testutil.DB(t)
	repo := NewDailyCountRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}
	userID := uuid.New()
	day, _ := domainprogress.ParseDay("2024-05-01")

	for i := 1; i <= 3; i++ {
		row, err := repo.Increment(dbc, userID, day, domainprogress.DefaultDailyTarget)
		if err != nil {
			t.Fatalf("Increment #%d: %v", i, err)
		}
		if row.PracticeCount != i {
			t.Fatalf("Increment #%d: want=%d got=%d", i, i, row.PracticeCount)
		}
		if row.TargetCount != domainprogress.DefaultDailyTarget {
			t.Fatalf("target: want=%d got=%d", domainprogress.DefaultDailyTarget, row.TargetCount)
		}
	}

	var n int64
	if err := db.Model(&domainprogress.DailyCount{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if n != 1 {
		t.Fatalf("rows per (user, day): want=1 got=%d", n)
	}
}

func TestDailyCountGetOrCreateStartsAtZero(t *testing.T) {
	db := testutil.DB(t)
	repo := NewDailyCountRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}
	day, _ := domainprogress.ParseDay("2024-05-02")

	row, err := repo.GetOrCreate(dbc, uuid.New(), day, domainprogress.DefaultDailyTarget)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if row.PracticeCount != 0 || row.TargetCount != 25 {
		t.Fatalf("GetOrCreate: want=0/25 got=%d/%d", row.PracticeCount, row.TargetCount)
	}
}

func TestActivityEntryListRange(t *testing.T) {
	db := testutil.DB(t)
	repo := NewActivityEntryRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}
	userID := uuid.New()

	for _, raw := range []string{"2024-04-28", "2024-05-01", "2024-05-01", "2024-05-09"} {
		day, _ := domainprogress.ParseDay(raw)
		if _, err := repo.Increment(dbc, userID, day); err != nil {
			t.Fatalf("Increment(%s): %v", raw, err)
		}
	}
	from, _ := domainprogress.ParseDay("2024-05-01")
	to, _ := domainprogress.ParseDay("2024-05-31")
	rows, err := repo.ListRange(dbc, userID, from, to)
	if err != nil {
		t.Fatalf("ListRange: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("ListRange: want=2 got=%d", len(rows))
	}
	if domainprogress.FormatDay(rows[0].PracticeDate) != "2024-05-01" || rows[0].PracticeCount != 2 {
		t.Fatalf("first row: got=%s/%d", domainprogress.FormatDay(rows[0].PracticeDate), rows[0].PracticeCount)
	}
}

func TestCategoryProgressSnapshotsTotalOnce(t *testing.T) {
	db := testutil.DB(t)
	repo := NewCategoryProgressRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}
	userID := uuid.New()

	ok, err := repo.IncrementExisting(dbc, userID, practice.CategoryLongTurn)
	if err != nil || ok {
		t.Fatalf("IncrementExisting on empty: want=false got=%v err=%v", ok, err)
	}
	if err := repo.CreateFirst(dbc, userID, practice.CategoryLongTurn, 12); err != nil {
		t.Fatalf("CreateFirst: %v", err)
	}
	// a racing first insert must not reset the snapshot
	if err := repo.CreateFirst(dbc, userID, practice.CategoryLongTurn, 99); err != nil {
		t.Fatalf("CreateFirst conflict: %v", err)
	}
	ok, err = repo.IncrementExisting(dbc, userID, practice.CategoryLongTurn)
	if err != nil || !ok {
		t.Fatalf("IncrementExisting: want=true got=%v err=%v", ok, err)
	}

	row, err := repo.Get(dbc, userID, practice.CategoryLongTurn)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if row.CompletedCount != 3 || row.TotalCount != 12 {
		t.Fatalf("row: want=3/12 got=%d/%d", row.CompletedCount, row.TotalCount)
	}
}

func TestStreakGetOrCreate(t *testing.T) {
	db := testutil.DB(t)
	repo := NewStreakRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}
	userID := uuid.New()

	s, err := repo.GetOrCreate(dbc, userID)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if s.CurrentStreak != 0 || s.LastActivityDate != nil {
		t.Fatalf("new streak: got=%+v", s)
	}

	day, _ := domainprogress.ParseDay("2024-05-03")
	s.RecordActivity(day)
	if err := repo.Save(dbc, s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := repo.GetForUpdate(dbc, userID)
	if err != nil {
		t.Fatalf("GetForUpdate: %v", err)
	}
	if got.CurrentStreak != 1 || got.LastActivityDate == nil || domainprogress.FormatDay(*got.LastActivityDate) != "2024-05-03" {
		t.Fatalf("saved streak: got=%+v", got)
	}
}
