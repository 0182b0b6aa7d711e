package progress

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/speaking-practice-backend/internal/domain"
	"github.com/yungbote/speaking-practice-backend/internal/platform/dbctx"
	"github.com/yungbote/speaking-practice-backend/internal/platform/logger"
)

type DailyCountRepo interface {
	// Increment atomically creates the (user, day) row with count 1 or adds one to it.
	Increment(dbc dbctx.Context, userID uuid.UUID, day datatypes.Date, target int) (*types.DailyCount, error)
	Get(dbc dbctx.Context, userID uuid.UUID, day datatypes.Date) (*types.DailyCount, error)
	// GetOrCreate returns the row for the day, creating it with count 0 when absent.
	GetOrCreate(dbc dbctx.Context, userID uuid.UUID, day datatypes.Date, target int) (*types.DailyCount, error)
}

type dailyCountRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDailyCountRepo(db *gorm.DB, baseLog *logger.Logger) DailyCountRepo {
	return &dailyCountRepo{db: db, log: baseLog.With("repo", "DailyCountRepo")}
}

func (r *dailyCountRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *dailyCountRepo) Increment(dbc dbctx.Context, userID uuid.UUID, day datatypes.Date, target int) (*types.DailyCount, error) {
	now := time.Now().UTC()
	row := &types.DailyCount{
		UserID:        userID,
		PracticeDate:  day,
		PracticeCount: 1,
		TargetCount:   target,
		UpdatedAt:     now,
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "practice_date"}},
			DoUpdates: clause.Assignments(map[string]any{
				"practice_count": gorm.Expr("daily_count.practice_count + 1"),
				"updated_at":     now,
			}),
		}).
		Create(row).Error; err != nil {
		return nil, err
	}
	return r.Get(dbc, userID, day)
}

func (r *dailyCountRepo) Get(dbc dbctx.Context, userID uuid.UUID, day datatypes.Date) (*types.DailyCount, error) {
	var out types.DailyCount
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND practice_date = ?", userID, day).
		Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *dailyCountRepo) GetOrCreate(dbc dbctx.Context, userID uuid.UUID, day datatypes.Date, target int) (*types.DailyCount, error) {
	existing, err := r.Get(dbc, userID, day)
	if err != nil || existing != nil {
		return existing, err
	}
	row := &types.DailyCount{
		UserID:       userID,
		PracticeDate: day,
		TargetCount:  target,
		UpdatedAt:    time.Now().UTC(),
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "practice_date"}},
			DoNothing: true,
		}).
		Create(row).Error; err != nil {
		return nil, err
	}
	return r.Get(dbc, userID, day)
}
