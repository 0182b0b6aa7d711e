package progress

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/speaking-practice-backend/internal/domain"
	"github.com/yungbote/speaking-practice-backend/internal/platform/dbctx"
	"github.com/yungbote/speaking-practice-backend/internal/platform/logger"
)

type ActivityEntryRepo interface {
	Increment(dbc dbctx.Context, userID uuid.UUID, day datatypes.Date) (*types.ActivityEntry, error)
	// ListRange returns entries with from <= date <= to, oldest first.
	ListRange(dbc dbctx.Context, userID uuid.UUID, from, to datatypes.Date) ([]*types.ActivityEntry, error)
	ListAll(dbc dbctx.Context, userID uuid.UUID) ([]*types.ActivityEntry, error)
}

type activityEntryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivityEntryRepo(db *gorm.DB, baseLog *logger.Logger) ActivityEntryRepo {
	return &activityEntryRepo{db: db, log: baseLog.With("repo", "ActivityEntryRepo")}
}

func (r *activityEntryRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *activityEntryRepo) Increment(dbc dbctx.Context, userID uuid.UUID, day datatypes.Date) (*types.ActivityEntry, error) {
	row := &types.ActivityEntry{
		UserID:        userID,
		PracticeDate:  day,
		PracticeCount: 1,
	}
	db := r.dbx(dbc).WithContext(dbc.Ctx)
	if err := db.
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "practice_date"}},
			DoUpdates: clause.Assignments(map[string]any{
				"practice_count": gorm.Expr("activity_entry.practice_count + 1"),
			}),
		}).
		Create(row).Error; err != nil {
		return nil, err
	}
	var out types.ActivityEntry
	if err := db.Where("user_id = ? AND practice_date = ?", userID, day).Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *activityEntryRepo) ListRange(dbc dbctx.Context, userID uuid.UUID, from, to datatypes.Date) ([]*types.ActivityEntry, error) {
	out := []*types.ActivityEntry{}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND practice_date >= ? AND practice_date <= ?", userID, from, to).
		Order("practice_date ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *activityEntryRepo) ListAll(dbc dbctx.Context, userID uuid.UUID) ([]*types.ActivityEntry, error) {
	out := []*types.ActivityEntry{}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("practice_date ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
