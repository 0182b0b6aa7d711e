package progress

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/speaking-practice-backend/internal/domain"
	"github.com/yungbote/speaking-practice-backend/internal/platform/dbctx"
	"github.com/yungbote/speaking-practice-backend/internal/platform/logger"
)

type CategoryProgressRepo interface {
	// IncrementExisting adds one completion and reports false when no row exists.
	IncrementExisting(dbc dbctx.Context, userID uuid.UUID, category types.Category) (bool, error)
	// CreateFirst inserts the first completion with the snapshotted total.
	// A concurrent insert of the same row falls back to an increment.
	CreateFirst(dbc dbctx.Context, userID uuid.UUID, category types.Category, total int) error
	Get(dbc dbctx.Context, userID uuid.UUID, category types.Category) (*types.CategoryProgress, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.CategoryProgress, error)
	// CreateEmpty inserts a zero-completion row unless one exists.
	CreateEmpty(dbc dbctx.Context, userID uuid.UUID, category types.Category, total int) error
}

type categoryProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCategoryProgressRepo(db *gorm.DB, baseLog *logger.Logger) CategoryProgressRepo {
	return &categoryProgressRepo{db: db, log: baseLog.With("repo", "CategoryProgressRepo")}
}

func (r *categoryProgressRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *categoryProgressRepo) IncrementExisting(dbc dbctx.Context, userID uuid.UUID, category types.Category) (bool, error) {
	res := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.CategoryProgress{}).
		Where("user_id = ? AND category = ?", userID, category).
		UpdateColumns(map[string]any{
			"completed_count": gorm.Expr("completed_count + 1"),
			"updated_at":      time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *categoryProgressRepo) CreateFirst(dbc dbctx.Context, userID uuid.UUID, category types.Category, total int) error {
	now := time.Now().UTC()
	row := &types.CategoryProgress{
		UserID:         userID,
		Category:       category,
		CompletedCount: 1,
		TotalCount:     total,
		UpdatedAt:      now,
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "category"}},
			DoUpdates: clause.Assignments(map[string]any{
				"completed_count": gorm.Expr("category_progress.completed_count + 1"),
				"updated_at":      now,
			}),
		}).
		Create(row).Error
}

func (r *categoryProgressRepo) CreateEmpty(dbc dbctx.Context, userID uuid.UUID, category types.Category, total int) error {
	row := &types.CategoryProgress{
		UserID:     userID,
		Category:   category,
		TotalCount: total,
		UpdatedAt:  time.Now().UTC(),
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "category"}},
			DoNothing: true,
		}).
		Create(row).Error
}

func (r *categoryProgressRepo) Get(dbc dbctx.Context, userID uuid.UUID, category types.Category) (*types.CategoryProgress, error) {
	var out types.CategoryProgress
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND category = ?", userID, category).
		Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *categoryProgressRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.CategoryProgress, error) {
	out := []*types.CategoryProgress{}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("category ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
