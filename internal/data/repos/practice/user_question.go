package practice

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/speaking-practice-backend/internal/domain"
	"github.com/yungbote/speaking-practice-backend/internal/platform/dbctx"
	"github.com/yungbote/speaking-practice-backend/internal/platform/logger"
)

type UserQuestionRepo interface {
	Create(dbc dbctx.Context, q *types.UserQuestion) error
	ListByUser(dbc dbctx.Context, userID uuid.UUID, category *types.Category) ([]*types.UserQuestion, error)
	GetForUser(dbc dbctx.Context, userID, id uuid.UUID) (*types.UserQuestion, error)
	DeleteForUser(dbc dbctx.Context, userID, id uuid.UUID) (bool, error)
}

type userQuestionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserQuestionRepo(db *gorm.DB, baseLog *logger.Logger) UserQuestionRepo {
	return &userQuestionRepo{db: db, log: baseLog.With("repo", "UserQuestionRepo")}
}

func (r *userQuestionRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *userQuestionRepo) Create(dbc dbctx.Context, q *types.UserQuestion) error {
	return r.dbx(dbc).WithContext(dbc.Ctx).Create(q).Error
}

func (r *userQuestionRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, category *types.Category) ([]*types.UserQuestion, error) {
	out := []*types.UserQuestion{}
	if userID == uuid.Nil {
		return out, nil
	}
	q := r.dbx(dbc).WithContext(dbc.Ctx).Where("user_id = ?", userID)
	if category != nil {
		q = q.Where("category = ?", *category)
	}
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *userQuestionRepo) GetForUser(dbc dbctx.Context, userID, id uuid.UUID) (*types.UserQuestion, error) {
	var out types.UserQuestion
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *userQuestionRepo) DeleteForUser(dbc dbctx.Context, userID, id uuid.UUID) (bool, error) {
	res := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&types.UserQuestion{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
