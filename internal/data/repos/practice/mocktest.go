package practice

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/speaking-practice-backend/internal/domain"
	"github.com/yungbote/speaking-practice-backend/internal/platform/dbctx"
	"github.com/yungbote/speaking-practice-backend/internal/platform/logger"
)

type MockTestRepo interface {
	// Create stores the test together with its drawn questions.
	Create(dbc dbctx.Context, m *types.MockTest) error
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.MockTest, error)
	GetForUser(dbc dbctx.Context, userID, id uuid.UUID) (*types.MockTest, error)
}

type mockTestRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMockTestRepo(db *gorm.DB, baseLog *logger.Logger) MockTestRepo {
	return &mockTestRepo{db: db, log: baseLog.With("repo", "MockTestRepo")}
}

func (r *mockTestRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *mockTestRepo) Create(dbc dbctx.Context, m *types.MockTest) error {
	return r.dbx(dbc).WithContext(dbc.Ctx).Create(m).Error
}

func (r *mockTestRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.MockTest, error) {
	out := []*types.MockTest{}
	if userID == uuid.Nil {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mockTestRepo) GetForUser(dbc dbctx.Context, userID, id uuid.UUID) (*types.MockTest, error) {
	var out types.MockTest
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Preload("Questions", func(tx *gorm.DB) *gorm.DB { return tx.Order("order_index ASC") }).
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
