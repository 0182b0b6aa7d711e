package practice

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/speaking-practice-backend/internal/domain"
	"github.com/yungbote/speaking-practice-backend/internal/platform/dbctx"
	"github.com/yungbote/speaking-practice-backend/internal/platform/logger"
)

type SubmissionRepo interface {
	Create(dbc dbctx.Context, s *types.Submission) error
	ListByUser(dbc dbctx.Context, userID uuid.UUID, limit, offset int) ([]*types.Submission, error)
	// ListByQuestion returns the user's attempts at one prompt, newest first.
	// questionID matches either a bank question or a custom question.
	ListByQuestion(dbc dbctx.Context, userID, questionID uuid.UUID) ([]*types.Submission, error)
	GetForUser(dbc dbctx.Context, userID, id uuid.UUID) (*types.Submission, error)
	CountByUser(dbc dbctx.Context, userID uuid.UUID) (int, error)
}

type submissionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubmissionRepo(db *gorm.DB, baseLog *logger.Logger) SubmissionRepo {
	return &submissionRepo{db: db, log: baseLog.With("repo", "SubmissionRepo")}
}

func (r *submissionRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *submissionRepo) Create(dbc dbctx.Context, s *types.Submission) error {
	return r.dbx(dbc).WithContext(dbc.Ctx).Create(s).Error
}

func (r *submissionRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, limit, offset int) ([]*types.Submission, error) {
	out := []*types.Submission{}
	if userID == uuid.Nil {
		return out, nil
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *submissionRepo) ListByQuestion(dbc dbctx.Context, userID, questionID uuid.UUID) ([]*types.Submission, error) {
	out := []*types.Submission{}
	if userID == uuid.Nil || questionID == uuid.Nil {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Where("question_id = ? OR user_question_id = ?", questionID, questionID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *submissionRepo) GetForUser(dbc dbctx.Context, userID, id uuid.UUID) (*types.Submission, error) {
	var out types.Submission
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

func (r *submissionRepo) CountByUser(dbc dbctx.Context, userID uuid.UUID) (int, error) {
	var n int64
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.Submission{}).
		Where("user_id = ?", userID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}
