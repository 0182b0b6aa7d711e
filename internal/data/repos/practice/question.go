package practice

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/speaking-practice-backend/internal/domain"
	"github.com/yungbote/speaking-practice-backend/internal/platform/dbctx"
	"github.com/yungbote/speaking-practice-backend/internal/platform/logger"
)

type QuestionFilter struct {
	Category *types.Category
	Topic    string
}

type QuestionRepo interface {
	List(dbc dbctx.Context, filter QuestionFilter) ([]*types.Question, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Question, error)
	ListTopics(dbc dbctx.Context, category *types.Category) ([]string, error)
	CountByCategory(dbc dbctx.Context, category types.Category) (int, error)
	// Sample draws up to n questions of one category in random order.
	Sample(dbc dbctx.Context, category types.Category, n int) ([]*types.Question, error)
	// InsertMissing adds questions whose (category, text) pair is not stored yet
	// and returns how many rows were written.
	InsertMissing(dbc dbctx.Context, questions []*types.Question) (int, error)
}

type questionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return &questionRepo{db: db, log: baseLog.With("repo", "QuestionRepo")}
}

func (r *questionRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *questionRepo) List(dbc dbctx.Context, filter QuestionFilter) ([]*types.Question, error) {
	out := []*types.Question{}
	q := r.dbx(dbc).WithContext(dbc.Ctx).Model(&types.Question{})
	if filter.Category != nil {
		q = q.Where("category = ?", *filter.Category)
	}
	if topic := strings.TrimSpace(filter.Topic); topic != "" {
		q = q.Where("topic = ?", topic)
	}
	if err := q.Order("category ASC, topic ASC, created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *questionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Question, error) {
	var out types.Question
	err := r.dbx(dbc).WithContext(dbc.Ctx).Where("id = ?", id).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *questionRepo) ListTopics(dbc dbctx.Context, category *types.Category) ([]string, error) {
	out := []string{}
	q := r.dbx(dbc).WithContext(dbc.Ctx).Model(&types.Question{}).Distinct("topic")
	if category != nil {
		q = q.Where("category = ?", *category)
	}
	if err := q.Order("topic ASC").Pluck("topic", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *questionRepo) CountByCategory(dbc dbctx.Context, category types.Category) (int, error) {
	var n int64
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.Question{}).
		Where("category = ?", category).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *questionRepo) Sample(dbc dbctx.Context, category types.Category, n int) ([]*types.Question, error) {
	out := []*types.Question{}
	if n <= 0 {
		return out, nil
	}
	// RANDOM() exists in both Postgres and SQLite.
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("category = ?", category).
		Order("RANDOM()").
		Limit(n).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *questionRepo) InsertMissing(dbc dbctx.Context, questions []*types.Question) (int, error) {
	if len(questions) == 0 {
		return 0, nil
	}
	res := r.dbx(dbc).WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "category"}, {Name: "question_text"}},
			DoNothing: true,
		}).
		CreateInBatches(questions, 100)
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}
