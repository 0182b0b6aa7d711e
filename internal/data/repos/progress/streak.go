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

type StreakRepo interface {
	// GetForUpdate reads the user's streak, row-locked on engines that support it.
	// It returns nil when the user has no streak row yet.
	GetForUpdate(dbc dbctx.Context, userID uuid.UUID) (*types.Streak, error)
	Get(dbc dbctx.Context, userID uuid.UUID) (*types.Streak, error)
	Create(dbc dbctx.Context, s *types.Streak) error
	Save(dbc dbctx.Context, s *types.Streak) error
	// GetOrCreate returns the streak, creating an empty one when absent.
	GetOrCreate(dbc dbctx.Context, userID uuid.UUID) (*types.Streak, error)
}

type streakRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStreakRepo(db *gorm.DB, baseLog *logger.Logger) StreakRepo {
	return &streakRepo{db: db, log: baseLog.With("repo", "StreakRepo")}
}

func (r *streakRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *streakRepo) GetForUpdate(dbc dbctx.Context, userID uuid.UUID) (*types.Streak, error) {
	q := r.dbx(dbc).WithContext(dbc.Ctx)
	// SQLite has no row locks; its single writer already serializes.
	if q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return r.take(q, userID)
}

func (r *streakRepo) Get(dbc dbctx.Context, userID uuid.UUID) (*types.Streak, error) {
	return r.take(r.dbx(dbc).WithContext(dbc.Ctx), userID)
}

func (r *streakRepo) take(q *gorm.DB, userID uuid.UUID) (*types.Streak, error) {
	var out types.Streak
	err := q.Where("user_id = ?", userID).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *streakRepo) Create(dbc dbctx.Context, s *types.Streak) error {
	s.UpdatedAt = time.Now().UTC()
	return r.dbx(dbc).WithContext(dbc.Ctx).Create(s).Error
}

func (r *streakRepo) Save(dbc dbctx.Context, s *types.Streak) error {
	if s == nil || s.ID == uuid.Nil {
		return errors.New("streak row without id")
	}
	s.UpdatedAt = time.Now().UTC()
	return r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.Streak{}).
		Where("id = ?", s.ID).
		UpdateColumns(map[string]any{
			"current_streak":     s.CurrentStreak,
			"longest_streak":     s.LongestStreak,
			"last_activity_date": s.LastActivityDate,
			"updated_at":         s.UpdatedAt,
		}).Error
}

func (r *streakRepo) GetOrCreate(dbc dbctx.Context, userID uuid.UUID) (*types.Streak, error) {
	existing, err := r.Get(dbc, userID)
	if err != nil || existing != nil {
		return existing, err
	}
	row := &types.Streak{UserID: userID, UpdatedAt: time.Now().UTC()}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(row).Error; err != nil {
		return nil, err
	}
	return r.Get(dbc, userID)
}
