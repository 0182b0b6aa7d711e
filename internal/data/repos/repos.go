package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/speaking-practice-backend/internal/data/repos/practice"
	"github.com/yungbote/speaking-practice-backend/internal/data/repos/progress"
	"github.com/yungbote/speaking-practice-backend/internal/data/repos/user"
	"github.com/yungbote/speaking-practice-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo

type QuestionRepo = practice.QuestionRepo
type QuestionFilter = practice.QuestionFilter
type UserQuestionRepo = practice.UserQuestionRepo
type SubmissionRepo = practice.SubmissionRepo
type MockTestRepo = practice.MockTestRepo

type DailyCountRepo = progress.DailyCountRepo
type ActivityEntryRepo = progress.ActivityEntryRepo
type CategoryProgressRepo = progress.CategoryProgressRepo
type StreakRepo = progress.StreakRepo

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo { return user.NewUserRepo(db, log) }

func NewQuestionRepo(db *gorm.DB, log *logger.Logger) QuestionRepo {
	return practice.NewQuestionRepo(db, log)
}
func NewUserQuestionRepo(db *gorm.DB, log *logger.Logger) UserQuestionRepo {
	return practice.NewUserQuestionRepo(db, log)
}
func NewSubmissionRepo(db *gorm.DB, log *logger.Logger) SubmissionRepo {
	return practice.NewSubmissionRepo(db, log)
}
func NewMockTestRepo(db *gorm.DB, log *logger.Logger) MockTestRepo {
	return practice.NewMockTestRepo(db, log)
}

func NewDailyCountRepo(db *gorm.DB, log *logger.Logger) DailyCountRepo {
	return progress.NewDailyCountRepo(db, log)
}
func NewActivityEntryRepo(db *gorm.DB, log *logger.Logger) ActivityEntryRepo {
	return progress.NewActivityEntryRepo(db, log)
}
func NewCategoryProgressRepo(db *gorm.DB, log *logger.Logger) CategoryProgressRepo {
	return progress.NewCategoryProgressRepo(db, log)
}
func NewStreakRepo(db *gorm.DB, log *logger.Logger) StreakRepo {
	return progress.NewStreakRepo(db, log)
}
