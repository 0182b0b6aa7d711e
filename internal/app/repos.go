package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/speaking-practice-backend/internal/data/repos"
	"github.com/yungbote/speaking-practice-backend/internal/platform/logger"
)

type Repos struct {
	User             repos.UserRepo
	Question         repos.QuestionRepo
	UserQuestion     repos.UserQuestionRepo
	Submission       repos.SubmissionRepo
	MockTest         repos.MockTestRepo
	DailyCount       repos.DailyCountRepo
	ActivityEntry    repos.ActivityEntryRepo
	CategoryProgress repos.CategoryProgressRepo
	Streak           repos.StreakRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:             repos.NewUserRepo(db, log),
		Question:         repos.NewQuestionRepo(db, log),
		UserQuestion:     repos.NewUserQuestionRepo(db, log),
		Submission:       repos.NewSubmissionRepo(db, log),
		MockTest:         repos.NewMockTestRepo(db, log),
		DailyCount:       repos.NewDailyCountRepo(db, log),
		ActivityEntry:    repos.NewActivityEntryRepo(db, log),
		CategoryProgress: repos.NewCategoryProgressRepo(db, log),
		Streak:           repos.NewStreakRepo(db, log),
	}
}
