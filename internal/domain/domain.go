package domain

import (
	"github.com/yungbote/speaking-practice-backend/internal/domain/practice"
	"github.com/yungbote/speaking-practice-backend/internal/domain/progress"
	"github.com/yungbote/speaking-practice-backend/internal/domain/user"
)

const DefaultDailyTarget = progress.DefaultDailyTarget

type User = user.User

type Category = practice.Category
type Score = practice.Score
type Correction = practice.Correction
type AssessmentStatus = practice.AssessmentStatus
type Submission = practice.Submission
type Question = practice.Question
type UserQuestion = practice.UserQuestion
type MockTest = practice.MockTest
type MockTestQuestion = practice.MockTestQuestion
type MockTestType = practice.MockTestType

type DailyCount = progress.DailyCount
type ActivityEntry = progress.ActivityEntry
type CategoryProgress = progress.CategoryProgress
type Streak = progress.Streak

// Models lists every persisted type in migration order.
func Models() []any {
	return []any{
		&User{},
		&Question{},
		&UserQuestion{},
		&Submission{},
		&MockTest{},
		&MockTestQuestion{},
		&DailyCount{},
		&ActivityEntry{},
		&CategoryProgress{},
		&Streak{},
	}
}
