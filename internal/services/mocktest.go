package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/speaking-practice-backend/internal/data/repos"
	"github.com/yungbote/speaking-practice-backend/internal/domain/practice"
	"github.com/yungbote/speaking-practice-backend/internal/platform/dbctx"
	"github.com/yungbote/speaking-practice-backend/internal/platform/logger"
)

var ErrMockTestNotFound = errors.New("mock test not found")

// questions drawn per section of a mock test
var mockTestDraw = map[practice.Category]int{
	practice.CategoryInterview:  4,
	practice.CategoryLongTurn:   1,
	practice.CategoryDiscussion: 4,
}

type MockTestService interface {
	Create(ctx context.Context, userID uuid.UUID, testType practice.MockTestType) (*practice.MockTest, error)
	List(ctx context.Context, userID uuid.UUID) ([]*practice.MockTest, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*practice.MockTest, error)
}

type mockTestService struct {
	db        *gorm.DB
	log       *logger.Logger
	tests     repos.MockTestRepo
	questions repos.QuestionRepo
}

func NewMockTestService(db *gorm.DB, log *logger.Logger, tests repos.MockTestRepo, questions repos.QuestionRepo) MockTestService {
	if log == nil {
		log = logger.Nop()
	}
	return &mockTestService{db: db, log: log.With("service", "MockTestService"), tests: tests, questions: questions}
}

func (s *mockTestService) Create(ctx context.Context, userID uuid.UUID, testType practice.MockTestType) (*practice.MockTest, error) {
	sections := testType.Categories()
	if len(sections) == 0 {
		return nil, fmt.Errorf("invalid test type %q", testType)
	}
	m := &practice.MockTest{UserID: userID, TestType: testType}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		order := 0
		for _, c := range sections {
			drawn, err := s.questions.Sample(dbc, c, mockTestDraw[c])
			if err != nil {
				return fmt.Errorf("draw part %d: %w", c, err)
			}
			for _, q := range drawn {
				id := q.ID
				m.Questions = append(m.Questions, practice.MockTestQuestion{
					QuestionID: &id,
					Category:   c,
					OrderIndex: order,
					Text:       q.Text,
				})
				order++
			}
		}
		return s.tests.Create(dbc, m)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Created mock test", "user_id", userID, "test_type", testType, "questions", len(m.Questions))
	return m, nil
}

func (s *mockTestService) List(ctx context.Context, userID uuid.UUID) ([]*practice.MockTest, error) {
	return s.tests.ListByUser(dbctx.Context{Ctx: ctx}, userID)
}

func (s *mockTestService) Get(ctx context.Context, userID, id uuid.UUID) (*practice.MockTest, error) {
	m, err := s.tests.GetForUser(dbctx.Context{Ctx: ctx}, userID, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMockTestNotFound
	}
	return m, nil
}
