package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/speaking-practice-backend/internal/data/repos"
	"github.com/yungbote/speaking-practice-backend/internal/domain/practice"
	"github.com/yungbote/speaking-practice-backend/internal/platform/dbctx"
	"github.com/yungbote/speaking-practice-backend/internal/platform/logger"
)

var ErrQuestionTextEmpty = errors.New("question text is required")

type CreateUserQuestionInput struct {
	UserID   uuid.UUID
	Category practice.Category
	Topic    string
	Text     string
}

type QuestionService interface {
	List(ctx context.Context, filter repos.QuestionFilter) ([]*practice.Question, error)
	Topics(ctx context.Context, category *practice.Category) ([]string, error)
	Get(ctx context.Context, id uuid.UUID) (*practice.Question, error)

	ListUserQuestions(ctx context.Context, userID uuid.UUID, category *practice.Category) ([]*practice.UserQuestion, error)
	CreateUserQuestion(ctx context.Context, in CreateUserQuestionInput) (*practice.UserQuestion, error)
	DeleteUserQuestion(ctx context.Context, userID, id uuid.UUID) error
}

type questionService struct {
	log           *logger.Logger
	questions     repos.QuestionRepo
	userQuestions repos.UserQuestionRepo
}

func NewQuestionService(log *logger.Logger, questions repos.QuestionRepo, userQuestions repos.UserQuestionRepo) QuestionService {
	if log == nil {
		log = logger.Nop()
	}
	return &questionService{
		log:           log.With("service", "QuestionService"),
		questions:     questions,
		userQuestions: userQuestions,
	}
}

func (s *questionService) List(ctx context.Context, filter repos.QuestionFilter) ([]*practice.Question, error) {
	return s.questions.List(dbctx.Context{Ctx: ctx}, filter)
}

func (s *questionService) Topics(ctx context.Context, category *practice.Category) ([]string, error) {
	return s.questions.ListTopics(dbctx.Context{Ctx: ctx}, category)
}

func (s *questionService) Get(ctx context.Context, id uuid.UUID) (*practice.Question, error) {
	q, err := s.questions.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, ErrQuestionNotFound
	}
	return q, nil
}

func (s *questionService) ListUserQuestions(ctx context.Context, userID uuid.UUID, category *practice.Category) ([]*practice.UserQuestion, error) {
	return s.userQuestions.ListByUser(dbctx.Context{Ctx: ctx}, userID, category)
}

func (s *questionService) CreateUserQuestion(ctx context.Context, in CreateUserQuestionInput) (*practice.UserQuestion, error) {
	if !in.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrQuestionTextEmpty
	}
	q := &practice.UserQuestion{
		UserID:   in.UserID,
		Category: in.Category,
		Topic:    strings.TrimSpace(in.Topic),
		Text:     text,
	}
	if err := s.userQuestions.Create(dbctx.Context{Ctx: ctx}, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *questionService) DeleteUserQuestion(ctx context.Context, userID, id uuid.UUID) error {
	ok, err := s.userQuestions.DeleteForUser(dbctx.Context{Ctx: ctx}, userID, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrQuestionNotFound
	}
	return nil
}
