package practice

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MockTestType string

const (
	MockTestPart1 MockTestType = "PART1"
	MockTestPart2 MockTestType = "PART2"
	MockTestPart3 MockTestType = "PART3"
	MockTestFull  MockTestType = "FULL"
)

func ParseMockTestType(raw string) (MockTestType, error) {
	t := MockTestType(strings.ToUpper(strings.TrimSpace(raw)))
	switch t {
	case MockTestPart1, MockTestPart2, MockTestPart3, MockTestFull:
		return t, nil
	default:
		return "", fmt.Errorf("invalid test type %q", raw)
	}
}

// Categories lists the sections a mock test of this type covers.
func (t MockTestType) Categories() []Category {
	switch t {
	case MockTestPart1:
		return []Category{CategoryInterview}
	case MockTestPart2:
		return []Category{CategoryLongTurn}
	case MockTestPart3:
		return []Category{CategoryDiscussion}
	case MockTestFull:
		return Categories
	default:
		return nil
	}
}

type MockTest struct {
	ID       uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"user_id"`
	TestType MockTestType `gorm:"column:test_type;not null" json:"test_type"`

	FluencyScore       *Score `gorm:"column:fluency_score;type:numeric(3,1)" json:"fluency_score"`
	VocabularyScore    *Score `gorm:"column:vocabulary_score;type:numeric(3,1)" json:"vocabulary_score"`
	GrammarScore       *Score `gorm:"column:grammar_score;type:numeric(3,1)" json:"grammar_score"`
	PronunciationScore *Score `gorm:"column:pronunciation_score;type:numeric(3,1)" json:"pronunciation_score"`
	Feedback           string `gorm:"column:feedback;type:text" json:"feedback"`

	Questions []MockTestQuestion `gorm:"foreignKey:MockTestID" json:"questions,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (MockTest) TableName() string { return "mock_test" }

func (m *MockTest) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// MockTestQuestion is one drawn prompt of a mock test, in presentation order.
type MockTestQuestion struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	MockTestID uuid.UUID  `gorm:"type:uuid;not null;index" json:"mock_test_id"`
	QuestionID *uuid.UUID `gorm:"type:uuid" json:"question_id,omitempty"`
	Category   Category   `gorm:"column:category;not null" json:"part"`
	OrderIndex int        `gorm:"column:order_index;not null" json:"order_index"`
	Text       string     `gorm:"column:question_text;type:text" json:"question_text"`
}

func (MockTestQuestion) TableName() string { return "mock_test_question" }

func (q *MockTestQuestion) BeforeCreate(*gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
