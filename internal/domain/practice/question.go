package practice

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Question is an entry of the shared prompt pool.
type Question struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Category Category  `gorm:"column:category;not null;uniqueIndex:idx_question_category_text,priority:1" json:"part"`
	Topic    string    `gorm:"column:topic;not null;index" json:"topic"`
	Text     string    `gorm:"column:question_text;not null;uniqueIndex:idx_question_category_text,priority:2" json:"question_text"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Question) TableName() string { return "question" }

func (q *Question) BeforeCreate(*gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// UserQuestion is a prompt authored by a user for their own practice.
type UserQuestion struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Category Category  `gorm:"column:category;not null" json:"part"`
	Topic    string    `gorm:"column:topic" json:"topic"`
	Text     string    `gorm:"column:question_text;not null" json:"question_text"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (UserQuestion) TableName() string { return "user_question" }

func (q *UserQuestion) BeforeCreate(*gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
