package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the local mirror of an identity issued elsewhere. Rows are created
// the first time a verified token for the subject is seen.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email       string    `gorm:"column:email;index" json:"email"`
	DisplayName string    `gorm:"column:display_name" json:"display_name"`
	IsPremium   bool      `gorm:"column:is_premium;not null;default:false" json:"is_premium"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "user" }

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
