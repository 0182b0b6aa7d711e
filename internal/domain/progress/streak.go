package progress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Streak holds consecutive-day continuity for one user.
// FrozenStreak is reserved for streak freezes and never decremented here.
type Streak struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	CurrentStreak    int             `gorm:"column:current_streak;not null;default:0" json:"current_streak"`
	LongestStreak    int             `gorm:"column:longest_streak;not null;default:0" json:"longest_streak"`
	FrozenStreak     int             `gorm:"column:frozen_streak;not null;default:0" json:"frozen_streak"`
	LastActivityDate *datatypes.Date `gorm:"column:last_activity_date" json:"last_activity_date"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (Streak) TableName() string { return "streak" }

func (s *Streak) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type StreakStep string

const (
	StreakStarted   StreakStep = "started"
	StreakExtended  StreakStep = "extended"
	StreakReset     StreakStep = "reset"
	StreakSameDay   StreakStep = "same_day"
	StreakBackdated StreakStep = "backdated"
)

// RecordActivity applies one day of activity to the streak.
//
// A day before LastActivityDate leaves the streak untouched, so the last
// activity date never moves backwards.
func (s *Streak) RecordActivity(day datatypes.Date) StreakStep {
	var step StreakStep
	if s.LastActivityDate == nil {
		s.CurrentStreak = 1
		step = StreakStarted
	} else {
		switch gap := DaysBetween(*s.LastActivityDate, day); {
		case gap < 0:
			return StreakBackdated
		case gap == 0:
			step = StreakSameDay
		case gap == 1:
			s.CurrentStreak++
			step = StreakExtended
		default:
			s.CurrentStreak = 1
			step = StreakReset
		}
	}
	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}
	d := day
	s.LastActivityDate = &d
	return step
}
