package progress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/speaking-practice-backend/internal/domain/practice"
)

const DefaultDailyTarget = 25

// DailyCount is the per-day completion counter compared against a target.
type DailyCount struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_daily_count_user_date,priority:1" json:"user_id"`
	PracticeDate  datatypes.Date `gorm:"column:practice_date;not null;uniqueIndex:idx_daily_count_user_date,priority:2" json:"date"`
	PracticeCount int            `gorm:"column:practice_count;not null;default:0" json:"practice_count"`
	TargetCount   int            `gorm:"column:target_count;not null;default:25" json:"target_count"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (DailyCount) TableName() string { return "daily_count" }

func (d *DailyCount) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// ActivityEntry is the activity log row the analytics views are derived from.
// It is kept independently of DailyCount even though both count the same events.
type ActivityEntry struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_activity_entry_user_date,priority:1" json:"user_id"`
	PracticeDate  datatypes.Date `gorm:"column:practice_date;not null;uniqueIndex:idx_activity_entry_user_date,priority:2" json:"date"`
	PracticeCount int            `gorm:"column:practice_count;not null;default:0" json:"practice_count"`
}

func (ActivityEntry) TableName() string { return "activity_entry" }

func (a *ActivityEntry) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// CategoryProgress tracks completions per category. TotalCount is the size of
// the question pool when the row was first created and is not refreshed.
type CategoryProgress struct {
	ID             uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_category_progress_user_category,priority:1" json:"user_id"`
	Category       practice.Category `gorm:"column:category;not null;uniqueIndex:idx_category_progress_user_category,priority:2" json:"part"`
	CompletedCount int               `gorm:"column:completed_count;not null;default:0" json:"completed_count"`
	TotalCount     int               `gorm:"column:total_count;not null;default:0" json:"total_count"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (CategoryProgress) TableName() string { return "category_progress" }

func (c *CategoryProgress) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
