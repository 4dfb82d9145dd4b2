package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Badge is unique per (user, year_earned) and never updated after insert.
type Badge struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_badge_user_year" json:"user_id"`
	BadgeType          BadgeType `gorm:"column:badge_type;not null;index" json:"badge_type"`
	YearEarned         int       `gorm:"column:year_earned;not null;uniqueIndex:idx_badge_user_year;index" json:"year_earned"`
	HoursCompleted     float64   `gorm:"column:hours_completed;not null" json:"hours_completed"`
	TrainingsCompleted int       `gorm:"column:trainings_completed;not null" json:"trainings_completed"`
	AwardedAt          time.Time `gorm:"column:awarded_at;not null" json:"awarded_at"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Badge) TableName() string { return "badge" }

func (b *Badge) BeforeCreate(tx *gorm.DB) error {
	ensureID(&b.ID)
	return nil
}
