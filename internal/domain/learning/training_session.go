package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TrainingSession is one scheduled instance of a training. SessionDate is a
// calendar date (see DateOnly); StartTime/EndTime are HH:MM strings.
type TrainingSession struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TrainingID          uuid.UUID `gorm:"type:uuid;not null;index" json:"training_id"`
	Training            *Training `gorm:"constraint:OnDelete:CASCADE;foreignKey:TrainingID;references:ID" json:"training,omitempty"`
	SessionDate         time.Time `gorm:"column:session_date;type:date;not null;index" json:"session_date"`
	StartTime           string    `gorm:"column:start_time;size:5;not null" json:"start_time"`
	EndTime             string    `gorm:"column:end_time;size:5;not null" json:"end_time"`
	Location            string    `gorm:"column:location" json:"location"`
	InstructorName      string    `gorm:"column:instructor_name" json:"instructor_name"`
	MaxParticipants     int       `gorm:"column:max_participants;not null" json:"max_participants"`
	CurrentParticipants int       `gorm:"column:current_participants;not null;default:0" json:"current_participants"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (TrainingSession) TableName() string { return "training_session" }

func (s *TrainingSession) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	s.SessionDate = DateOnly(s.SessionDate)
	return nil
}
