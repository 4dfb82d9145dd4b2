package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EnrollmentStatus string

const (
	EnrollmentStatusEnrolled   EnrollmentStatus = "ENROLLED"
	EnrollmentStatusInProgress EnrollmentStatus = "IN_PROGRESS"
	EnrollmentStatusCompleted  EnrollmentStatus = "COMPLETED"
	EnrollmentStatusDropped    EnrollmentStatus = "DROPPED"
	EnrollmentStatusFailed     EnrollmentStatus = "FAILED"
)

// Terminal reports whether lesson-progress roll-up must leave the status alone.
func (s EnrollmentStatus) Terminal() bool {
	return s == EnrollmentStatusCompleted || s == EnrollmentStatusDropped || s == EnrollmentStatusFailed
}

type Enrollment struct {
	ID         uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	TrainingID uuid.UUID        `gorm:"type:uuid;not null;index" json:"training_id"`
	Training   *Training        `gorm:"constraint:OnDelete:CASCADE;foreignKey:TrainingID;references:ID" json:"training,omitempty"`
	SessionID  *uuid.UUID       `gorm:"type:uuid;index" json:"session_id,omitempty"`
	Status     EnrollmentStatus `gorm:"column:status;not null;index;default:'ENROLLED'" json:"status"`

	IsAssigned   bool       `gorm:"column:is_assigned;not null;default:false" json:"is_assigned"`
	AssignedByID *uuid.UUID `gorm:"type:uuid;column:assigned_by_id" json:"assigned_by_id,omitempty"`
	AssignedAt   *time.Time `gorm:"column:assigned_at" json:"assigned_at,omitempty"`

	CompletedAt          *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CompletionPercentage float64    `gorm:"column:completion_percentage;not null;default:0" json:"completion_percentage"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Enrollment) TableName() string { return "enrollment" }

func (e *Enrollment) BeforeCreate(tx *gorm.DB) error {
	ensureID(&e.ID)
	if e.Status == "" {
		e.Status = EnrollmentStatusEnrolled
	}
	return nil
}
