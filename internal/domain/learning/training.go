package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TrainingStatus string

const (
	TrainingStatusDraft           TrainingStatus = "DRAFT"
	TrainingStatusPendingApproval TrainingStatus = "PENDING_APPROVAL"
	TrainingStatusApproved        TrainingStatus = "APPROVED"
	TrainingStatusRejected        TrainingStatus = "REJECTED"
	TrainingStatusScheduled       TrainingStatus = "SCHEDULED"
	TrainingStatusInProgress      TrainingStatus = "IN_PROGRESS"
	TrainingStatusCompleted       TrainingStatus = "COMPLETED"
	TrainingStatusCancelled       TrainingStatus = "CANCELLED"
)

type Training struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title           string         `gorm:"column:title;not null;index" json:"title"`
	Description     string         `gorm:"column:description;type:text" json:"description"`
	Category        string         `gorm:"column:category;index" json:"category"`
	DurationHours   float64        `gorm:"column:duration_hours;not null" json:"duration_hours"`
	MaxParticipants int            `gorm:"column:max_participants;not null" json:"max_participants"`
	IsMandatory     bool           `gorm:"column:is_mandatory;not null;default:false" json:"is_mandatory"`
	Status          TrainingStatus `gorm:"column:status;not null;index;default:'DRAFT'" json:"status"`

	RequiresApproval bool       `gorm:"column:requires_approval;not null" json:"requires_approval"`
	ApprovedByID     *uuid.UUID `gorm:"type:uuid;column:approved_by_id" json:"approved_by_id,omitempty"`
	ApprovedAt       *time.Time `gorm:"column:approved_at" json:"approved_at,omitempty"`
	RejectionReason  *string    `gorm:"column:rejection_reason" json:"rejection_reason,omitempty"`

	Prerequisites      datatypes.JSON `gorm:"column:prerequisites" json:"prerequisites"`
	LearningObjectives datatypes.JSON `gorm:"column:learning_objectives" json:"learning_objectives"`
	MaterialsURL       *string        `gorm:"column:materials_url" json:"materials_url,omitempty"`

	CreatedByID *uuid.UUID `gorm:"type:uuid;column:created_by_id;index" json:"created_by_id,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Training) TableName() string { return "training" }

func (t *Training) BeforeCreate(tx *gorm.DB) error {
	ensureID(&t.ID)
	return nil
}
