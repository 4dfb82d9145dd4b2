package notification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Type string

const (
	TypeTrainingAssigned    Type = "TRAINING_ASSIGNED"
	TypeTrainingApproved    Type = "TRAINING_APPROVED"
	TypeTrainingRejected    Type = "TRAINING_REJECTED"
	TypeSessionScheduled    Type = "SESSION_SCHEDULED"
	TypeSessionReminder     Type = "SESSION_REMINDER"
	TypeTrainingCompleted   Type = "TRAINING_COMPLETED"
	TypeBadgeEarned         Type = "BADGE_EARNED"
	TypeDeadlineApproaching Type = "DEADLINE_APPROACHING"
)

type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      Type      `gorm:"column:notification_type;not null;index" json:"notification_type"`
	Title     string    `gorm:"column:title;size:255;not null" json:"title"`
	Message   string    `gorm:"column:message;size:1000;not null" json:"message"`
	IsRead    bool      `gorm:"column:is_read;not null;default:false;index" json:"is_read"`
	ActionURL *string   `gorm:"column:action_url;size:500" json:"action_url,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Notification) TableName() string { return "notification" }

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
