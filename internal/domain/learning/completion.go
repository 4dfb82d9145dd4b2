package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TrainingCompletion is 1:1 with Enrollment; the unique index on
// enrollment_id is what guarantees that under concurrent requests.
type TrainingCompletion struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	TrainingID   uuid.UUID `gorm:"type:uuid;not null;index" json:"training_id"`
	EnrollmentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"enrollment_id"`

	CompletedAt          time.Time `gorm:"column:completed_at;not null;index" json:"completed_at"`
	LearningHours        float64   `gorm:"column:learning_hours;not null" json:"learning_hours"`
	AttendancePercentage float64   `gorm:"column:attendance_percentage;not null" json:"attendance_percentage"`

	AssessmentScore *float64 `gorm:"column:assessment_score" json:"assessment_score,omitempty"`
	Passed          bool     `gorm:"column:passed;not null" json:"passed"`

	CertificateIssued bool    `gorm:"column:certificate_issued;not null;default:false" json:"certificate_issued"`
	CertificateURL    *string `gorm:"column:certificate_url" json:"certificate_url,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (TrainingCompletion) TableName() string { return "training_completion" }

func (c *TrainingCompletion) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
