package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LessonType string

const (
	LessonTypeVideo LessonType = "VIDEO"
	LessonTypeQuiz  LessonType = "QUIZ"
	LessonTypeText  LessonType = "TEXT"
)

type Module struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TrainingID uuid.UUID `gorm:"type:uuid;not null;index" json:"training_id"`
	Training   *Training `gorm:"constraint:OnDelete:CASCADE;foreignKey:TrainingID;references:ID" json:"training,omitempty"`
	Title      string    `gorm:"column:title;not null" json:"title"`
	Order      int       `gorm:"column:order;not null;default:0" json:"order"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Module) TableName() string { return "module" }

func (m *Module) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.ID)
	return nil
}

type Lesson struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ModuleID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"module_id"`
	Module          *Module        `gorm:"constraint:OnDelete:CASCADE;foreignKey:ModuleID;references:ID" json:"module,omitempty"`
	Title           string         `gorm:"column:title;not null" json:"title"`
	Type            LessonType     `gorm:"column:type;not null;default:'VIDEO'" json:"type"`
	ContentURL      *string        `gorm:"column:content_url" json:"content_url,omitempty"`
	ContentText     *string        `gorm:"column:content_text;type:text" json:"content_text,omitempty"`
	DurationMinutes int            `gorm:"column:duration_minutes;not null;default:0" json:"duration_minutes"`
	Order           int            `gorm:"column:order;not null;default:0" json:"order"`
	Questions       datatypes.JSON `gorm:"column:questions" json:"questions"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Lesson) TableName() string { return "lesson" }

func (l *Lesson) BeforeCreate(tx *gorm.DB) error {
	ensureID(&l.ID)
	return nil
}
