package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "PRESENT"
	AttendanceStatusAbsent  AttendanceStatus = "ABSENT"
	AttendanceStatusPartial AttendanceStatus = "PARTIAL"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusPartial:
		return true
	}
	return false
}

// Attendance is unique per (session, enrollment, date).
type Attendance struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	SessionID      uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_day" json:"session_id"`
	EnrollmentID   uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_day;index" json:"enrollment_id"`
	AttendanceDate time.Time        `gorm:"column:attendance_date;type:date;not null;uniqueIndex:idx_attendance_day" json:"attendance_date"`
	Status         AttendanceStatus `gorm:"column:status;not null;default:'PRESENT'" json:"status"`
	HoursAttended  float64          `gorm:"column:hours_attended;not null;default:0" json:"hours_attended"`
	Notes          *string          `gorm:"column:notes" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Attendance) TableName() string { return "attendance" }

func (a *Attendance) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	a.AttendanceDate = DateOnly(a.AttendanceDate)
	return nil
}
