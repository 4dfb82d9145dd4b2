package learning

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/lnd-backend/internal/domain"
	"github.com/yungbote/lnd-backend/internal/domain/learning"
	"github.com/yungbote/lnd-backend/internal/pkg/dbctx"
	"github.com/yungbote/lnd-backend/internal/pkg/logger"
)

type AttendanceRepo interface {
	// Create fails with ErrConflict for a second record on the same
	// (session, enrollment, date).
	Create(dbc dbctx.Context, rows []*types.Attendance) ([]*types.Attendance, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Attendance, error)
	ListBySession(dbc dbctx.Context, sessionID uuid.UUID, offset, limit int) ([]*types.Attendance, error)
	ListByEnrollment(dbc dbctx.Context, enrollmentID uuid.UUID) ([]*types.Attendance, error)
	CountByEnrollmentAndStatus(dbc dbctx.Context, enrollmentID uuid.UUID, status learning.AttendanceStatus) (int64, error)
	SumHoursByEnrollment(dbc dbctx.Context, enrollmentID uuid.UUID) (float64, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type attendanceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAttendanceRepo(db *gorm.DB, baseLog *logger.Logger) AttendanceRepo {
	return &attendanceRepo{db: db, log: baseLog.With("repo", "AttendanceRepo")}
}

func (r *attendanceRepo) Create(dbc dbctx.Context, rows []*types.Attendance) ([]*types.Attendance, error) {
	if len(rows) == 0 {
		return []*types.Attendance{}, nil
	}
	if err := pick(r.db, dbc).Create(&rows).Error; err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

func (r *attendanceRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Attendance, error) {
	return takeOne[types.Attendance](pick(r.db, dbc).Where("id = ?", id))
}

func (r *attendanceRepo) ListBySession(dbc dbctx.Context, sessionID uuid.UUID, offset, limit int) ([]*types.Attendance, error) {
	var out []*types.Attendance
	q := pick(r.db, dbc).Where("session_id = ?", sessionID).Order("attendance_date ASC, created_at ASC")
	if err := page(q, offset, limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *attendanceRepo) ListByEnrollment(dbc dbctx.Context, enrollmentID uuid.UUID) ([]*types.Attendance, error) {
	var out []*types.Attendance
	if err := pick(r.db, dbc).
		Where("enrollment_id = ?", enrollmentID).
		Order("attendance_date ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *attendanceRepo) CountByEnrollmentAndStatus(dbc dbctx.Context, enrollmentID uuid.UUID, status learning.AttendanceStatus) (int64, error) {
	var n int64
	if err := pick(r.db, dbc).
		Model(&types.Attendance{}).
		Where("enrollment_id = ? AND status = ?", enrollmentID, status).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *attendanceRepo) SumHoursByEnrollment(dbc dbctx.Context, enrollmentID uuid.UUID) (float64, error) {
	var total float64
	if err := pick(r.db, dbc).
		Model(&types.Attendance{}).
		Where("enrollment_id = ?", enrollmentID).
		Select("COALESCE(SUM(hours_attended), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *attendanceRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return pick(r.db, dbc).
		Model(&types.Attendance{}).
		Where("id = ?", id).
		Updates(updates).Error
}
