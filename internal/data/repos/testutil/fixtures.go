package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/lnd-backend/internal/domain"
	"github.com/yungbote/lnd-backend/internal/domain/learning"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		Email:    email,
		Password: "pw",
		FullName: "Test User",
		IsActive: true,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedTraining(tb testing.TB, ctx context.Context, tx *gorm.DB, createdBy *uuid.UUID) *types.Training {
	tb.Helper()
	tr := &types.Training{
		Title:           "Safety 101",
		Category:        "compliance",
		DurationHours:   16,
		MaxParticipants: 20,
		Status:          learning.TrainingStatusApproved,
		CreatedByID:     createdBy,
	}
	if err := tx.WithContext(ctx).Create(tr).Error; err != nil {
		tb.Fatalf("seed training: %v", err)
	}
	return tr
}

func SeedSession(tb testing.TB, ctx context.Context, tx *gorm.DB, trainingID uuid.UUID, date time.Time) *types.TrainingSession {
	tb.Helper()
	s := &types.TrainingSession{
		TrainingID:      trainingID,
		SessionDate:     date,
		StartTime:       "09:00",
		EndTime:         "17:00",
		Location:        "Room A",
		InstructorName:  "Instructor",
		MaxParticipants: 20,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed session: %v", err)
	}
	return s
}

func SeedModule(tb testing.TB, ctx context.Context, tx *gorm.DB, trainingID uuid.UUID, order int) *types.Module {
	tb.Helper()
	m := &types.Module{
		TrainingID: trainingID,
		Title:      "Module",
		Order:      order,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed module: %v", err)
	}
	return m
}

func SeedLesson(tb testing.TB, ctx context.Context, tx *gorm.DB, moduleID uuid.UUID, order int) *types.Lesson {
	tb.Helper()
	l := &types.Lesson{
		ModuleID:        moduleID,
		Title:           "Lesson",
		Type:            learning.LessonTypeVideo,
		DurationMinutes: 15,
		Order:           order,
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}
	return l
}

func SeedEnrollment(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, trainingID uuid.UUID, sessionID *uuid.UUID) *types.Enrollment {
	tb.Helper()
	e := &types.Enrollment{
		UserID:     userID,
		TrainingID: trainingID,
		SessionID:  sessionID,
		Status:     learning.EnrollmentStatusEnrolled,
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed enrollment: %v", err)
	}
	return e
}

func SeedAttendance(tb testing.TB, ctx context.Context, tx *gorm.DB, e *types.Enrollment, sessionID uuid.UUID, date time.Time, status learning.AttendanceStatus, hours float64) *types.Attendance {
	tb.Helper()
	a := &types.Attendance{
		UserID:         e.UserID,
		SessionID:      sessionID,
		EnrollmentID:   e.ID,
		AttendanceDate: date,
		Status:         status,
		HoursAttended:  hours,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed attendance: %v", err)
	}
	return a
}

func SeedCompletion(tb testing.TB, ctx context.Context, tx *gorm.DB, e *types.Enrollment, completedAt time.Time, hours float64) *types.TrainingCompletion {
	tb.Helper()
	c := &types.TrainingCompletion{
		UserID:               e.UserID,
		TrainingID:           e.TrainingID,
		EnrollmentID:         e.ID,
		CompletedAt:          completedAt.UTC(),
		LearningHours:        hours,
		AttendancePercentage: 100,
		Passed:               true,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed completion: %v", err)
	}
	return c
}

func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
