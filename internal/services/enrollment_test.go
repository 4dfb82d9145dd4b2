package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/lnd-backend/internal/data/repos/testutil"
	types "github.com/yungbote/lnd-backend/internal/domain"
	"github.com/yungbote/lnd-backend/internal/domain/learning"
	"github.com/yungbote/lnd-backend/internal/domain/notification"
	"github.com/yungbote/lnd-backend/internal/domain/user"
	errs "github.com/yungbote/lnd-backend/internal/pkg/errors"
)

func TestEnroll(t *testing.T) {
	env := newTestEnv(t)
	u := testutil.SeedUser(t, env.ctx, env.db, "a@example.com")
	tr := testutil.SeedTraining(t, env.ctx, env.db, nil)
	s := testutil.SeedSession(t, env.ctx, env.db, tr.ID, testutil.Date(2024, 7, 1))

	e, err := env.enrollments.Enroll(env.ctx, EnrollInput{UserID: u.ID, TrainingID: tr.ID, SessionID: &s.ID})
	require.NoError(t, err)
	assert.Equal(t, learning.EnrollmentStatusEnrolled, e.Status)
	assert.False(t, e.IsAssigned)

	msgs := env.notificationsOf(t, u.ID, notification.TypeSessionScheduled)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Enrollment Confirmed", msgs[0].Title)

	_, err = env.enrollments.Enroll(env.ctx, EnrollInput{UserID: u.ID, TrainingID: tr.ID})
	assert.ErrorIs(t, err, errs.ErrConflict)

	_, err = env.enrollments.Enroll(env.ctx, EnrollInput{UserID: u.ID, TrainingID: uuid.New()})
	assert.ErrorIs(t, err, errs.ErrNotFound)

	other := testutil.SeedTraining(t, env.ctx, env.db, nil)
	_, err = env.enrollments.Enroll(env.ctx, EnrollInput{UserID: u.ID, TrainingID: other.ID, SessionID: &s.ID})
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestReEnrollAfterSoftDelete(t *testing.T) {
	env := newTestEnv(t)
	u := testutil.SeedUser(t, env.ctx, env.db, "a@example.com")
	tr := testutil.SeedTraining(t, env.ctx, env.db, nil)
	e, err := env.enrollments.Enroll(env.ctx, EnrollInput{UserID: u.ID, TrainingID: tr.ID})
	require.NoError(t, err)
	require.NoError(t, env.db.Delete(&types.Enrollment{}, "id = ?", e.ID).Error)

	_, err = env.enrollments.Enroll(env.ctx, EnrollInput{UserID: u.ID, TrainingID: tr.ID})
	require.NoError(t, err)
}

func TestAssign(t *testing.T) {
	env := newTestEnv(t)
	manager := testutil.SeedUser(t, env.ctx, env.db, "boss@example.com")
	require.NoError(t, env.db.Model(manager).Updates(map[string]any{"role": user.RoleManager, "full_name": "Pat Boss"}).Error)
	report := testutil.SeedUser(t, env.ctx, env.db, "report@example.com")
	require.NoError(t, env.db.Model(report).Update("manager_id", manager.ID).Error)
	stranger := testutil.SeedUser(t, env.ctx, env.db, "stranger@example.com")
	tr := testutil.SeedTraining(t, env.ctx, env.db, nil)

	e, err := env.enrollments.Assign(env.ctx, AssignInput{ManagerID: manager.ID, UserID: report.ID, TrainingID: tr.ID})
	require.NoError(t, err)
	assert.True(t, e.IsAssigned)
	require.NotNil(t, e.AssignedByID)
	assert.Equal(t, manager.ID, *e.AssignedByID)

	msgs := env.notificationsOf(t, report.ID, notification.TypeTrainingAssigned)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Pat Boss has assigned you to the training: Safety 101", msgs[0].Message)

	_, err = env.enrollments.Assign(env.ctx, AssignInput{ManagerID: manager.ID, UserID: report.ID, TrainingID: tr.ID})
	assert.ErrorIs(t, err, errs.ErrConflict)

	_, err = env.enrollments.Assign(env.ctx, AssignInput{ManagerID: manager.ID, UserID: stranger.ID, TrainingID: tr.ID})
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestUpdateEnrollmentStatus(t *testing.T) {
	env := newTestEnv(t)
	u := testutil.SeedUser(t, env.ctx, env.db, "a@example.com")
	tr := testutil.SeedTraining(t, env.ctx, env.db, nil)
	e := testutil.SeedEnrollment(t, env.ctx, env.db, u.ID, tr.ID, nil)

	_, err := env.enrollments.UpdateStatus(env.ctx, e.ID, learning.EnrollmentStatusCompleted)
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)

	got, err := env.enrollments.UpdateStatus(env.ctx, e.ID, learning.EnrollmentStatusDropped)
	require.NoError(t, err)
	assert.Equal(t, learning.EnrollmentStatusDropped, got.Status)

	_, err = env.enrollments.UpdateStatus(env.ctx, uuid.New(), learning.EnrollmentStatusFailed)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	list, err := env.enrollments.ListForUser(env.ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, learning.EnrollmentStatusDropped, list[0].Status)
}
