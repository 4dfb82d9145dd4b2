package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/lnd-backend/internal/data/repos/testutil"
	types "github.com/yungbote/lnd-backend/internal/domain"
	"github.com/yungbote/lnd-backend/internal/domain/learning"
	"github.com/yungbote/lnd-backend/internal/domain/notification"
	errs "github.com/yungbote/lnd-backend/internal/pkg/errors"
	"github.com/yungbote/lnd-backend/internal/pkg/pointers"
)

func TestCalculateCompletionTwoSessions(t *testing.T) {
	env := newTestEnv(t)
	u := testutil.SeedUser(t, env.ctx, env.db, "a@example.com")
	tr := testutil.SeedTraining(t, env.ctx, env.db, nil)
	s1 := testutil.SeedSession(t, env.ctx, env.db, tr.ID, testutil.Date(2024, 6, 1))
	s2 := testutil.SeedSession(t, env.ctx, env.db, tr.ID, testutil.Date(2024, 6, 2))
	e := testutil.SeedEnrollment(t, env.ctx, env.db, u.ID, tr.ID, &s1.ID)
	testutil.SeedAttendance(t, env.ctx, env.db, e, s1.ID, s1.SessionDate, learning.AttendanceStatusPresent, 8)
	testutil.SeedAttendance(t, env.ctx, env.db, e, s2.ID, s2.SessionDate, learning.AttendanceStatusPresent, 7)

	c, err := env.completions.Calculate(env.ctx, CalculateCompletionInput{
		EnrollmentID:    e.ID,
		AssessmentScore: pointers.Float64(88),
	})
	require.NoError(t, err)
	assert.InDelta(t, 100.0, c.AttendancePercentage, 1e-9)
	assert.InDelta(t, 15.0, c.LearningHours, 1e-9)
	assert.True(t, c.Passed)
	assert.Equal(t, env.clock.Now().UTC(), c.CompletedAt)

	var got types.Enrollment
	require.NoError(t, env.db.First(&got, "id = ?", e.ID).Error)
	assert.Equal(t, learning.EnrollmentStatusCompleted, got.Status)
	assert.InDelta(t, 100.0, got.CompletionPercentage, 1e-9)
	require.NotNil(t, got.CompletedAt)

	assert.Len(t, env.notificationsOf(t, u.ID, notification.TypeTrainingCompleted), 1)

	_, err = env.completions.Calculate(env.ctx, CalculateCompletionInput{EnrollmentID: e.ID})
	if !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("second calculate: want ErrConflict, got %v", err)
	}
	assert.EqualValues(t, 1, env.countRows(t, &types.TrainingCompletion{}, "enrollment_id = ?", e.ID))
}

func TestCalculateCompletionPartialAttendance(t *testing.T) {
	env := newTestEnv(t)
	u := testutil.SeedUser(t, env.ctx, env.db, "a@example.com")
	tr := testutil.SeedTraining(t, env.ctx, env.db, nil)
	s1 := testutil.SeedSession(t, env.ctx, env.db, tr.ID, testutil.Date(2024, 6, 1))
	s2 := testutil.SeedSession(t, env.ctx, env.db, tr.ID, testutil.Date(2024, 6, 2))
	testutil.SeedSession(t, env.ctx, env.db, tr.ID, testutil.Date(2024, 6, 3))
	testutil.SeedSession(t, env.ctx, env.db, tr.ID, testutil.Date(2024, 6, 4))
	e := testutil.SeedEnrollment(t, env.ctx, env.db, u.ID, tr.ID, nil)
	testutil.SeedAttendance(t, env.ctx, env.db, e, s1.ID, s1.SessionDate, learning.AttendanceStatusPresent, 8)
	testutil.SeedAttendance(t, env.ctx, env.db, e, s2.ID, s2.SessionDate, learning.AttendanceStatusPartial, 3.5)

	c, err := env.completions.Calculate(env.ctx, CalculateCompletionInput{
		EnrollmentID: e.ID,
		Passed:       pointers.Ptr(false),
	})
	require.NoError(t, err)
	assert.InDelta(t, 25.0, c.AttendancePercentage, 1e-9)
	assert.InDelta(t, 11.5, c.LearningHours, 1e-9)
	assert.False(t, c.Passed)
}

func TestCalculateCompletionErrors(t *testing.T) {
	env := newTestEnv(t)
	u := testutil.SeedUser(t, env.ctx, env.db, "a@example.com")

	_, err := env.completions.Calculate(env.ctx, CalculateCompletionInput{EnrollmentID: u.ID})
	assert.ErrorIs(t, err, errs.ErrNotFound)

	tr := testutil.SeedTraining(t, env.ctx, env.db, nil)
	e := testutil.SeedEnrollment(t, env.ctx, env.db, u.ID, tr.ID, nil)
	_, err = env.completions.Calculate(env.ctx, CalculateCompletionInput{EnrollmentID: e.ID})
	assert.ErrorIs(t, err, errs.ErrInvalidState, "zero sessions")

	_, err = env.completions.Calculate(env.ctx, CalculateCompletionInput{
		EnrollmentID:    e.ID,
		AssessmentScore: pointers.Float64(101),
	})
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)

	missing := u.ID
	other := testutil.SeedUser(t, env.ctx, env.db, "b@example.com")
	orphan := testutil.SeedEnrollment(t, env.ctx, env.db, other.ID, tr.ID, &missing)
	_, err = env.completions.Calculate(env.ctx, CalculateCompletionInput{EnrollmentID: orphan.ID})
	assert.ErrorIs(t, err, errs.ErrNotFound, "enrollment session missing")

	assert.EqualValues(t, 0, env.countRows(t, &types.TrainingCompletion{}, "1 = 1"))
}

func TestIssueCertificate(t *testing.T) {
	env := newTestEnv(t)
	u := testutil.SeedUser(t, env.ctx, env.db, "a@example.com")
	tr := testutil.SeedTraining(t, env.ctx, env.db, nil)
	e := testutil.SeedEnrollment(t, env.ctx, env.db, u.ID, tr.ID, nil)
	c := testutil.SeedCompletion(t, env.ctx, env.db, e, testutil.Date(2024, 3, 1), 12)

	got, err := env.completions.IssueCertificate(env.ctx, c.ID, "https://certs.example.com/a.png")
	require.NoError(t, err)
	assert.True(t, got.CertificateIssued)
	require.NotNil(t, got.CertificateURL)
	assert.Equal(t, "https://certs.example.com/a.png", *got.CertificateURL)

	// no renderer configured in this env
	_, err = env.completions.IssueCertificate(env.ctx, c.ID, "")
	assert.ErrorIs(t, err, errs.ErrInvalidState)

	_, err = env.completions.IssueCertificate(env.ctx, u.ID, "x")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	require.NoError(t, env.db.Model(&types.TrainingCompletion{}).Where("id = ?", c.ID).Update("passed", false).Error)
	_, err = env.completions.IssueCertificate(env.ctx, c.ID, "x")
	assert.ErrorIs(t, err, errs.ErrInvalidState)
}

func TestCompletionGetAndList(t *testing.T) {
	env := newTestEnv(t)
	u := testutil.SeedUser(t, env.ctx, env.db, "a@example.com")
	tr := testutil.SeedTraining(t, env.ctx, env.db, nil)
	e := testutil.SeedEnrollment(t, env.ctx, env.db, u.ID, tr.ID, nil)
	c := testutil.SeedCompletion(t, env.ctx, env.db, e, testutil.Date(2024, 3, 1), 12)

	got, err := env.completions.Get(env.ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.EnrollmentID, got.EnrollmentID)

	list, err := env.completions.ListForUser(env.ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
