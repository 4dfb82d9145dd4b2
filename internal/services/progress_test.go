package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/lnd-backend/internal/data/repos/testutil"
	types "github.com/yungbote/lnd-backend/internal/domain"
	"github.com/yungbote/lnd-backend/internal/domain/learning"
	errs "github.com/yungbote/lnd-backend/internal/pkg/errors"
)

func seedFourLessons(t *testing.T, env *testEnv, trainingID uuid.UUID) []*types.Lesson {
	t.Helper()
	m1 := testutil.SeedModule(t, env.ctx, env.db, trainingID, 1)
	m2 := testutil.SeedModule(t, env.ctx, env.db, trainingID, 2)
	return []*types.Lesson{
		testutil.SeedLesson(t, env.ctx, env.db, m1.ID, 1),
		testutil.SeedLesson(t, env.ctx, env.db, m1.ID, 2),
		testutil.SeedLesson(t, env.ctx, env.db, m2.ID, 1),
		testutil.SeedLesson(t, env.ctx, env.db, m2.ID, 2),
	}
}

func TestCompleteLessonRollUp(t *testing.T) {
	env := newTestEnv(t)
	u := testutil.SeedUser(t, env.ctx, env.db, "a@example.com")
	tr := testutil.SeedTraining(t, env.ctx, env.db, nil)
	lessons := seedFourLessons(t, env, tr.ID)
	e := testutil.SeedEnrollment(t, env.ctx, env.db, u.ID, tr.ID, nil)

	_, err := env.progress.CompleteLesson(env.ctx, u.ID, lessons[0].ID, 70)
	require.NoError(t, err)
	res, err := env.progress.CompleteLesson(env.ctx, u.ID, lessons[1].ID, 90)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, res.CompletionPercentage, 1e-9)
	require.NotNil(t, res.Enrollment)
	assert.Equal(t, learning.EnrollmentStatusInProgress, res.Enrollment.Status)

	res, err = env.progress.CompleteLesson(env.ctx, u.ID, lessons[2].ID, 0)
	require.NoError(t, err)
	assert.InDelta(t, 75.0, res.CompletionPercentage, 1e-9)
	assert.Equal(t, learning.EnrollmentStatusInProgress, res.Enrollment.Status)

	res, err = env.progress.CompleteLesson(env.ctx, u.ID, lessons[3].ID, 0)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, res.CompletionPercentage, 1e-9)

	var got types.Enrollment
	require.NoError(t, env.db.First(&got, "id = ?", e.ID).Error)
	assert.Equal(t, learning.EnrollmentStatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
	assert.InDelta(t, 100.0, got.CompletionPercentage, 1e-9)

	completedAt := *got.CompletedAt
	env.clock.Add(time.Hour)
	_, err = env.progress.CompleteLesson(env.ctx, u.ID, lessons[0].ID, 10)
	require.NoError(t, err)
	require.NoError(t, env.db.First(&got, "id = ?", e.ID).Error)
	assert.Equal(t, learning.EnrollmentStatusCompleted, got.Status)
	assert.True(t, got.CompletedAt.Equal(completedAt), "completed_at must not move once COMPLETED")
}

func TestCompleteLessonQuizScoreNeverRegresses(t *testing.T) {
	env := newTestEnv(t)
	u := testutil.SeedUser(t, env.ctx, env.db, "a@example.com")
	tr := testutil.SeedTraining(t, env.ctx, env.db, nil)
	lessons := seedFourLessons(t, env, tr.ID)

	for _, score := range []float64{60, 85, 40, 85, 0} {
		res, err := env.progress.CompleteLesson(env.ctx, u.ID, lessons[0].ID, score)
		require.NoError(t, err)
		assert.Nil(t, res.Enrollment, "no enrollment, no roll-up")
	}
	var lp types.LessonProgress
	require.NoError(t, env.db.First(&lp, "user_id = ? AND lesson_id = ?", u.ID, lessons[0].ID).Error)
	assert.InDelta(t, 85.0, lp.QuizScore, 1e-9)
	assert.True(t, lp.IsCompleted)
	assert.EqualValues(t, 1, env.countRows(t, &types.LessonProgress{}, "user_id = ?", u.ID))
}

func TestCompleteLessonTerminalStatusUntouched(t *testing.T) {
	env := newTestEnv(t)
	u := testutil.SeedUser(t, env.ctx, env.db, "a@example.com")
	tr := testutil.SeedTraining(t, env.ctx, env.db, nil)
	lessons := seedFourLessons(t, env, tr.ID)
	e := testutil.SeedEnrollment(t, env.ctx, env.db, u.ID, tr.ID, nil)
	require.NoError(t, env.db.Model(&types.Enrollment{}).Where("id = ?", e.ID).Update("status", learning.EnrollmentStatusDropped).Error)

	for _, l := range lessons {
		_, err := env.progress.CompleteLesson(env.ctx, u.ID, l.ID, 50)
		require.NoError(t, err)
	}
	var got types.Enrollment
	require.NoError(t, env.db.First(&got, "id = ?", e.ID).Error)
	assert.Equal(t, learning.EnrollmentStatusDropped, got.Status)
	assert.InDelta(t, 100.0, got.CompletionPercentage, 1e-9)
	assert.Nil(t, got.CompletedAt)
}

func TestCompleteLessonErrors(t *testing.T) {
	env := newTestEnv(t)
	u := testutil.SeedUser(t, env.ctx, env.db, "a@example.com")

	_, err := env.progress.CompleteLesson(env.ctx, u.ID, uuid.New(), 0)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = env.progress.CompleteLesson(env.ctx, u.ID, uuid.New(), 120)
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestGetTrainingProgress(t *testing.T) {
	env := newTestEnv(t)
	u := testutil.SeedUser(t, env.ctx, env.db, "a@example.com")
	tr := testutil.SeedTraining(t, env.ctx, env.db, nil)

	p, err := env.progress.GetTrainingProgress(env.ctx, u.ID, tr.ID)
	require.NoError(t, err)
	assert.Empty(t, p.CompletedLessonIDs)
	assert.Zero(t, p.TotalLessons)

	lessons := seedFourLessons(t, env, tr.ID)
	_, err = env.progress.CompleteLesson(env.ctx, u.ID, lessons[2].ID, 0)
	require.NoError(t, err)

	p, err = env.progress.GetTrainingProgress(env.ctx, u.ID, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, p.TotalLessons)
	assert.Equal(t, []uuid.UUID{lessons[2].ID}, p.CompletedLessonIDs)
}

func TestNextEnrollmentStatus(t *testing.T) {
	cases := []struct {
		from learning.EnrollmentStatus
		pct  float64
		want learning.EnrollmentStatus
	}{
		{learning.EnrollmentStatusEnrolled, 0, learning.EnrollmentStatusEnrolled},
		{learning.EnrollmentStatusEnrolled, 25, learning.EnrollmentStatusInProgress},
		{learning.EnrollmentStatusInProgress, 99.99, learning.EnrollmentStatusInProgress},
		{learning.EnrollmentStatusInProgress, 100, learning.EnrollmentStatusCompleted},
		{learning.EnrollmentStatusCompleted, 50, learning.EnrollmentStatusCompleted},
		{learning.EnrollmentStatusFailed, 100, learning.EnrollmentStatusFailed},
	}
	for _, tc := range cases {
		if got := nextEnrollmentStatus(tc.from, tc.pct); got != tc.want {
			t.Fatalf("nextEnrollmentStatus(%s, %v) = %s, want %s", tc.from, tc.pct, got, tc.want)
		}
	}
	assert.Equal(t, 33.33, roundTo2(100.0/3))
}
