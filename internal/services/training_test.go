package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/lnd-backend/internal/data/repos/testutil"
	"github.com/yungbote/lnd-backend/internal/domain/learning"
	"github.com/yungbote/lnd-backend/internal/domain/notification"
	"github.com/yungbote/lnd-backend/internal/domain/user"
	errs "github.com/yungbote/lnd-backend/internal/pkg/errors"
)

func TestTrainingApprovalWorkflow(t *testing.T) {
	env := newTestEnv(t)
	author := testutil.SeedUser(t, env.ctx, env.db, "author@example.com")
	admin := testutil.SeedUser(t, env.ctx, env.db, "admin@example.com")
	require.NoError(t, env.db.Model(admin).Update("role", user.RoleAdmin).Error)

	tr, err := env.trainings.Create(env.ctx, CreateTrainingInput{
		Title:              "  Forklift Basics ",
		DurationHours:      8,
		MaxParticipants:    12,
		RequiresApproval:   true,
		LearningObjectives: []string{"drive", "lift"},
		CreatedByID:        &author.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Forklift Basics", tr.Title)
	assert.Equal(t, learning.TrainingStatusDraft, tr.Status)
	var objectives []string
	require.NoError(t, json.Unmarshal(tr.LearningObjectives, &objectives))
	assert.Equal(t, []string{"drive", "lift"}, objectives)

	_, err = env.trainings.Approve(env.ctx, tr.ID, admin.ID)
	assert.ErrorIs(t, err, errs.ErrInvalidState, "cannot approve a draft")

	_, err = env.trainings.Submit(env.ctx, tr.ID)
	require.NoError(t, err)
	_, err = env.trainings.Submit(env.ctx, tr.ID)
	assert.ErrorIs(t, err, errs.ErrInvalidState)

	pending, err := env.trainings.ListPending(env.ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	_, err = env.trainings.Approve(env.ctx, tr.ID, author.ID)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	got, err := env.trainings.Reject(env.ctx, tr.ID, admin.ID, "missing safety section")
	require.NoError(t, err)
	assert.Equal(t, learning.TrainingStatusRejected, got.Status)
	require.NotNil(t, got.RejectionReason)

	msgs := env.notificationsOf(t, author.ID, notification.TypeTrainingRejected)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Your training 'Forklift Basics' was rejected. Reason: missing safety section", msgs[0].Message)

	_, err = env.trainings.Approve(env.ctx, tr.ID, admin.ID)
	assert.ErrorIs(t, err, errs.ErrInvalidState, "rejected is not pending")
}

func TestTrainingApprove(t *testing.T) {
	env := newTestEnv(t)
	author := testutil.SeedUser(t, env.ctx, env.db, "author@example.com")
	admin := testutil.SeedUser(t, env.ctx, env.db, "admin@example.com")
	require.NoError(t, env.db.Model(admin).Update("role", user.RoleSuperAdmin).Error)

	tr, err := env.trainings.Create(env.ctx, CreateTrainingInput{Title: "T", DurationHours: 2, CreatedByID: &author.ID})
	require.NoError(t, err)
	_, err = env.trainings.Submit(env.ctx, tr.ID)
	require.NoError(t, err)

	got, err := env.trainings.Approve(env.ctx, tr.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, learning.TrainingStatusApproved, got.Status)
	require.NotNil(t, got.ApprovedByID)
	assert.Equal(t, admin.ID, *got.ApprovedByID)
	assert.Nil(t, got.RejectionReason)

	stored, err := env.trainings.Get(env.ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, learning.TrainingStatusApproved, stored.Status)
	require.NotNil(t, stored.ApprovedAt)
	assert.Len(t, env.notificationsOf(t, author.ID, notification.TypeTrainingApproved), 1)
}

func TestTrainingValidationAndSessions(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.trainings.Create(env.ctx, CreateTrainingInput{Title: " ", DurationHours: 1})
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
	_, err = env.trainings.Create(env.ctx, CreateTrainingInput{Title: "x", DurationHours: 0})
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)

	tr := testutil.SeedTraining(t, env.ctx, env.db, nil)
	s, err := env.trainings.CreateSession(env.ctx, CreateSessionInput{
		TrainingID:  tr.ID,
		SessionDate: testutil.Date(2024, 8, 1).Add(15 * time.Hour),
		StartTime:   "09:30",
		EndTime:     "12:00",
	})
	require.NoError(t, err)
	assert.True(t, s.SessionDate.Equal(testutil.Date(2024, 8, 1)))
	assert.Equal(t, tr.MaxParticipants, s.MaxParticipants)

	_, err = env.trainings.CreateSession(env.ctx, CreateSessionInput{TrainingID: tr.ID, SessionDate: testutil.Date(2024, 8, 2), StartTime: "9am", EndTime: "12:00"})
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
	_, err = env.trainings.CreateSession(env.ctx, CreateSessionInput{TrainingID: tr.ID, SessionDate: testutil.Date(2024, 8, 2), StartTime: "12:00", EndTime: "09:00"})
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
	_, err = env.trainings.CreateSession(env.ctx, CreateSessionInput{TrainingID: uuid.New(), SessionDate: testutil.Date(2024, 8, 2), StartTime: "09:00", EndTime: "10:00"})
	assert.ErrorIs(t, err, errs.ErrNotFound)

	sessions, err := env.trainings.ListSessions(env.ctx, tr.ID)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestModuleOutline(t *testing.T) {
	env := newTestEnv(t)
	tr := testutil.SeedTraining(t, env.ctx, env.db, nil)
	m2, err := env.modules.AddModule(env.ctx, tr.ID, "Second", 2)
	require.NoError(t, err)
	m1, err := env.modules.AddModule(env.ctx, tr.ID, "First", 1)
	require.NoError(t, err)
	_, err = env.modules.AddLesson(env.ctx, AddLessonInput{ModuleID: m1.ID, Title: "b", Order: 2, Type: learning.LessonTypeText, ContentText: "hi"})
	require.NoError(t, err)
	_, err = env.modules.AddLesson(env.ctx, AddLessonInput{ModuleID: m1.ID, Title: "a", Order: 1})
	require.NoError(t, err)

	outline, err := env.modules.Outline(env.ctx, tr.ID)
	require.NoError(t, err)
	require.Len(t, outline, 2)
	assert.Equal(t, "First", outline[0].Module.Title)
	require.Len(t, outline[0].Lessons, 2)
	assert.Equal(t, "a", outline[0].Lessons[0].Title)
	assert.Equal(t, m2.ID, outline[1].Module.ID)
	assert.Empty(t, outline[1].Lessons)

	_, err = env.modules.AddLesson(env.ctx, AddLessonInput{ModuleID: uuid.New(), Title: "x"})
	assert.ErrorIs(t, err, errs.ErrNotFound)
	_, err = env.modules.AddLesson(env.ctx, AddLessonInput{ModuleID: m1.ID, Title: "x", Type: "GAME"})
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
	_, err = env.modules.AddModule(env.ctx, uuid.New(), "x", 1)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
