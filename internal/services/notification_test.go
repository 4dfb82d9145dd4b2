package services

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/lnd-backend/internal/data/repos/testutil"
	"github.com/yungbote/lnd-backend/internal/domain/learning"
	"github.com/yungbote/lnd-backend/internal/domain/notification"
	"github.com/yungbote/lnd-backend/internal/pkg/dbctx"
)

func TestNotifyRecordsAndEmails(t *testing.T) {
	env := newTestEnv(t)
	u := testutil.SeedUser(t, env.ctx, env.db, "a@example.com")

	n, err := env.notifications.Notify(dbctx.New(env.ctx), BadgeEarnedNotification(u.ID, learning.BadgeGold, 60, 2024))
	require.NoError(t, err)
	assert.False(t, n.IsRead)
	require.NotNil(t, n.ActionURL)
	assert.Equal(t, "/badges", *n.ActionURL)

	require.Len(t, env.mailer.sent, 1)
	assert.Equal(t, "a@example.com", env.mailer.sent[0].ToEmail)
	assert.Equal(t, "GOLD Badge Earned!", env.mailer.sent[0].Subject)
	var buf bytes.Buffer
	require.NoError(t, env.metrics.WritePrometheus(&buf))
	assert.Contains(t, buf.String(), `lnd_notifications_total{type="BADGE_EARNED"} 1`)
}

func TestNotifySurvivesMailerFailure(t *testing.T) {
	env := newTestEnv(t)
	u := testutil.SeedUser(t, env.ctx, env.db, "a@example.com")
	env.mailer.err = errors.New("smtp down")

	_, err := env.notifications.Notify(dbctx.New(env.ctx), TrainingCompletedNotification(u.ID, "Safety 101"))
	require.NoError(t, err)
	assert.Len(t, env.notificationsOf(t, u.ID, notification.TypeTrainingCompleted), 1)
}

func TestListAndMarkRead(t *testing.T) {
	env := newTestEnv(t)
	u := testutil.SeedUser(t, env.ctx, env.db, "a@example.com")
	first, err := env.notifications.Notify(dbctx.New(env.ctx), TrainingApprovedNotification(u.ID, "A"))
	require.NoError(t, err)
	_, err = env.notifications.Notify(dbctx.New(env.ctx), TrainingApprovedNotification(u.ID, "B"))
	require.NoError(t, err)

	require.NoError(t, env.notifications.MarkRead(env.ctx, first.ID))
	require.NoError(t, env.notifications.MarkRead(env.ctx, uuid.New()))

	unread, err := env.notifications.ListForUser(env.ctx, u.ID, true, 0, 10)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Contains(t, unread[0].Message, "'B'")

	all, err := env.notifications.ListForUser(env.ctx, u.ID, false, 0, 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "25.0", formatHours(25))
	assert.Equal(t, "22.5", formatHours(22.5))
	assert.Equal(t, "19.99", formatHours(19.99))
}

func TestNotifyRequiresUser(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.notifications.Notify(dbctx.New(env.ctx), NotificationInput{Type: notification.TypeSessionReminder})
	assert.Error(t, err)
}
