package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/lnd-backend/internal/data/repos"
	"github.com/yungbote/lnd-backend/internal/data/repos/testutil"
	"github.com/yungbote/lnd-backend/internal/pkg/ctxutil"
	errs "github.com/yungbote/lnd-backend/internal/pkg/errors"
)

func TestGetMe(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.db, testutil.Logger(t), repos.NewUserRepo(env.db, testutil.Logger(t)))
	u := testutil.SeedUser(t, env.ctx, env.db, "me@example.com")

	_, err := svc.GetMe(env.ctx)
	assert.True(t, errors.Is(err, errs.ErrUnauthorized))

	ctx := ctxutil.WithRequestData(env.ctx, &ctxutil.RequestData{UserID: u.ID})
	got, err := svc.GetMe(ctx)
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", got.Email)

	ctx = ctxutil.WithRequestData(env.ctx, &ctxutil.RequestData{UserID: uuid.New()})
	_, err = svc.GetMe(ctx)
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}
