package services

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/lnd-backend/internal/data/repos"
	"github.com/yungbote/lnd-backend/internal/data/repos/testutil"
	"github.com/yungbote/lnd-backend/internal/platform/objectstore"
)

func TestCertificateRender(t *testing.T) {
	cs, err := NewCertificateService(testutil.Logger(t), nil, "")
	require.NoError(t, err)
	b, err := cs.Render(CertificateInput{
		CompletionID:  uuid.New(),
		RecipientName: "Ada Lovelace",
		TrainingTitle: "Analytical Engines",
		Hours:         12,
		CompletedAt:   time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, certWidth, img.Bounds().Dx())
	assert.Equal(t, certHeight, img.Bounds().Dy())
}

func TestIssueCertificateRendersAndStores(t *testing.T) {
	env := newTestEnv(t)
	log := testutil.Logger(t)
	dir := t.TempDir()
	store, err := objectstore.NewLocal(log, dir, "https://files.example.com")
	require.NoError(t, err)
	certs, err := NewCertificateService(log, store, "")
	require.NoError(t, err)
	completions := NewCompletionService(env.db, log, env.clock,
		repos.NewEnrollmentRepo(env.db, log), repos.NewTrainingRepo(env.db, log), repos.NewTrainingSessionRepo(env.db, log),
		repos.NewAttendanceRepo(env.db, log), repos.NewTrainingCompletionRepo(env.db, log), repos.NewUserRepo(env.db, log),
		env.notifications, certs)

	u := testutil.SeedUser(t, env.ctx, env.db, "a@example.com")
	tr := testutil.SeedTraining(t, env.ctx, env.db, nil)
	e := testutil.SeedEnrollment(t, env.ctx, env.db, u.ID, tr.ID, nil)
	c := testutil.SeedCompletion(t, env.ctx, env.db, e, testutil.Date(2024, 3, 1), 12)

	got, err := completions.IssueCertificate(env.ctx, c.ID, "")
	require.NoError(t, err)
	require.NotNil(t, got.CertificateURL)
	assert.Equal(t, "https://files.example.com/certificates/2024/"+c.ID.String()+".png", *got.CertificateURL)

	_, err = os.Stat(filepath.Join(dir, "certificates", "2024", c.ID.String()+".png"))
	require.NoError(t, err)
}
