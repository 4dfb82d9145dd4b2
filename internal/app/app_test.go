package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/lnd-backend/internal/jobs"
)

func TestNewWiresSQLiteApp(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LOG_MODE", "development")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "lnd.db"))
	t.Setenv("CERTIFICATE_STORAGE_MODE", "local")
	t.Setenv("CERTIFICATE_LOCAL_DIR", filepath.Join(dir, "certs"))
	t.Setenv("SCHEDULER_ENABLED", "true")
	t.Setenv("SENDGRID_API_KEY", "")
	t.Setenv("OTEL_ENABLED", "false")

	a, err := New(context.Background())
	require.NoError(t, err)
	t.Cleanup(a.Close)

	require.NotNil(t, a.Services.Certificate)
	require.NoError(t, a.Start())
	_, ok := a.Scheduler.Next(jobs.TypeSessionReminders)
	assert.True(t, ok)
	_, ok = a.Scheduler.Next(jobs.TypeYearlyBadges)
	assert.True(t, ok)

	rec := httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trainings/pending", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
