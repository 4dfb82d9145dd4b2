package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/yungbote/lnd-backend/internal/pkg/errors"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("bad score: %w", errs.ErrInvalidArgument), http.StatusBadRequest},
		{fmt.Errorf("not admin: %w", errs.ErrUnauthorized), http.StatusForbidden},
		{fmt.Errorf("enrollment: %w", errs.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("badge exists: %w", errs.ErrConflict), http.StatusConflict},
		{fmt.Errorf("not pending: %w", errs.ErrInvalidState), http.StatusUnprocessableEntity},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		got, _ := StatusFor(tc.err)
		if got != tc.status {
			t.Fatalf("StatusFor(%v): got=%d want=%d", tc.err, got, tc.status)
		}
	}
}

func TestRespondServiceErrorHidesInternalMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	RespondServiceError(c, errors.New("pq: connection refused"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "internal", env.Error.Code)
	assert.NotContains(t, env.Error.Message, "pq:")
}
