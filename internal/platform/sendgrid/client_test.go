package sendgrid

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/lnd-backend/internal/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New("test")
	require.NoError(t, err)
	return l
}

func TestClientSend(t *testing.T) {
	var gotAuth string
	var payload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, sendEndpoint, r.URL.Path)
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &payload)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m, err := New(testLogger(t), Config{APIKey: "k", BaseURL: srv.URL, FromEmail: "from@example.com", FromName: "LND"})
	require.NoError(t, err)

	err = m.Send(context.Background(), Message{ToEmail: "to@example.com", Subject: "Hello", Text: "body"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer k", gotAuth)
	assert.Equal(t, "Hello", payload["personalizations"].([]any)[0].(map[string]any)["subject"])
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m, err := New(testLogger(t), Config{APIKey: "k", BaseURL: srv.URL, MaxRetries: 1, Timeout: time.Second})
	require.NoError(t, err)
	require.NoError(t, m.Send(context.Background(), Message{ToEmail: "to@example.com", Subject: "s"}))
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	m, err := New(testLogger(t), Config{APIKey: "k", BaseURL: srv.URL, MaxRetries: 3})
	require.NoError(t, err)
	assert.Error(t, m.Send(context.Background(), Message{ToEmail: "to@example.com", Subject: "s"}))
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New(testLogger(t), Config{})
	assert.Error(t, err)
}
