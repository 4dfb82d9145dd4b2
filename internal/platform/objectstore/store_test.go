package objectstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/lnd-backend/internal/pkg/logger"
)

func TestLocalStorePut(t *testing.T) {
	log, err := logger.New("test")
	require.NoError(t, err)
	dir := t.TempDir()

	s, err := New(context.Background(), log, Config{Mode: ModeLocal, LocalDir: dir, PublicBaseURL: "http://cdn.local/certs/"})
	require.NoError(t, err)

	u, err := s.Put(context.Background(), "/2024/abc.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "http://cdn.local/certs/2024/abc.png", u)

	b, err := os.ReadFile(filepath.Join(dir, "2024", "abc.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(b))
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	log, err := logger.New("test")
	require.NoError(t, err)
	s, err := NewLocal(log, t.TempDir(), "/c")
	require.NoError(t, err)

	_, err = s.Put(context.Background(), "../escape.png", strings.NewReader("x"))
	assert.Error(t, err)
	_, err = s.Put(context.Background(), "  ", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestNewUnknownMode(t *testing.T) {
	log, err := logger.New("test")
	require.NoError(t, err)
	_, err = New(context.Background(), log, Config{Mode: "s3"})
	assert.Error(t, err)
}
