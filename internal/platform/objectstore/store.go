package objectstore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/lnd-backend/internal/pkg/envutil"
	"github.com/yungbote/lnd-backend/internal/pkg/logger"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCS   Mode = "gcs"
)

// Store persists generated artifacts (certificate images) and hands back a
// URL clients can fetch them from.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader) (string, error)
	PublicURL(key string) string
}

type Config struct {
	Mode Mode
	// LocalDir is the root directory in local mode.
	LocalDir string
	// PublicBaseURL prefixes keys when building URLs. Empty in gcs mode means
	// https://storage.googleapis.com/<bucket>.
	PublicBaseURL   string
	Bucket          string
	CredentialsFile string
	EmulatorHost    string
}

func ConfigFromEnv(log *logger.Logger) Config {
	return Config{
		Mode:            Mode(strings.ToLower(envutil.GetEnv("CERTIFICATE_STORAGE_MODE", string(ModeLocal), log))),
		LocalDir:        envutil.GetEnv("CERTIFICATE_LOCAL_DIR", "./data/certificates", log),
		PublicBaseURL:   envutil.GetEnv("CERTIFICATE_PUBLIC_BASE_URL", "/static/certificates", log),
		Bucket:          envutil.GetEnv("CERTIFICATE_GCS_BUCKET", "", log),
		CredentialsFile: envutil.GetEnv("GOOGLE_APPLICATION_CREDENTIALS", "", log),
		EmulatorHost:    envutil.GetEnv("STORAGE_EMULATOR_HOST", "", log),
	}
}

func New(ctx context.Context, log *logger.Logger, cfg Config) (Store, error) {
	switch cfg.Mode {
	case "", ModeLocal:
		return NewLocal(log, cfg.LocalDir, cfg.PublicBaseURL)
	case ModeGCS:
		return NewGCS(ctx, log, cfg)
	default:
		return nil, fmt.Errorf("unknown CERTIFICATE_STORAGE_MODE %q", cfg.Mode)
	}
}

type localStore struct {
	log     *logger.Logger
	dir     string
	baseURL string
}

func NewLocal(log *logger.Logger, dir, baseURL string) (Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("local object store: dir required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("local object store: %w", err)
	}
	return &localStore{
		log:     log.With("service", "LocalObjectStore"),
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *localStore) Put(ctx context.Context, key string, r io.Reader) (string, error) {
	clean, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.dir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write %s: %w", clean, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	s.log.Debug("stored object", "key", clean)
	return s.PublicURL(clean), nil
}

func (s *localStore) PublicURL(key string) string {
	return joinURL(s.baseURL, key)
}

type gcsStore struct {
	log     *logger.Logger
	client  *storage.Client
	bucket  string
	baseURL string
}

func NewGCS(ctx context.Context, log *logger.Logger, cfg Config) (Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("missing env var CERTIFICATE_GCS_BUCKET")
	}
	var opts []option.ClientOption
	switch {
	case cfg.EmulatorHost != "":
		_ = os.Setenv("STORAGE_EMULATOR_HOST", strings.TrimRight(cfg.EmulatorHost, "/"))
		opts = append(opts, option.WithoutAuthentication())
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	baseURL := strings.TrimRight(cfg.PublicBaseURL, "/")
	if baseURL == "" || strings.HasPrefix(baseURL, "/") {
		baseURL = "https://storage.googleapis.com/" + url.PathEscape(cfg.Bucket)
	}
	log.Info("object storage initialized", "mode", ModeGCS, "bucket", cfg.Bucket, "emulator_host", cfg.EmulatorHost)
	return &gcsStore{
		log:     log.With("service", "GCSObjectStore"),
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: baseURL,
	}, nil
}

func (s *gcsStore) Put(ctx context.Context, key string, r io.Reader) (string, error) {
	clean, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(clean).NewWriter(ctx)
	if strings.HasSuffix(clean, ".png") {
		w.ContentType = "image/png"
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return s.PublicURL(clean), nil
}

func (s *gcsStore) PublicURL(key string) string {
	return joinURL(s.baseURL, key)
}

func cleanKey(key string) (string, error) {
	k := strings.TrimLeft(strings.TrimSpace(key), "/")
	if k == "" {
		return "", fmt.Errorf("object key required")
	}
	for _, part := range strings.Split(k, "/") {
		if part == ".." {
			return "", fmt.Errorf("object key %q escapes the store root", key)
		}
	}
	return k, nil
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
