package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/lnd-backend/internal/platform/objectstore"
	"github.com/yungbote/lnd-backend/internal/pkg/logger"
)

var newObjectStore = objectstore.New

type StorageProviderBootstrapErrorCode string

const (
	StorageProviderBootstrapErrorInvalidMode   StorageProviderBootstrapErrorCode = "invalid_mode"
	StorageProviderBootstrapErrorMissingBucket StorageProviderBootstrapErrorCode = "missing_bucket"
	StorageProviderBootstrapErrorConnectFailed StorageProviderBootstrapErrorCode = "connect_failed"
)

type StorageProviderBootstrapError struct {
	Code  StorageProviderBootstrapErrorCode
	Mode  string
	Cause error
}

func (e *StorageProviderBootstrapError) Error() string {
	if e == nil {
		return "certificate storage bootstrap failed"
	}
	return fmt.Sprintf("certificate storage bootstrap failed (code=%s mode=%q): %v", e.Code, e.Mode, e.Cause)
}

func (e *StorageProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// resolveCertificateStore validates the storage config before dialing so that a
// misconfigured deployment fails with a specific code instead of a client error.
func resolveCertificateStore(ctx context.Context, log *logger.Logger, cfg objectstore.Config) (objectstore.Store, error) {
	mode := objectstore.Mode(strings.ToLower(strings.TrimSpace(string(cfg.Mode))))
	if mode == "" {
		mode = objectstore.ModeLocal
	}
	cfg.Mode = mode

	if err := validateStorageConfig(cfg); err != nil {
		log.Error("Certificate storage selection failed", "mode", mode, "error_code", storageProviderBootstrapErrorCode(err), "error", err)
		return nil, err
	}

	log.Info("Selecting certificate storage provider", "mode", mode, "bucket", cfg.Bucket, "emulator_host", cfg.EmulatorHost)
	store, err := newObjectStore(ctx, log, cfg)
	if err != nil {
		classified := &StorageProviderBootstrapError{
			Code:  StorageProviderBootstrapErrorConnectFailed,
			Mode:  string(mode),
			Cause: err,
		}
		log.Error("Certificate storage bootstrap failed", "mode", mode, "error_code", classified.Code, "error", err)
		return nil, classified
	}
	return store, nil
}

func validateStorageConfig(cfg objectstore.Config) error {
	switch cfg.Mode {
	case objectstore.ModeLocal:
		return nil
	case objectstore.ModeGCS:
		if strings.TrimSpace(cfg.Bucket) == "" {
			return &StorageProviderBootstrapError{
				Code:  StorageProviderBootstrapErrorMissingBucket,
				Mode:  string(cfg.Mode),
				Cause: errors.New("CERTIFICATE_GCS_BUCKET is required in gcs mode"),
			}
		}
		return nil
	default:
		return &StorageProviderBootstrapError{
			Code:  StorageProviderBootstrapErrorInvalidMode,
			Mode:  string(cfg.Mode),
			Cause: fmt.Errorf("unsupported certificate storage mode %q", cfg.Mode),
		}
	}
}

func storageProviderBootstrapErrorCode(err error) StorageProviderBootstrapErrorCode {
	var bootstrapErr *StorageProviderBootstrapError
	if errors.As(err, &bootstrapErr) {
		if bootstrapErr.Code != "" {
			return bootstrapErr.Code
		}
	}
	return StorageProviderBootstrapErrorConnectFailed
}
