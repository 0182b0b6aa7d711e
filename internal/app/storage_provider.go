package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/speaking-practice-backend/internal/platform/gcp"
	"github.com/yungbote/speaking-practice-backend/internal/platform/localmedia"
	"github.com/yungbote/speaking-practice-backend/internal/platform/logger"
	"github.com/yungbote/speaking-practice-backend/internal/services"
)

var (
	newAudioBucket = gcp.NewAudioBucket
	newLocalStore  = func(log *logger.Logger, root string) (AudioStore, error) { return localmedia.New(log, root) }
)

// AudioStore is the services.AudioStore handed to the submission pipeline
// plus the lifecycle hook the app needs at shutdown.
type AudioStore interface {
	services.AudioStore
	Close() error
}

type StorageProviderBootstrapErrorCode string

const (
	StorageProviderBootstrapErrorInvalidMode         StorageProviderBootstrapErrorCode = "invalid_mode"
	StorageProviderBootstrapErrorMissingBucket       StorageProviderBootstrapErrorCode = "missing_bucket"
	StorageProviderBootstrapErrorMissingEmulatorHost StorageProviderBootstrapErrorCode = "missing_emulator_host"
	StorageProviderBootstrapErrorInvalidEmulatorHost StorageProviderBootstrapErrorCode = "invalid_emulator_host"
	StorageProviderBootstrapErrorConnectFailed       StorageProviderBootstrapErrorCode = "connect_failed"
)

type StorageProviderBootstrapError struct {
	Code         StorageProviderBootstrapErrorCode
	Mode         string
	EmulatorHost string
	Cause        error
}

func (e *StorageProviderBootstrapError) Error() string {
	if e == nil {
		return "audio storage bootstrap failed"
	}
	return fmt.Sprintf(
		"audio storage bootstrap failed (code=%s mode=%q emulator_host=%q): %v",
		e.Code,
		e.Mode,
		e.EmulatorHost,
		e.Cause,
	)
}

func (e *StorageProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// resolveAudioStore picks the backend for recorded answers. "local" writes
// under AudioLocalDir; "gcs" and "gcs_emulator" go through Cloud Storage.
func resolveAudioStore(ctx context.Context, log *logger.Logger, cfg Config) (AudioStore, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.AudioStorage))
	storeLog := log.With("component", "AudioStorage", "mode", mode)

	if mode == "" || mode == AudioStorageLocal {
		storeLog.Info("Selecting audio storage provider", "root", cfg.AudioLocalDir)
		store, err := newLocalStore(log, cfg.AudioLocalDir)
		if err != nil {
			wrapped := &StorageProviderBootstrapError{
				Code:  StorageProviderBootstrapErrorConnectFailed,
				Mode:  AudioStorageLocal,
				Cause: err,
			}
			storeLog.Error("Audio storage provider bootstrap failed", "error_code", wrapped.Code, "error", err)
			return nil, wrapped
		}
		return store, nil
	}

	storageCfg, err := gcp.ResolveObjectStorageConfig(mode, cfg.AudioGCSBucket, cfg.StorageEmulatorHost)
	if err != nil {
		classified := classifyStorageProviderBootstrapError(gcp.ObjectStorageConfig{
			Mode:         gcp.ObjectStorageMode(mode),
			Bucket:       cfg.AudioGCSBucket,
			EmulatorHost: cfg.StorageEmulatorHost,
		}, err)
		storeLog.Error(
			"Audio storage provider selection failed",
			"emulator_host", cfg.StorageEmulatorHost,
			"error_code", storageProviderBootstrapErrorCode(classified),
			"error", classified,
		)
		return nil, classified
	}

	storeLog.Info(
		"Selecting audio storage provider",
		"bucket", storageCfg.Bucket,
		"emulator_host", storageCfg.EmulatorHost,
	)
	bucket, err := newAudioBucket(ctx, log, storageCfg)
	if err != nil {
		classified := classifyStorageProviderBootstrapError(storageCfg, err)
		storeLog.Error(
			"Audio storage provider bootstrap failed",
			"emulator_host", storageCfg.EmulatorHost,
			"error_code", storageProviderBootstrapErrorCode(classified),
			"error", classified,
		)
		return nil, classified
	}
	return bucket, nil
}

func classifyStorageProviderBootstrapError(storageCfg gcp.ObjectStorageConfig, err error) error {
	code := StorageProviderBootstrapErrorConnectFailed
	var cfgErr *gcp.ObjectStorageConfigError
	if errors.As(err, &cfgErr) {
		switch cfgErr.Code {
		case gcp.ObjectStorageConfigErrorInvalidMode:
			code = StorageProviderBootstrapErrorInvalidMode
		case gcp.ObjectStorageConfigErrorMissingBucket:
			code = StorageProviderBootstrapErrorMissingBucket
		case gcp.ObjectStorageConfigErrorMissingEmulatorHost:
			code = StorageProviderBootstrapErrorMissingEmulatorHost
		case gcp.ObjectStorageConfigErrorInvalidEmulatorHost:
			code = StorageProviderBootstrapErrorInvalidEmulatorHost
		}
	}
	return &StorageProviderBootstrapError{
		Code:         code,
		Mode:         string(storageCfg.Mode),
		EmulatorHost: storageCfg.EmulatorHost,
		Cause:        err,
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
