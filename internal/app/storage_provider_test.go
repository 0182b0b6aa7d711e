package app

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/yungbote/speaking-practice-backend/internal/platform/gcp"
	"github.com/yungbote/speaking-practice-backend/internal/platform/logger"
)

type fakeBucket struct {
	cfg gcp.ObjectStorageConfig
}

func (b *fakeBucket) Put(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	return gcp.ObjectRef(b.cfg.Bucket, key), nil
}
func (b *fakeBucket) Delete(ctx context.Context, ref string) error { return nil }
func (b *fakeBucket) Close() error                                  { return nil }

func stubAudioBucket(t *testing.T, fail error) *gcp.ObjectStorageConfig {
	t.Helper()
	var seen gcp.ObjectStorageConfig
	prev := newAudioBucket
	newAudioBucket = func(ctx context.Context, log *logger.Logger, cfg gcp.ObjectStorageConfig) (gcp.AudioBucket, error) {
		seen = cfg
		if fail != nil {
			return nil, fail
		}
		return &fakeBucket{cfg: cfg}, nil
	}
	t.Cleanup(func() { newAudioBucket = prev })
	return &seen
}

func TestClassifyStorageProviderBootstrapError(t *testing.T) {
	cases := []struct {
		name string
		src  error
		want StorageProviderBootstrapErrorCode
	}{
		{name: "invalid mode", src: &gcp.ObjectStorageConfigError{Code: gcp.ObjectStorageConfigErrorInvalidMode}, want: StorageProviderBootstrapErrorInvalidMode},
		{name: "missing bucket", src: &gcp.ObjectStorageConfigError{Code: gcp.ObjectStorageConfigErrorMissingBucket}, want: StorageProviderBootstrapErrorMissingBucket},
		{name: "missing emulator host", src: &gcp.ObjectStorageConfigError{Code: gcp.ObjectStorageConfigErrorMissingEmulatorHost}, want: StorageProviderBootstrapErrorMissingEmulatorHost},
		{name: "invalid emulator host", src: &gcp.ObjectStorageConfigError{Code: gcp.ObjectStorageConfigErrorInvalidEmulatorHost}, want: StorageProviderBootstrapErrorInvalidEmulatorHost},
		{name: "wrapped config error", src: errors.Join(errors.New("validate"), &gcp.ObjectStorageConfigError{Code: gcp.ObjectStorageConfigErrorMissingBucket}), want: StorageProviderBootstrapErrorMissingBucket},
		{name: "dial failure", src: errors.New("dial tcp: connection refused"), want: StorageProviderBootstrapErrorConnectFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := classifyStorageProviderBootstrapError(gcp.ObjectStorageConfig{Mode: gcp.ObjectStorageModeGCS}, tc.src)
			var got *StorageProviderBootstrapError
			if !errors.As(err, &got) {
				t.Fatalf("expected StorageProviderBootstrapError, got=%T", err)
			}
			if got.Code != tc.want {
				t.Fatalf("code: want=%q got=%q", tc.want, got.Code)
			}
			if !errors.Is(err, tc.src) {
				t.Fatalf("cause not preserved: %v", err)
			}
		})
	}
}

func TestResolveAudioStoreLocal(t *testing.T) {
	store, err := resolveAudioStore(context.Background(), logger.Nop(), Config{
		AudioStorage:  AudioStorageLocal,
		AudioLocalDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("resolveAudioStore: %v", err)
	}
	defer store.Close()

	ref, err := store.Put(context.Background(), "audio/u1/a.webm", "audio/webm", strings.NewReader("webm"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Delete(context.Background(), ref); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestResolveAudioStoreGCS(t *testing.T) {
	cases := []struct {
		name     string
		cfg      Config
		wantMode gcp.ObjectStorageMode
		wantHost string
	}{
		{
			name:     "gcs",
			cfg:      Config{AudioStorage: "gcs", AudioGCSBucket: "answers"},
			wantMode: gcp.ObjectStorageModeGCS,
		},
		{
			name:     "emulator",
			cfg:      Config{AudioStorage: "gcs_emulator", AudioGCSBucket: "answers", StorageEmulatorHost: "http://fake-gcs:4443/"},
			wantMode: gcp.ObjectStorageModeGCSEmulator,
			wantHost: "http://fake-gcs:4443",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seen := stubAudioBucket(t, nil)
			store, err := resolveAudioStore(context.Background(), logger.Nop(), tc.cfg)
			if err != nil {
				t.Fatalf("resolveAudioStore: %v", err)
			}
			if seen.Mode != tc.wantMode {
				t.Fatalf("mode: want=%s got=%s", tc.wantMode, seen.Mode)
			}
			if seen.EmulatorHost != tc.wantHost {
				t.Fatalf("emulator host: want=%q got=%q", tc.wantHost, seen.EmulatorHost)
			}
			ref, _ := store.Put(context.Background(), "audio/a.webm", "audio/webm", strings.NewReader("x"))
			if ref != "gs://answers/audio/a.webm" {
				t.Fatalf("ref: want=%s got=%s", "gs://answers/audio/a.webm", ref)
			}
		})
	}
}

func TestResolveAudioStoreErrors(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		dialErr error
		want    StorageProviderBootstrapErrorCode
	}{
		{name: "unknown mode", cfg: Config{AudioStorage: "s3", AudioGCSBucket: "answers"}, want: StorageProviderBootstrapErrorInvalidMode},
		{name: "missing bucket", cfg: Config{AudioStorage: "gcs"}, want: StorageProviderBootstrapErrorMissingBucket},
		{name: "missing emulator host", cfg: Config{AudioStorage: "gcs_emulator", AudioGCSBucket: "answers"}, want: StorageProviderBootstrapErrorMissingEmulatorHost},
		{name: "invalid emulator host", cfg: Config{AudioStorage: "gcs_emulator", AudioGCSBucket: "answers", StorageEmulatorHost: "fake-gcs:4443"}, want: StorageProviderBootstrapErrorInvalidEmulatorHost},
		{name: "connect failure", cfg: Config{AudioStorage: "gcs", AudioGCSBucket: "answers"}, dialErr: errors.New("no credentials"), want: StorageProviderBootstrapErrorConnectFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stubAudioBucket(t, tc.dialErr)
			_, err := resolveAudioStore(context.Background(), logger.Nop(), tc.cfg)
			if err == nil {
				t.Fatalf("resolveAudioStore: expected error, got nil")
			}
			if got := storageProviderBootstrapErrorCode(err); got != tc.want {
				t.Fatalf("code: want=%q got=%q", tc.want, got)
			}
		})
	}
}
