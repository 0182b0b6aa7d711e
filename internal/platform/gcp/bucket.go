package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/speaking-practice-backend/internal/platform/logger"
)

const gcsScheme = "gs://"

// AudioBucket stores recorded answers as objects in one bucket. Refs are gs:// URIs.
type AudioBucket interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, ref string) error
	Close() error
}

type audioBucket struct {
	log    *logger.Logger
	client *storage.Client
	bucket string
}

func NewAudioBucket(ctx context.Context, log *logger.Logger, cfg ObjectStorageConfig) (AudioBucket, error) {
	if err := ValidateObjectStorageConfig(cfg); err != nil {
		return nil, fmt.Errorf("validate object storage config: %w", err)
	}
	client, err := newStorageClientForMode(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	b := &audioBucket{
		log:    log.With("service", "AudioBucket"),
		client: client,
		bucket: cfg.Bucket,
	}
	b.log.Info("Audio object storage initialized", "mode", cfg.Mode, "bucket", cfg.Bucket, "emulator_host", cfg.EmulatorHost)
	return b, nil
}

func newStorageClientForMode(ctx context.Context, cfg ObjectStorageConfig) (*storage.Client, error) {
	switch cfg.Mode {
	case ObjectStorageModeGCS:
		opts := ClientOptionsFromEnv()
		opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
		return storage.NewClient(ctx, opts...)
	case ObjectStorageModeGCSEmulator:
		_ = os.Setenv("STORAGE_EMULATOR_HOST", cfg.EmulatorHost)
		return storage.NewClient(ctx, option.WithoutAuthentication())
	default:
		return nil, &ObjectStorageConfigError{Code: ObjectStorageConfigErrorInvalidMode, Mode: string(cfg.Mode)}
	}
}

func (b *audioBucket) Put(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return "", fmt.Errorf("audio bucket: empty key")
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := b.client.Bucket(b.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if w.ContentType == "" {
		w.ContentType = contentTypeForKey(key)
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return ObjectRef(b.bucket, key), nil
}

func (b *audioBucket) Delete(ctx context.Context, ref string) error {
	bucket, key, err := ParseObjectRef(ref)
	if err != nil {
		return err
	}
	if bucket != b.bucket {
		return fmt.Errorf("audio bucket: ref %q is not in bucket %q", ref, b.bucket)
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := b.client.Bucket(bucket).Object(key).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil
		}
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", key, bucket, err)
	}
	return nil
}

func (b *audioBucket) Close() error {
	if b == nil || b.client == nil {
		return nil
	}
	return b.client.Close()
}

func ObjectRef(bucket, key string) string {
	return gcsScheme + bucket + "/" + strings.TrimLeft(key, "/")
}

func ParseObjectRef(ref string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(ref), gcsScheme)
	if !ok {
		return "", "", fmt.Errorf("not a gs:// ref: %q", ref)
	}
	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("malformed gs:// ref: %q", ref)
	}
	return bucket, key, nil
}

func contentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	if i := strings.Index(s, "?"); i >= 0 {
		s = s[:i]
	}
	switch {
	case strings.HasSuffix(s, ".webm"):
		return "audio/webm"
	case strings.HasSuffix(s, ".wav"):
		return "audio/wav"
	case strings.HasSuffix(s, ".mp3"):
		return "audio/mpeg"
	case strings.HasSuffix(s, ".ogg"), strings.HasSuffix(s, ".opus"):
		return "audio/ogg"
	case strings.HasSuffix(s, ".flac"):
		return "audio/flac"
	case strings.HasSuffix(s, ".m4a"):
		return "audio/mp4"
	default:
		return "application/octet-stream"
	}
}
