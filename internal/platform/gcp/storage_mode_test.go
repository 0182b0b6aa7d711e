package gcp

import (
	"errors"
	"testing"
)

func TestResolveObjectStorageConfig(t *testing.T) {
	cases := []struct {
		name     string
		mode     string
		bucket   string
		emulator string
		wantMode ObjectStorageMode
		wantCode ObjectStorageConfigErrorCode
	}{
		{name: "default gcs", bucket: "audio", wantMode: ObjectStorageModeGCS},
		{name: "explicit gcs ignores emulator", mode: "gcs", bucket: "audio", emulator: "http://fake-gcs:4443", wantMode: ObjectStorageModeGCS},
		{name: "implicit emulator", bucket: "audio", emulator: "http://fake-gcs:4443/", wantMode: ObjectStorageModeGCSEmulator},
		{name: "explicit emulator", mode: "GCS_EMULATOR", bucket: "audio", emulator: "http://fake-gcs:4443", wantMode: ObjectStorageModeGCSEmulator},
		{name: "missing bucket", mode: "gcs", wantCode: ObjectStorageConfigErrorMissingBucket},
		{name: "emulator without host", mode: "gcs_emulator", bucket: "audio", wantCode: ObjectStorageConfigErrorMissingEmulatorHost},
		{name: "emulator bad host", mode: "gcs_emulator", bucket: "audio", emulator: "fake-gcs", wantCode: ObjectStorageConfigErrorInvalidEmulatorHost},
		{name: "unknown mode", mode: "s3", bucket: "audio", wantCode: ObjectStorageConfigErrorInvalidMode},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := ResolveObjectStorageConfig(tc.mode, tc.bucket, tc.emulator)
			if tc.wantCode != "" {
				var cfgErr *ObjectStorageConfigError
				if !errors.As(err, &cfgErr) {
					t.Fatalf("error: want=*ObjectStorageConfigError got=%v", err)
				}
				if cfgErr.Code != tc.wantCode {
					t.Fatalf("code: want=%s got=%s", tc.wantCode, cfgErr.Code)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveObjectStorageConfig: %v", err)
			}
			if cfg.Mode != tc.wantMode {
				t.Fatalf("mode: want=%s got=%s", tc.wantMode, cfg.Mode)
			}
		})
	}
}
