package app

import (
	"strings"
	"testing"
	"time"

	"github.com/yungbote/speaking-practice-backend/internal/data/db"
	"github.com/yungbote/speaking-practice-backend/internal/platform/logger"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"DB_DRIVER", "AUDIO_STORAGE", "LEDGER_MAX_RETRIES", "DAILY_TARGET", "SCORING_API_KEY", "OPENAI_API_KEY", "REDIS_ADDR"} {
		t.Setenv(k, "")
	}

	cfg := LoadConfig(logger.Nop())
	if cfg.DB.Driver != db.DriverPostgres {
		t.Fatalf("driver: want=%s got=%s", db.DriverPostgres, cfg.DB.Driver)
	}
	if cfg.AudioStorage != AudioStorageLocal {
		t.Fatalf("audio storage: want=%s got=%s", AudioStorageLocal, cfg.AudioStorage)
	}
	if cfg.LedgerMaxRetries != 3 {
		t.Fatalf("ledger retries: want=3 got=%d", cfg.LedgerMaxRetries)
	}
	if cfg.DailyTarget != 25 {
		t.Fatalf("daily target: want=25 got=%d", cfg.DailyTarget)
	}
	if cfg.PrimaryTranscribeTimeout != 30*time.Second || cfg.FallbackTranscribeTimeout != 120*time.Second {
		t.Fatalf("transcribe timeouts: got=%s/%s", cfg.PrimaryTranscribeTimeout, cfg.FallbackTranscribeTimeout)
	}
	if cfg.Scoring.Configured() {
		t.Fatalf("scoring: want unconfigured without a key")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("AUDIO_STORAGE", "GCS")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("SCORING_TIMEOUT_SECONDS", "45")
	t.Setenv("SCORING_API_KEY", "sk-test")

	cfg := LoadConfig(logger.Nop())
	if cfg.DB.Driver != db.DriverSQLite {
		t.Fatalf("driver: want=sqlite got=%s", cfg.DB.Driver)
	}
	if cfg.AudioStorage != "gcs" {
		t.Fatalf("audio storage: want=gcs got=%s", cfg.AudioStorage)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("origins: got=%v", cfg.AllowedOrigins)
	}
	if cfg.ScoringTimeout != 45*time.Second {
		t.Fatalf("scoring timeout: want=45s got=%s", cfg.ScoringTimeout)
	}
	if !cfg.Scoring.Configured() {
		t.Fatalf("scoring: want configured")
	}
}

func TestConfigValidate(t *testing.T) {
	valid := Config{JWTSecretKey: "s", LedgerMaxRetries: 3, DailyTarget: 25, Timezone: "UTC"}
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing secret", mutate: func(c *Config) { c.JWTSecretKey = " " }, wantErr: "JWT_SECRET_KEY"},
		{name: "zero retries", mutate: func(c *Config) { c.LedgerMaxRetries = 0 }, wantErr: "LEDGER_MAX_RETRIES"},
		{name: "zero target", mutate: func(c *Config) { c.DailyTarget = 0 }, wantErr: "DAILY_TARGET"},
		{name: "bad timezone", mutate: func(c *Config) { c.Timezone = "Mars/Olympus" }, wantErr: "Mars/Olympus"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: want=nil got=%v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("Validate: want error containing %q got=%v", tc.wantErr, err)
			}
		})
	}
}
