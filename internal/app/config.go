package app

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/yungbote/speaking-practice-backend/internal/data/db"
	"github.com/yungbote/speaking-practice-backend/internal/domain/progress"
	"github.com/yungbote/speaking-practice-backend/internal/platform/envutil"
	"github.com/yungbote/speaking-practice-backend/internal/platform/logger"
	"github.com/yungbote/speaking-practice-backend/internal/platform/openai"
)

const (
	AudioStorageLocal = "local"

	defaultWhisperModel = "whisper-1"
	defaultScoringModel = "gpt-4o-mini"
)

type Config struct {
	LogMode     string
	Port        string
	ServiceName string
	Environment string

	DB db.Config

	JWTSecretKey   string
	AllowedOrigins []string
	MaxAudioBytes  int64

	GoogleSpeechEnabled       bool
	PrimaryTranscribeTimeout  time.Duration
	FallbackTranscribeTimeout time.Duration
	Whisper                   openai.Config
	Scoring                   openai.Config
	ScoringTimeout            time.Duration
	ScoringPingTTL            time.Duration

	AudioStorage        string
	AudioLocalDir       string
	AudioGCSBucket      string
	StorageEmulatorHost string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	UserLockTTL   time.Duration

	QuestionSeedPath string
	SeedQuestions    bool

	LedgerMaxRetries int
	LedgerBackoff    time.Duration
	DailyTarget      int
	Timezone         string

	MetricsAddr string
}

// LoadDotEnv loads .env if present. A missing file is not an error.
func LoadDotEnv(log *logger.Logger) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("Failed to load .env", "error", err)
	}
}

func LoadConfig(log *logger.Logger) Config {
	configLog := log.With("component", "Config")
	cfg := Config{
		LogMode:     envutil.String("LOG_MODE", "development"),
		Port:        envutil.String("PORT", "8080"),
		ServiceName: envutil.String("OTEL_SERVICE_NAME", "speaking-practice"),
		Environment: envutil.String("APP_ENV", "development"),

		DB: db.Config{
			Driver:           envutil.String("DB_DRIVER", db.DriverPostgres),
			PostgresHost:     envutil.String("POSTGRES_HOST", "localhost"),
			PostgresPort:     envutil.String("POSTGRES_PORT", "5432"),
			PostgresUser:     envutil.String("POSTGRES_USER", "postgres"),
			PostgresPassword: envutil.String("POSTGRES_PASSWORD", ""),
			PostgresName:     envutil.String("POSTGRES_NAME", "speaking_practice"),
			PostgresSSLMode:  envutil.String("POSTGRES_SSLMODE", "disable"),
			SQLitePath:       envutil.String("SQLITE_PATH", "speaking-practice.db"),
			SlowThreshold:    envutil.Duration("DB_SLOW_QUERY_THRESHOLD", 500*time.Millisecond),
		},

		JWTSecretKey:   envutil.String("JWT_SECRET_KEY", ""),
		AllowedOrigins: envutil.List("CORS_ALLOWED_ORIGINS", nil),
		MaxAudioBytes:  int64(envutil.Int("MAX_AUDIO_BYTES", 25<<20)),

		GoogleSpeechEnabled:       envutil.Bool("GOOGLE_SPEECH_ENABLED", true),
		PrimaryTranscribeTimeout:  envutil.Duration("TRANSCRIBE_PRIMARY_TIMEOUT", 30*time.Second),
		FallbackTranscribeTimeout: envutil.Duration("TRANSCRIBE_FALLBACK_TIMEOUT", 120*time.Second),
		Whisper:                   openai.ConfigFromEnv("WHISPER", defaultWhisperModel),
		Scoring:                   openai.ConfigFromEnv("SCORING", defaultScoringModel),
		ScoringTimeout:            envutil.Duration("SCORING_TIMEOUT_SECONDS", 60*time.Second),
		ScoringPingTTL:            envutil.Duration("SCORING_PING_TTL", 30*time.Second),

		AudioStorage:        strings.ToLower(envutil.String("AUDIO_STORAGE", AudioStorageLocal)),
		AudioLocalDir:       envutil.String("AUDIO_LOCAL_DIR", "data/audio"),
		AudioGCSBucket:      envutil.String("AUDIO_GCS_BUCKET", ""),
		StorageEmulatorHost: envutil.String("STORAGE_EMULATOR_HOST", ""),

		RedisAddr:     envutil.String("REDIS_ADDR", ""),
		RedisPassword: envutil.String("REDIS_PASSWORD", ""),
		RedisDB:       envutil.Int("REDIS_DB", 0),
		UserLockTTL:   envutil.Duration("USER_LOCK_TTL", 15*time.Second),

		QuestionSeedPath: envutil.String("QUESTION_SEED_PATH", ""),
		SeedQuestions:    envutil.Bool("SEED_QUESTIONS", true),

		LedgerMaxRetries: envutil.Int("LEDGER_MAX_RETRIES", 3),
		LedgerBackoff:    envutil.Duration("LEDGER_RETRY_BACKOFF", 50*time.Millisecond),
		DailyTarget:      envutil.Int("DAILY_TARGET", progress.DefaultDailyTarget),
		Timezone:         envutil.String("APP_TIMEZONE", "UTC"),

		MetricsAddr: envutil.String("METRICS_ADDR", ":9090"),
	}
	configLog.Info("Configuration loaded",
		"db_driver", cfg.DB.Driver,
		"audio_storage", cfg.AudioStorage,
		"google_speech_enabled", cfg.GoogleSpeechEnabled,
		"whisper_configured", cfg.Whisper.Configured(),
		"scoring_configured", cfg.Scoring.Configured(),
		"redis_lock", cfg.RedisAddr != "",
	)
	return cfg
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.JWTSecretKey) == "" {
		errs = append(errs, errors.New("JWT_SECRET_KEY is required"))
	}
	if c.LedgerMaxRetries < 1 {
		errs = append(errs, errors.New("LEDGER_MAX_RETRIES must be at least 1"))
	}
	if c.DailyTarget < 1 {
		errs = append(errs, errors.New("DAILY_TARGET must be positive"))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
