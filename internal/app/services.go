package app

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/speaking-practice-backend/internal/domain/progress"
	"github.com/yungbote/speaking-practice-backend/internal/platform/logger"
	"github.com/yungbote/speaking-practice-backend/internal/platform/userlock"
	"github.com/yungbote/speaking-practice-backend/internal/services"
)

type Services struct {
	Auth          services.AuthService
	Transcription services.TranscriptionResolver
	Feedback      services.FeedbackResolver
	Ledger        services.ProgressLedger
	Submissions   services.SubmissionService
	Progress      services.ProgressService
	Analytics     services.StreakAnalytics
	Questions     services.QuestionService
	MockTests     services.MockTestService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return Services{}, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}
	clock := progress.NewClock(loc)

	auth, err := services.NewAuthService(log, cfg.JWTSecretKey, repos.User)
	if err != nil {
		return Services{}, fmt.Errorf("init auth service: %w", err)
	}

	transcription := services.NewTranscriptionResolver(services.TranscriptionResolverDeps{
		Log:             log,
		Primary:         services.GoogleFactory(log, cfg.GoogleSpeechEnabled),
		Fallback:        services.WhisperFactory(log, cfg.Whisper),
		PrimaryTimeout:  cfg.PrimaryTranscribeTimeout,
		FallbackTimeout: cfg.FallbackTranscribeTimeout,
	})

	prompt, err := services.LoadFeedbackPrompt()
	if err != nil {
		return Services{}, fmt.Errorf("load feedback prompt: %w", err)
	}
	feedbackDeps := services.FeedbackResolverDeps{
		Log:        log,
		Capability: services.NewPingCapability(nil, false, cfg.ScoringPingTTL),
		Prompt:     prompt,
		Model:      cfg.Scoring.Model,
		Timeout:    cfg.ScoringTimeout,
	}
	if clients.Scoring != nil {
		feedbackDeps.Backend = clients.Scoring
		feedbackDeps.Capability = services.NewPingCapability(clients.Scoring, true, cfg.ScoringPingTTL)
		feedbackDeps.Model = clients.Scoring.Model()
	}
	feedback, err := services.NewFeedbackResolver(feedbackDeps)
	if err != nil {
		return Services{}, fmt.Errorf("init feedback resolver: %w", err)
	}

	ledger := services.NewProgressLedger(db, log, services.ProgressLedgerRepos{
		Submissions: repos.Submission,
		Daily:       repos.DailyCount,
		Activity:    repos.ActivityEntry,
		Categories:  repos.CategoryProgress,
		Streaks:     repos.Streak,
		Questions:   repos.Question,
	}, wireLocker(log, cfg, clients), services.ProgressLedgerConfig{
		MaxAttempts: cfg.LedgerMaxRetries,
		Backoff:     cfg.LedgerBackoff,
		DailyTarget: cfg.DailyTarget,
	})

	submissions := services.NewSubmissionService(services.SubmissionServiceDeps{
		Log:           log,
		Store:         clients.AudioStore,
		Transcription: transcription,
		Feedback:      feedback,
		Ledger:        ledger,
		Submissions:   repos.Submission,
		Questions:     repos.Question,
		UserQuestions: repos.UserQuestion,
		Clock:         clock,
	})

	progressSvc := services.NewProgressService(services.ProgressServiceDeps{
		Log:         log,
		Daily:       repos.DailyCount,
		Activity:    repos.ActivityEntry,
		Categories:  repos.CategoryProgress,
		Streaks:     repos.Streak,
		Questions:   repos.Question,
		Clock:       clock,
		DailyTarget: cfg.DailyTarget,
	})

	return Services{
		Auth:          auth,
		Transcription: transcription,
		Feedback:      feedback,
		Ledger:        ledger,
		Submissions:   submissions,
		Progress:      progressSvc,
		Analytics:     services.NewStreakAnalytics(log, repos.ActivityEntry, repos.Streak, clock),
		Questions:     services.NewQuestionService(log, repos.Question, repos.UserQuestion),
		MockTests:     services.NewMockTestService(db, log, repos.MockTest, repos.Question),
	}, nil
}

// wireLocker serializes ledger commits per user. Redis leases coordinate
// across replicas; without Redis the lock is process-local.
func wireLocker(log *logger.Logger, cfg Config, clients Clients) userlock.Locker {
	if clients.Redis == nil {
		log.Info("Using in-process user lock")
		return userlock.NewLocal()
	}
	log.Info("Using redis user lock", "ttl", cfg.UserLockTTL)
	return userlock.NewRedis(clients.Redis, log, userlock.RedisConfig{TTL: cfg.UserLockTTL})
}
