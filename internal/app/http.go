package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/speaking-practice-backend/internal/http"
	httpH "github.com/yungbote/speaking-practice-backend/internal/http/handlers"
	httpMW "github.com/yungbote/speaking-practice-backend/internal/http/middleware"
	"github.com/yungbote/speaking-practice-backend/internal/observability"
	"github.com/yungbote/speaking-practice-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health        *httpH.HealthHandler
	User          *httpH.UserHandler
	Practice      *httpH.PracticeHandler
	Transcription *httpH.TranscriptionHandler
	Feedback      *httpH.FeedbackHandler
	Progress      *httpH.ProgressHandler
	Question      *httpH.QuestionHandler
	MockTest      *httpH.MockTestHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, cfg Config, services Services) (Handlers, error) {
	log.Info("Wiring handlers...")
	sqlDB, err := db.DB()
	if err != nil {
		return Handlers{}, err
	}
	return Handlers{
		Health:        httpH.NewHealthHandler(sqlDB),
		User:          httpH.NewUserHandler(services.Auth),
		Practice:      httpH.NewPracticeHandler(services.Submissions, cfg.MaxAudioBytes),
		Transcription: httpH.NewTranscriptionHandler(services.Transcription, cfg.MaxAudioBytes),
		Feedback:      httpH.NewFeedbackHandler(services.Feedback),
		Progress:      httpH.NewProgressHandler(services.Progress, services.Analytics),
		Question:      httpH.NewQuestionHandler(services.Questions),
		MockTest:      httpH.NewMockTestHandler(services.MockTests),
	}, nil
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

// wireServer attaches otelgin only when a tracer provider was installed.
func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, tracing bool, handlers Handlers, middleware Middleware) *http.Server {
	serviceName := ""
	if tracing {
		serviceName = cfg.ServiceName
	}
	return http.NewServer(http.RouterConfig{
		Log:            log,
		Metrics:        metrics,
		ServiceName:    serviceName,
		AllowedOrigins: cfg.AllowedOrigins,

		AuthMiddleware: middleware.Auth,

		UserHandler:          handlers.User,
		PracticeHandler:      handlers.Practice,
		TranscriptionHandler: handlers.Transcription,
		FeedbackHandler:      handlers.Feedback,
		ProgressHandler:      handlers.Progress,
		QuestionHandler:      handlers.Question,
		MockTestHandler:      handlers.MockTest,

		HealthHandler: handlers.Health,
	})
}
