package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/speaking-practice-backend/internal/http/handlers"
	httpMW "github.com/yungbote/speaking-practice-backend/internal/http/middleware"
	"github.com/yungbote/speaking-practice-backend/internal/observability"
	"github.com/yungbote/speaking-practice-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	AllowedOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	UserHandler          *httpH.UserHandler
	PracticeHandler      *httpH.PracticeHandler
	TranscriptionHandler *httpH.TranscriptionHandler
	FeedbackHandler      *httpH.FeedbackHandler
	ProgressHandler      *httpH.ProgressHandler
	QuestionHandler      *httpH.QuestionHandler
	MockTestHandler      *httpH.MockTestHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	protected := r.Group("/api")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// User (Me)
		if cfg.UserHandler != nil {
			protected.GET("/users/me", cfg.UserHandler.GetMe)
		}

		// Practice submissions
		if cfg.PracticeHandler != nil {
			protected.POST("/practice/submit", cfg.PracticeHandler.SubmitAudio)
			protected.POST("/practice", cfg.PracticeHandler.SubmitText)
			protected.GET("/practice", cfg.PracticeHandler.List)
			protected.GET("/practice/question/:id", cfg.PracticeHandler.ListByQuestion)
		}

		// Transcription
		if cfg.TranscriptionHandler != nil {
			protected.POST("/transcription/transcribe", cfg.TranscriptionHandler.Transcribe)
			protected.GET("/transcription/status", cfg.TranscriptionHandler.Status)
		}

		// Feedback
		if cfg.FeedbackHandler != nil {
			protected.POST("/feedback/analyze", cfg.FeedbackHandler.Analyze)
			protected.GET("/feedback/status", cfg.FeedbackHandler.Status)
		}

		// Progress
		if cfg.ProgressHandler != nil {
			protected.GET("/progress/daily", cfg.ProgressHandler.Daily)
			protected.GET("/progress/streak", cfg.ProgressHandler.Streak)
			protected.GET("/progress/activity-calendar", cfg.ProgressHandler.ActivityCalendar)
			protected.GET("/progress/category-progress", cfg.ProgressHandler.CategoryProgress)
			protected.GET("/progress/streak-analytics", cfg.ProgressHandler.StreakAnalytics)
		}

		// Questions
		if cfg.QuestionHandler != nil {
			protected.GET("/questions", cfg.QuestionHandler.List)
			protected.GET("/questions/topics", cfg.QuestionHandler.Topics)
			protected.GET("/questions/user", cfg.QuestionHandler.ListUserQuestions)
			protected.POST("/questions/user", cfg.QuestionHandler.CreateUserQuestion)
			protected.DELETE("/questions/user/:id", cfg.QuestionHandler.DeleteUserQuestion)
			protected.GET("/questions/:id", cfg.QuestionHandler.Get)
		}

		// Mock tests
		if cfg.MockTestHandler != nil {
			protected.POST("/mock-tests", cfg.MockTestHandler.Create)
			protected.GET("/mock-tests", cfg.MockTestHandler.List)
			protected.GET("/mock-tests/:id", cfg.MockTestHandler.Get)
		}
	}

	return r
}
