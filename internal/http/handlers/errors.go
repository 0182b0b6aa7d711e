package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/speaking-practice-backend/internal/domain/aggregates"
	"github.com/yungbote/speaking-practice-backend/internal/http/response"
	"github.com/yungbote/speaking-practice-backend/internal/platform/apierr"
	"github.com/yungbote/speaking-practice-backend/internal/services"
)

// toAPIError is the single mapping from service errors to HTTP errors.
func toAPIError(err error) *apierr.Error {
	var (
		ae   *apierr.Error
		terr *services.TranscriptionError
		serr *services.ScoringError
	)
	switch {
	case errors.As(err, &ae):
		return ae
	case errors.Is(err, services.ErrInvalidCategory):
		return apierr.BadRequest("invalid_category", err)
	case errors.Is(err, services.ErrMissingAudio):
		return apierr.BadRequest("missing_audio", err)
	case errors.Is(err, services.ErrTranscriptEmpty), errors.Is(err, services.ErrQuestionTextEmpty):
		return apierr.BadRequest("invalid_request", err)
	case errors.Is(err, services.ErrInvalidPeriod):
		return apierr.BadRequest("invalid_period", err)
	case errors.As(err, &terr):
		return apierr.New(http.StatusBadGateway, "transcription_failed", err)
	case errors.Is(err, services.ErrScoringUnavailable):
		return apierr.New(http.StatusServiceUnavailable, "scoring_unavailable", err)
	case errors.As(err, &serr):
		return apierr.New(http.StatusInternalServerError, "scoring_failed", err)
	case errors.Is(err, services.ErrQuestionNotFound):
		return apierr.NotFound("question_not_found", err)
	case errors.Is(err, services.ErrMockTestNotFound):
		return apierr.NotFound("mock_test_not_found", err)
	case domainagg.IsCode(err, domainagg.CodeValidation):
		return apierr.BadRequest("invalid_request", err)
	case domainagg.IsCode(err, domainagg.CodeNotFound):
		return apierr.NotFound("not_found", err)
	case errors.Is(err, context.DeadlineExceeded):
		return apierr.New(http.StatusGatewayTimeout, "timeout", err)
	default:
		return apierr.Internal(err)
	}
}

func respondErr(c *gin.Context, err error) {
	response.RespondAPIError(c, toAPIError(err))
}
