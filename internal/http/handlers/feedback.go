package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/speaking-practice-backend/internal/http/response"
	"github.com/yungbote/speaking-practice-backend/internal/platform/apierr"
	"github.com/yungbote/speaking-practice-backend/internal/services"
)

type FeedbackHandler struct {
	resolver services.FeedbackResolver
}

func NewFeedbackHandler(resolver services.FeedbackResolver) *FeedbackHandler {
	return &FeedbackHandler{resolver: resolver}
}

// POST /api/feedback/analyze
// body: { "transcription": "...", "question_text": "...", "category": 1 }
// Unlike the submission pipeline this endpoint does not degrade: an
// unavailable or failing backend is reported to the caller.
func (h *FeedbackHandler) Analyze(c *gin.Context) {
	var req struct {
		Transcription string     `json:"transcription"`
		QuestionText  string     `json:"question_text"`
		Category      flexString `json:"category"`
	}
	if err := bindJSON(c, &req); err != nil {
		respondErr(c, err)
		return
	}
	category, err := requiredCategory(string(req.Category))
	if err != nil {
		respondErr(c, err)
		return
	}
	if services.TranscriptTooShort(req.Transcription) {
		respondErr(c, apierr.BadRequest("transcript_too_short",
			fmt.Errorf("transcription must be at least %d characters", services.MinTranscriptRunes)))
		return
	}
	a, err := h.resolver.Resolve(c.Request.Context(), req.Transcription, req.QuestionText, category)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"assessment": a,
		"narrative":  services.FormatNarrative(a),
	})
}

// GET /api/feedback/status
func (h *FeedbackHandler) Status(c *gin.Context) {
	response.RespondOK(c, h.resolver.Status(c.Request.Context()))
}
