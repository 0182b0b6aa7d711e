package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/speaking-practice-backend/internal/http/response"
	"github.com/yungbote/speaking-practice-backend/internal/services"
)

type PracticeHandler struct {
	submissions   services.SubmissionService
	maxAudioBytes int64
}

func NewPracticeHandler(submissions services.SubmissionService, maxAudioBytes int64) *PracticeHandler {
	return &PracticeHandler{submissions: submissions, maxAudioBytes: maxAudioBytes}
}

// POST /api/practice/submit
// multipart: audio, category (or part), question_id | user_question_id, language_code, use_google
func (h *PracticeHandler) SubmitAudio(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	category, err := requiredCategory(firstNonEmpty(c.PostForm("category"), c.PostForm("part")))
	if err != nil {
		respondErr(c, err)
		return
	}
	questionID, err := optionalUUID(c.PostForm("question_id"), "question_id")
	if err != nil {
		respondErr(c, err)
		return
	}
	userQuestionID, err := optionalUUID(c.PostForm("user_question_id"), "user_question_id")
	if err != nil {
		respondErr(c, err)
		return
	}
	audio, err := readAudio(c, h.maxAudioBytes)
	if err != nil {
		respondErr(c, err)
		return
	}

	res, err := h.submissions.SubmitAudio(c.Request.Context(), services.SubmitAudioInput{
		UserID:         userID,
		Category:       category,
		QuestionID:     questionID,
		UserQuestionID: userQuestionID,
		Audio:          audio.data,
		MimeType:       audio.mimeType,
		FileName:       audio.fileName,
		LanguageCode:   c.PostForm("language_code"),
		PreferPrimary:  parseBool(c.PostForm("use_google"), true),
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondCreated(c, res)
}

// POST /api/practice
// body: { "category": 1, "transcription": "...", "question_id": "...", "user_question_id": "..." }
func (h *PracticeHandler) SubmitText(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	var req struct {
		Category       flexString `json:"category"`
		Part           flexString `json:"part"`
		Transcription  string     `json:"transcription"`
		QuestionID     string     `json:"question_id"`
		UserQuestionID string     `json:"user_question_id"`
	}
	if err := bindJSON(c, &req); err != nil {
		respondErr(c, err)
		return
	}
	category, err := requiredCategory(firstNonEmpty(string(req.Category), string(req.Part)))
	if err != nil {
		respondErr(c, err)
		return
	}
	questionID, err := optionalUUID(req.QuestionID, "question_id")
	if err != nil {
		respondErr(c, err)
		return
	}
	userQuestionID, err := optionalUUID(req.UserQuestionID, "user_question_id")
	if err != nil {
		respondErr(c, err)
		return
	}
	res, err := h.submissions.SubmitText(c.Request.Context(), services.SubmitTextInput{
		UserID:         userID,
		Category:       category,
		QuestionID:     questionID,
		UserQuestionID: userQuestionID,
		Transcript:     req.Transcription,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondCreated(c, res)
}

// GET /api/practice?limit=&offset=
func (h *PracticeHandler) List(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	limit, offset := pagination(c)
	subs, err := h.submissions.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"submissions": subs, "limit": limit, "offset": offset})
}

// GET /api/practice/question/:id
func (h *PracticeHandler) ListByQuestion(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	questionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	subs, err := h.submissions.ListByQuestion(c.Request.Context(), userID, questionID)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"question_id": questionID, "submissions": subs})
}
