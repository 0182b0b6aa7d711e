package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/speaking-practice-backend/internal/data/repos"
	"github.com/yungbote/speaking-practice-backend/internal/http/response"
	"github.com/yungbote/speaking-practice-backend/internal/services"
)

type QuestionHandler struct {
	questions services.QuestionService
}

func NewQuestionHandler(questions services.QuestionService) *QuestionHandler {
	return &QuestionHandler{questions: questions}
}

// GET /api/questions?category=&topic=
func (h *QuestionHandler) List(c *gin.Context) {
	category, err := optionalCategory(c.Query("category"))
	if err != nil {
		respondErr(c, err)
		return
	}
	qs, err := h.questions.List(c.Request.Context(), repos.QuestionFilter{
		Category: category,
		Topic:    strings.TrimSpace(c.Query("topic")),
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, qs)
}

// GET /api/questions/topics?category=
func (h *QuestionHandler) Topics(c *gin.Context) {
	category, err := optionalCategory(c.Query("category"))
	if err != nil {
		respondErr(c, err)
		return
	}
	topics, err := h.questions.Topics(c.Request.Context(), category)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"topics": topics})
}

// GET /api/questions/:id
func (h *QuestionHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	q, err := h.questions.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, q)
}

// GET /api/questions/user?category=
func (h *QuestionHandler) ListUserQuestions(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	category, err := optionalCategory(c.Query("category"))
	if err != nil {
		respondErr(c, err)
		return
	}
	qs, err := h.questions.ListUserQuestions(c.Request.Context(), userID, category)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, qs)
}

// POST /api/questions/user
// body: { "category": 2, "topic": "...", "question_text": "..." }
func (h *QuestionHandler) CreateUserQuestion(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	var req struct {
		Category     flexString `json:"category"`
		Topic        string     `json:"topic"`
		QuestionText string     `json:"question_text"`
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
	q, err := h.questions.CreateUserQuestion(c.Request.Context(), services.CreateUserQuestionInput{
		UserID:   userID,
		Category: category,
		Topic:    req.Topic,
		Text:     req.QuestionText,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondCreated(c, q)
}

// DELETE /api/questions/user/:id
func (h *QuestionHandler) DeleteUserQuestion(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.questions.DeleteUserQuestion(c.Request.Context(), userID, id); err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
