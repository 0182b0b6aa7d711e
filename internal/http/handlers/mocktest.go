package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/speaking-practice-backend/internal/domain/practice"
	"github.com/yungbote/speaking-practice-backend/internal/http/response"
	"github.com/yungbote/speaking-practice-backend/internal/platform/apierr"
	"github.com/yungbote/speaking-practice-backend/internal/services"
)

type MockTestHandler struct {
	tests services.MockTestService
}

func NewMockTestHandler(tests services.MockTestService) *MockTestHandler {
	return &MockTestHandler{tests: tests}
}

// POST /api/mock-tests
// body: { "test_type": "PART1" | "PART2" | "PART3" | "FULL" }
func (h *MockTestHandler) Create(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	var req struct {
		TestType string `json:"test_type"`
	}
	if err := bindJSON(c, &req); err != nil {
		respondErr(c, err)
		return
	}
	testType, err := practice.ParseMockTestType(req.TestType)
	if err != nil {
		respondErr(c, apierr.BadRequest("invalid_test_type", err))
		return
	}
	m, err := h.tests.Create(c.Request.Context(), userID, testType)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondCreated(c, m)
}

// GET /api/mock-tests
func (h *MockTestHandler) List(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	tests, err := h.tests.List(c.Request.Context(), userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, tests)
}

// GET /api/mock-tests/:id
func (h *MockTestHandler) Get(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	m, err := h.tests.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, m)
}
