package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/speaking-practice-backend/internal/http/response"
	"github.com/yungbote/speaking-practice-backend/internal/platform/apierr"
	"github.com/yungbote/speaking-practice-backend/internal/services"
)

type ProgressHandler struct {
	progress  services.ProgressService
	analytics services.StreakAnalytics
}

func NewProgressHandler(progress services.ProgressService, analytics services.StreakAnalytics) *ProgressHandler {
	return &ProgressHandler{progress: progress, analytics: analytics}
}

// GET /api/progress/daily
func (h *ProgressHandler) Daily(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	d, err := h.progress.Daily(c.Request.Context(), userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, d)
}

// GET /api/progress/streak
func (h *ProgressHandler) Streak(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	s, err := h.progress.Streak(c.Request.Context(), userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, s)
}

// GET /api/progress/activity-calendar
func (h *ProgressHandler) ActivityCalendar(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	rows, err := h.progress.ActivityCalendar(c.Request.Context(), userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, rows)
}

// GET /api/progress/category-progress
func (h *ProgressHandler) CategoryProgress(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	rows, err := h.progress.CategoryProgress(c.Request.Context(), userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, rows)
}

// GET /api/progress/streak-analytics?year=&month=
func (h *ProgressHandler) StreakAnalytics(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	year, err := queryInt(c, "year")
	if err != nil {
		respondErr(c, err)
		return
	}
	month, err := queryInt(c, "month")
	if err != nil {
		respondErr(c, err)
		return
	}
	r, err := h.analytics.Report(c.Request.Context(), userID, year, month)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, r)
}

func queryInt(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierr.BadRequest("invalid_period", err)
	}
	return n, nil
}
