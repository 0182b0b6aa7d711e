package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/speaking-practice-backend/internal/http/response"
	"github.com/yungbote/speaking-practice-backend/internal/services"
)

type UserHandler struct {
	auth services.AuthService
}

func NewUserHandler(auth services.AuthService) *UserHandler {
	return &UserHandler{auth: auth}
}

// GET /api/users/me
func (uh *UserHandler) GetMe(c *gin.Context) {
	me, err := uh.auth.GetMe(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"me": me})
}
