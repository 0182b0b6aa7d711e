package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/speaking-practice-backend/internal/http/response"
	"github.com/yungbote/speaking-practice-backend/internal/services"
)

type TranscriptionHandler struct {
	resolver      services.TranscriptionResolver
	maxAudioBytes int64
}

func NewTranscriptionHandler(resolver services.TranscriptionResolver, maxAudioBytes int64) *TranscriptionHandler {
	return &TranscriptionHandler{resolver: resolver, maxAudioBytes: maxAudioBytes}
}

// POST /api/transcription/transcribe
// multipart: audio, language_code, use_google
func (h *TranscriptionHandler) Transcribe(c *gin.Context) {
	audio, err := readAudio(c, h.maxAudioBytes)
	if err != nil {
		respondErr(c, err)
		return
	}
	lang := strings.TrimSpace(c.PostForm("language_code"))
	if lang == "" {
		lang = "en-US"
	}
	out, err := h.resolver.Resolve(c.Request.Context(), services.TranscriptionRequest{
		Audio:         audio.data,
		MimeType:      audio.mimeType,
		Language:      lang,
		PreferPrimary: parseBool(c.PostForm("use_google"), true),
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"transcription":  out.Text,
		"method":         out.Method,
		"language_code":  lang,
		"method_display": out.Method.DisplayName(),
	})
}

// GET /api/transcription/status
func (h *TranscriptionHandler) Status(c *gin.Context) {
	response.RespondOK(c, h.resolver.Status(c.Request.Context()))
}
