package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/speaking-practice-backend/internal/platform/apierr"
	"github.com/yungbote/speaking-practice-backend/internal/services"
)

const DefaultMaxAudioBytes = 25 << 20

type uploadedAudio struct {
	data     []byte
	mimeType string
	fileName string
}

// readAudio loads the multipart "audio" part, bounded by limit bytes.
func readAudio(c *gin.Context, limit int64) (*uploadedAudio, error) {
	if limit <= 0 {
		limit = DefaultMaxAudioBytes
	}
	fh, err := c.FormFile("audio")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, services.ErrMissingAudio
		}
		return nil, apierr.BadRequest("invalid_request", err)
	}
	if fh.Size > limit {
		return nil, apierr.New(http.StatusRequestEntityTooLarge, "audio_too_large", fmt.Errorf("audio exceeds %d bytes", limit))
	}
	data, err := readPart(fh, limit)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, services.ErrMissingAudio
	}
	mt := strings.TrimSpace(fh.Header.Get("Content-Type"))
	if mt == "" || mt == "application/octet-stream" {
		mt = http.DetectContentType(data)
	}
	return &uploadedAudio{data: data, mimeType: mt, fileName: fh.Filename}, nil
}

func readPart(fh *multipart.FileHeader, limit int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, apierr.BadRequest("invalid_request", err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, apierr.BadRequest("invalid_request", err)
	}
	if int64(len(data)) > limit {
		return nil, apierr.New(http.StatusRequestEntityTooLarge, "audio_too_large", fmt.Errorf("audio exceeds %d bytes", limit))
	}
	return data, nil
}
