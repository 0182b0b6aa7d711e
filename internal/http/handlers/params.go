package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/speaking-practice-backend/internal/domain/practice"
	"github.com/yungbote/speaking-practice-backend/internal/platform/apierr"
	"github.com/yungbote/speaking-practice-backend/internal/platform/ctxutil"
	"github.com/yungbote/speaking-practice-backend/internal/services"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func requestUserID(c *gin.Context) (uuid.UUID, bool) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		respondErr(c, apierr.New(http.StatusUnauthorized, "unauthorized", errors.New("missing user")))
		return uuid.Nil, false
	}
	return rd.UserID, true
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		respondErr(c, apierr.BadRequest("invalid_id", err))
		return uuid.Nil, false
	}
	return id, true
}

// optionalUUID parses an optional form or query value. Empty means absent.
func optionalUUID(raw, field string) (*uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apierr.BadRequest("invalid_"+field, err)
	}
	return &id, nil
}

func requiredCategory(raw string) (practice.Category, error) {
	c, err := practice.ParseCategory(raw)
	if err != nil {
		return 0, apierr.BadRequest("invalid_category", errors.Join(services.ErrInvalidCategory, err))
	}
	return c, nil
}

func optionalCategory(raw string) (*practice.Category, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	c, err := requiredCategory(raw)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if err != nil || limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

func parseBool(raw string, def bool) bool {
	if strings.TrimSpace(raw) == "" {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return b
}

func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apierr.BadRequest("invalid_request", err)
	}
	return nil
}

// flexString accepts a JSON string or a bare number, so "category": 2 and
// "category": "part2" both bind.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(b)
	return nil
}

// firstNonEmpty returns the first value that is not blank.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
