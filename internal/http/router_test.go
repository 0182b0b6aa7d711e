package http

import (
	"context"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/speaking-practice-backend/internal/domain/user"
	httpH "github.com/yungbote/speaking-practice-backend/internal/http/handlers"
	httpMW "github.com/yungbote/speaking-practice-backend/internal/http/middleware"
	"github.com/yungbote/speaking-practice-backend/internal/platform/logger"
)

type denyAll struct{}

func (denyAll) SetContextFromToken(ctx context.Context, token string) (context.Context, error) {
	return ctx, errors.New("invalid or expired token")
}
func (denyAll) GetMe(context.Context) (*user.User, error) { return nil, nil }

type pingFunc func(context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestRouterHealthAndAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		ping       error
		path       string
		wantStatus int
	}{
		{name: "healthy", path: "/healthcheck", wantStatus: nethttp.StatusOK},
		{name: "database down", ping: errors.New("refused"), path: "/healthcheck", wantStatus: nethttp.StatusServiceUnavailable},
		{name: "protected without token", path: "/api/progress/daily", wantStatus: nethttp.StatusUnauthorized},
		{name: "unknown route", path: "/api/nope", wantStatus: nethttp.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ping := tc.ping
			r := NewRouter(RouterConfig{
				Log:             logger.Nop(),
				AuthMiddleware:  httpMW.NewAuthMiddleware(logger.Nop(), denyAll{}),
				HealthHandler:   httpH.NewHealthHandler(pingFunc(func(context.Context) error { return ping })),
				ProgressHandler: httpH.NewProgressHandler(nil, nil),
			})
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, tc.path, nil))
			if rec.Code != tc.wantStatus {
				t.Fatalf("status: want=%d got=%d", tc.wantStatus, rec.Code)
			}
			if rec.Header().Get("X-Request-Id") == "" {
				t.Fatalf("missing X-Request-Id header")
			}
		})
	}
}
