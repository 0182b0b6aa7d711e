package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCORSOrigins(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name    string
		allowed []string
		origin  string
		want    string
	}{
		{name: "default dev origin", origin: "http://localhost:5173", want: "http://localhost:5173"},
		{name: "configured origin", allowed: []string{"https://speak.example.com"}, origin: "https://speak.example.com", want: "https://speak.example.com"},
		{name: "unlisted origin", allowed: []string{"https://speak.example.com"}, origin: "https://evil.example.com", want: ""},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r := gin.New()
			r.Use(CORS(tc.allowed))
			r.OPTIONS("/api/practice/submit", func(c *gin.Context) {
				c.Status(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodOptions, "/api/practice/submit", nil)
			req.Header.Set("Origin", tc.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tc.want {
				t.Fatalf("unexpected allow-origin header: got=%q want=%q", got, tc.want)
			}
		})
	}
}
