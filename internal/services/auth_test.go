package services

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/speaking-practice-backend/internal/platform/ctxutil"
)

const testSecret = "test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, key any, sub string, ttl time.Duration) string {
	t.Helper()
	claims := JWTClaims{
		Email: "learner@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestSetContextFromToken(t *testing.T) {
	env := newTestEnv(t)
	svc, err := NewAuthService(env.log, testSecret, env.users)
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	id := uuid.New()

	ctx, err := svc.SetContextFromToken(bg, signToken(t, jwt.SigningMethodHS256, []byte(testSecret), id.String(), time.Hour))
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID != id || rd.Email != "learner@example.com" {
		t.Fatalf("request data: got=%+v", rd)
	}
	me, err := svc.GetMe(ctx)
	if err != nil || me.ID != id {
		t.Fatalf("GetMe: me=%+v err=%v", me, err)
	}
	if _, err := svc.SetContextFromToken(bg, signToken(t, jwt.SigningMethodHS256, []byte(testSecret), id.String(), time.Hour)); err != nil {
		t.Fatalf("second login must reuse the user row: %v", err)
	}

	cases := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "wrong secret", token: signToken(t, jwt.SigningMethodHS256, []byte("other"), id.String(), time.Hour)},
		{name: "expired", token: signToken(t, jwt.SigningMethodHS256, []byte(testSecret), id.String(), -time.Minute)},
		{name: "non uuid subject", token: signToken(t, jwt.SigningMethodHS256, []byte(testSecret), "learner-42", time.Hour)},
		{name: "wrong algorithm", token: signToken(t, jwt.SigningMethodHS512, []byte(testSecret), id.String(), time.Hour)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SetContextFromToken(bg, tc.token)
			if !errors.Is(err, ErrInvalidToken) && !errors.Is(err, ErrMissingToken) {
				t.Fatalf("SetContextFromToken: want token error got=%v", err)
			}
		})
	}
}
