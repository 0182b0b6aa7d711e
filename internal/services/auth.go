package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/speaking-practice-backend/internal/data/repos"
	"github.com/yungbote/speaking-practice-backend/internal/domain/user"
	"github.com/yungbote/speaking-practice-backend/internal/platform/ctxutil"
	"github.com/yungbote/speaking-practice-backend/internal/platform/dbctx"
	"github.com/yungbote/speaking-practice-backend/internal/platform/logger"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid or expired token")
)

// JWTClaims are issued by the identity provider; only HS256 is accepted.
type JWTClaims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

type AuthService interface {
	// SetContextFromToken verifies the bearer token, mirrors the subject into
	// the user table and attaches the request data to ctx.
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetMe(ctx context.Context) (*user.User, error)
}

type authService struct {
	log    *logger.Logger
	secret []byte
	users  repos.UserRepo
}

func NewAuthService(log *logger.Logger, secret string, users repos.UserRepo) (AuthService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if log == nil {
		log = logger.Nop()
	}
	return &authService{log: log.With("service", "AuthService"), secret: []byte(secret), users: users}, nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return ctx, ErrMissingToken
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	parsed, err := parser.ParseWithClaims(tokenString, &JWTClaims{}, func(*jwt.Token) (any, error) {
		return as.secret, nil
	})
	if err != nil {
		return ctx, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("%w: subject is not a uuid", ErrInvalidToken)
	}
	if as.users != nil {
		u := &user.User{ID: userID, Email: claims.Email, DisplayName: claims.Name}
		if err := as.users.Ensure(dbctx.Context{Ctx: ctx}, u); err != nil {
			return ctx, fmt.Errorf("ensure user: %w", err)
		}
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: userID, Email: claims.Email}), nil
}

func (as *authService) GetMe(ctx context.Context) (*user.User, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, ErrMissingToken
	}
	u, err := as.users.GetByID(dbctx.Context{Ctx: ctx}, rd.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user %s not found", rd.UserID)
	}
	return u, nil
}
