package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/speaking-practice-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:          uuid.New(),
		Email:       email,
		DisplayName: "Learner",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedQuestions inserts n pool questions for the category.
func SeedQuestions(tb testing.TB, ctx context.Context, tx *gorm.DB, category types.Category, topic string, n int) []*types.Question {
	tb.Helper()
	out := make([]*types.Question, 0, n)
	for i := 0; i < n; i++ {
		q := &types.Question{
			Category: category,
			Topic:    topic,
			Text:     fmt.Sprintf("%s question %d for part %d?", topic, i+1, int(category)),
		}
		if err := tx.WithContext(ctx).Create(q).Error; err != nil {
			tb.Fatalf("seed question: %v", err)
		}
		out = append(out, q)
	}
	return out
}

func SeedUserQuestion(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, category types.Category, text string) *types.UserQuestion {
	tb.Helper()
	q := &types.UserQuestion{
		UserID:   userID,
		Category: category,
		Topic:    "custom",
		Text:     text,
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed user question: %v", err)
	}
	return q
}
