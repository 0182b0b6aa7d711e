package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/speaking-practice-backend/internal/data/repos"
	"github.com/yungbote/speaking-practice-backend/internal/data/repos/testutil"
	"github.com/yungbote/speaking-practice-backend/internal/domain/practice"
)

func TestSeedQuestionsIsIdempotent(t *testing.T) {
	env := newTestEnv(t)

	n, err := SeedQuestions(bg, env.log, env.questions, "")
	if err != nil {
		t.Fatalf("SeedQuestions: %v", err)
	}
	if n != 20 {
		t.Fatalf("first seed: want=20 got=%d", n)
	}
	n, err = SeedQuestions(bg, env.log, env.questions, "")
	if err != nil || n != 0 {
		t.Fatalf("second seed: want=0 got=%d err=%v", n, err)
	}

	svc := NewQuestionService(env.log, env.questions, env.userQuestions)
	c := practice.CategoryLongTurn
	qs, err := svc.List(bg, repos.QuestionFilter{Category: &c})
	if err != nil || len(qs) != 5 {
		t.Fatalf("List part 2: len=%d err=%v", len(qs), err)
	}
	topics, err := svc.Topics(bg, nil)
	if err != nil || len(topics) == 0 {
		t.Fatalf("Topics: %v err=%v", topics, err)
	}
	if _, err := svc.Get(bg, uuid.New()); !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("Get missing: want=%v got=%v", ErrQuestionNotFound, err)
	}
}

func TestParseQuestionSeed(t *testing.T) {
	cases := []struct {
		name    string
		yaml    string
		want    int
		wantErr bool
	}{
		{name: "dedupes", yaml: "questions:\n  - {part: 1, topic: A, text: \"Hi?\"}\n  - {part: 1, topic: A, text: \" Hi? \"}\n  - {part: 2, topic: A, text: \"Hi?\"}\n", want: 2},
		{name: "invalid part", yaml: "questions:\n  - {part: 4, topic: A, text: \"Hi?\"}\n", wantErr: true},
		{name: "empty text", yaml: "questions:\n  - {part: 1, topic: A, text: ''}\n", wantErr: true},
		{name: "malformed", yaml: "questions: [", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseQuestionSeed([]byte(tc.yaml))
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseQuestionSeed: want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseQuestionSeed: %v", err)
			}
			if len(got) != tc.want {
				t.Fatalf("ParseQuestionSeed: want=%d got=%d", tc.want, len(got))
			}
		})
	}
}

func TestUserQuestionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	owner := testutil.SeedUser(t, bg, env.db, "u@example.com")
	other := testutil.SeedUser(t, bg, env.db, "v@example.com")
	svc := NewQuestionService(env.log, env.questions, env.userQuestions)

	if _, err := svc.CreateUserQuestion(bg, CreateUserQuestionInput{UserID: owner.ID, Category: 0, Text: "x"}); !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("invalid category: want=%v got=%v", ErrInvalidCategory, err)
	}
	if _, err := svc.CreateUserQuestion(bg, CreateUserQuestionInput{UserID: owner.ID, Category: 3, Text: "  "}); !errors.Is(err, ErrQuestionTextEmpty) {
		t.Fatalf("empty text: want=%v got=%v", ErrQuestionTextEmpty, err)
	}
	q, err := svc.CreateUserQuestion(bg, CreateUserQuestionInput{UserID: owner.ID, Category: 3, Topic: " Cities ", Text: " Should cities ban cars? "})
	if err != nil {
		t.Fatalf("CreateUserQuestion: %v", err)
	}
	if q.Text != "Should cities ban cars?" || q.Topic != "Cities" {
		t.Fatalf("trimmed: got text=%q topic=%q", q.Text, q.Topic)
	}

	c := practice.CategoryDiscussion
	list, err := svc.ListUserQuestions(bg, owner.ID, &c)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListUserQuestions: len=%d err=%v", len(list), err)
	}
	if err := svc.DeleteUserQuestion(bg, other.ID, q.ID); !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("foreign delete: want=%v got=%v", ErrQuestionNotFound, err)
	}
	if err := svc.DeleteUserQuestion(bg, owner.ID, q.ID); err != nil {
		t.Fatalf("DeleteUserQuestion: %v", err)
	}
	if err := svc.DeleteUserQuestion(bg, owner.ID, q.ID); !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("second delete: want=%v got=%v", ErrQuestionNotFound, err)
	}
}
