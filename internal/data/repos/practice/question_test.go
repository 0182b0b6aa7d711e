package practice

import (
	"context"
	"testing"

	"github.com/yungbote/speaking-practice-backend/internal/data/repos/testutil"
	types "github.com/yungbote/speaking-practice-backend/internal/domain"
	"github.com/yungbote/speaking-practice-backend/internal/domain/practice"
	"github.com/yungbote/speaking-practice-backend/internal/platform/dbctx"
)

func TestQuestionRepoFiltersAndCounts(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewQuestionRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx}

	testutil.SeedQuestions(t, ctx, db, practice.CategoryInterview, "hometown", 3)
	testutil.SeedQuestions(t, ctx, db, practice.CategoryInterview, "work", 2)
	testutil.SeedQuestions(t, ctx, db, practice.CategoryLongTurn, "travel", 4)

	n, err := repo.CountByCategory(dbc, practice.CategoryInterview)
	if err != nil {
		t.Fatalf("CountByCategory: %v", err)
	}
	if n != 5 {
		t.Fatalf("CountByCategory: want=5 got=%d", n)
	}

	cat := practice.CategoryInterview
	list, err := repo.List(dbc, QuestionFilter{Category: &cat, Topic: "work"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List(part1, work): want=2 got=%d", len(list))
	}

	topics, err := repo.ListTopics(dbc, nil)
	if err != nil {
		t.Fatalf("ListTopics: %v", err)
	}
	if len(topics) != 3 || topics[0] != "hometown" || topics[2] != "work" {
		t.Fatalf("ListTopics: got=%v", topics)
	}

	sample, err := repo.Sample(dbc, practice.CategoryLongTurn, 2)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if len(sample) != 2 {
		t.Fatalf("Sample: want=2 got=%d", len(sample))
	}
}

func TestQuestionRepoInsertMissingSkipsDuplicates(t *testing.T) {
	db := testutil.DB(t)
	repo := NewQuestionRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	batch := func() []*types.Question {
		return []*types.Question{
			{Category: practice.CategoryInterview, Topic: "food", Text: "What do you usually eat for breakfast?"},
			{Category: practice.CategoryDiscussion, Topic: "food", Text: "How have eating habits changed in your country?"},
		}
	}
	first, err := repo.InsertMissing(dbc, batch())
	if err != nil {
		t.Fatalf("InsertMissing: %v", err)
	}
	if first != 2 {
		t.Fatalf("InsertMissing first: want=2 got=%d", first)
	}
	second, err := repo.InsertMissing(dbc, batch())
	if err != nil {
		t.Fatalf("InsertMissing again: %v", err)
	}
	if second != 0 {
		t.Fatalf("InsertMissing again: want=0 got=%d", second)
	}
}

func TestUserQuestionRepoScopesToOwner(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewUserQuestionRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx}

	owner := testutil.SeedUser(t, ctx, db, "owner@example.com")
	other := testutil.SeedUser(t, ctx, db, "other@example.com")
	q := testutil.SeedUserQuestion(t, ctx, db, owner.ID, practice.CategoryLongTurn, "Describe a teacher who influenced you.")

	got, err := repo.GetForUser(dbc, other.ID, q.ID)
	if err != nil {
		t.Fatalf("GetForUser: %v", err)
	}
	if got != nil {
		t.Fatalf("GetForUser other: want nil got=%+v", got)
	}
	deleted, err := repo.DeleteForUser(dbc, other.ID, q.ID)
	if err != nil || deleted {
		t.Fatalf("DeleteForUser other: want=false got=%v err=%v", deleted, err)
	}
	deleted, err = repo.DeleteForUser(dbc, owner.ID, q.ID)
	if err != nil || !deleted {
		t.Fatalf("DeleteForUser owner: want=true got=%v err=%v", deleted, err)
	}
}
