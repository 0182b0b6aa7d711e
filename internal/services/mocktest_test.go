package services

import (
	"errors"
	"testing"

	"github.com/yungbote/speaking-practice-backend/internal/data/repos/testutil"
	"github.com/yungbote/speaking-practice-backend/internal/domain/practice"
)

func TestMockTestCreateDrawsPerSection(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.SeedUser(t, bg, env.db, "m@example.com")
	other := testutil.SeedUser(t, bg, env.db, "n@example.com")
	testutil.SeedQuestions(t, bg, env.db, practice.CategoryInterview, "Home", 6)
	testutil.SeedQuestions(t, bg, env.db, practice.CategoryLongTurn, "Place", 3)
	testutil.SeedQuestions(t, bg, env.db, practice.CategoryDiscussion, "Society", 2)
	svc := NewMockTestService(env.db, env.log, env.mockTests, env.questions)

	cases := []struct {
		testType practice.MockTestType
		want     map[practice.Category]int
	}{
		{testType: practice.MockTestFull, want: map[practice.Category]int{1: 4, 2: 1, 3: 2}},
		{testType: practice.MockTestPart1, want: map[practice.Category]int{1: 4}},
		{testType: practice.MockTestPart2, want: map[practice.Category]int{2: 1}},
	}
	for _, tc := range cases {
		t.Run(string(tc.testType), func(t *testing.T) {
			m, err := svc.Create(bg, user.ID, tc.testType)
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			got := map[practice.Category]int{}
			for i, q := range m.Questions {
				if q.OrderIndex != i {
					t.Fatalf("order: want=%d got=%d", i, q.OrderIndex)
				}
				got[q.Category]++
			}
			for c, n := range tc.want {
				if got[c] != n {
					t.Fatalf("part %d: want=%d got=%d", c, n, got[c])
				}
			}
			if len(got) != len(tc.want) {
				t.Fatalf("sections: want=%v got=%v", tc.want, got)
			}

			loaded, err := svc.Get(bg, user.ID, m.ID)
			if err != nil || len(loaded.Questions) != len(m.Questions) {
				t.Fatalf("Get: err=%v loaded=%+v", err, loaded)
			}
			if _, err := svc.Get(bg, other.ID, m.ID); !errors.Is(err, ErrMockTestNotFound) {
				t.Fatalf("foreign Get: want=%v got=%v", ErrMockTestNotFound, err)
			}
		})
	}

	list, err := svc.List(bg, user.ID)
	if err != nil || len(list) != len(cases) {
		t.Fatalf("List: len=%d err=%v", len(list), err)
	}
	if _, err := svc.Create(bg, user.ID, "PART9"); err == nil {
		t.Fatalf("Create invalid type: want error")
	}
}
