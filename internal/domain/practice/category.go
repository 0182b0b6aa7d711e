package practice

import (
	"fmt"
	"strconv"
	"strings"
)

// Category is the exam section a response belongs to.
type Category int

const (
	CategoryInterview  Category = 1
	CategoryLongTurn   Category = 2
	CategoryDiscussion Category = 3
)

var Categories = []Category{CategoryInterview, CategoryLongTurn, CategoryDiscussion}

func (c Category) Valid() bool {
	return c >= CategoryInterview && c <= CategoryDiscussion
}

func (c Category) String() string {
	return "part" + strconv.Itoa(int(c))
}

// ParseCategory accepts "2", "part2" or "PART2".
func ParseCategory(raw string) (Category, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "part")
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid category %q", raw)
	}
	c := Category(n)
	if !c.Valid() {
		return 0, fmt.Errorf("invalid category %d", n)
	}
	return c, nil
}
