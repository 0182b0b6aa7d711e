package progress

import (
	"time"

	"gorm.io/datatypes"
)

const DayLayout = "2006-01-02"

// Day returns the calendar date of t in t's own location, as UTC midnight.
func Day(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// DayTime converts a stored date back into a UTC midnight time.Time.
func DayTime(d datatypes.Date) time.Time {
	y, m, dd := time.Time(d).Date()
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}

func FormatDay(d datatypes.Date) string {
	return DayTime(d).Format(DayLayout)
}

func ParseDay(raw string) (datatypes.Date, error) {
	t, err := time.Parse(DayLayout, raw)
	if err != nil {
		return datatypes.Date{}, err
	}
	return datatypes.Date(t), nil
}

// DaysBetween is the signed number of calendar days from a to b.
func DaysBetween(a, b datatypes.Date) int {
	return int(DayTime(b).Sub(DayTime(a)).Hours() / 24)
}

func AddDays(d datatypes.Date, n int) datatypes.Date {
	return datatypes.Date(DayTime(d).AddDate(0, 0, n))
}

func SameDay(a, b datatypes.Date) bool {
	return DayTime(a).Equal(DayTime(b))
}

// Clock yields "today" in the service's configured timezone.
type Clock interface {
	Today() datatypes.Date
}

type zoneClock struct {
	loc *time.Location
	now func() time.Time
}

func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return zoneClock{loc: loc, now: time.Now}
}

func (c zoneClock) Today() datatypes.Date {
	return Day(c.now().In(c.loc))
}

// FixedClock is a Clock pinned to one date.
type FixedClock datatypes.Date

func (c FixedClock) Today() datatypes.Date { return datatypes.Date(c) }
