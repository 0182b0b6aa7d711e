// Package analytics projects calendar, heatmap, streak and rollup views from
// a user's activity log. Every function is pure: callers pass the entries and
// the reference day, nothing is read or written here.
package analytics

import (
	"sort"
	"time"

	"gorm.io/datatypes"

	"github.com/yungbote/speaking-practice-backend/internal/domain/progress"
)

const (
	HeatmapWindowDays = 365
	HistoryWindowDays = 180
	MonthlyWindow     = 12
)

// Entry is one (date, count) pair from the activity log.
type Entry struct {
	Date  datatypes.Date
	Count int
}

func FromActivity(rows []*progress.ActivityEntry) []Entry {
	out := make([]Entry, 0, len(rows))
	for _, r := range rows {
		if r == nil {
			continue
		}
		out = append(out, Entry{Date: r.PracticeDate, Count: r.PracticeCount})
	}
	return out
}

type CalendarDay struct {
	Date          string `json:"date"`
	HasActivity   bool   `json:"has_activity"`
	PracticeCount int    `json:"practice_count"`
}

type HeatmapEntry struct {
	Date          string `json:"date"`
	PracticeCount int    `json:"practice_count"`
}

type StreakSegment struct {
	StartDate    string `json:"start_date"`
	StreakLength int    `json:"streak_length"`
	IsActive     bool   `json:"is_active"`
}

type WeekdayTotal struct {
	DayOfWeek     int    `json:"day_of_week"`
	DayName       string `json:"day_name"`
	TotalPractice int    `json:"total_practice"`
}

type MonthTotal struct {
	Month         string `json:"month"`
	MonthNumber   int    `json:"month_number"`
	Year          int    `json:"year"`
	TotalPractice int    `json:"total_practice"`
}

type TimeOfDayBucket struct {
	Period        string `json:"period"`
	TotalPractice int    `json:"total_practice"`
	Derived       bool   `json:"derived"`
}

func byDay(entries []Entry) map[string]int {
	m := make(map[string]int, len(entries))
	for _, e := range entries {
		m[progress.FormatDay(e.Date)] += e.Count
	}
	return m
}

func sorted(entries []Entry) []Entry {
	out := append([]Entry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		return progress.DayTime(out[i].Date).Before(progress.DayTime(out[j].Date))
	})
	return out
}

// CalendarDays reports every day of the month, with zero counts for days
// without an entry.
func CalendarDays(entries []Entry, year int, month time.Month) []CalendarDay {
	counts := byDay(entries)
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	out := []CalendarDay{}
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		key := d.Format(progress.DayLayout)
		n := counts[key]
		out = append(out, CalendarDay{Date: key, HasActivity: n > 0, PracticeCount: n})
	}
	return out
}

// OffDays counts the days after last and before today with no activity.
// It returns 0 when last is nil or not in the past.
func OffDays(entries []Entry, last *datatypes.Date, today datatypes.Date) int {
	if last == nil {
		return 0
	}
	gap := progress.DaysBetween(*last, today)
	if gap <= 1 {
		return 0
	}
	counts := byDay(entries)
	off := 0
	for i := 1; i < gap; i++ {
		if counts[progress.FormatDay(progress.AddDays(*last, i))] == 0 {
			off++
		}
	}
	return off
}

// YearlyHeatmap returns the entries dated within the last 365 days, ascending.
func YearlyHeatmap(entries []Entry, today datatypes.Date) []HeatmapEntry {
	out := []HeatmapEntry{}
	for _, e := range sorted(entries) {
		age := progress.DaysBetween(e.Date, today)
		if age < 0 || age > HeatmapWindowDays {
			continue
		}
		out = append(out, HeatmapEntry{Date: progress.FormatDay(e.Date), PracticeCount: e.Count})
	}
	return out
}

// StreakHistory run-length encodes the active days of the last 180 days into
// runs of consecutive dates. Only the final run can be active.
func StreakHistory(entries []Entry, today datatypes.Date) []StreakSegment {
	out := []StreakSegment{}
	var start, prev datatypes.Date
	length := 0
	flush := func() {
		if length > 0 {
			out = append(out, StreakSegment{StartDate: progress.FormatDay(start), StreakLength: length})
		}
	}
	for _, e := range sorted(entries) {
		if e.Count <= 0 {
			continue
		}
		age := progress.DaysBetween(e.Date, today)
		if age < 0 || age > HistoryWindowDays {
			continue
		}
		switch {
		case length == 0:
			start, length = e.Date, 1
		case progress.SameDay(prev, e.Date):
			continue
		case progress.DaysBetween(prev, e.Date) == 1:
			length++
		default:
			flush()
			start, length = e.Date, 1
		}
		prev = e.Date
	}
	flush()
	if n := len(out); n > 0 {
		if gap := progress.DaysBetween(prev, today); gap == 0 || gap == 1 {
			out[n-1].IsActive = true
		}
	}
	return out
}

// WeeklyPattern sums all-time counts by weekday, Sunday first.
func WeeklyPattern(entries []Entry) []WeekdayTotal {
	out := make([]WeekdayTotal, 7)
	for i := range out {
		out[i] = WeekdayTotal{DayOfWeek: i, DayName: time.Weekday(i).String()}
	}
	for _, e := range entries {
		out[int(progress.DayTime(e.Date).Weekday())].TotalPractice += e.Count
	}
	return out
}

// MonthlyRollup sums the trailing twelve calendar months, oldest first. The
// month containing today is included even though it is partial.
func MonthlyRollup(entries []Entry, today datatypes.Date) []MonthTotal {
	t := progress.DayTime(today)
	current := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	out := make([]MonthTotal, 0, MonthlyWindow)
	index := make(map[string]int, MonthlyWindow)
	for i := MonthlyWindow - 1; i >= 0; i-- {
		m := current.AddDate(0, -i, 0)
		index[m.Format("2006-01")] = len(out)
		out = append(out, MonthTotal{
			Month:       m.Format("Jan"),
			MonthNumber: int(m.Month()),
			Year:        m.Year(),
		})
	}
	for _, e := range entries {
		if i, ok := index[progress.DayTime(e.Date).Format("2006-01")]; ok {
			if progress.DaysBetween(e.Date, today) >= 0 {
				out[i].TotalPractice += e.Count
			}
		}
	}
	return out
}

// TimeOfDay has no data source: the activity log only records dates, so the
// buckets are fixed with zero totals and marked as not derived.
func TimeOfDay() []TimeOfDayBucket {
	return []TimeOfDayBucket{
		{Period: "Morning"},
		{Period: "Afternoon"},
		{Period: "Evening"},
		{Period: "Night"},
	}
}

// MonthTotalFor sums the counts inside one calendar month.
func MonthTotalFor(entries []Entry, year int, month time.Month) int {
	total := 0
	for _, e := range entries {
		t := progress.DayTime(e.Date)
		if t.Year() == year && t.Month() == month {
			total += e.Count
		}
	}
	return total
}

func TotalCompletions(entries []Entry) int {
	total := 0
	for _, e := range entries {
		total += e.Count
	}
	return total
}
