package practice

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	MinScore Score = 0
	MaxScore Score = 90
)

// Score is a band value held in tenths, so 6.5 is Score(65).
// Values are always within [0.0, 9.0].
type Score int

// ScoreFromFloat rounds to one decimal place and clamps into range.
func ScoreFromFloat(f float64) Score {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return MinScore
	}
	return Score(math.Round(f * 10)).Clamp()
}

func (s Score) Clamp() Score {
	if s < MinScore {
		return MinScore
	}
	if s > MaxScore {
		return MaxScore
	}
	return s
}

func (s Score) Float() float64 { return float64(s) / 10 }

func (s Score) String() string {
	return strconv.FormatFloat(s.Float(), 'f', 1, 64)
}

func (s Score) MarshalJSON() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Score) UnmarshalJSON(b []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if raw == "" || raw == "null" {
		*s = MinScore
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("score: %w", err)
	}
	*s = ScoreFromFloat(f)
	return nil
}

func (s Score) Value() (driver.Value, error) {
	return s.Float(), nil
}

func (s *Score) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s = MinScore
	case float64:
		*s = ScoreFromFloat(v)
	case float32:
		*s = ScoreFromFloat(float64(v))
	case int64:
		// numeric affinity stores whole bands as integers
		*s = Score(v * 10).Clamp()
	case []byte:
		return s.Scan(string(v))
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("score scan %q: %w", v, err)
		}
		*s = ScoreFromFloat(f)
	default:
		return fmt.Errorf("score scan: unsupported type %T", src)
	}
	return nil
}
