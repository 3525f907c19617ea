package engine

import (
	"math/rand"
	"time"
)

type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Rand is the source of randomness used for quest selection.
type Rand interface {
	// Intn returns a uniform integer in [0, n).
	Intn(n int) int
}

// NewRand returns a seeded pseudo-random source.
func NewRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}

const dayLayout = "2006-01-02"

// DayKey returns the calendar day of t in its own location.
func DayKey(t time.Time) string {
	return t.Format(dayLayout)
}

// PreviousDay returns the day key before day, or "" if day is malformed.
func PreviousDay(day string) string {
	t, err := time.Parse(dayLayout, day)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format(dayLayout)
}
