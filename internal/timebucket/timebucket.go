package timebucket

import (
	"fmt"
	"time"
)

// Granularity selects how sales facts are grouped into buckets.
type Granularity string

const (
	Day   Granularity = "day"
	Week  Granularity = "week"
	Month Granularity = "month"
	Event Granularity = "event"
)

// UnknownEventKey is the bucket for facts that cannot be resolved to an
// event under the Event granularity.
const UnknownEventKey = "Unknown Event"

func Parse(s string) (Granularity, error) {
	switch Granularity(s) {
	case Day, Week, Month, Event:
		return Granularity(s), nil
	}
	return "", fmt.Errorf("invalid granularity %q", s)
}

func (g Granularity) Valid() bool {
	switch g {
	case Day, Week, Month, Event:
		return true
	}
	return false
}

// Key maps a timestamp to its bucket key. Day and Week keys are calendar
// dates, Month keys are YYYY-MM; all are computed in UTC. Week keys are the
// Sunday-aligned start of the week, not ISO week numbers. Event granularity
// is not time-based and must be keyed at the aggregation site.
func Key(t time.Time, g Granularity) string {
	t = t.UTC()
	switch g {
	case Day:
		return t.Format("2006-01-02")
	case Week:
		start := t.AddDate(0, 0, -int(t.Weekday()))
		return start.Format("2006-01-02")
	case Month:
		return t.Format("2006-01")
	}
	return t.Format("2006-01-02")
}
