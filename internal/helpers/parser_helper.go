package helpers

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

func StringToInt(s string) (int, error) {
	return strconv.Atoi(s)
}

// ParseDate parses a YYYY-MM-DD query value as the start of that day in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// EndOfDay pushes a date to its last representable instant so it can serve
// as an inclusive upper bound.
func EndOfDay(t time.Time) time.Time {
	return t.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// ParseUUIDPtr parses an optional uuid query value; empty returns nil.
func ParseUUIDPtr(s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
