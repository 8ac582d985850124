package domain

import (
	"fmt"
	"strings"
	"time"
)

// ServiceDuration is how long a booking occupies its table or covers.
const ServiceDuration = 2 * time.Hour

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// TimeRange is the half-open interval [Start, End) a reservation occupies.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// NewTimeRange anchors a calendar date and a wall clock time in loc and spans
// ServiceDuration from there. A nil loc means time.Local.
func NewTimeRange(date, clock string, loc *time.Location) (TimeRange, error) {
	if loc == nil {
		loc = time.Local
	}
	day, err := ParseDate(date)
	if err != nil {
		return TimeRange{}, err
	}
	normalized, err := ParseClock(clock)
	if err != nil {
		return TimeRange{}, err
	}
	start, err := time.ParseInLocation(DateLayout+" "+ClockLayout, day+" "+normalized, loc)
	if err != nil {
		return TimeRange{}, fmt.Errorf("%w: invalid date/time %q %q", ErrValidation, date, clock)
	}
	return TimeRange{Start: start, End: start.Add(ServiceDuration)}, nil
}

// Overlaps reports whether both ranges share any instant. Touching endpoints
// (one ends exactly when the other starts) do not overlap.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && r.End.After(other.Start)
}

// ParseDate validates a YYYY-MM-DD calendar day. Timestamps such as
// "2024-06-01T00:00:00" are cut to their date part.
func ParseDate(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if len(value) > len(DateLayout) && (value[len(DateLayout)] == 'T' || value[len(DateLayout)] == ' ') {
		value = value[:len(DateLayout)]
	}
	if _, err := time.Parse(DateLayout, value); err != nil {
		return "", fmt.Errorf("%w: invalid date %q", ErrValidation, raw)
	}
	return value, nil
}

// ParseClock validates an HH:MM wall clock time and returns it normalized.
// Seconds (HH:MM:SS, as time columns return them) are accepted and dropped.
func ParseClock(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	layouts := []string{ClockLayout, "15:04:05"}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Format(ClockLayout), nil
		}
	}
	return "", fmt.Errorf("%w: invalid time %q", ErrValidation, raw)
}
