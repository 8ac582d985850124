package domain

import (
	"errors"
	"testing"
	"time"
)

func mustRange(t *testing.T, date, clock string) TimeRange {
	t.Helper()
	r, err := NewTimeRange(date, clock, time.UTC)
	if err != nil {
		t.Fatalf("NewTimeRange(%s, %s): %v", date, clock, err)
	}
	return r
}

func TestTimeRangeOverlaps(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		existing string
		request  string
		want     bool
	}{
		{name: "same start", existing: "20:00", request: "20:00", want: true},
		{name: "one hour later", existing: "20:00", request: "21:00", want: true},
		{name: "one minute before end", existing: "20:00", request: "21:59", want: true},
		{name: "touching end", existing: "20:00", request: "22:00", want: false},
		{name: "touching start", existing: "22:00", request: "20:00", want: false},
		{name: "earlier overlapping", existing: "20:00", request: "18:30", want: true},
		{name: "far apart", existing: "13:00", request: "20:00", want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := mustRange(t, "2024-06-01", tc.existing)
			b := mustRange(t, "2024-06-01", tc.request)
			if got := a.Overlaps(b); got != tc.want {
				t.Fatalf("expected overlap=%v, got %v", tc.want, got)
			}
			if got := b.Overlaps(a); got != tc.want {
				t.Fatalf("expected symmetric overlap=%v, got %v", tc.want, got)
			}
		})
	}
}

func TestTimeRangeAcrossMidnight(t *testing.T) {
	late := mustRange(t, "2024-06-01", "23:30")
	early := mustRange(t, "2024-06-02", "01:00")
	if !late.Overlaps(early) {
		t.Fatal("expected 23:30 booking to overlap 01:00 next day")
	}
}

func TestTimeRangeUsesLocation(t *testing.T) {
	madrid := time.FixedZone("CEST", 2*60*60)
	r, err := NewTimeRange("2024-06-01", "20:00", madrid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Start.UTC().Hour() != 18 {
		t.Fatalf("expected 18:00 UTC, got %s", r.Start.UTC())
	}
}

func TestNewTimeRangeRejectsMalformed(t *testing.T) {
	cases := [][2]string{
		{"2024-13-01", "20:00"},
		{"01/06/2024", "20:00"},
		{"2024-06-01", "25:00"},
		{"2024-06-01", "8pm"},
	}
	for _, c := range cases {
		if _, err := NewTimeRange(c[0], c[1], time.UTC); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected validation error for %v, got %v", c, err)
		}
	}
}

func TestParseClockDropsSeconds(t *testing.T) {
	got, err := ParseClock(" 19:30:00 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "19:30" {
		t.Fatalf("expected 19:30, got %s", got)
	}
}

func TestParseDateTruncatesTimestamps(t *testing.T) {
	got, err := ParseDate("2024-06-01T00:00:00+00:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "2024-06-01" {
		t.Fatalf("expected 2024-06-01, got %s", got)
	}
}
