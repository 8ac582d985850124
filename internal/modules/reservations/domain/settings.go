package domain

import (
	"strconv"
	"strings"
)

// AllocationMode selects how availability is decided.
type AllocationMode string

const (
	// ModeTables assigns one concrete table per booking.
	ModeTables AllocationMode = "tables"
	// ModeCapacity counts covers against a venue-wide ceiling.
	ModeCapacity AllocationMode = "capacity"
)

// Content keys holding the reservation settings.
const (
	KeyMode         = "res_mode"
	KeyMaxCapacity  = "res_max_capacity"
	KeyAutoConfirm  = "res_auto_confirm"
	KeyLunchStart   = "res_lunch_start"
	KeyLunchEnd     = "res_lunch_end"
	KeyDinnerStart  = "res_dinner_start"
	KeyDinnerEnd    = "res_dinner_end"
	DefaultCapacity = 50
)

// ServiceWindow is an opening window such as lunch or dinner, HH:MM bounds.
type ServiceWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ServiceHours are shown to guests when picking a time. They do not restrict
// availability decisions.
type ServiceHours struct {
	Lunch  ServiceWindow `json:"lunch"`
	Dinner ServiceWindow `json:"dinner"`
}

// Settings is the resolved, typed reservation configuration.
type Settings struct {
	Mode        AllocationMode `json:"mode"`
	MaxCapacity int            `json:"maxCapacity"`
	AutoConfirm bool           `json:"autoConfirm"`
	Hours       ServiceHours   `json:"hours"`
}

// DefaultSettings is what an empty content store resolves to.
func DefaultSettings() Settings {
	return Settings{
		Mode:        ModeTables,
		MaxCapacity: DefaultCapacity,
		AutoConfirm: false,
		Hours: ServiceHours{
			Lunch:  ServiceWindow{Start: "13:00", End: "16:00"},
			Dinner: ServiceWindow{Start: "20:00", End: "23:30"},
		},
	}
}

// SettingKeys lists every key ParseSettings reads.
func SettingKeys() []string {
	return []string{
		KeyMode, KeyMaxCapacity, KeyAutoConfirm,
		KeyLunchStart, KeyLunchEnd, KeyDinnerStart, KeyDinnerEnd,
	}
}

// ParseSettings turns raw content values into Settings. Missing keys take
// their default silently; present but malformed keys take their default and
// are returned in invalid so callers can log them. It never fails.
func ParseSettings(values map[string]string) (settings Settings, invalid []string) {
	settings = DefaultSettings()

	if raw, ok := lookup(values, KeyMode); ok {
		switch AllocationMode(strings.ToLower(raw)) {
		case ModeTables:
			settings.Mode = ModeTables
		case ModeCapacity:
			settings.Mode = ModeCapacity
		default:
			invalid = append(invalid, KeyMode)
		}
	}

	if raw, ok := lookup(values, KeyMaxCapacity); ok {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			settings.MaxCapacity = n
		} else {
			invalid = append(invalid, KeyMaxCapacity)
		}
	}

	if raw, ok := lookup(values, KeyAutoConfirm); ok {
		switch strings.ToLower(raw) {
		case "true":
			settings.AutoConfirm = true
		case "false":
		default:
			invalid = append(invalid, KeyAutoConfirm)
		}
	}

	clocks := []struct {
		key    string
		target *string
	}{
		{KeyLunchStart, &settings.Hours.Lunch.Start},
		{KeyLunchEnd, &settings.Hours.Lunch.End},
		{KeyDinnerStart, &settings.Hours.Dinner.Start},
		{KeyDinnerEnd, &settings.Hours.Dinner.End},
	}
	for _, c := range clocks {
		raw, ok := lookup(values, c.key)
		if !ok {
			continue
		}
		if clock, err := ParseClock(raw); err == nil {
			*c.target = clock
		} else {
			invalid = append(invalid, c.key)
		}
	}

	return settings, invalid
}

func lookup(values map[string]string, key string) (string, bool) {
	raw, ok := values[key]
	if !ok {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}
