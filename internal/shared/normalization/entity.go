package normalization

import "strings"

// entityAliases maps the entity spellings seen on the event bus to the
// canonical feed entity.
var entityAliases = map[string]string{
	"":        "",
	"-":       "",
	"default": "",

	"reservation":  "reservations",
	"reservations": "reservations",
	"booking":      "reservations",
	"bookings":     "reservations",

	"table":             "tables",
	"tables":            "tables",
	"restaurant-table":  "tables",
	"restaurant-tables": "tables",

	"notice":        "notices",
	"notices":       "notices",
	"announcement":  "notices",
	"announcements": "notices",

	"setting":      "settings",
	"settings":     "settings",
	"site-content": "settings",
}

// NormalizeEntity converts singular, plural and underscore spellings to the
// canonical entity name. Unknown names are lowercased with underscores
// replaced by hyphens.
//
//	NormalizeEntity("Reservation")      => "reservations"
//	NormalizeEntity("restaurant_tables") => "tables"
func NormalizeEntity(raw string) string {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "_", "-")
	if canonical, found := entityAliases[normalized]; found {
		return canonical
	}
	return normalized
}
