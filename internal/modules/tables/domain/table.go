package domain

import (
	"sort"

	"mesaYaReservas/internal/shared/normalization"
)

// Table represents a seating resource of the dining room.
type Table struct {
	ID       string
	Name     string
	Capacity int
	Active   bool
}

// Seats reports whether the table can host a party of the given size.
// Parties are never split across tables.
func (t Table) Seats(partySize int) bool {
	return t.Active && t.Capacity >= partySize
}

// NormalizeTable builds a Table from a loosely typed store row. Rows without an
// id or with a non-positive capacity are rejected.
func NormalizeTable(raw map[string]any) (Table, bool) {
	id := normalization.AsString(raw["id"])
	if id == "" {
		return Table{}, false
	}
	capacity := normalization.AsInt(raw["capacity"])
	if capacity <= 0 {
		return Table{}, false
	}

	active := true
	if value, ok := raw["is_active"]; ok {
		active = normalization.AsBool(value)
	} else if value, ok := raw["isActive"]; ok {
		active = normalization.AsBool(value)
	}

	return Table{
		ID:       id,
		Name:     normalization.AsString(raw["name"]),
		Capacity: capacity,
		Active:   active,
	}, true
}

// BuildTableList projects a list payload into tables, skipping invalid rows.
func BuildTableList(items []any) []Table {
	tables := make([]Table, 0, len(items))
	for _, item := range items {
		if rawMap, ok := item.(map[string]any); ok {
			if table, ok := NormalizeTable(rawMap); ok {
				tables = append(tables, table)
			}
		}
	}
	return tables
}

// EligibleTables keeps the active tables able to seat partySize, ordered by
// ascending capacity. Ties keep their input order.
func EligibleTables(tables []Table, partySize int) []Table {
	eligible := make([]Table, 0, len(tables))
	for _, t := range tables {
		if t.Seats(partySize) {
			eligible = append(eligible, t)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Capacity < eligible[j].Capacity
	})
	return eligible
}
