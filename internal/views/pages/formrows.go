package pages

import (
	"fmt"
	"strings"

	"stircraft/internal/recipes"
	"stircraft/models"
)

// DefaultBlankRows is how many empty rows a fresh form offers.
const DefaultBlankRows = 3

// NextRowKey returns a key for a new formset row that does not collide with
// any existing row key.
func NextRowKey(existing []recipes.ComponentRow) string {
	used := make(map[string]struct{}, len(existing))
	for _, row := range existing {
		key := strings.TrimSpace(row.RowKey)
		if key == "" {
			continue
		}
		used[key] = struct{}{}
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("new-%d", i)
		if _, ok := used[candidate]; !ok {
			return candidate
		}
	}
}

// FormRows numbers rows by submitted position and appends up to blanks empty
// rows without exceeding the component limit.
func FormRows(rows []recipes.ComponentRow, blanks int) []FormRow {
	all := make([]recipes.ComponentRow, len(rows), len(rows)+blanks)
	copy(all, rows)
	for i := range all {
		if strings.TrimSpace(all[i].RowKey) == "" {
			all[i].RowKey = NextRowKey(all)
		}
	}

	live := 0
	for _, row := range all {
		if !row.Remove {
			live++
		}
	}
	for i := 0; i < blanks && live < models.MaxComponents; i++ {
		all = append(all, recipes.ComponentRow{RowKey: NextRowKey(all), Unit: "oz"})
		live++
	}

	result := make([]FormRow, len(all))
	for i, row := range all {
		result[i] = FormRow{Index: i, ComponentRow: row}
	}
	return result
}
