package recipes

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"stircraft/models"
)

// ComponentRow is one submitted row of the recipe component formset. Values
// are kept as submitted so untouched blank rows can be told apart from rows
// with bad input.
type ComponentRow struct {
	RowKey     string
	EntryID    string
	Ingredient string
	Amount     string
	Unit       string
	Note       string
	Order      string
	Remove     bool
}

func (r ComponentRow) blank() bool {
	return strings.TrimSpace(r.Ingredient) == "" &&
		strings.TrimSpace(r.Amount) == "" &&
		strings.TrimSpace(r.Note) == ""
}

// componentDraft is a validated row ready to be written.
type componentDraft struct {
	IngredientID uint
	Amount       decimal.Decimal
	Unit         string
	Note         string
	Order        int
}

// normalizeComponents validates the surviving rows and returns them sorted by
// order with their submitted order values kept. Ties keep submission order,
// which the insert order (and so the row ids) preserves.
func normalizeComponents(rows []ComponentRow) ([]componentDraft, error) {
	fields := map[string]string{}
	drafts := make([]componentDraft, 0, len(rows))

	for i, row := range rows {
		if row.Remove || row.blank() {
			continue
		}
		prefix := fmt.Sprintf("components[%d]", i)

		var draft componentDraft
		ingredientID, err := strconv.ParseUint(strings.TrimSpace(row.Ingredient), 10, 64)
		if err != nil || ingredientID == 0 {
			fields[prefix+".ingredient"] = "choose an ingredient"
		}
		draft.IngredientID = uint(ingredientID)

		amount, err := decimal.NewFromString(strings.TrimSpace(row.Amount))
		if err != nil {
			fields[prefix+".amount"] = "amount must be a number"
		} else {
			rounded, ok := models.StoredAmount(amount)
			switch {
			case ok:
			case !rounded.IsPositive():
				fields[prefix+".amount"] = "amount must be greater than zero"
			default:
				fields[prefix+".amount"] = "amount is too large"
			}
			draft.Amount = rounded
		}

		draft.Unit = strings.ToLower(strings.TrimSpace(row.Unit))
		if !models.ValidUnit(draft.Unit) {
			fields[prefix+".unit"] = "choose a valid unit"
		}

		draft.Note = strings.TrimSpace(row.Note)

		draft.Order = i
		if raw := strings.TrimSpace(row.Order); raw != "" {
			order, err := strconv.Atoi(raw)
			if err != nil {
				fields[prefix+".order"] = "order must be a whole number"
			}
			draft.Order = order
		}

		drafts = append(drafts, draft)
	}

	switch {
	case len(drafts) < models.MinComponents:
		fields["components"] = fmt.Sprintf("a cocktail needs at least %d ingredient", models.MinComponents)
	case len(drafts) > models.MaxComponents:
		fields["components"] = fmt.Sprintf("a cocktail can have at most %d ingredients", models.MaxComponents)
	}

	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	sort.SliceStable(drafts, func(i, j int) bool {
		return drafts[i].Order < drafts[j].Order
	})

	return drafts, nil
}

// RowsFromComponents converts stored components back into formset rows, which
// is how edit forms are pre-populated.
func RowsFromComponents(components []models.RecipeComponent) []ComponentRow {
	rows := make([]ComponentRow, 0, len(components))
	for _, component := range components {
		rows = append(rows, ComponentRow{
			RowKey:     fmt.Sprintf("existing-%d", component.ID),
			EntryID:    strconv.FormatUint(uint64(component.ID), 10),
			Ingredient: strconv.FormatUint(uint64(component.IngredientID), 10),
			Amount:     component.Amount.String(),
			Unit:       component.Unit,
			Note:       component.PreparationNote,
			Order:      strconv.Itoa(component.Order),
		})
	}
	return rows
}
