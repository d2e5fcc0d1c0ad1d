package pages

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"stircraft/models"
)

// DefaultDash returns an em dash when the provided value is empty or whitespace.
func DefaultDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "—"
	}
	return value
}

// FormatAmount renders a component measure without trailing zeros.
func FormatAmount(amount decimal.Decimal, unit string) string {
	return strings.TrimSpace(amount.String() + " " + unit)
}

// FormatDate renders the supplied time as day month year.
func FormatDate(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.Format("02 Jan 2006")
}

// AlcoholLabel describes whether a drink contains alcohol.
func AlcoholLabel(alcoholic bool) string {
	if alcoholic {
		return "Alcoholic"
	}
	return "Non-alcoholic"
}

// ListKindNote explains how a system list is maintained.
func ListKindNote(kind models.ListKind) string {
	switch kind {
	case models.ListFavorites:
		return "Cocktails you have marked as favorites."
	case models.ListCreations:
		return "Every cocktail you have created. Managed automatically."
	default:
		return ""
	}
}
