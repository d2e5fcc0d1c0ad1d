package importer

import (
	"testing"

	"stircraft/models"
)

func TestParseMeasure(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw      string
		amount   string
		unit     string
		note     string
		fallback bool
	}{
		{raw: "1 1/2 oz", amount: "1.5", unit: "oz"},
		{raw: "3/4 oz ", amount: "0.75", unit: "oz"},
		{raw: "2 dashes", amount: "2", unit: "dash"},
		{raw: "½ cup", amount: "0.5", unit: "cup"},
		{raw: "1½ oz", amount: "1.5", unit: "oz"},
		{raw: "2-3 oz", amount: "2.5", unit: "oz"},
		{raw: "1 to 2 tsp", amount: "1.5", unit: "tsp"},
		{raw: "1/3 part", amount: "0.333", unit: "part"},
		{raw: "4 cl", amount: "4", unit: "cl"},
		{raw: "1 jigger", amount: "1.5", unit: "oz"},
		{raw: "1 Tblsp", amount: "1", unit: "tbsp"},
		{raw: "2 fl oz", amount: "2", unit: "oz"},
		{raw: "Dash", amount: "1", unit: "dash"},
		{raw: "splash of soda", amount: "1", unit: "splash", note: "soda"},
		{raw: "2", amount: "2", unit: models.DefaultUnit},
		{raw: "1 can", amount: "1", unit: models.DefaultUnit, note: "1 can", fallback: true},
		{raw: "Juice of 1/2", amount: "1", unit: models.DefaultUnit, note: "Juice of 1/2", fallback: true},
		{raw: "Fill  with soda", amount: "1", unit: models.DefaultUnit, note: "Fill with soda", fallback: true},
		{raw: "0 oz", amount: "1", unit: models.DefaultUnit, note: "0 oz", fallback: true},
		{raw: "1/3000 oz", amount: "1", unit: models.DefaultUnit, note: "1/3000 oz", fallback: true},
		{raw: "", amount: "1", unit: models.DefaultUnit, fallback: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.raw, func(t *testing.T) {
			t.Parallel()

			got := ParseMeasure(tc.raw)
			if got.Amount.String() != tc.amount {
				t.Fatalf("expected amount %s, got %s", tc.amount, got.Amount.String())
			}
			if got.Unit != tc.unit {
				t.Fatalf("expected unit %q, got %q", tc.unit, got.Unit)
			}
			if got.Note != tc.note {
				t.Fatalf("expected note %q, got %q", tc.note, got.Note)
			}
			if got.Fallback != tc.fallback {
				t.Fatalf("expected fallback %v, got %v", tc.fallback, got.Fallback)
			}
			if !got.Amount.IsPositive() {
				t.Fatalf("amount must stay positive, got %s", got.Amount.String())
			}
			if !models.ValidUnit(got.Unit) {
				t.Fatalf("unit %q is not accepted by recipes", got.Unit)
			}
		})
	}
}
