package recipes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeComponentsSkipsBlankAndRemovedRows(t *testing.T) {
	rows := []ComponentRow{
		{Ingredient: "1", Amount: "2", Unit: "oz"},
		{},
		{Ingredient: "2", Amount: "oops", Unit: "oz", Remove: true},
		{Ingredient: "3", Amount: "1.5", Unit: " ML "},
	}

	drafts, err := normalizeComponents(rows)
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	require.Equal(t, uint(1), drafts[0].IngredientID)
	require.Equal(t, "ml", drafts[1].Unit)
	require.Equal(t, "1.5", drafts[1].Amount.String())
	require.Equal(t, 3, drafts[1].Order)
}

func TestNormalizeComponentsReportsRowErrors(t *testing.T) {
	rows := []ComponentRow{
		{Ingredient: "x", Amount: "1", Unit: "oz"},
		{Ingredient: "1", Amount: "1", Unit: "oz", Order: "first"},
		{Ingredient: "1", Amount: "20000000", Unit: "oz"},
	}

	_, err := normalizeComponents(rows)
	verr, ok := AsValidation(err)
	require.True(t, ok)
	require.Equal(t, "choose an ingredient", verr.Field("components[0].ingredient"))
	require.NotEmpty(t, verr.Field("components[1].order"))
	require.Equal(t, "amount is too large", verr.Field("components[2].amount"))
}

func TestNormalizeComponentsOrdersStably(t *testing.T) {
	rows := []ComponentRow{
		{Ingredient: "10", Amount: "1", Unit: "oz", Order: "5"},
		{Ingredient: "20", Amount: "1", Unit: "oz", Order: "-2"},
		{Ingredient: "30", Amount: "1", Unit: "oz", Order: "5"},
		{Ingredient: "40", Amount: "1", Unit: "oz"},
	}

	drafts, err := normalizeComponents(rows)
	require.NoError(t, err)

	ids := make([]uint, 0, len(drafts))
	orders := make([]int, 0, len(drafts))
	for _, draft := range drafts {
		ids = append(ids, draft.IngredientID)
		orders = append(orders, draft.Order)
	}
	require.Equal(t, []uint{20, 40, 10, 30}, ids)
	require.Equal(t, []int{-2, 3, 5, 5}, orders)
}

func TestGuardRequiresOwner(t *testing.T) {
	require.ErrorIs(t, RequireOwner(0, ownedBy(1)), ErrPermission)
	require.ErrorIs(t, RequireOwner(2, ownedBy(1)), ErrPermission)
	require.NoError(t, RequireOwner(1, ownedBy(1)))
}

type ownedBy uint

func (o ownedBy) OwnedBy() uint { return uint(o) }

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"name": "required", "color": "bad"}}
	require.Equal(t, "validation failed: color: bad; name: required", err.Error())
}
