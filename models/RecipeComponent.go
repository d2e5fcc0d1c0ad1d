package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Units accepted for a recipe component amount.
var Units = []string{
	"oz", "ml", "cl", "tsp", "tbsp", "cup", "part", "shot",
	"dash", "splash", "drop", "pinch",
	"leaf", "wedge", "slice", "twist", "sprig", "cube", "piece", "whole",
}

// DefaultUnit is used when a measurement cannot be interpreted.
const DefaultUnit = "piece"

// AmountPlaces is the number of decimal places an amount is stored with.
const AmountPlaces = 3

// MaxAmount is the exclusive upper bound of a stored amount (numeric(10,3)).
var MaxAmount = decimal.NewFromInt(10_000_000)

// StoredAmount rounds amount to the stored precision and reports whether the
// rounded value is storable: strictly positive and below MaxAmount.
func StoredAmount(amount decimal.Decimal) (decimal.Decimal, bool) {
	rounded := amount.Round(AmountPlaces)
	return rounded, rounded.IsPositive() && rounded.LessThan(MaxAmount)
}

// RecipeComponent binds a cocktail to an ingredient with a measured amount.
type RecipeComponent struct {
	gorm.Model
	CocktailID      uint            `gorm:"not null;index" json:"cocktail_id"`
	IngredientID    uint            `gorm:"not null;index" json:"ingredient_id"`
	Ingredient      *Ingredient     `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
	Amount          decimal.Decimal `gorm:"type:numeric(10,3);not null" json:"amount"`
	Unit            string          `gorm:"type:varchar(16);not null" json:"unit"`
	PreparationNote string          `json:"preparation_note"`
	Order           int             `gorm:"column:sort_order;not null;default:0" json:"order"`
}

// ValidUnit reports whether unit is one of the accepted units.
func ValidUnit(unit string) bool {
	for _, candidate := range Units {
		if candidate == unit {
			return true
		}
	}
	return false
}

// IngredientName returns the referenced ingredient's name when it is loaded.
func (rc RecipeComponent) IngredientName() string {
	if rc.Ingredient != nil && rc.Ingredient.Name != "" {
		return rc.Ingredient.Name
	}
	return "Unknown ingredient"
}
