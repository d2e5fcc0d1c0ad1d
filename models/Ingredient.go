package models

import (
	"strings"

	"gorm.io/gorm"
)

// IngredientCategory classifies catalog entries.
type IngredientCategory string

const (
	CategorySpirit  IngredientCategory = "spirit"
	CategoryLiqueur IngredientCategory = "liqueur"
	CategoryMixer   IngredientCategory = "mixer"
	CategoryGarnish IngredientCategory = "garnish"
	CategoryOther   IngredientCategory = "other"
)

// IngredientCategories lists the accepted categories in display order.
var IngredientCategories = []IngredientCategory{
	CategorySpirit,
	CategoryLiqueur,
	CategoryMixer,
	CategoryGarnish,
	CategoryOther,
}

// Record sources.
const (
	SourceUser   = "user"
	SourceImport = "import"
)

// Ingredient is a shared catalog entry referenced by recipe components.
type Ingredient struct {
	gorm.Model
	Name            string             `gorm:"not null" json:"name"`
	NameKey         string             `gorm:"uniqueIndex;not null" json:"-"`
	Category        IngredientCategory `gorm:"type:varchar(16);not null;default:other" json:"category"`
	AlcoholByVolume float64            `gorm:"not null;default:0" json:"alcohol_by_volume"`
	Source          string             `gorm:"type:varchar(16);not null;default:user" json:"source"`
}

// BeforeSave keeps the case-insensitive lookup key aligned with the name.
func (i *Ingredient) BeforeSave(tx *gorm.DB) error {
	i.NameKey = NameKey(i.Name)
	return nil
}

// IsAlcoholic reports whether the ingredient carries any alcohol.
func (i Ingredient) IsAlcoholic() bool {
	return i.AlcoholByVolume > 0
}

// ValidCategory reports whether value names a known ingredient category.
func ValidCategory(value string) bool {
	for _, category := range IngredientCategories {
		if string(category) == value {
			return true
		}
	}
	return false
}

// NameKey normalises a display name into its uniqueness key.
func NameKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
