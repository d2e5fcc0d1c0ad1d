package models

import (
	"sort"

	"gorm.io/gorm"
)

// Color is the dominant appearance of a finished drink.
type Color string

const (
	ColorClear  Color = "clear"
	ColorAmber  Color = "amber"
	ColorRed    Color = "red"
	ColorPink   Color = "pink"
	ColorOrange Color = "orange"
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
	ColorPurple Color = "purple"
	ColorBrown  Color = "brown"
	ColorWhite  Color = "white"
	ColorBlack  Color = "black"
)

// Colors lists every accepted color.
var Colors = []Color{
	ColorClear, ColorAmber, ColorRed, ColorPink, ColorOrange, ColorYellow,
	ColorGreen, ColorBlue, ColorPurple, ColorBrown, ColorWhite, ColorBlack,
}

// Component bounds for a saved cocktail.
const (
	MinComponents = 1
	MaxComponents = 15
)

// Cocktail is a recipe aggregate owned by its creator.
type Cocktail struct {
	gorm.Model
	Name         string            `gorm:"not null" json:"name"`
	NameKey      string            `gorm:"not null;uniqueIndex:idx_cocktails_creator_name" json:"-"`
	Description  string            `gorm:"type:text" json:"description"`
	Instructions string            `gorm:"type:text;not null" json:"instructions"`
	VesselID     *uint             `json:"vessel_id,omitempty"`
	Vessel       *Vessel           `gorm:"foreignKey:VesselID" json:"vessel,omitempty"`
	IsAlcoholic  bool              `gorm:"not null" json:"is_alcoholic"`
	Color        Color             `gorm:"type:varchar(16)" json:"color"`
	ImageURL     string            `json:"image_url"`
	CreatorID    uint              `gorm:"not null;index;uniqueIndex:idx_cocktails_creator_name" json:"creator_id"`
	Creator      *User             `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Source       string            `gorm:"type:varchar(16);not null;default:user" json:"source"`
	ExternalID   *string           `gorm:"uniqueIndex" json:"external_id,omitempty"`
	Components   []RecipeComponent `gorm:"foreignKey:CocktailID" json:"components"`
	Tags         []VibeTag         `gorm:"foreignKey:CocktailID" json:"tags"`
}

func (c *Cocktail) BeforeSave(tx *gorm.DB) error {
	c.NameKey = NameKey(c.Name)
	return nil
}

// OrderedComponents returns the components in mixing sequence.
func (c Cocktail) OrderedComponents() []RecipeComponent {
	ordered := make([]RecipeComponent, len(c.Components))
	copy(ordered, c.Components)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Order == ordered[j].Order {
			return ordered[i].ID < ordered[j].ID
		}
		return ordered[i].Order < ordered[j].Order
	})
	return ordered
}

// TagLabels flattens the vibe tags into their labels.
func (c Cocktail) TagLabels() []string {
	labels := make([]string, 0, len(c.Tags))
	for _, tag := range c.Tags {
		labels = append(labels, tag.Label)
	}
	return labels
}

// VibeTag is a free-form label attached to a cocktail.
type VibeTag struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	CocktailID uint   `gorm:"not null;uniqueIndex:idx_vibe_tags_cocktail_label" json:"-"`
	Label      string `gorm:"not null;uniqueIndex:idx_vibe_tags_cocktail_label" json:"label"`
}

// ValidColor reports whether value names a known color. The empty string is
// accepted and means the color was not specified.
func ValidColor(value string) bool {
	if value == "" {
		return true
	}
	for _, color := range Colors {
		if string(color) == value {
			return true
		}
	}
	return false
}

// OwnedBy returns the id of the user allowed to mutate the cocktail.
func (c Cocktail) OwnedBy() uint {
	return c.CreatorID
}
