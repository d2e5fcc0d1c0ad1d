package components

import (
	"sort"

	"stircraft/models"
)

// SwatchDefinition describes how a drink color is presented.
type SwatchDefinition struct {
	ID    models.Color
	Label string
	Class string
}

var unspecifiedSwatch = SwatchDefinition{Label: "Unspecified", Class: "swatch swatch-none"}

var swatchRegistry = map[models.Color]SwatchDefinition{
	models.ColorClear:  {ID: models.ColorClear, Label: "Clear", Class: "swatch swatch-clear"},
	models.ColorAmber:  {ID: models.ColorAmber, Label: "Amber", Class: "swatch swatch-amber"},
	models.ColorRed:    {ID: models.ColorRed, Label: "Red", Class: "swatch swatch-red"},
	models.ColorPink:   {ID: models.ColorPink, Label: "Pink", Class: "swatch swatch-pink"},
	models.ColorOrange: {ID: models.ColorOrange, Label: "Orange", Class: "swatch swatch-orange"},
	models.ColorYellow: {ID: models.ColorYellow, Label: "Yellow", Class: "swatch swatch-yellow"},
	models.ColorGreen:  {ID: models.ColorGreen, Label: "Green", Class: "swatch swatch-green"},
	models.ColorBlue:   {ID: models.ColorBlue, Label: "Blue", Class: "swatch swatch-blue"},
	models.ColorPurple: {ID: models.ColorPurple, Label: "Purple", Class: "swatch swatch-purple"},
	models.ColorBrown:  {ID: models.ColorBrown, Label: "Brown", Class: "swatch swatch-brown"},
	models.ColorWhite:  {ID: models.ColorWhite, Label: "White", Class: "swatch swatch-white"},
	models.ColorBlack:  {ID: models.ColorBlack, Label: "Black", Class: "swatch swatch-black"},
}

// SwatchByColor returns the definition for color, falling back to the
// unspecified swatch for empty or unknown values.
func SwatchByColor(color models.Color) SwatchDefinition {
	if def, ok := swatchRegistry[color]; ok {
		return def
	}
	return unspecifiedSwatch
}

// SwatchOptions exposes every color sorted by label for form rendering.
func SwatchOptions() []SwatchDefinition {
	options := make([]SwatchDefinition, 0, len(swatchRegistry))
	for _, def := range swatchRegistry {
		options = append(options, def)
	}
	sort.Slice(options, func(i, j int) bool {
		return options[i].Label < options[j].Label
	})
	return options
}
