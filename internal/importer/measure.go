package importer

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"stircraft/models"
)

// Measure is a parsed measurement.
type Measure struct {
	Amount decimal.Decimal
	Unit   string
	// Note keeps text that could not be represented by Amount and Unit.
	Note string
	// Fallback is set when the text could not be fully interpreted.
	Fallback bool
}

type unitAlias struct {
	unit   string
	factor decimal.Decimal
}

var (
	one = decimal.NewFromInt(1)
	two = decimal.NewFromInt(2)

	quantityPattern = `(\d+\s+\d+/\d+|\d+/\d+|\d*\.\d+|\d+)`
	measurePattern  = regexp.MustCompile(`^` + quantityPattern + `(?:\s*(?:-|to)\s*` + quantityPattern + `)?\s*(.*)$`)
	mixedPattern    = regexp.MustCompile(`^(\d+)\s+(\d+)/(\d+)$`)
	fractionPattern = regexp.MustCompile(`^(\d+)/(\d+)$`)
	spacePattern    = regexp.MustCompile(`\s+`)
)

var unicodeFractions = strings.NewReplacer(
	"½", " 1/2", "⅓", " 1/3", "⅔", " 2/3", "¼", " 1/4", "¾", " 3/4",
	"⅛", " 1/8", "⅜", " 3/8", "⅝", " 5/8", "⅞", " 7/8",
	"⁄", "/",
)

// unitAliases maps the spellings found in recipe data onto accepted units.
// Multi-word aliases are matched before single words.
var unitAliases = map[string]unitAlias{
	"oz": {"oz", one}, "ounce": {"oz", one}, "ounces": {"oz", one},
	"fl oz": {"oz", one}, "fl. oz": {"oz", one}, "fl.oz": {"oz", one},
	"jigger": {"oz", decimal.RequireFromString("1.5")}, "jiggers": {"oz", decimal.RequireFromString("1.5")},
	"ml": {"ml", one}, "milliliter": {"ml", one}, "milliliters": {"ml", one},
	"cl": {"cl", one}, "centiliter": {"cl", one}, "centiliters": {"cl", one},
	"dl": {"ml", decimal.NewFromInt(100)},
	"l": {"ml", decimal.NewFromInt(1000)}, "liter": {"ml", decimal.NewFromInt(1000)},
	"tsp": {"tsp", one}, "teaspoon": {"tsp", one}, "teaspoons": {"tsp", one},
	"tbsp": {"tbsp", one}, "tblsp": {"tbsp", one}, "tbs": {"tbsp", one},
	"tablespoon": {"tbsp", one}, "tablespoons": {"tbsp", one},
	"cup": {"cup", one}, "cups": {"cup", one},
	"part": {"part", one}, "parts": {"part", one},
	"shot": {"shot", one}, "shots": {"shot", one},
	"dash": {"dash", one}, "dashes": {"dash", one},
	"splash": {"splash", one}, "splashes": {"splash", one},
	"drop": {"drop", one}, "drops": {"drop", one},
	"pinch": {"pinch", one}, "pinches": {"pinch", one},
	"leaf": {"leaf", one}, "leaves": {"leaf", one},
	"wedge": {"wedge", one}, "wedges": {"wedge", one},
	"slice": {"slice", one}, "slices": {"slice", one},
	"twist": {"twist", one}, "twists": {"twist", one},
	"sprig": {"sprig", one}, "sprigs": {"sprig", one},
	"cube": {"cube", one}, "cubes": {"cube", one},
	"piece": {"piece", one}, "pieces": {"piece", one},
	"whole": {"whole", one},
}

// ParseMeasure turns free text such as "1 1/2 oz", "2-3 dashes" or "½ cup"
// into an amount and unit. Ranges use their midpoint. Text that cannot be
// read falls back to one piece with the original text kept in Note.
func ParseMeasure(raw string) Measure {
	original := strings.TrimSpace(spacePattern.ReplaceAllString(raw, " "))
	if original == "" {
		return Measure{Amount: one, Unit: models.DefaultUnit, Fallback: true}
	}

	text := strings.ToLower(unicodeFractions.Replace(original))
	text = strings.TrimSpace(spacePattern.ReplaceAllString(text, " "))

	match := measurePattern.FindStringSubmatch(text)
	if match == nil {
		if unit, rest, ok := leadingUnit(text); ok {
			return Measure{Amount: unit.factor, Unit: unit.unit, Note: rest}
		}
		return fallbackMeasure(original)
	}

	amount, ok := parseQuantity(match[1])
	if !ok {
		return fallbackMeasure(original)
	}
	if match[2] != "" {
		upper, ok := parseQuantity(match[2])
		if !ok {
			return fallbackMeasure(original)
		}
		amount = amount.Add(upper).Div(two)
	}
	bare, ok := models.StoredAmount(amount)
	if !ok {
		return fallbackMeasure(original)
	}

	rest := strings.TrimSpace(match[3])
	if rest == "" {
		return Measure{Amount: bare, Unit: models.DefaultUnit}
	}

	unit, remainder, ok := leadingUnit(rest)
	if !ok {
		return Measure{Amount: bare, Unit: models.DefaultUnit, Note: original, Fallback: true}
	}
	scaled, ok := models.StoredAmount(amount.Mul(unit.factor))
	if !ok {
		return fallbackMeasure(original)
	}
	return Measure{Amount: scaled, Unit: unit.unit, Note: remainder}
}

func fallbackMeasure(original string) Measure {
	return Measure{Amount: one, Unit: models.DefaultUnit, Note: original, Fallback: true}
}

// leadingUnit matches the first one or two words of text against the alias
// table and returns the unread remainder.
func leadingUnit(text string) (unitAlias, string, bool) {
	words := strings.Fields(text)
	for n := 2; n >= 1; n-- {
		if len(words) < n {
			continue
		}
		candidate := strings.TrimRight(strings.Join(words[:n], " "), ".,")
		if alias, ok := unitAliases[candidate]; ok {
			remainder := strings.Join(words[n:], " ")
			remainder = strings.TrimSpace(strings.TrimPrefix(remainder, "of "))
			if remainder == "of" {
				remainder = ""
			}
			return alias, remainder, true
		}
	}
	return unitAlias{}, "", false
}

func parseQuantity(value string) (decimal.Decimal, bool) {
	value = strings.TrimSpace(value)
	if parts := mixedPattern.FindStringSubmatch(value); parts != nil {
		whole, err := decimal.NewFromString(parts[1])
		if err != nil {
			return decimal.Zero, false
		}
		fraction, ok := parseFraction(parts[2], parts[3])
		if !ok {
			return decimal.Zero, false
		}
		return whole.Add(fraction), true
	}
	if parts := fractionPattern.FindStringSubmatch(value); parts != nil {
		return parseFraction(parts[1], parts[2])
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}

func parseFraction(numerator, denominator string) (decimal.Decimal, bool) {
	num, err := decimal.NewFromString(numerator)
	if err != nil {
		return decimal.Zero, false
	}
	den, err := decimal.NewFromString(denominator)
	if err != nil || den.IsZero() {
		return decimal.Zero, false
	}
	return num.Div(den), true
}
