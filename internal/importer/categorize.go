package importer

import (
	"strings"
	"unicode"

	"stircraft/models"
)

type keyword struct {
	phrase string
	abv    float64
}

type categoryTable struct {
	category models.IngredientCategory
	keywords []keyword
}

// categoryTables are consulted in order, so "coffee liqueur" is a liqueur
// before "coffee" can make it a mixer and "ginger beer" is a mixer before
// "beer" reaches the catch-all table. Bitters come first because most are
// named after a fruit.
var categoryTables = []categoryTable{
	{category: models.CategoryOther, keywords: []keyword{
		{"bitters", 44.7},
	}},
	{category: models.CategoryLiqueur, keywords: []keyword{
		{"sloe gin", 26}, {"triple sec", 30}, {"cointreau", 40}, {"grand marnier", 40},
		{"curacao", 25}, {"amaretto", 28}, {"kahlua", 20}, {"baileys", 17},
		{"irish cream", 17}, {"schnapps", 20}, {"creme de", 20}, {"chartreuse", 55},
		{"benedictine", 40}, {"galliano", 30}, {"frangelico", 20}, {"sambuca", 38},
		{"drambuie", 40}, {"campari", 24}, {"aperol", 11}, {"vermouth", 16},
		{"sherry", 17}, {"port", 20}, {"chambord", 16.5}, {"midori", 20},
		{"limoncello", 30}, {"pimm", 25}, {"lillet", 17}, {"advocaat", 15},
		{"liqueur", 25}, {"liquer", 25},
	}},
	{category: models.CategorySpirit, keywords: []keyword{
		{"everclear", 95}, {"absinthe", 60}, {"vodka", 40}, {"gin", 40},
		{"rum", 40}, {"tequila", 40}, {"mezcal", 40}, {"whiskey", 40},
		{"whisky", 40}, {"bourbon", 40}, {"scotch", 40}, {"rye", 40},
		{"brandy", 40}, {"cognac", 40}, {"armagnac", 40}, {"calvados", 40},
		{"pisco", 40}, {"cachaca", 40}, {"grappa", 40}, {"ouzo", 40},
		{"aquavit", 40}, {"akvavit", 40}, {"applejack", 40},
	}},
	{category: models.CategoryMixer, keywords: []keyword{
		{"ginger ale", 0}, {"ginger beer", 0}, {"root beer", 0}, {"sour mix", 0},
		{"sweet and sour", 0}, {"cream of coconut", 0}, {"coconut milk", 0},
		{"juice", 0}, {"soda", 0}, {"tonic", 0}, {"cola", 0}, {"coke", 0},
		{"sprite", 0}, {"7-up", 0}, {"syrup", 0}, {"grenadine", 0}, {"sugar", 0},
		{"honey", 0}, {"water", 0}, {"milk", 0}, {"cream", 0}, {"coffee", 0},
		{"espresso", 0}, {"tea", 0}, {"lemonade", 0}, {"limeade", 0},
		{"puree", 0}, {"nectar", 0},
	}},
	{category: models.CategoryGarnish, keywords: []keyword{
		{"peel", 0}, {"zest", 0}, {"twist", 0}, {"wedge", 0}, {"slice", 0},
		{"cherry", 0}, {"cherries", 0}, {"olive", 0}, {"mint", 0}, {"salt", 0},
		{"nutmeg", 0}, {"cinnamon", 0}, {"celery", 0}, {"cucumber", 0},
		{"lemon", 0}, {"lime", 0}, {"orange", 0}, {"berries", 0},
		{"strawberries", 0}, {"basil", 0}, {"rosemary", 0}, {"pepper", 0},
	}},
	{category: models.CategoryOther, keywords: []keyword{
		{"champagne", 12}, {"prosecco", 11}, {"wine", 12},
		{"cider", 5}, {"beer", 5}, {"lager", 5}, {"ale", 5}, {"stout", 6},
		{"sake", 15}, {"egg", 0},
	}},
}

// Classification is the categorizer's verdict for an ingredient name.
type Classification struct {
	Category        models.IngredientCategory
	AlcoholByVolume float64
	// Fallback is set when no keyword matched.
	Fallback bool
}

// Categorize assigns a category and an estimated ABV to an ingredient name by
// keyword lookup. Unknown names fall back to "other" with no alcohol.
func Categorize(name string) Classification {
	words := tokenize(name)
	for _, table := range categoryTables {
		for _, kw := range table.keywords {
			if containsPhrase(words, tokenize(kw.phrase)) {
				return Classification{Category: table.category, AlcoholByVolume: kw.abv}
			}
		}
	}
	return Classification{Category: models.CategoryOther, Fallback: true}
}

func tokenize(value string) []string {
	value = foldAccents(strings.ToLower(value))
	return strings.FieldsFunc(value, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
}

// containsPhrase reports whether phrase occurs as consecutive words. The last
// word may carry a plural "s" or "es".
func containsPhrase(words, phrase []string) bool {
	if len(phrase) == 0 || len(phrase) > len(words) {
		return false
	}
	for start := 0; start+len(phrase) <= len(words); start++ {
		matched := true
		for i, want := range phrase {
			got := words[start+i]
			if got == want {
				continue
			}
			if i == len(phrase)-1 && (got == want+"s" || got == want+"es") {
				continue
			}
			matched = false
			break
		}
		if matched {
			return true
		}
	}
	return false
}

var accentFolder = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ä", "a", "ã", "a",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"í", "i", "ï", "i", "î", "i",
	"ó", "o", "ô", "o", "ö", "o", "õ", "o",
	"ú", "u", "ü", "u", "û", "u",
	"ç", "c", "ñ", "n",
)

func foldAccents(value string) string {
	return accentFolder.Replace(value)
}

type colorRule struct {
	phrase string
	color  models.Color
}

// colorRules are ordered from the strongest colorant to the weakest.
var colorRules = []colorRule{
	{"blue curacao", models.ColorBlue},
	{"creme de menthe", models.ColorGreen},
	{"midori", models.ColorGreen},
	{"chartreuse", models.ColorGreen},
	{"grenadine", models.ColorRed},
	{"cranberry", models.ColorRed},
	{"tomato", models.ColorRed},
	{"campari", models.ColorRed},
	{"creme de cassis", models.ColorPurple},
	{"blackberry", models.ColorPurple},
	{"strawberry", models.ColorPink},
	{"raspberry", models.ColorPink},
	{"coffee", models.ColorBrown},
	{"kahlua", models.ColorBrown},
	{"cola", models.ColorBrown},
	{"coke", models.ColorBrown},
	{"baileys", models.ColorWhite},
	{"irish cream", models.ColorWhite},
	{"cream", models.ColorWhite},
	{"milk", models.ColorWhite},
	{"orange juice", models.ColorOrange},
	{"aperol", models.ColorOrange},
	{"pineapple", models.ColorYellow},
	{"galliano", models.ColorYellow},
	{"bourbon", models.ColorAmber},
	{"whiskey", models.ColorAmber},
	{"whisky", models.ColorAmber},
	{"scotch", models.ColorAmber},
	{"brandy", models.ColorAmber},
	{"cognac", models.ColorAmber},
	{"dark rum", models.ColorAmber},
}

// deriveColor guesses the finished drink's color from its ingredient names.
// An empty color means no rule matched.
func deriveColor(lines []Line) models.Color {
	names := make([][]string, 0, len(lines))
	for _, line := range lines {
		names = append(names, tokenize(line.Ingredient))
	}
	for _, rule := range colorRules {
		phrase := tokenize(rule.phrase)
		for _, words := range names {
			if containsPhrase(words, phrase) {
				return rule.color
			}
		}
	}
	return ""
}

// deriveTags collects flavor tags from the record's tags, category and IBA
// listing.
func deriveTags(record Record) []string {
	tags := make([]string, 0, len(record.Tags)+3)
	tags = append(tags, record.Tags...)
	if record.Category != "" {
		tags = append(tags, record.Category)
	}
	if record.IBA != "" {
		tags = append(tags, "iba", "iba "+record.IBA)
	}
	return tags
}
