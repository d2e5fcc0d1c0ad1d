package importer

import (
	"errors"
	"fmt"
	"strings"
)

// maxLines is the number of ingredient/measure slots in a drink record.
const maxLines = 15

// RawRecord is one drink object as returned by the recipe API.
type RawRecord map[string]any

// searchResponse is the envelope of search.php responses. Drinks is null when
// nothing matches.
type searchResponse struct {
	Drinks []RawRecord `json:"drinks"`
}

func (r RawRecord) str(key string) string {
	value, ok := r[key]
	if !ok || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	default:
		return ""
	}
}

// ExternalID returns the record's idDrink, if present.
func (r RawRecord) ExternalID() string {
	return r.str("idDrink")
}

// Name returns the record's strDrink, if present.
func (r RawRecord) Name() string {
	return r.str("strDrink")
}

// Line is one ingredient line of a record.
type Line struct {
	Ingredient string
	Measure    string
}

// Record is a validated drink ready to be mapped onto the catalog.
type Record struct {
	ExternalID   string
	Name         string
	Category     string
	Alcoholic    string
	Glass        string
	Instructions string
	ImageURL     string
	Tags         []string
	IBA          string
	Lines        []Line
}

// parseRecord checks the required fields and collects ingredient lines. A
// measure without an ingredient name makes the record malformed.
func parseRecord(raw RawRecord) (Record, error) {
	record := Record{
		ExternalID:   raw.ExternalID(),
		Name:         raw.Name(),
		Category:     raw.str("strCategory"),
		Alcoholic:    raw.str("strAlcoholic"),
		Glass:        raw.str("strGlass"),
		Instructions: raw.str("strInstructions"),
		ImageURL:     raw.str("strDrinkThumb"),
		IBA:          raw.str("strIBA"),
	}
	if record.ExternalID == "" {
		return record, errors.New("record has no idDrink")
	}
	if record.Name == "" {
		return record, errors.New("record has no strDrink")
	}

	for _, tag := range strings.Split(raw.str("strTags"), ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			record.Tags = append(record.Tags, tag)
		}
	}

	for i := 1; i <= maxLines; i++ {
		ingredient := raw.str(fmt.Sprintf("strIngredient%d", i))
		measure := raw.str(fmt.Sprintf("strMeasure%d", i))
		if ingredient == "" {
			if measure != "" {
				return record, fmt.Errorf("measure %d (%q) has no ingredient name", i, measure)
			}
			continue
		}
		record.Lines = append(record.Lines, Line{Ingredient: ingredient, Measure: measure})
	}
	if len(record.Lines) == 0 {
		return record, errors.New("record lists no ingredients")
	}

	return record, nil
}

// declaredAlcoholic maps strAlcoholic onto an explicit flag. "Optional
// alcohol" and unknown values leave the flag to be derived from ingredients.
func (r Record) declaredAlcoholic() *bool {
	var value bool
	switch strings.ToLower(r.Alcoholic) {
	case "alcoholic":
		value = true
	case "non alcoholic", "non-alcoholic":
		value = false
	default:
		return nil
	}
	return &value
}
