package pages

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"stircraft/internal/recipes"
)

// CocktailFiltersFromRequest extracts catalog filters from an HTTP request.
// Malformed numeric values are ignored rather than rejected.
func CocktailFiltersFromRequest(r *http.Request) recipes.CocktailFilters {
	filters := recipes.CocktailFilters{}
	if err := r.ParseForm(); err != nil {
		return filters
	}
	filters.Query = strings.TrimSpace(r.FormValue("q"))
	filters.IngredientID = parseID(r.FormValue("ingredient"))
	filters.VesselID = parseID(r.FormValue("vessel"))
	filters.Alcoholic = ParseChoice(r.FormValue("alcoholic"))
	filters.Color = strings.ToLower(strings.TrimSpace(r.FormValue("color")))
	filters.Sort = strings.TrimSpace(r.FormValue("sort"))
	if page, err := strconv.Atoi(strings.TrimSpace(r.FormValue("page"))); err == nil && page > 0 {
		filters.Page = page
	}
	return filters
}

// FilterQuery encodes filters back into a catalog URL for the given page.
func FilterQuery(filters recipes.CocktailFilters, page int) string {
	values := url.Values{}
	if filters.Query != "" {
		values.Set("q", filters.Query)
	}
	if filters.IngredientID != 0 {
		values.Set("ingredient", strconv.FormatUint(uint64(filters.IngredientID), 10))
	}
	if filters.VesselID != 0 {
		values.Set("vessel", strconv.FormatUint(uint64(filters.VesselID), 10))
	}
	if filters.Alcoholic != nil {
		values.Set("alcoholic", strconv.FormatBool(*filters.Alcoholic))
	}
	if filters.Color != "" {
		values.Set("color", filters.Color)
	}
	if filters.Sort != "" && filters.Sort != recipes.SortName {
		values.Set("sort", filters.Sort)
	}
	if page > 1 {
		values.Set("page", strconv.Itoa(page))
	}
	if len(values) == 0 {
		return "/cocktails"
	}
	return "/cocktails?" + values.Encode()
}

// ChoiceValue renders an optional boolean as the select value used by forms.
func ChoiceValue(value *bool) string {
	if value == nil {
		return ""
	}
	return strconv.FormatBool(*value)
}

func parseID(raw string) uint {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

// ParseChoice reads an optional boolean from a select value. Anything other
// than a recognised yes or no means unspecified.
func ParseChoice(raw string) *bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "1", "on":
		value := true
		return &value
	case "false", "no", "0":
		value := false
		return &value
	default:
		return nil
	}
}
