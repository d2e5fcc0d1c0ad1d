package recipes

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"stircraft/models"
)

// Sort orders accepted by SearchCocktails.
const (
	SortName     = "name"
	SortNameDesc = "-name"
	SortNewest   = "newest"
	SortOldest   = "oldest"
)

const (
	defaultPerPage = 24
	maxPerPage     = 100
)

var sortClauses = map[string]string{
	SortName:     "cocktails.name_key ASC, cocktails.id ASC",
	SortNameDesc: "cocktails.name_key DESC, cocktails.id DESC",
	SortNewest:   "cocktails.created_at DESC, cocktails.id DESC",
	SortOldest:   "cocktails.created_at ASC, cocktails.id ASC",
}

// CocktailFilters narrows the cocktail catalog. Zero values disable a filter.
type CocktailFilters struct {
	Query        string
	IngredientID uint
	VesselID     uint
	Alcoholic    *bool
	Color        string
	CreatorID    uint
	Sort         string
	Page         int
	PerPage      int
}

func (f CocktailFilters) normalized() CocktailFilters {
	f.Query = strings.TrimSpace(f.Query)
	f.Color = strings.ToLower(strings.TrimSpace(f.Color))
	if _, ok := sortClauses[f.Sort]; !ok {
		f.Sort = SortName
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = defaultPerPage
	}
	if f.PerPage > maxPerPage {
		f.PerPage = maxPerPage
	}
	return f
}

// CocktailPage is one page of search results.
type CocktailPage struct {
	Cocktails []models.Cocktail
	Total     int64
	Filters   CocktailFilters
}

func (p CocktailPage) TotalPages() int {
	if p.Total == 0 || p.Filters.PerPage == 0 {
		return 1
	}
	return int((p.Total + int64(p.Filters.PerPage) - 1) / int64(p.Filters.PerPage))
}

func (p CocktailPage) HasPrevious() bool {
	return p.Filters.Page > 1
}

func (p CocktailPage) HasNext() bool {
	return p.Filters.Page < p.TotalPages()
}

// SearchCocktails returns the page of cocktails matching filters plus the
// total number of matches.
func (s *Service) SearchCocktails(ctx context.Context, filters CocktailFilters) (CocktailPage, error) {
	filters = filters.normalized()
	page := CocktailPage{Filters: filters}

	query := s.conn(ctx).Model(&models.Cocktail{})
	if filters.Query != "" {
		like := "%" + escapeLike(strings.ToLower(filters.Query)) + "%"
		query = query.Where(
			"lower(cocktails.name) LIKE ? ESCAPE '\\' OR lower(cocktails.description) LIKE ? ESCAPE '\\' OR lower(cocktails.instructions) LIKE ? ESCAPE '\\'",
			like, like, like,
		)
	}
	if filters.IngredientID != 0 {
		components := s.conn(ctx).Model(&models.RecipeComponent{}).
			Select("cocktail_id").
			Where("ingredient_id = ?", filters.IngredientID)
		query = query.Where("cocktails.id IN (?)", components)
	}
	if filters.VesselID != 0 {
		query = query.Where("cocktails.vessel_id = ?", filters.VesselID)
	}
	if filters.Alcoholic != nil {
		query = query.Where("cocktails.is_alcoholic = ?", *filters.Alcoholic)
	}
	if filters.Color != "" {
		query = query.Where("cocktails.color = ?", filters.Color)
	}
	if filters.CreatorID != 0 {
		query = query.Where("cocktails.creator_id = ?", filters.CreatorID)
	}

	query = query.Session(&gorm.Session{})
	if err := query.Count(&page.Total).Error; err != nil {
		return page, fmt.Errorf("count cocktails: %w", err)
	}

	err := query.
		Preload("Vessel").
		Preload("Creator").
		Preload("Tags").
		Order(sortClauses[filters.Sort]).
		Offset((filters.Page - 1) * filters.PerPage).
		Limit(filters.PerPage).
		Find(&page.Cocktails).Error
	if err != nil {
		return page, fmt.Errorf("search cocktails: %w", err)
	}

	return page, nil
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
