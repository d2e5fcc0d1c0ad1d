package pages

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/a-h/templ"

	"stircraft/internal/recipes"
	"stircraft/internal/views/components"
	"stircraft/models"
)

// CocktailListView is the data behind the catalog page.
type CocktailListView struct {
	Nav         components.NavData
	Page        recipes.CocktailPage
	Ingredients []models.Ingredient
	Vessels     []models.Vessel
	Favorites   map[uint]bool
}

// Pagination returns the links around the current page.
func (v CocktailListView) Pagination() components.PaginationData {
	data := components.PaginationData{Page: v.Page.Filters.Page, TotalPages: v.Page.TotalPages()}
	if v.Page.HasPrevious() {
		data.PreviousURL = FilterQuery(v.Page.Filters, v.Page.Filters.Page-1)
	}
	if v.Page.HasNext() {
		data.NextURL = FilterQuery(v.Page.Filters, v.Page.Filters.Page+1)
	}
	return data
}

// AlcoholicChoice is the selected value of the alcoholic filter.
func (v CocktailListView) AlcoholicChoice() string {
	return ChoiceValue(v.Page.Filters.Alcoholic)
}

// Colors lists the color filter options.
func (v CocktailListView) Colors() []components.SwatchDefinition {
	return components.SwatchOptions()
}

// SortOptions lists the accepted catalog orderings.
func (v CocktailListView) SortOptions() []SortOption {
	return sortOptions
}

// SortOption is one entry of the sort select.
type SortOption struct {
	Value string
	Label string
}

var sortOptions = []SortOption{
	{Value: recipes.SortName, Label: "Name (A to Z)"},
	{Value: recipes.SortNameDesc, Label: "Name (Z to A)"},
	{Value: recipes.SortNewest, Label: "Newest first"},
	{Value: recipes.SortOldest, Label: "Oldest first"},
}

type resultsData struct {
	CocktailListView
	PaginationHTML template.HTML
}

type catalogData struct {
	CocktailListView
	Results template.HTML
}

// CocktailList renders the full catalog page with filters and results.
func CocktailList(view CocktailListView) templ.Component {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		results, err := templ.ToGoHTML(ctx, CocktailResults(view))
		if err != nil {
			return err
		}
		return render("cocktail_list", catalogData{CocktailListView: view, Results: results}).Render(ctx, w)
	})
	return page("Cocktails", view.Nav, content)
}

// CocktailResults renders only the result grid, used for HTMX filter updates.
func CocktailResults(view CocktailListView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		pagination, err := templ.ToGoHTML(ctx, components.Pagination(view.Pagination()))
		if err != nil {
			return err
		}
		return render("cocktail_results", resultsData{CocktailListView: view, PaginationHTML: pagination}).Render(ctx, w)
	})
}

// CocktailDetailView is the data behind a single recipe page.
type CocktailDetailView struct {
	Nav       components.NavData
	Cocktail  *models.Cocktail
	CanEdit   bool
	SignedIn  bool
	Favorited bool
	// Lists are the viewer's lists that accept manual additions.
	Lists  []recipes.ListSummary
	InList map[uint]bool
}

// CocktailDetail renders a recipe page.
func CocktailDetail(view CocktailDetailView) templ.Component {
	return page(view.Cocktail.Name, view.Nav, render("cocktail_detail", view))
}

// FormRow is a formset row together with its submitted position, which keys
// its inline errors.
type FormRow struct {
	Index int
	recipes.ComponentRow
}

// Position is the one-based row number shown to the user.
func (r FormRow) Position() int {
	return r.Index + 1
}

// CocktailFormView is the data behind the create and edit forms.
type CocktailFormView struct {
	Nav         components.NavData
	CocktailID  uint
	Input       recipes.CocktailInput
	Rows        []FormRow
	Errors      map[string]string
	Ingredients []models.Ingredient
	Vessels     []models.Vessel
}

// Action is the URL the form posts to.
func (v CocktailFormView) Action() string {
	if v.CocktailID == 0 {
		return "/cocktails"
	}
	return fmt.Sprintf("/cocktails/%d/edit", v.CocktailID)
}

// Title is the heading of the form.
func (v CocktailFormView) Title() string {
	if v.CocktailID == 0 {
		return "New cocktail"
	}
	return "Edit " + v.Input.Name
}

// TagsText joins the tags for the free-text tag input.
func (v CocktailFormView) TagsText() string {
	return strings.Join(v.Input.Tags, ", ")
}

// AlcoholicChoice is the selected value of the alcoholic select.
func (v CocktailFormView) AlcoholicChoice() string {
	return ChoiceValue(v.Input.IsAlcoholic)
}

// Colors lists the color options.
func (v CocktailFormView) Colors() []components.SwatchDefinition {
	return components.SwatchOptions()
}

// Units lists the accepted component units.
func (v CocktailFormView) Units() []string {
	return models.Units
}

// Categories lists the choices offered by the quick-create form.
func (v CocktailFormView) Categories() []models.IngredientCategory {
	return models.IngredientCategories
}

// DefaultCategory is preselected in the quick-create form.
func (v CocktailFormView) DefaultCategory() models.IngredientCategory {
	return models.CategoryOther
}

// CocktailForm renders the create or edit form.
func CocktailForm(view CocktailFormView) templ.Component {
	return page(view.Title(), view.Nav, render("cocktail_form", view))
}

// CocktailFormPartial renders the form alone for HTMX re-renders.
func CocktailFormPartial(view CocktailFormView) templ.Component {
	return render("cocktail_form", view)
}
