package pages

import (
	"github.com/a-h/templ"

	"stircraft/internal/recipes"
	"stircraft/internal/views/components"
	"stircraft/models"
)

// ListsIndexView is the data behind the "my lists" page.
type ListsIndexView struct {
	Nav     components.NavData
	Lists   []recipes.ListSummary
	Input   recipes.ListInput
	Errors  map[string]string
	Message string
}

// ListsIndex renders the viewer's lists and the new-list form.
func ListsIndex(view ListsIndexView) templ.Component {
	return page("My lists", view.Nav, render("lists_index", view))
}

// ListDetailView is the data behind a single list page.
type ListDetailView struct {
	Nav       components.NavData
	List      *models.List
	Cocktails []models.Cocktail
	IsOwner   bool
	Input     recipes.ListInput
	Errors    map[string]string
}

// CanRename reports whether the rename form should be offered.
func (v ListDetailView) CanRename() bool {
	return v.IsOwner && v.List.IsEditable
}

// CanDelete reports whether the delete action should be offered.
func (v ListDetailView) CanDelete() bool {
	return v.IsOwner && v.List.IsDeletable
}

// CanRemove reports whether members can be removed by hand.
func (v ListDetailView) CanRemove() bool {
	return v.IsOwner && v.List.Kind != models.ListCreations
}

// ListDetail renders one list with its cocktails.
func ListDetail(view ListDetailView) templ.Component {
	return page(view.List.Name, view.Nav, render("list_detail", view))
}
