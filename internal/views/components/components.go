package components

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"stircraft/models"
)

//go:embed templates/*.html
var files embed.FS

var templates = template.Must(template.New("components").ParseFS(files, "templates/*.html"))

func render(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return templates.ExecuteTemplate(w, name, data)
	})
}

// NavLink is one entry of the top navigation.
type NavLink struct {
	Label   string
	Path    string
	Section string
	State   string
}

// NavData describes the navigation for the current visitor.
type NavData struct {
	Active   string
	SignedIn bool
	UserName string
}

// Links returns the navigation entries visible to the visitor.
func (d NavData) Links() []NavLink {
	links := []NavLink{{Label: "Cocktails", Path: "/cocktails", Section: "cocktails"}}
	if d.SignedIn {
		links = append(links,
			NavLink{Label: "New cocktail", Path: "/cocktails/new", Section: "new"},
			NavLink{Label: "My lists", Path: "/lists", Section: "lists"},
		)
	}
	for i := range links {
		links[i].State = linkState(links[i].Section, d.Active)
	}
	return links
}

func linkState(section, active string) string {
	if section == active {
		return "active"
	}
	return "inactive"
}

// Nav renders the top navigation bar.
func Nav(data NavData) templ.Component {
	return render("nav", data)
}

// PaginationData holds the links around the current result page.
type PaginationData struct {
	Page        int
	TotalPages  int
	PreviousURL string
	NextURL     string
}

// Pagination renders previous/next links. Nothing is written for a single page.
func Pagination(data PaginationData) templ.Component {
	if data.TotalPages <= 1 {
		return templ.NopComponent
	}
	return render("pagination", data)
}

// Swatch renders a small color chip for a drink.
func Swatch(color models.Color) templ.Component {
	return render("swatch", SwatchByColor(color))
}

// Flash renders a status banner. Empty messages render nothing.
func Flash(message string) templ.Component {
	if message == "" {
		return templ.NopComponent
	}
	return render("flash", message)
}
