package layout

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

//go:embed templates/*.html
var files embed.FS

var templates = template.Must(template.New("layout").ParseFS(files, "templates/*.html"))

type document struct {
	Title   string
	Nav     template.HTML
	Content template.HTML
}

// Layout wraps content in the application shell.
func Layout(title string, nav, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		doc := document{Title: pageTitle(title)}
		var err error
		if nav != nil {
			if doc.Nav, err = templ.ToGoHTML(ctx, nav); err != nil {
				return fmt.Errorf("render navigation: %w", err)
			}
		}
		if content != nil {
			if doc.Content, err = templ.ToGoHTML(ctx, content); err != nil {
				return fmt.Errorf("render content: %w", err)
			}
		}
		return templates.ExecuteTemplate(w, "document", doc)
	})
}

func pageTitle(title string) string {
	if title == "" {
		return "StirCraft"
	}
	return title + " · StirCraft"
}
