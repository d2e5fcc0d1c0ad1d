package pages

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"stircraft/internal/views/components"
	"stircraft/internal/views/layout"
	"stircraft/models"
)

//go:embed templates/*.html
var files embed.FS

var funcs = template.FuncMap{
	"amount":       FormatAmount,
	"dash":         DefaultDash,
	"date":         FormatDate,
	"alcoholLabel": AlcoholLabel,
	"listNote":     ListKindNote,
	"rowError":     rowError,
	"swatchClass": func(color models.Color) string {
		return components.SwatchByColor(color).Class
	},
	"swatchLabel": func(color models.Color) string {
		return components.SwatchByColor(color).Label
	},
}

var templates = template.Must(template.New("pages").Funcs(funcs).ParseFS(files, "templates/*.html"))

func render(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := templates.ExecuteTemplate(w, name, data); err != nil {
			return fmt.Errorf("render %s: %w", name, err)
		}
		return nil
	})
}

func page(title string, nav components.NavData, content templ.Component) templ.Component {
	return layout.Layout(title, components.Nav(nav), content)
}

func rowError(errors map[string]string, index int, field string) string {
	return errors[fmt.Sprintf("components[%d].%s", index, field)]
}
