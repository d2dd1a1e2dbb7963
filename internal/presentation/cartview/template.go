package cartview

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
)

//go:embed templates/cart.html
var templateFS embed.FS

// Template renders a Page as the cart HTML screen.
type Template struct {
	t *template.Template
}

func NewTemplate() (*Template, error) {
	t, err := template.New("cart.html").
		Funcs(template.FuncMap{"pathEscape": url.PathEscape}).
		ParseFS(templateFS, "templates/cart.html")
	if err != nil {
		return nil, fmt.Errorf("cartview: parse template: %w", err)
	}
	return &Template{t: t}, nil
}

// MustTemplate is like NewTemplate but panics on a broken embedded template.
func MustTemplate() *Template {
	t, err := NewTemplate()
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Template) Render(w io.Writer, p Page) error {
	return t.t.ExecuteTemplate(w, "cart.html", p)
}
