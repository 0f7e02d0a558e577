package template

import (
	"bytes"
	"fmt"
	"text/template"
)

// Renderer renders text/templates with the deck function map.
type Renderer struct {
	funcMap template.FuncMap
}

// NewRenderer creates a Renderer with the standard deck function map.
func NewRenderer() *Renderer {
	return &Renderer{
		funcMap: FuncMap(),
	}
}

// RenderString renders an inline template with the given variables.
// Referencing a variable that is not set is an error.
func (r *Renderer) RenderString(tmpl string, vars map[string]any) (string, error) {
	return r.Render("inline", tmpl, vars)
}

// Render renders a named template. The name only appears in errors.
func (r *Renderer) Render(name, text string, vars map[string]any) (string, error) {
	tmpl, err := template.New(name).
		Funcs(r.funcMap).
		Option("missingkey=error").
		Parse(text)
	if err != nil {
		return "", fmt.Errorf("parsing template %q: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("executing template %q: %w", name, err)
	}

	return buf.String(), nil
}
