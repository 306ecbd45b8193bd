package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Template names.
const (
	TemplateActivate   = "activate.html"
	TemplateChildAdded = "child_added.html"
)

// ActivateData fills activate.html.
type ActivateData struct {
	FirstName string
	Token     string
}

// ChildAddedData fills child_added.html.
type ChildAddedData struct {
	Name       string
	ParentName string
}

// Render executes the named template.
func Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
